package httpx

import (
	"github.com/ariefcatur/go-kantin-orders/internal/session"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"net/http"
	"time"
)

const (
	HeaderSessionID = "X-Session-Id"
	CookieSession   = "kantin_session"
	sessionMaxAge   = 30 * 24 * time.Hour
)

// sessionID reads the visitor's id from header or cookie, minting one when absent or
// malformed, and echoes it back in both.
func (a *API) sessionID(w http.ResponseWriter, r *http.Request) string {
	id := r.Header.Get(HeaderSessionID)
	if id == "" {
		if c, err := r.Cookie(CookieSession); err == nil {
			id = c.Value
		}
	}
	if !a.validSessionID(id) {
		id = uuid.NewString()
	}
	w.Header().Set(HeaderSessionID, id)
	http.SetCookie(w, &http.Cookie{
		Name:     CookieSession,
		Value:    id,
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (a *API) validSessionID(id string) bool {
	return id != "" && a.validate.Var(id, "max=64,printascii,excludesall=:;") == nil
}

// openSession returns the caller's session locked; the caller must Unlock.
func (a *API) openSession(w http.ResponseWriter, r *http.Request) *session.Session {
	s := a.Sessions.Get(r.Context(), a.sessionID(w, r))
	s.Lock()
	return s
}

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}
