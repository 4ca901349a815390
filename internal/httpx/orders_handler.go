package httpx

import (
	"github.com/go-chi/chi/v5"
	"net/http"
)

// GET /api/orders, newest first.
func (a *API) listOrders(w http.ResponseWriter, r *http.Request) {
	s := a.openSession(w, r)
	defer s.Unlock()
	list := s.History.Recent(r.Context())
	out := make([]orderResp, 0, len(list))
	for _, o := range list {
		out = append(out, orderView(o))
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) getOrder(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing code")
		return
	}
	s := a.openSession(w, r)
	defer s.Unlock()
	o, ok := s.History.Find(r.Context(), code)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, orderView(o))
}
