package httpx

import (
	"encoding/json"
	"errors"
	"github.com/ariefcatur/go-kantin-orders/internal/cart"
	"github.com/ariefcatur/go-kantin-orders/internal/catalog"
	"github.com/ariefcatur/go-kantin-orders/internal/checkout"
	"github.com/ariefcatur/go-kantin-orders/internal/orders"
	"github.com/ariefcatur/go-kantin-orders/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"net/http"
	"time"
)

// API serves the storefront: menu, cart, checkout and order history per session.
type API struct {
	Catalog  *catalog.Catalog
	Sessions *session.Registry
	Log      *zap.Logger
	Now      func() time.Time

	validate *validator.Validate
}

func NewAPI(c *catalog.Catalog, reg *session.Registry, log *zap.Logger) *API {
	if log == nil {
		log = zap.NewNop()
	}
	return &API{Catalog: c, Sessions: reg, Log: log, Now: time.Now, validate: newValidator()}
}

func (a *API) Register(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/menu", a.listMenu)
		r.Get("/menu/popular", a.popularMenu)
		r.Get("/menu/discounted", a.discountedMenu)
		r.Get("/menu/{id}", a.getMenuItem)
		r.Get("/categories", a.listCategories)
		r.Get("/canteen/status", a.canteenStatus)

		r.Get("/cart", a.getCart)
		r.Delete("/cart", a.clearCart)
		r.Post("/cart/items", a.addCartItem)
		r.Put("/cart/items/{id}", a.setCartItem)
		r.Delete("/cart/items/{id}", a.removeCartItem)

		r.Post("/checkout", a.beginCheckout)
		r.Get("/checkout", a.getCheckout)
		r.Put("/checkout", a.selectCheckout)
		r.Post("/checkout/confirm", a.confirmCheckout)
		r.Delete("/checkout", a.cancelCheckout)

		r.Get("/orders", a.listOrders)
		r.Get("/orders/{code}", a.getOrder)
	})
}

// decode reads a JSON body into dst and runs struct validation.
func (a *API) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	if err := a.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			writeError(w, http.StatusBadRequest, "invalid field: "+verrs[0].Field())
			return false
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// fail maps domain errors to status codes.
func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, orders.ErrInvalidSelection), errors.Is(err, cart.ErrNegativeQuantity):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, checkout.ErrEmptyCart), errors.Is(err, checkout.ErrNotCollecting):
		writeError(w, http.StatusConflict, err.Error())
	default:
		a.Log.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", requestID(r)),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
