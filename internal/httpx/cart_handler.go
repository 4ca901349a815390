package httpx

import (
	"github.com/ariefcatur/go-kantin-orders/internal/orders"
	"github.com/go-chi/chi/v5"
	"net/http"
)

type addItemReq struct {
	ID       string `json:"id" validate:"required,max=32"`
	Quantity int    `json:"quantity" validate:"gte=0,lte=99"` // 0/kosong = 1
}

type setQuantityReq struct {
	Quantity *int `json:"quantity" validate:"required"`
}

func (a *API) getCart(w http.ResponseWriter, r *http.Request) {
	s := a.openSession(w, r)
	defer s.Unlock()
	writeJSON(w, http.StatusOK, cartView(s.Cart))
}

// POST /api/cart/items adds to whatever is already in the cart.
func (a *API) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemReq
	if !a.decode(w, r, &req) {
		return
	}
	item, ok := a.Catalog.Find(orders.ItemID(req.ID))
	if !ok {
		writeError(w, http.StatusNotFound, "menu not found")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	s := a.openSession(w, r)
	defer s.Unlock()
	if err := s.Cart.IncrementQuantity(r.Context(), item, req.Quantity); err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cartView(s.Cart))
}

// PUT /api/cart/items/{id} replaces the quantity; 0 removes the line.
func (a *API) setCartItem(w http.ResponseWriter, r *http.Request) {
	var req setQuantityReq
	if !a.decode(w, r, &req) {
		return
	}
	id := orders.ItemID(chi.URLParam(r, "id"))

	s := a.openSession(w, r)
	defer s.Unlock()

	item, ok := a.Catalog.Find(id)
	if !ok {
		// menu sudah hilang dari katalog: pakai snapshot di keranjang
		l, inCart := s.Cart.Line(id)
		if !inCart {
			writeError(w, http.StatusNotFound, "menu not found")
			return
		}
		item = l.MenuEntry
	}
	if err := s.Cart.SetQuantity(r.Context(), item, *req.Quantity); err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cartView(s.Cart))
}

func (a *API) removeCartItem(w http.ResponseWriter, r *http.Request) {
	s := a.openSession(w, r)
	defer s.Unlock()
	if err := s.Cart.RemoveLine(r.Context(), orders.ItemID(chi.URLParam(r, "id"))); err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cartView(s.Cart))
}

func (a *API) clearCart(w http.ResponseWriter, r *http.Request) {
	s := a.openSession(w, r)
	defer s.Unlock()
	s.Cart.Clear(r.Context())
	writeJSON(w, http.StatusOK, cartView(s.Cart))
}
