package httpx

import (
	"github.com/ariefcatur/go-kantin-orders/internal/orders"
	"net/http"
)

type selectReq struct {
	PaymentMethod string `json:"paymentMethod" validate:"required_without=PickupTime"`
	PickupTime    string `json:"pickupTime" validate:"required_without=PaymentMethod"`
}

type confirmResp struct {
	Order   orderResp `json:"order"`
	Message string    `json:"message"`
}

func (a *API) beginCheckout(w http.ResponseWriter, r *http.Request) {
	s := a.openSession(w, r)
	defer s.Unlock()
	if err := s.Checkout.Begin(); err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, checkoutView(s.Checkout))
}

func (a *API) getCheckout(w http.ResponseWriter, r *http.Request) {
	s := a.openSession(w, r)
	defer s.Unlock()
	writeJSON(w, http.StatusOK, checkoutView(s.Checkout))
}

// PUT /api/checkout sets payment method and/or pickup time. Both are checked before
// either is applied.
func (a *API) selectCheckout(w http.ResponseWriter, r *http.Request) {
	var req selectReq
	if !a.decode(w, r, &req) {
		return
	}
	var (
		pm  orders.PaymentMethod
		pt  orders.PickupTime
		err error
	)
	if req.PaymentMethod != "" {
		if pm, err = orders.ParsePaymentMethod(req.PaymentMethod); err != nil {
			a.fail(w, r, err)
			return
		}
	}
	if req.PickupTime != "" {
		if pt, err = orders.ParsePickupTime(req.PickupTime); err != nil {
			a.fail(w, r, err)
			return
		}
	}

	s := a.openSession(w, r)
	defer s.Unlock()
	if pm != "" {
		if err := s.Checkout.SelectPaymentMethod(pm); err != nil {
			a.fail(w, r, err)
			return
		}
	}
	if pt != "" {
		if err := s.Checkout.SelectPickupTime(pt); err != nil {
			a.fail(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, checkoutView(s.Checkout))
}

func (a *API) confirmCheckout(w http.ResponseWriter, r *http.Request) {
	s := a.openSession(w, r)
	defer s.Unlock()
	o, err := s.Checkout.Confirm(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, confirmResp{
		Order:   orderView(o),
		Message: "Pesanan " + o.Code + " berhasil dibuat",
	})
}

func (a *API) cancelCheckout(w http.ResponseWriter, r *http.Request) {
	s := a.openSession(w, r)
	defer s.Unlock()
	if err := s.Checkout.Cancel(); err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, checkoutView(s.Checkout))
}
