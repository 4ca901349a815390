package httpx

import (
	"github.com/ariefcatur/go-kantin-orders/internal/catalog"
	"github.com/ariefcatur/go-kantin-orders/internal/orders"
	"github.com/go-chi/chi/v5"
	"net/http"
)

// GET /api/menu?q=&category=&sort=
func (a *API) listMenu(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode, err := catalog.ParseSortMode(q.Get("sort"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	category := q.Get("category")
	if category == "" {
		category = catalog.CategoryAll
	}
	entries := catalog.Sorted(a.Catalog.Browse(q.Get("q"), category), mode)
	writeJSON(w, http.StatusOK, menuViews(entries))
}

func (a *API) popularMenu(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, menuViews(a.Catalog.Popular()))
}

func (a *API) discountedMenu(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, menuViews(a.Catalog.Discounted()))
}

func (a *API) getMenuItem(w http.ResponseWriter, r *http.Request) {
	e, ok := a.Catalog.Find(orders.ItemID(chi.URLParam(r, "id")))
	if !ok {
		writeError(w, http.StatusNotFound, "menu not found")
		return
	}
	writeJSON(w, http.StatusOK, menuView(e))
}

func (a *API) listCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.Catalog.Categories())
}

type canteenStatusResp struct {
	Open    bool               `json:"open"`
	Current *pickupWindowView  `json:"current,omitempty"`
	Windows []pickupWindowView `json:"windows"`
}

// Kantin buka hanya selama jendela pengambilan.
func (a *API) canteenStatus(w http.ResponseWriter, r *http.Request) {
	resp := canteenStatusResp{Windows: windowViews()}
	if cw, ok := orders.CurrentWindow(a.Now()); ok {
		v := windowView(cw)
		resp.Open, resp.Current = true, &v
	}
	writeJSON(w, http.StatusOK, resp)
}
