package httpx

import (
	"github.com/ariefcatur/go-kantin-orders/internal/cart"
	"github.com/ariefcatur/go-kantin-orders/internal/checkout"
	"github.com/ariefcatur/go-kantin-orders/internal/orders"
	"github.com/go-chi/chi/v5/middleware"
	"net/http"
	"time"
)

// Response shapes. Amounts are integer rupiah with a formatted label alongside.

type menuItemView struct {
	orders.MenuEntry
	FinalPrice      int64  `json:"finalPrice"`
	PriceLabel      string `json:"priceLabel"`
	FinalPriceLabel string `json:"finalPriceLabel"`
}

func menuView(e orders.MenuEntry) menuItemView {
	return menuItemView{
		MenuEntry:       e,
		FinalPrice:      e.UnitPrice(),
		PriceLabel:      orders.FormatRupiah(e.Price),
		FinalPriceLabel: orders.FormatRupiah(e.UnitPrice()),
	}
}

func menuViews(entries []orders.MenuEntry) []menuItemView {
	out := make([]menuItemView, 0, len(entries))
	for _, e := range entries {
		out = append(out, menuView(e))
	}
	return out
}

type lineView struct {
	orders.Line
	UnitPrice      int64  `json:"unitPrice"`
	LineTotal      int64  `json:"lineTotal"`
	LineTotalLabel string `json:"lineTotalLabel"`
}

func lineViews(lines []orders.Line) []lineView {
	out := make([]lineView, 0, len(lines))
	for _, l := range lines {
		out = append(out, lineView{
			Line:           l,
			UnitPrice:      l.UnitPrice(),
			LineTotal:      l.Total(),
			LineTotalLabel: orders.FormatRupiah(l.Total()),
		})
	}
	return out
}

type cartResp struct {
	Items      []lineView `json:"items"`
	TotalItems int        `json:"totalItems"`
	TotalPrice int64      `json:"totalPrice"`
	TotalLabel string     `json:"totalLabel"`
}

func cartView(c *cart.Cart) cartResp {
	return cartResp{
		Items:      lineViews(c.Lines()),
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice(),
		TotalLabel: orders.FormatRupiah(c.TotalPrice()),
	}
}

type pickupWindowView struct {
	ID   orders.PickupTime `json:"id"`
	Name string            `json:"name"`
	Time string            `json:"time"`
}

func windowView(w orders.PickupWindow) pickupWindowView {
	return pickupWindowView{ID: w.ID, Name: w.Name, Time: w.Time()}
}

func windowViews() []pickupWindowView {
	ws := orders.PickupWindows()
	out := make([]pickupWindowView, 0, len(ws))
	for _, w := range ws {
		out = append(out, windowView(w))
	}
	return out
}

type checkoutResp struct {
	State          orders.CheckoutState       `json:"state"`
	PaymentMethod  orders.PaymentMethod       `json:"paymentMethod"`
	PickupTime     orders.PickupTime          `json:"pickupTime"`
	Items          []lineView                 `json:"items"`
	Total          int64                      `json:"total"`
	TotalLabel     string                     `json:"totalLabel"`
	PaymentMethods []orders.PaymentMethodInfo `json:"paymentMethods"`
	PickupWindows  []pickupWindowView         `json:"pickupWindows"`
}

func checkoutView(f *checkout.Flow) checkoutResp {
	sel := f.Selection()
	q := f.Quote()
	return checkoutResp{
		State:          f.State(),
		PaymentMethod:  sel.PaymentMethod,
		PickupTime:     sel.PickupTime,
		Items:          lineViews(q.Lines),
		Total:          q.Total,
		TotalLabel:     orders.FormatRupiah(q.Total),
		PaymentMethods: orders.PaymentMethods(),
		PickupWindows:  windowViews(),
	}
}

type orderResp struct {
	Code          string               `json:"code"`
	CreatedAt     time.Time            `json:"createdAt"`
	Items         []lineView           `json:"items"`
	TotalItems    int                  `json:"totalItems"`
	Total         int64                `json:"total"`
	TotalLabel    string               `json:"totalLabel"`
	PaymentMethod orders.PaymentMethod `json:"paymentMethod"`
	PaymentLabel  string               `json:"paymentLabel"`
	PickupTime    orders.PickupTime    `json:"pickupTime"`
	PickupLabel   string               `json:"pickupLabel"`
}

func orderView(o orders.Order) orderResp {
	pickup := string(o.PickupTime)
	if w, ok := o.PickupTime.Window(); ok {
		pickup = w.Name + " (" + w.Time() + ")"
	}
	return orderResp{
		Code:          o.Code,
		CreatedAt:     o.CreatedAt,
		Items:         lineViews(o.Items),
		TotalItems:    orders.TotalItems(o.Items),
		Total:         o.Total,
		TotalLabel:    orders.FormatRupiah(o.Total),
		PaymentMethod: o.PaymentMethod,
		PaymentLabel:  o.PaymentMethod.Label(),
		PickupTime:    o.PickupTime,
		PickupLabel:   pickup,
	}
}

func requestID(r *http.Request) string { return middleware.GetReqID(r.Context()) }
