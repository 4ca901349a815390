package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ariefcatur/go-kantin-orders/internal/catalog"
	"github.com/ariefcatur/go-kantin-orders/internal/orders"
	"github.com/ariefcatur/go-kantin-orders/internal/session"
	"github.com/ariefcatur/go-kantin-orders/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	t      *testing.T
	router http.Handler
	api    *API
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	cat, err := catalog.LoadDefault()
	require.NoError(t, err)
	api := NewAPI(cat, session.NewRegistry(store.NewMemory(), nil, nil), nil)
	r := NewRouter(nil)
	api.Register(r)
	return &testAPI{t: t, router: r, api: api}
}

func (ta *testAPI) do(method, path, sessionID string, body any) *httptest.ResponseRecorder {
	ta.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(ta.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if sessionID != "" {
		req.Header.Set(HeaderSessionID, sessionID)
	}
	rec := httptest.NewRecorder()
	ta.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthz(t *testing.T) {
	ta := newTestAPI(t)
	rec := ta.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestMenuEndpoints(t *testing.T) {
	ta := newTestAPI(t)

	rec := ta.do(http.MethodGet, "/api/menu?category=minuman&sort=price-low", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decodeBody[[]menuItemView](t, rec)
	require.NotEmpty(t, items)
	for _, it := range items {
		assert.Equal(t, "minuman", it.Category)
	}
	for i := 1; i < len(items); i++ {
		assert.LessOrEqual(t, items[i-1].Price, items[i].Price)
	}

	rec = ta.do(http.MethodGet, "/api/menu/1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	one := decodeBody[menuItemView](t, rec)
	assert.EqualValues(t, 13500, one.FinalPrice)
	assert.Equal(t, "Rp 13.500", one.FinalPriceLabel)

	assert.Equal(t, http.StatusNotFound, ta.do(http.MethodGet, "/api/menu/999", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, ta.do(http.MethodGet, "/api/menu?sort=termurah", "", nil).Code)

	popular := decodeBody[[]menuItemView](t, ta.do(http.MethodGet, "/api/menu/popular", "", nil))
	for _, it := range popular {
		assert.True(t, it.IsPopular)
	}
	cats := decodeBody[[]orders.Category](t, ta.do(http.MethodGet, "/api/categories", "", nil))
	assert.Equal(t, catalog.CategoryAll, cats[0].ID)
}

func TestCanteenStatus(t *testing.T) {
	ta := newTestAPI(t)

	ta.api.Now = func() time.Time { return time.Date(2024, 8, 1, 12, 10, 0, 0, time.Local) }
	st := decodeBody[canteenStatusResp](t, ta.do(http.MethodGet, "/api/canteen/status", "", nil))
	assert.True(t, st.Open)
	require.NotNil(t, st.Current)
	assert.Equal(t, orders.PickupIstirahat2, st.Current.ID)
	assert.Len(t, st.Windows, 3)

	ta.api.Now = func() time.Time { return time.Date(2024, 8, 1, 7, 0, 0, 0, time.Local) }
	st = decodeBody[canteenStatusResp](t, ta.do(http.MethodGet, "/api/canteen/status", "", nil))
	assert.False(t, st.Open)
	assert.Nil(t, st.Current)
}

func TestSessionIsIssuedAndEchoed(t *testing.T) {
	ta := newTestAPI(t)

	rec := ta.do(http.MethodGet, "/api/cart", "", nil)
	id := rec.Header().Get(HeaderSessionID)
	assert.NotEmpty(t, id)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieSession, cookies[0].Name)
	assert.Equal(t, id, cookies[0].Value)

	rec = ta.do(http.MethodGet, "/api/cart", "visitor-1", nil)
	assert.Equal(t, "visitor-1", rec.Header().Get(HeaderSessionID))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.AddCookie(&http.Cookie{Name: CookieSession, Value: "from-cookie"})
	rec = httptest.NewRecorder()
	ta.router.ServeHTTP(rec, req)
	assert.Equal(t, "from-cookie", rec.Header().Get(HeaderSessionID))
}

func TestCartEndpoints(t *testing.T) {
	ta := newTestAPI(t)
	const sid = "cart-session"

	rec := ta.do(http.MethodPost, "/api/cart/items", sid, map[string]any{"id": "7"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = ta.do(http.MethodPost, "/api/cart/items", sid, map[string]any{"id": "7", "quantity": 2})
	c := decodeBody[cartResp](t, rec)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)

	rec = ta.do(http.MethodPut, "/api/cart/items/7", sid, map[string]any{"quantity": 1})
	c = decodeBody[cartResp](t, rec)
	assert.Equal(t, 1, c.TotalItems)
	assert.EqualValues(t, 4000, c.TotalPrice)

	assert.Equal(t, http.StatusBadRequest, ta.do(http.MethodPut, "/api/cart/items/7", sid, map[string]any{"quantity": -1}).Code)
	assert.Equal(t, http.StatusBadRequest, ta.do(http.MethodPut, "/api/cart/items/7", sid, map[string]any{}).Code)
	assert.Equal(t, http.StatusBadRequest, ta.do(http.MethodPost, "/api/cart/items", sid, map[string]any{"id": "7", "quantity": -2}).Code)
	assert.Equal(t, http.StatusNotFound, ta.do(http.MethodPost, "/api/cart/items", sid, map[string]any{"id": "999"}).Code)
	assert.Equal(t, http.StatusBadRequest, ta.do(http.MethodPost, "/api/cart/items", sid, map[string]any{"sku": "7"}).Code)

	rec = ta.do(http.MethodPut, "/api/cart/items/7", sid, map[string]any{"quantity": 0})
	assert.Empty(t, decodeBody[cartResp](t, rec).Items)

	ta.do(http.MethodPost, "/api/cart/items", sid, map[string]any{"id": "1"})
	ta.do(http.MethodPost, "/api/cart/items", sid, map[string]any{"id": "2"})
	rec = ta.do(http.MethodDelete, "/api/cart/items/1", sid, nil)
	assert.Len(t, decodeBody[cartResp](t, rec).Items, 1)
	rec = ta.do(http.MethodDelete, "/api/cart", sid, nil)
	assert.Zero(t, decodeBody[cartResp](t, rec).TotalItems)

	// another session is untouched
	ta.do(http.MethodPost, "/api/cart/items", "other", map[string]any{"id": "1"})
	assert.Empty(t, decodeBody[cartResp](t, ta.do(http.MethodGet, "/api/cart", sid, nil)).Items)
}

func TestCheckoutFlow(t *testing.T) {
	ta := newTestAPI(t)
	const sid = "checkout-session"

	assert.Equal(t, http.StatusConflict, ta.do(http.MethodPost, "/api/checkout", sid, nil).Code)

	ta.do(http.MethodPost, "/api/cart/items", sid, map[string]any{"id": "5"})
	ta.do(http.MethodPost, "/api/cart/items", sid, map[string]any{"id": "7", "quantity": 2})

	assert.Equal(t, http.StatusConflict, ta.do(http.MethodPost, "/api/checkout/confirm", sid, nil).Code)

	rec := ta.do(http.MethodPost, "/api/checkout", sid, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	co := decodeBody[checkoutResp](t, rec)
	assert.Equal(t, orders.CheckoutCollecting, co.State)
	assert.Equal(t, orders.DefaultPaymentMethod, co.PaymentMethod)
	assert.EqualValues(t, 24000, co.Total)
	assert.Equal(t, "Rp 24.000", co.TotalLabel)

	assert.Equal(t, http.StatusBadRequest,
		ta.do(http.MethodPut, "/api/checkout", sid, map[string]any{"paymentMethod": "kartu"}).Code)
	assert.Equal(t, http.StatusBadRequest,
		ta.do(http.MethodPut, "/api/checkout", sid, map[string]any{}).Code)

	rec = ta.do(http.MethodPut, "/api/checkout", sid, map[string]any{"paymentMethod": "qris", "pickupTime": "istirahat2"})
	require.Equal(t, http.StatusOK, rec.Code)
	co = decodeBody[checkoutResp](t, rec)
	assert.Equal(t, orders.PaymentQRIS, co.PaymentMethod)
	assert.Equal(t, orders.PickupIstirahat2, co.PickupTime)

	rec = ta.do(http.MethodPost, "/api/checkout/confirm", sid, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	conf := decodeBody[confirmResp](t, rec)
	assert.Regexp(t, `^K[0-9A-Z]{6}$`, conf.Order.Code)
	assert.EqualValues(t, 24000, conf.Order.Total)
	assert.Equal(t, "QRIS", conf.Order.PaymentLabel)
	assert.Equal(t, "Istirahat 2 (12:00 - 12:30)", conf.Order.PickupLabel)

	assert.Empty(t, decodeBody[cartResp](t, ta.do(http.MethodGet, "/api/cart", sid, nil)).Items)

	list := decodeBody[[]orderResp](t, ta.do(http.MethodGet, "/api/orders", sid, nil))
	require.Len(t, list, 1)
	assert.Equal(t, conf.Order.Code, list[0].Code)
	assert.Equal(t, 3, list[0].TotalItems)

	rec = ta.do(http.MethodGet, "/api/orders/"+conf.Order.Code, sid, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusNotFound, ta.do(http.MethodGet, "/api/orders/KNOPE00", sid, nil).Code)
	assert.Equal(t, http.StatusNotFound, ta.do(http.MethodGet, "/api/orders/"+conf.Order.Code, "someone-else", nil).Code)
}

func TestCheckoutCancelKeepsCart(t *testing.T) {
	ta := newTestAPI(t)
	const sid = "cancel-session"

	ta.do(http.MethodPost, "/api/cart/items", sid, map[string]any{"id": "3"})
	ta.do(http.MethodPost, "/api/checkout", sid, nil)

	rec := ta.do(http.MethodDelete, "/api/checkout", sid, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, orders.CheckoutCancelled, decodeBody[checkoutResp](t, rec).State)

	assert.Equal(t, 1, decodeBody[cartResp](t, ta.do(http.MethodGet, "/api/cart", sid, nil)).TotalItems)
	assert.Empty(t, decodeBody[[]orderResp](t, ta.do(http.MethodGet, "/api/orders", sid, nil)))
	assert.Equal(t, http.StatusConflict,
		ta.do(http.MethodPut, "/api/checkout", sid, map[string]any{"pickupTime": "pulang"}).Code)
}
