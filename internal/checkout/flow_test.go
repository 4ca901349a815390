package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ariefcatur/go-kantin-orders/internal/cart"
	"github.com/ariefcatur/go-kantin-orders/internal/history"
	"github.com/ariefcatur/go-kantin-orders/internal/orders"
	"github.com/ariefcatur/go-kantin-orders/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var (
	nasiGoreng = orders.MenuEntry{ID: "1", Name: "Nasi Goreng", Price: 10000, Category: "makanan"}
	esTeh      = orders.MenuEntry{ID: "2", Name: "Es Teh", Price: 5000, Discount: 20, Category: "minuman"}
	fixedNow   = time.Date(2024, 8, 1, 9, 15, 0, 0, time.UTC)
)

type recordingPublisher struct {
	sessions []string
	orders   []orders.Order
	err      error
}

func (p *recordingPublisher) PublishOrderConfirmed(_ context.Context, sessionID string, o orders.Order) error {
	p.sessions = append(p.sessions, sessionID)
	p.orders = append(p.orders, o)
	return p.err
}

func codesFrom(codes ...string) orders.CodeGenerator {
	i := 0
	return func() (string, error) {
		c := codes[i%len(codes)]
		i++
		return c, nil
	}
}

type fixture struct {
	flow    *Flow
	cart    *cart.Cart
	history *history.Sink
	pub     *recordingPublisher
}

func newFixture(t *testing.T, opts ...Option) fixture {
	t.Helper()
	ctx := context.Background()
	mem := store.NewMemory()
	scope := store.SessionScope("s1")
	c := cart.Open(ctx, cart.NewSlot(mem, scope, nil))
	h := history.New(mem, scope, nil)
	pub := &recordingPublisher{}
	opts = append([]Option{WithPublisher(pub), WithClock(func() time.Time { return fixedNow })}, opts...)
	return fixture{flow: New("s1", c, h, opts...), cart: c, history: h, pub: pub}
}

func (f fixture) fill(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.cart.SetQuantity(ctx, nasiGoreng, 2))
	require.NoError(t, f.cart.SetQuantity(ctx, esTeh, 1))
}

func TestBeginRequiresItems(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.flow.Begin(), ErrEmptyCart)
	assert.Equal(t, orders.CheckoutIdle, f.flow.State())
}

func TestBeginResetsSelection(t *testing.T) {
	f := newFixture(t)
	f.fill(t)

	require.NoError(t, f.flow.Begin())
	assert.Equal(t, orders.CheckoutCollecting, f.flow.State())
	assert.Equal(t, DefaultSelection(), f.flow.Selection())

	require.NoError(t, f.flow.SelectPaymentMethod(orders.PaymentQRIS))
	require.NoError(t, f.flow.Cancel())
	require.NoError(t, f.flow.Begin())
	assert.Equal(t, orders.PaymentCash, f.flow.Selection().PaymentMethod)
}

func TestSelectRejectsUnknownValues(t *testing.T) {
	f := newFixture(t)
	f.fill(t)

	assert.ErrorIs(t, f.flow.SelectPaymentMethod(orders.PaymentQRIS), ErrNotCollecting)

	require.NoError(t, f.flow.Begin())
	assert.ErrorIs(t, f.flow.SelectPaymentMethod("kartu-kredit"), orders.ErrInvalidSelection)
	assert.ErrorIs(t, f.flow.SelectPickupTime("malam"), orders.ErrInvalidSelection)
	assert.Equal(t, DefaultSelection(), f.flow.Selection())

	require.NoError(t, f.flow.SelectPickupTime(orders.PickupPulang))
	assert.Equal(t, orders.PickupPulang, f.flow.Selection().PickupTime)
}

func TestConfirmPlacesOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, WithCodeGenerator(codesFrom("KABC123")))
	f.fill(t)

	require.NoError(t, f.flow.Begin())
	assert.EqualValues(t, 24000, f.flow.Quote().Total)
	require.NoError(t, f.flow.SelectPaymentMethod(orders.PaymentEWallet))
	require.NoError(t, f.flow.SelectPickupTime(orders.PickupIstirahat2))

	o, err := f.flow.Confirm(ctx)
	require.NoError(t, err)

	assert.Equal(t, "KABC123", o.Code)
	assert.EqualValues(t, 24000, o.Total)
	assert.Equal(t, fixedNow, o.CreatedAt)
	assert.Equal(t, orders.PaymentEWallet, o.PaymentMethod)
	assert.Equal(t, orders.PickupIstirahat2, o.PickupTime)
	assert.Len(t, o.Items, 2)
	assert.Equal(t, orders.CheckoutConfirmed, f.flow.State())

	assert.True(t, f.cart.IsEmpty())
	list := f.history.List(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, o.Code, list[0].Code)

	require.Len(t, f.pub.orders, 1)
	assert.Equal(t, "s1", f.pub.sessions[0])
	assert.Equal(t, o.Code, f.pub.orders[0].Code)
}

func TestConfirmSnapshotIsIndependentOfCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fill(t)
	require.NoError(t, f.flow.Begin())
	o, err := f.flow.Confirm(ctx)
	require.NoError(t, err)

	require.NoError(t, f.cart.SetQuantity(ctx, nasiGoreng, 9))

	stored, ok := f.history.Find(ctx, o.Code)
	require.True(t, ok)
	assert.Equal(t, 2, stored.Items[0].Quantity)
	assert.EqualValues(t, 24000, stored.Total)
}

func TestConfirmUsesCartAtThatMoment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fill(t)
	require.NoError(t, f.flow.Begin())

	require.NoError(t, f.cart.RemoveLine(ctx, esTeh.ID))
	o, err := f.flow.Confirm(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 20000, o.Total)
}

func TestConfirmEmptiedCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fill(t)
	require.NoError(t, f.flow.Begin())

	f.cart.Clear(ctx)
	_, err := f.flow.Confirm(ctx)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, f.history.List(ctx))
	assert.Equal(t, orders.CheckoutCollecting, f.flow.State())
}

func TestConfirmOutsideCollecting(t *testing.T) {
	f := newFixture(t)
	f.fill(t)
	_, err := f.flow.Confirm(context.Background())
	assert.ErrorIs(t, err, ErrNotCollecting)
}

func TestCancelHasNoSideEffects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fill(t)

	require.NoError(t, f.flow.Cancel()) // idle: no-op
	assert.Equal(t, orders.CheckoutIdle, f.flow.State())

	require.NoError(t, f.flow.Begin())
	require.NoError(t, f.flow.Cancel())
	assert.Equal(t, orders.CheckoutCancelled, f.flow.State())
	assert.Equal(t, 3, f.cart.TotalItems())
	assert.Empty(t, f.history.List(ctx))
	assert.Empty(t, f.pub.orders)
}

func TestCodeRegeneratedOnCollision(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, WithCodeGenerator(codesFrom("KDUP001", "KDUP001", "KNEW002")))

	f.fill(t)
	require.NoError(t, f.flow.Begin())
	first, err := f.flow.Confirm(ctx)
	require.NoError(t, err)

	f.fill(t)
	require.NoError(t, f.flow.Begin())
	second, err := f.flow.Confirm(ctx)
	require.NoError(t, err)

	assert.Equal(t, "KDUP001", first.Code)
	assert.Equal(t, "KNEW002", second.Code)
	assert.Len(t, f.history.List(ctx), 2)
}

func TestCodeExhausted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, WithCodeGenerator(codesFrom("KSAME00")))
	f.fill(t)
	require.NoError(t, f.flow.Begin())
	_, err := f.flow.Confirm(ctx)
	require.NoError(t, err)

	f.fill(t)
	require.NoError(t, f.flow.Begin())
	_, err = f.flow.Confirm(ctx)
	assert.ErrorIs(t, err, ErrCodeExhausted)
	assert.False(t, f.cart.IsEmpty())
}

func TestPublishFailureIsLoggedOnly(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.WarnLevel)
	f := newFixture(t, WithLogger(zap.New(core)))
	f.pub.err = errors.New("broker down")
	f.fill(t)
	require.NoError(t, f.flow.Begin())

	o, err := f.flow.Confirm(ctx)
	require.NoError(t, err)
	assert.Len(t, f.history.List(ctx), 1)
	assert.Equal(t, 1, logs.FilterMessage("publish order confirmed failed").Len())
	assert.NotEmpty(t, o.Code)
}

// ordersOutage fails the order history slot only, so the cart keeps working.
type ordersOutage struct {
	*store.Memory
	down bool
}

func (o *ordersOutage) Get(ctx context.Context, scope, key string) ([]byte, error) {
	if o.down && key == store.SlotOrders {
		return nil, store.ErrUnavailable
	}
	return o.Memory.Get(ctx, scope, key)
}

func (o *ordersOutage) Set(ctx context.Context, scope, key string, value []byte) error {
	if o.down && key == store.SlotOrders {
		return store.ErrUnavailable
	}
	return o.Memory.Set(ctx, scope, key, value)
}

func TestConfirmDuringHistoryOutage(t *testing.T) {
	ctx := context.Background()
	backend := &ordersOutage{Memory: store.NewMemory()}
	scope := store.SessionScope("s1")

	// two orders placed before the session was evicted
	earlier := history.New(backend, scope, nil)
	for _, code := range []string{"KOLD001", "KOLD002"} {
		require.NoError(t, earlier.Append(ctx, orders.Order{
			Code:          code,
			CreatedAt:     fixedNow,
			Items:         []orders.Line{{MenuEntry: nasiGoreng, Quantity: 1}},
			Total:         nasiGoreng.Price,
			PaymentMethod: orders.DefaultPaymentMethod,
			PickupTime:    orders.DefaultPickupTime,
		}))
	}

	backend.down = true
	c := cart.Open(ctx, cart.NewSlot(backend, scope, nil))
	h := history.New(backend, scope, nil)
	flow := New("s1", c, h, WithCodeGenerator(codesFrom("KNEW003")), WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, c.SetQuantity(ctx, esTeh, 1))
	require.NoError(t, flow.Begin())
	o, err := flow.Confirm(ctx)
	require.NoError(t, err)
	assert.Equal(t, "KNEW003", o.Code)
	assert.Len(t, h.List(ctx), 1, "confirmed order stays visible while storage is down")

	assert.Len(t, history.New(backend.Memory, scope, nil).List(ctx), 2, "stored history untouched")

	backend.down = false
	var got []string
	for _, o := range h.List(ctx) {
		got = append(got, o.Code)
	}
	assert.Equal(t, []string{"KOLD001", "KOLD002", "KNEW003"}, got)
	assert.Len(t, history.New(backend.Memory, scope, nil).List(ctx), 3)
}
