// Package checkout is the short-lived checkout state machine of one session:
// idle -> collecting -> confirmed | cancelled. It is never persisted.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"github.com/ariefcatur/go-kantin-orders/internal/cart"
	"github.com/ariefcatur/go-kantin-orders/internal/history"
	"github.com/ariefcatur/go-kantin-orders/internal/orders"
	"go.uber.org/zap"
	"time"
)

var (
	ErrEmptyCart     = errors.New("checkout: cart is empty")
	ErrNotCollecting = errors.New("checkout: not collecting")
	ErrCodeExhausted = errors.New("checkout: could not issue a unique order code")
)

const maxCodeAttempts = 8

// Publisher announces a confirmed order. Failures are logged, never fatal to checkout.
type Publisher interface {
	PublishOrderConfirmed(ctx context.Context, sessionID string, o orders.Order) error
}

type nopPublisher struct{}

func (nopPublisher) PublishOrderConfirmed(context.Context, string, orders.Order) error { return nil }

// Selection is the in-progress choice; both fields always hold a valid value.
type Selection struct {
	PaymentMethod orders.PaymentMethod `json:"paymentMethod"`
	PickupTime    orders.PickupTime    `json:"pickupTime"`
}

func DefaultSelection() Selection {
	return Selection{PaymentMethod: orders.DefaultPaymentMethod, PickupTime: orders.DefaultPickupTime}
}

// Quote is the order summary shown before confirming.
type Quote struct {
	Lines []orders.Line `json:"items"`
	Total int64         `json:"total"`
}

type Flow struct {
	SessionID string

	cart      *cart.Cart
	history   *history.Sink
	publisher Publisher
	newCode   orders.CodeGenerator
	now       func() time.Time
	log       *zap.Logger

	state     orders.CheckoutState
	selection Selection
}

type Option func(*Flow)

func WithPublisher(p Publisher) Option {
	return func(f *Flow) {
		if p != nil {
			f.publisher = p
		}
	}
}

func WithCodeGenerator(g orders.CodeGenerator) Option {
	return func(f *Flow) { f.newCode = g }
}

func WithClock(now func() time.Time) Option {
	return func(f *Flow) { f.now = now }
}

func WithLogger(log *zap.Logger) Option {
	return func(f *Flow) { f.log = log }
}

func New(sessionID string, c *cart.Cart, h *history.Sink, opts ...Option) *Flow {
	f := &Flow{
		SessionID: sessionID,
		cart:      c,
		history:   h,
		publisher: nopPublisher{},
		newCode:   orders.NewOrderCode,
		now:       time.Now,
		log:       zap.NewNop(),
		state:     orders.CheckoutIdle,
		selection: DefaultSelection(),
	}
	for _, o := range opts {
		o(f)
	}
	f.log = f.log.With(zap.String("session_id", sessionID))
	return f
}

func (f *Flow) State() orders.CheckoutState { return f.state }
func (f *Flow) Selection() Selection        { return f.selection }

func (f *Flow) transition(to orders.CheckoutState) error {
	if !orders.CanTransition(f.state, to) {
		return fmt.Errorf("checkout: %s -> %s not allowed", f.state, to)
	}
	f.state = to
	return nil
}

// Begin enters collecting with the default selection. The cart must not be empty.
func (f *Flow) Begin() error {
	if f.cart.IsEmpty() {
		return ErrEmptyCart
	}
	if f.state != orders.CheckoutCollecting {
		if err := f.transition(orders.CheckoutCollecting); err != nil {
			return err
		}
	}
	f.selection = DefaultSelection()
	return nil
}

func (f *Flow) SelectPaymentMethod(m orders.PaymentMethod) error {
	if f.state != orders.CheckoutCollecting {
		return ErrNotCollecting
	}
	if !m.Valid() {
		_, err := orders.ParsePaymentMethod(string(m))
		return err
	}
	f.selection.PaymentMethod = m
	return nil
}

func (f *Flow) SelectPickupTime(p orders.PickupTime) error {
	if f.state != orders.CheckoutCollecting {
		return ErrNotCollecting
	}
	if !p.Valid() {
		_, err := orders.ParsePickupTime(string(p))
		return err
	}
	f.selection.PickupTime = p
	return nil
}

// Quote summarises the cart as it is right now.
func (f *Flow) Quote() Quote {
	lines := f.cart.Lines()
	return Quote{Lines: lines, Total: orders.TotalPrice(lines)}
}

// Confirm turns the current cart into an order: recompute the total, issue a code,
// append to history, clear the cart, publish. The caller shows the returned code.
func (f *Flow) Confirm(ctx context.Context) (orders.Order, error) {
	if f.state != orders.CheckoutCollecting {
		return orders.Order{}, ErrNotCollecting
	}
	lines := f.cart.Lines()
	if len(lines) == 0 {
		return orders.Order{}, ErrEmptyCart
	}
	code, err := f.issueCode(ctx)
	if err != nil {
		return orders.Order{}, err
	}
	o := orders.Order{
		Code:          code,
		CreatedAt:     f.now().UTC(),
		Items:         lines,
		Total:         orders.TotalPrice(lines),
		PaymentMethod: f.selection.PaymentMethod,
		PickupTime:    f.selection.PickupTime,
	}
	if err := f.history.Append(ctx, o); err != nil {
		return orders.Order{}, fmt.Errorf("checkout: %w", err)
	}
	if err := f.transition(orders.CheckoutConfirmed); err != nil {
		return orders.Order{}, err
	}
	f.cart.Clear(ctx)

	f.log.Info("order confirmed",
		zap.String("code", o.Code),
		zap.Int64("total", o.Total),
		zap.Int("items", orders.TotalItems(o.Items)),
		zap.String("payment_method", string(o.PaymentMethod)),
		zap.String("pickup_time", string(o.PickupTime)))

	if err := f.publisher.PublishOrderConfirmed(ctx, f.SessionID, o); err != nil {
		f.log.Warn("publish order confirmed failed", zap.String("code", o.Code), zap.Error(err))
	}
	return o, nil
}

// Cancel abandons the checkout without touching cart or history. No-op unless collecting.
func (f *Flow) Cancel() error {
	if f.state != orders.CheckoutCollecting {
		return nil
	}
	return f.transition(orders.CheckoutCancelled)
}

func (f *Flow) issueCode(ctx context.Context) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code, err := f.newCode()
		if err != nil {
			return "", err
		}
		if !f.history.HasCode(ctx, code) {
			return code, nil
		}
		f.log.Debug("order code collision, retrying", zap.String("code", code))
	}
	return "", ErrCodeExhausted
}
