// Package history is the append-only receipt list of one session. Orders are never
// edited or removed.
package history

import (
	"context"
	"fmt"
	"github.com/ariefcatur/go-kantin-orders/internal/orders"
	"github.com/ariefcatur/go-kantin-orders/internal/store"
	"go.uber.org/zap"
	"slices"
)

// Sink keeps the session's orders in memory and writes the whole list through on every
// append. The stored list is read once; while the backend cannot be read, new orders are
// held in memory only and merged behind the stored ones on the next successful read, so
// an outage never overwrites earlier receipts. Not safe for concurrent use.
type Sink struct {
	slot *store.Slot[[]orders.Order]
	log  *zap.Logger

	list   []orders.Order
	synced bool
}

func emptyOrders() []orders.Order { return []orders.Order{} }

func validateOrders(list []orders.Order) error {
	seen := make(map[string]bool, len(list))
	for _, o := range list {
		if err := o.Validate(); err != nil {
			return err
		}
		if seen[o.Code] {
			return fmt.Errorf("order %s: duplicate code", o.Code)
		}
		seen[o.Code] = true
	}
	return nil
}

func New(b store.Backend, scope string, log *zap.Logger) *Sink {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sink{
		slot: store.NewSlot(b, scope, store.SlotOrders, emptyOrders, validateOrders, log),
		log:  log.With(zap.String("scope", scope)),
		list: emptyOrders(),
	}
}

// sync reads the stored list the first time it can. Orders appended while unsynced
// are kept and written behind the stored ones.
func (s *Sink) sync(ctx context.Context) bool {
	if s.synced {
		return true
	}
	stored, err := s.slot.Read(ctx)
	if err != nil {
		s.log.Warn("order history unreadable, serving memory", zap.Int("pending", len(s.list)), zap.Error(err))
		return false
	}
	s.synced = true
	pending := s.list
	s.list = stored
	for _, o := range pending {
		if !hasCode(s.list, o.Code) {
			s.list = append(s.list, o)
		}
	}
	if len(s.list) != len(stored) {
		s.slot.Save(ctx, s.list)
	}
	return true
}

// Append adds o after every order already known. It fails only when o is invalid;
// storage trouble is logged and the order stays in memory.
func (s *Sink) Append(ctx context.Context, o orders.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	synced := s.sync(ctx)
	o.Items = slices.Clone(o.Items)
	s.list = append(s.list, o)
	if synced {
		s.slot.Save(ctx, s.list)
	}
	return nil
}

// List returns orders oldest first.
func (s *Sink) List(ctx context.Context) []orders.Order {
	s.sync(ctx)
	return slices.Clone(s.list)
}

// Recent is List reversed, for display.
func (s *Sink) Recent(ctx context.Context) []orders.Order {
	list := s.List(ctx)
	slices.Reverse(list)
	return list
}

func (s *Sink) Find(ctx context.Context, code string) (orders.Order, bool) {
	s.sync(ctx)
	for _, o := range s.list {
		if o.Code == code {
			return o, true
		}
	}
	return orders.Order{}, false
}

// HasCode reports whether code was already issued in this history.
func (s *Sink) HasCode(ctx context.Context, code string) bool {
	s.sync(ctx)
	return hasCode(s.list, code)
}

func hasCode(list []orders.Order, code string) bool {
	return slices.ContainsFunc(list, func(o orders.Order) bool { return o.Code == code })
}
