// Package session ties one visitor's cart, checkout and history together and keeps
// the live sessions of the API process.
package session

import (
	"context"
	"github.com/ariefcatur/go-kantin-orders/internal/cart"
	"github.com/ariefcatur/go-kantin-orders/internal/checkout"
	"github.com/ariefcatur/go-kantin-orders/internal/history"
	"github.com/ariefcatur/go-kantin-orders/internal/store"
	"go.uber.org/zap"
	"sync"
	"time"
)

// Session is used under its own lock; handlers Lock for the whole request.
type Session struct {
	sync.Mutex
	ID       string
	Cart     *cart.Cart
	Checkout *checkout.Flow
	History  *history.Sink

	lastSeen time.Time
}

type Registry struct {
	Backend   store.Backend
	Publisher checkout.Publisher
	Log       *zap.Logger
	Now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(b store.Backend, pub checkout.Publisher, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{Backend: b, Publisher: pub, Log: log, Now: time.Now, sessions: map[string]*Session{}}
}

// Get returns the live session for id, restoring cart and history from the backend
// the first time it is seen.
func (r *Registry) Get(ctx context.Context, id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.Now()
	if s, ok := r.sessions[id]; ok {
		s.lastSeen = now
		return s
	}
	s := r.open(ctx, id)
	s.lastSeen = now
	r.sessions[id] = s
	return s
}

func (r *Registry) open(ctx context.Context, id string) *Session {
	scope := store.SessionScope(id)
	log := r.Log.With(zap.String("session_id", id))
	c := cart.Open(ctx, cart.NewSlot(r.Backend, scope, log))
	h := history.New(r.Backend, scope, log)
	flow := checkout.New(id, c, h,
		checkout.WithPublisher(r.Publisher),
		checkout.WithClock(r.Now),
		checkout.WithLogger(r.Log))
	return &Session{ID: id, Cart: c, Checkout: flow, History: h}
}

// Evict drops sessions idle longer than idle. Persisted slots stay; a returning
// visitor gets a fresh checkout over the same cart and history.
func (r *Registry) Evict(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.Now().Add(-idle)
	n := 0
	for id, s := range r.sessions {
		if s.TryLock() {
			if s.lastSeen.Before(cutoff) {
				delete(r.sessions, id)
				n++
			}
			s.Unlock()
		}
	}
	if n > 0 {
		r.Log.Debug("evicted idle sessions", zap.Int("count", n))
	}
	return n
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// RunEvictor evicts every interval until ctx is done.
func (r *Registry) RunEvictor(ctx context.Context, interval, idle time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.Evict(idle)
		}
	}
}
