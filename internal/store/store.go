// Package store is the session-scoped key-value area behind the cart and the order
// history. Backends move raw JSON bytes; Slot is the typed, validated boundary that
// never lets a storage failure reach the caller.
package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound    = errors.New("store: slot not found")
	ErrUnavailable = errors.New("store: backend unavailable")
)

// Backend menyimpan nilai mentah per (scope, key).
type Backend interface {
	Get(ctx context.Context, scope, key string) ([]byte, error)
	Set(ctx context.Context, scope, key string, value []byte) error
	Delete(ctx context.Context, scope, key string) error
}

// Slot names shared by every scope.
const (
	SlotCart   = "cart"
	SlotOrders = "orders"
)

// SessionScope is the scope name of one client session.
func SessionScope(sessionID string) string { return "session:" + sessionID }
