package redisx

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ariefcatur/go-kantin-orders/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := New(mr.Addr())
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, &Store{Redis: rdb}
}

func TestStoreGetSetDelete(t *testing.T) {
	ctx := context.Background()
	mr, s := newTestRedis(t)

	_, err := s.Get(ctx, "session:1", store.SlotCart)
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Set(ctx, "session:1", store.SlotCart, []byte(`[]`)))
	assert.True(t, mr.Exists("kantin:session:1:cart"))

	b, err := s.Get(ctx, "session:1", store.SlotCart)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(b))

	require.NoError(t, s.Delete(ctx, "session:1", store.SlotCart))
	assert.False(t, mr.Exists("kantin:session:1:cart"))
}

func TestStoreTTL(t *testing.T) {
	ctx := context.Background()
	mr, s := newTestRedis(t)
	s.TTL = time.Hour

	require.NoError(t, s.Set(ctx, "session:1", store.SlotOrders, []byte(`[]`)))
	assert.Equal(t, time.Hour, mr.TTL("kantin:session:1:orders"))

	mr.FastForward(2 * time.Hour)
	_, err := s.Get(ctx, "session:1", store.SlotOrders)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	mr, s := newTestRedis(t)
	mr.Close()

	_, err := s.Get(ctx, "session:1", store.SlotCart)
	assert.ErrorIs(t, err, store.ErrUnavailable)
	assert.ErrorIs(t, s.Set(ctx, "session:1", store.SlotCart, []byte(`[]`)), store.ErrUnavailable)
}

func TestSlotOverRedis(t *testing.T) {
	ctx := context.Background()
	_, s := newTestRedis(t)
	slot := store.NewSlot(s, "session:1", store.SlotCart, func() []int { return []int{} }, nil, nil)

	slot.Save(ctx, []int{1, 2, 3})
	assert.Equal(t, []int{1, 2, 3}, slot.Load(ctx))
}

func TestBoard(t *testing.T) {
	ctx := context.Background()
	mr, s := newTestRedis(t)
	b := &Board{Redis: s.Redis}
	day := time.Date(2024, 8, 1, 10, 0, 0, 0, time.UTC)

	n, err := b.Incr(ctx, day, "istirahat1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	_, err = b.Incr(ctx, day, "istirahat1")
	require.NoError(t, err)
	_, err = b.Incr(ctx, day, "pulang")
	require.NoError(t, err)

	counts, err := b.Counts(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"istirahat1": 2, "pulang": 1}, counts)
	assert.Equal(t, TTLBoard, mr.TTL("kantin:board:20240801"))
}

func TestMarkOnce(t *testing.T) {
	ctx := context.Background()
	_, s := newTestRedis(t)

	first, err := MarkOnce(ctx, s.Redis, "dedup:notifier:e1", TTLDedup)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := MarkOnce(ctx, s.Redis, "dedup:notifier:e1", TTLDedup)
	require.NoError(t, err)
	assert.False(t, again)
}
