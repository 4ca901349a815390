// Package notify turns OrderConfirmed events into the staff pickup board.
package notify

import (
	"context"
	"fmt"
	kafkax "github.com/ariefcatur/go-kantin-orders/internal/kafka"
	"github.com/ariefcatur/go-kantin-orders/internal/orders"
	"github.com/ariefcatur/go-kantin-orders/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"time"
)

type Service struct {
	Redis       *redis.Client
	Board       *redisx.Board
	Log         *zap.Logger
	ServiceName string
	// Location is the canteen's local zone; the board is keyed by local date.
	Location *time.Location
}

// HandleOrderConfirmed: dipasang sebagai handler consumer.
func (s *Service) HandleOrderConfirmed(ctx context.Context, m kafkago.Message) error {
	// 1) cek header dulu, hemat decode
	if et, ok := kafkax.Header(m, kafkax.HeaderEventType); ok && et != orders.EventOrderConfirmed {
		return nil
	}
	env, err := kafkax.DecodeEnvelope(m.Value)
	if err != nil {
		// poison message: log lalu commit, jangan diulang terus
		s.Log.Error("drop undecodable message", zap.Int64("offset", m.Offset), zap.Error(err))
		return nil
	}
	if env.EventType != orders.EventOrderConfirmed {
		return nil
	}

	p, err := kafkax.UnwrapPayload[orders.OrderConfirmedPayload](env.Payload)
	if err != nil {
		s.Log.Error("drop undecodable payload", zap.String("event_id", env.EventID), zap.Error(err))
		return nil
	}

	// 2) dedup via Redis (pakai event_id)
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	fresh, err := redisx.MarkOnce(ctx, s.Redis, dkey, redisx.TTLDedup)
	if err != nil {
		return fmt.Errorf("dedup %s: %w", env.EventID, err)
	}
	if !fresh {
		s.Log.Debug("duplicate event", zap.String("event_id", env.EventID))
		return nil
	}

	// 3) papan pengambilan
	day := p.CreatedAt
	if s.Location != nil {
		day = day.In(s.Location)
	}
	n, err := s.Board.Incr(ctx, day, string(p.PickupTime))
	if err != nil {
		// lepas dedup; consumer mengulang pesan ini dan menghitung ulang
		_ = s.Redis.Del(ctx, dkey).Err()
		return fmt.Errorf("board incr %s: %w", p.Code, err)
	}

	s.Log.Info("pesanan baru",
		zap.String("code", p.Code),
		zap.String("pickup_time", string(p.PickupTime)),
		zap.String("payment", p.PaymentMethod.Label()),
		zap.String("total", orders.FormatRupiah(p.Total)),
		zap.Int("items", totalQty(p.Items)),
		zap.Int64("board_count", n))
	return nil
}

func totalQty(items []orders.ItemQty) int {
	n := 0
	for _, it := range items {
		n += it.Qty
	}
	return n
}
