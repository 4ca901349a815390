package redisx

import (
	"context"
	"fmt"
	"github.com/redis/go-redis/v9"
	"strconv"
	"time"
)

// Board counts confirmed orders per pickup window for one day.
type Board struct {
	Redis *redis.Client
}

func boardKey(day time.Time) string {
	return fmt.Sprintf(KeyPickupBoard, day.Format(BoardDateLayout))
}

func (b *Board) Incr(ctx context.Context, day time.Time, pickup string) (int64, error) {
	key := boardKey(day)
	pipe := b.Redis.TxPipeline()
	n := pipe.HIncrBy(ctx, key, pickup, 1)
	pipe.Expire(ctx, key, TTLBoard)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return n.Val(), nil
}

func (b *Board) Counts(ctx context.Context, day time.Time) (map[string]int64, error) {
	raw, err := b.Redis.HGetAll(ctx, boardKey(day)).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(raw))
	for k, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("board %s field %s: %w", boardKey(day), k, err)
		}
		out[k] = n
	}
	return out, nil
}
