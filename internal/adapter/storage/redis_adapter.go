package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	dedupKeyPrefix = "tailordesk:msg:"
	dedupKeyTTL    = 24 * time.Hour
)

// RedisAdapter deduplicates redelivered webhook messages. Message transports
// retry on slow replies; SetNX on the message id keeps a retry from running
// the same command twice.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, dedupKeyPrefix+key, 1, dedupKeyTTL).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}
