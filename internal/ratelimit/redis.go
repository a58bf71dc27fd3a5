package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis counts requests per key in fixed one-minute windows shared by all instances.
type Redis struct {
	client    redis.Cmdable
	perMinute int64
	prefix    string
	now       func() time.Time
}

func NewRedis(client redis.Cmdable, perMinute int) *Redis {
	return &Redis{
		client:    client,
		perMinute: int64(max(perMinute, 1)),
		prefix:    "ratelimit:",
		now:       time.Now,
	}
}

func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	window := r.now().Unix() / 60
	redisKey := fmt.Sprintf("%s%s:%d", r.prefix, key, window)

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, 2*time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit counter: %w", err)
	}
	return incr.Val() <= r.perMinute, nil
}
