// Package ratelimit throttles requests per key, typically a client IP.
package ratelimit

import "context"

// Limiter decides whether one more request for key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
