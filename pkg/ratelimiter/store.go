package ratelimiter

import (
	"context"
	"time"
)

// Store holds bucket state.
type Store interface {
	// ConsumeTokens refills the bucket for key and takes tokens from it when
	// enough are available. A negative remaining value means the request was
	// denied and nothing was taken. Zero tokens reports state without consuming.
	ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (remaining int, resetAt time.Time, err error)

	Reset(ctx context.Context, key string) error
}

// refillIntervals returns how many whole refill intervals fit in elapsed,
// capped so the multiplication by RefillRate cannot overflow.
func refillIntervals(elapsed time.Duration, config Config) int {
	if elapsed <= 0 {
		return 0
	}
	maxIntervals := int64(config.Capacity/config.RefillRate + 1)
	return int(min(int64(elapsed/config.RefillInterval), maxIntervals))
}
