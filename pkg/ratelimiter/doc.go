// Package ratelimiter is a token bucket limiter with memory and Redis stores
// and an HTTP middleware.
//
//	store := ratelimiter.NewMemoryStore()
//	defer store.Close()
//
//	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       10,
//		RefillRate:     1,
//		RefillInterval: 6 * time.Second,
//	})
//	if err != nil {
//		return err
//	}
//	r.With(ratelimiter.Middleware(limiter, ratelimiter.ByIP)).Post("/api/recap", h)
//
// A denied request does not consume tokens. Result.Remaining is negative when
// the request was denied.
//
// RedisStore keeps bucket state in Redis so several processes share one limit.
// The refill and consume step runs as a Lua script and is atomic per key.
package ratelimiter
