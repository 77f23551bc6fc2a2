package reddit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Unauthenticated listing requests are limited to roughly one per second.
const (
	defaultRequestsPerSecond = 1.0
	defaultBurst             = 2
	defaultBackoff           = 60 * time.Second
)

// rateLimiter is a token bucket plus a backoff window opened by 429 responses.
type rateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

func newRateLimiter(requestsPerSecond float64, burst int) *rateLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = defaultRequestsPerSecond
	}
	if burst < 1 {
		burst = defaultBurst
	}
	return &rateLimiter{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst)}
}

func (r *rateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if wait := time.Until(retryAt); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return r.limiter.Wait(ctx)
}

// backoff blocks requests for retryAfter, or a minute when it is unknown.
func (r *rateLimiter) backoff(retryAfter time.Duration) {
	if retryAfter <= 0 {
		retryAfter = defaultBackoff
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.retryAt = time.Now().Add(retryAfter)
}
