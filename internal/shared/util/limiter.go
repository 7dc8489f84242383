package util

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter paces watch-mode re-lint runs with a token bucket.
type Limiter struct {
	bucket *rate.Limiter
}

// NewLimiter allows perSecond runs with the given burst. perSecond <= 0
// means unbounded.
func NewLimiter(perSecond float64, burst int) *Limiter {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	return &Limiter{bucket: rate.NewLimiter(limit, max(burst, 1))}
}

func (l *Limiter) Allow() bool {
	return l.bucket.Allow()
}

// Wait takes one token, sleeping until it is available. It returns how
// long the caller was held back. A cancelled wait gives the token back.
func (l *Limiter) Wait(ctx context.Context) (time.Duration, error) {
	r := l.bucket.Reserve()
	delay := r.Delay()
	if delay == 0 {
		return 0, nil
	}

	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-t.C:
		return delay, nil
	case <-ctx.Done():
		r.Cancel()
		return 0, ctx.Err()
	}
}
