package mailer

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

const DefaultRatePerSecond = 2.0

// RateLimiter paces outbound provider calls.
type RateLimiter struct {
	mu      sync.RWMutex
	limiter *rate.Limiter
	perSec  float64
}

func NewRateLimiter(perSecond float64) *RateLimiter {
	rl := &RateLimiter{}
	rl.SetLimit(perSecond)
	return rl
}

// SetLimit replaces the pace; values <= 0 fall back to DefaultRatePerSecond.
func (r *RateLimiter) SetLimit(perSecond float64) {
	if perSecond <= 0 {
		perSecond = DefaultRatePerSecond
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	r.mu.Lock()
	r.perSec = perSecond
	r.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	r.mu.Unlock()
}

func (r *RateLimiter) GetLimit() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.perSec
}

func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.RLock()
	limiter := r.limiter
	r.mu.RUnlock()
	return limiter.Wait(ctx)
}
