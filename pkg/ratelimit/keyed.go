package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Keyed is an in-process token bucket per key backed by x/time/rate.
// Idle buckets are swept lazily, at most once per IdleTTL.
type Keyed struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

// KeyedOption configures a Keyed limiter.
type KeyedOption func(*Keyed)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) KeyedOption {
	return func(k *Keyed) {
		if now != nil {
			k.now = now
		}
	}
}

// NewKeyed creates a Keyed limiter from cfg.
func NewKeyed(cfg Config, opts ...KeyedOption) (*Keyed, error) {
	if cfg.RPS <= 0 || math.IsInf(cfg.RPS, 0) || math.IsNaN(cfg.RPS) {
		return nil, ErrInvalidRate
	}
	if cfg.Burst <= 0 {
		return nil, ErrInvalidBurst
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}

	k := &Keyed{
		limit:   rate.Limit(cfg.RPS),
		burst:   cfg.Burst,
		idleTTL: cfg.IdleTTL,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
	for _, opt := range opts {
		opt(k)
	}
	k.lastSweep = k.now()
	return k, nil
}

// Allow consumes one token from key's bucket.
func (k *Keyed) Allow(_ context.Context, key string) (*Result, error) {
	now := k.now()

	k.mu.Lock()
	b, ok := k.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.buckets[key] = b
	}
	b.lastSeen = now
	k.sweep(now)
	k.mu.Unlock()

	res := &Result{Limit: k.burst}
	r := b.limiter.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		res.RetryAfter = delay
	} else {
		res.Allowed = true
	}
	res.Remaining = max(0, int(b.limiter.TokensAt(now)))
	return res, nil
}

// Len returns the number of tracked keys.
func (k *Keyed) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.buckets)
}

// sweep must be called with mu held.
func (k *Keyed) sweep(now time.Time) {
	if now.Sub(k.lastSweep) < k.idleTTL {
		return
	}
	for key, b := range k.buckets {
		if now.Sub(b.lastSeen) >= k.idleTTL {
			delete(k.buckets, key)
		}
	}
	k.lastSweep = now
}
