package ratelimit

import (
	"context"
	"time"
)

// Result describes one limiter decision.
type Result struct {
	Allowed bool

	// Limit is the bucket capacity.
	Limit int

	// Remaining is the number of whole tokens left after this request.
	Remaining int

	// RetryAfter is how long the caller should wait. Zero when allowed.
	RetryAfter time.Duration
}

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
}

// Config configures a Keyed limiter.
type Config struct {
	// RPS is the sustained rate per key.
	RPS float64 `env:"RATE_LIMIT_RPS" envDefault:"5"`

	// Burst is the bucket capacity per key.
	Burst int `env:"RATE_LIMIT_BURST" envDefault:"10"`

	// IdleTTL evicts the bucket of a key not seen for this long.
	IdleTTL time.Duration `env:"RATE_LIMIT_IDLE_TTL" envDefault:"10m"`
}
