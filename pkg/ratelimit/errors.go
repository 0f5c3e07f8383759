package ratelimit

import "errors"

var (
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrInvalidRate       = errors.New("invalid rate")
	ErrInvalidBurst      = errors.New("invalid burst")
)
