package oauth

import (
	"context"
	"log/slog"

	"github.com/EdmundsEcho/data-join-oauth/pkg/httpserver"
	"github.com/EdmundsEcho/data-join-oauth/pkg/ratelimit"
)

// Option configures a Module.
type Option func(*Module)

// WithLogger sets the logger used for access and error logs.
func WithLogger(l *slog.Logger) Option {
	return func(m *Module) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithReload mounts POST /reload, which runs fn and answers 204. Only the
// development environment should pass it.
func WithReload(fn func(context.Context) error) Option {
	return func(m *Module) {
		m.reload = fn
	}
}

// WithReadiness sets the checks served by /readyz.
func WithReadiness(checks ...httpserver.Check) Option {
	return func(m *Module) {
		m.readiness = append(m.readiness, checks...)
	}
}

// WithKickoffLimiter throttles the flow kick-off routes per client address.
// A nil limiter disables throttling.
func WithKickoffLimiter(l ratelimit.Limiter) Option {
	return func(m *Module) {
		m.limiter = l
	}
}
