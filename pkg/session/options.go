package session

import (
	"log/slog"
	"time"

	"github.com/EdmundsEcho/data-join-oauth/pkg/cookie"
)

// Option configures a Broker.
type Option func(*Broker)

// WithStore sets the record store.
func WithStore(store Store) Option {
	return func(b *Broker) {
		b.store = store
	}
}

// WithConfig replaces the configuration.
func WithConfig(cfg Config) Option {
	return func(b *Broker) {
		b.config = cfg
	}
}

// WithCookieName sets the session cookie name.
func WithCookieName(name string) Option {
	return func(b *Broker) {
		if name != "" {
			b.config.CookieName = name
		}
	}
}

// WithTTL sets the record and cookie lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(b *Broker) {
		if ttl > 0 {
			b.config.TTL = ttl
		}
	}
}

// WithCookieManager sets the cookie manager. Without one the broker uses an
// unsigned manager with default attributes.
func WithCookieManager(m *cookie.Manager) Option {
	return func(b *Broker) {
		b.cookies = m
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Broker) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithClock overrides time.Now for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Broker) {
		b.now = now
	}
}
