package session

import "time"

// Config holds flow session configuration.
type Config struct {
	// CookieName is the name of the session cookie.
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"auth_session"`

	// TTL bounds how long a user may take at the provider.
	TTL time.Duration `env:"SESSION_TTL" envDefault:"10m"`

	// Store selects the backend: "redis" or "memory".
	Store string `env:"SESSION_STORE" envDefault:"redis"`

	// CleanupInterval for the memory store (0 to disable).
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"1m"`

	// SecureCookies sets the Secure flag on the session cookie.
	SecureCookies bool `env:"SESSION_SECURE_COOKIES" envDefault:"false"`
}

// DefaultConfig returns the default flow session configuration.
func DefaultConfig() Config {
	return Config{
		CookieName:      "auth_session",
		TTL:             10 * time.Minute,
		Store:           "redis",
		CleanupInterval: time.Minute,
	}
}
