package logger

import (
	"log/slog"
	"strings"
	"time"
)

// Redacted replaces secret values in log output.
const Redacted = "[REDACTED]"

// sensitiveKeys are attribute keys whose values are always redacted, whatever
// the value type.
var sensitiveKeys = map[string]struct{}{
	"client_id":     {},
	"client_secret": {},
	"access_token":  {},
	"refresh_token": {},
	"code":          {},
	"code_verifier": {},
	"verifier":      {},
	"password":      {},
	"redis_url":     {},
}

func redactAttr(_ []string, a slog.Attr) slog.Attr {
	if _, ok := sensitiveKeys[strings.ToLower(a.Key)]; ok {
		return slog.String(a.Key, Redacted)
	}
	return a
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// RequestID records the request identifier under the key "request_id".
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Provider records the identity or drive provider.
func Provider(name string) slog.Attr {
	return slog.String("provider", name)
}

// Flow records which flow ("login" or "drive") a record belongs to.
func Flow(name string) slog.Attr {
	return slog.String("flow", name)
}

// ProjectID records the drive project.
func ProjectID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("project_id", id)
}

// Status records an HTTP status code.
func Status(code int) slog.Attr {
	return slog.Int("status", code)
}

// Generation records the settings generation serving a request.
func Generation(gen uint64) slog.Attr {
	return slog.Uint64("generation", gen)
}

// Duration records a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Secret records that a value exists without printing it.
func Secret(key, value string) slog.Attr {
	if value == "" {
		return slog.String(key, "")
	}
	return slog.String(key, Redacted)
}
