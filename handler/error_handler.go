package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/EdmundsEcho/data-join-oauth/core"
	"github.com/EdmundsEcho/data-join-oauth/pkg/logger"
)

// ErrorHandlerConfig configures the default error handler
type ErrorHandlerConfig struct {
	// RetryURL returns where a browser should restart a flow whose session
	// state is gone. When nil or empty, the JSON error is rendered instead.
	RetryURL func(r *http.Request) string
}

// determineLogLevel maps HTTP status codes to appropriate log levels
func determineLogLevel(statusCode int) slog.Level {
	if statusCode < http.StatusInternalServerError {
		return slog.LevelWarn
	}
	return slog.LevelError
}

// prefersHTML reports whether the request comes from a browser navigation
// rather than an API client.
func prefersHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func logError(log *slog.Logger, r *http.Request, err error, kind core.Kind) {
	attrs := []slog.Attr{
		logger.Error(err),
		logger.Status(kind.Status()),
		slog.String("kind", kind.Key()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		logger.Component("error_handler"),
	}
	var ce *core.Error
	if errors.As(err, &ce) && ce.Provider != "" {
		attrs = append(attrs, logger.Provider(ce.Provider))
	}
	log.LogAttrs(r.Context(), determineLogLevel(kind.Status()), "request error", attrs...)
}

// NewErrorHandler logs the full cause server side, 4xx at Warn and 5xx at
// Error, and renders only the kind's {error, message} to the caller.
func NewErrorHandler(log *slog.Logger, cfg ErrorHandlerConfig) ErrorHandler {
	if log == nil {
		log = logger.Discard()
	}

	return func(ctx Context, err error) {
		r := ctx.Request()
		kind := core.KindOf(err)
		logError(log, r, err, kind)

		if kind.IsSessionState() && cfg.RetryURL != nil && prefersHTML(r) {
			if target := cfg.RetryURL(r); target != "" {
				http.Redirect(ctx.ResponseWriter(), r, target, http.StatusTemporaryRedirect)
				return
			}
		}
		writeError(ctx.ResponseWriter(), kind)
	}
}
