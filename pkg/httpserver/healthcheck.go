package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/EdmundsEcho/data-join-oauth/pkg/logger"
)

// Check is a named readiness dependency.
type Check struct {
	Name  string
	Probe func(context.Context) error
}

// Livez reports that the process is serving.
func Livez() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeProbe(w, http.StatusOK, "ok")
	}
}

// Readyz runs every check against the request context. The first failure
// answers 503 with the failing check's name; details are only logged.
func Readyz(log *slog.Logger, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		for _, c := range checks {
			if err := c.Probe(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness check failed",
					slog.String("check", c.Name), logger.Error(err))
				writeProbe(w, http.StatusServiceUnavailable, "not ready: "+c.Name)
				return
			}
		}
		writeProbe(w, http.StatusOK, "ready")
	}
}

func writeProbe(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
