package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/cashier/pkg/logger"
)

// Check probes one dependency.
type Check func(ctx context.Context) error

// Liveness always answers 200 ALIVE.
func Liveness() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ALIVE"))
	}
}

// Readiness runs every check with the request context and answers 200 READY,
// or 503 NOT_READY after logging the first failing dependency.
func Readiness(log *slog.Logger, checks map[string]Check) http.HandlerFunc {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness check failed",
					logger.Component(name), logger.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("NOT_READY"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	}
}
