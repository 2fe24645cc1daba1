package main

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/cashier/pkg/cashier"
	"github.com/dmitrymomot/cashier/pkg/httpserver"
	"github.com/dmitrymomot/cashier/pkg/logger"
)

func newRouter(log *slog.Logger, cfg cashier.Config, rec *cashier.Reconciler, checks map[string]httpserver.Check, adminToken string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, requestLogContext, middleware.Recoverer)

	r.Get("/healthz", httpserver.Liveness())
	r.Get("/readyz", httpserver.Readiness(log, checks))
	r.Mount(cfg.WebhookPath, cashier.Routes(rec, cfg.WebhookSecret))

	// Failed-event administration is only exposed with a token.
	if adminToken != "" {
		r.Mount("/admin/failed-events", bearerAuth(adminToken)(cashier.AdminRoutes(rec)))
	}
	return r
}

func requestLogContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logger.WithAttrs(r.Context(), logger.RequestID(middleware.GetReqID(r.Context())))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
