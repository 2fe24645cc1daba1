package webhook

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
)

// DefaultMaxBodySize bounds the body read by Middleware.
const DefaultMaxBodySize int64 = 1 << 20

type middlewareConfig struct {
	maxBodySize int64
	logger      *slog.Logger
}

// MiddlewareOption configures Middleware.
type MiddlewareOption func(*middlewareConfig)

// WithMaxBodySize overrides DefaultMaxBodySize. Non-positive values are ignored.
func WithMaxBodySize(n int64) MiddlewareOption {
	return func(c *middlewareConfig) {
		if n > 0 {
			c.maxBodySize = n
		}
	}
}

// WithLogger reports rejected deliveries to l.
func WithLogger(l *slog.Logger) MiddlewareOption {
	return func(c *middlewareConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Middleware rejects requests whose body does not match SignatureHeader with
// 403 Forbidden. The verified body is restored on the request so the next
// handler can read it. With an empty secret the middleware is a passthrough.
func Middleware(secret string, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{
		maxBodySize: DefaultMaxBodySize,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(io.LimitReader(r.Body, cfg.maxBodySize+1))
			if err != nil {
				http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
				return
			}
			if int64(len(body)) > cfg.maxBodySize {
				cfg.logger.WarnContext(r.Context(), "webhook rejected", "error", ErrPayloadTooLarge)
				http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
				return
			}

			if err := Verify(secret, body, r.Header.Get(SignatureHeader)); err != nil {
				level := slog.LevelWarn
				if errors.Is(err, ErrMissingSignature) {
					level = slog.LevelInfo
				}
				cfg.logger.Log(r.Context(), level, "webhook rejected", "error", err, "remote_addr", r.RemoteAddr)
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}
