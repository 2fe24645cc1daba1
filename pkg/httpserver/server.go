package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrymomot/cashier/pkg/logger"
)

// Server runs an http.Server until its context is cancelled, then drains
// in-flight requests within the shutdown timeout.
type Server struct {
	cfg     Config
	log     *slog.Logger
	mu      sync.Mutex
	srv     *http.Server
	started chan struct{}
	addr    net.Addr
}

// Option configures a Server.
type Option func(*Server)

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

func New(cfg Config, opts ...Option) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	s := &Server{
		cfg:     cfg,
		log:     slog.New(slog.DiscardHandler),
		started: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Started is closed once the listener is bound.
func (s *Server) Started() <-chan struct{} { return s.started }

// Addr returns the bound address, or nil before Started is closed.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Run serves handler and blocks until ctx is done or the listener fails.
// A graceful stop returns nil.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	s.mu.Lock()
	if s.srv != nil {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(s.log.Handler(), slog.LevelWarn),
		BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}
	s.srv = srv
	s.mu.Unlock()

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return errors.Join(ErrStart, err)
	}

	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()
	close(s.started)
	s.log.InfoContext(ctx, "http server started", slog.String("addr", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return errors.Join(ErrStart, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()

	start := time.Now()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.ErrorContext(ctx, "http server shutdown failed", logger.Error(err))
		return errors.Join(ErrShutdown, err)
	}
	s.log.InfoContext(ctx, "http server stopped", logger.Duration(time.Since(start)))
	return nil
}
