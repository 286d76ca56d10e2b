// Package server exposes the tile compositing service over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/tilestack-labs/tilestack/internal/composite"
)

// Server is the tile HTTP server.
type Server struct {
	svc    *composite.Service
	port   int
	logger *slog.Logger
}

// Config holds configuration for the HTTP server.
type Config struct {
	Service *composite.Service
	Port    int
	Logger  *slog.Logger
}

// New creates a new server instance.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		svc:    cfg.Service,
		port:   cfg.Port,
		logger: logger,
	}
}

// Handler returns the server's routed HTTP handler. Exposed so tests can
// drive it through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)
	r.Get("/rgba/*", s.handleRGBATile)
	return r
}

// Serve starts the HTTP server and blocks until the context is cancelled or
// the listener fails.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting tile server", "addr", addr)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down tile server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
