package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xtrace11/xtrace/internal/logger"
)

// Server is the optional HTTP server exposing /metrics and /healthz,
// mirroring the teacher's chi-based pkg/api/router.go middleware stack.
type Server struct {
	httpServer *http.Server
}

// NewServer builds a chi router serving Prometheus metrics at /metrics and
// a liveness probe at /healthz, bound to addr.
func NewServer(addr string, reg http.Handler) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", reg)

	return &Server{httpServer: &http.Server{Addr: addr, Handler: r}}
}

// NewServerForRegistry is a convenience constructor that wires promhttp's
// handler for reg directly.
func NewServerForRegistry(addr string, reg *prometheus.Registry) *Server {
	return NewServer(addr, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
}

// ListenAndServe starts the HTTP server and blocks until it stops or ctx
// is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.httpServer.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics: shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics: server error", "error", err)
			return err
		}
		return nil
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}
