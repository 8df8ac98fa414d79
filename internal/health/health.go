// Package health serves the liveness and readiness probes of the bot process.
package health

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// Checker reports whether a dependency can serve requests.
type Checker interface {
	Check(ctx context.Context) error
}

// CheckerFunc adapts a function to Checker
type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Check(ctx context.Context) error { return f(ctx) }

// RedisCheck pings the document store.
func RedisCheck(client redis.UniversalClient) Checker {
	return CheckerFunc(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
}

// Server answers GET /healthz and GET /readyz.
type Server struct {
	addr    string
	checks  map[string]Checker
	timeout time.Duration
	srv     *http.Server
}

// Config holds the configuration
type Config struct {
	Addr string // Required

	// Checks run on every /readyz request, keyed by dependency name
	Checks map[string]Checker

	// CheckTimeout bounds each readiness check, 2s if zero
	CheckTimeout time.Duration
}

// New creates a health server. It does not listen until Start.
func New(cfg *Config) (*Server, error) {
	if cfg == nil || cfg.Addr == "" {
		return nil, fmt.Errorf("health address is required")
	}
	s := &Server{
		addr:    cfg.Addr,
		checks:  cfg.Checks,
		timeout: cfg.CheckTimeout,
	}
	if s.timeout <= 0 {
		s.timeout = 2 * time.Second
	}

	s.srv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}

// Handler returns the probe routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /readyz", s.ready)
	return mux
}

func (s *Server) ready(rw http.ResponseWriter, r *http.Request) {
	var failed []error
	for name, check := range s.checks {
		ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
		err := check.Check(ctx)
		cancel()
		if err != nil {
			failed = append(failed, fmt.Errorf("%s: %w", name, err))
		}
	}

	if err := errors.Join(failed...); err != nil {
		log.Printf("[Health] Not ready: %v", err)
		http.Error(rw, err.Error(), http.StatusServiceUnavailable)
		return
	}
	rw.WriteHeader(http.StatusOK)
	_, _ = rw.Write([]byte("ready"))
}

// Start listens in the background. Listener errors are logged.
func (s *Server) Start() {
	go func() {
		log.Printf("[Health] Listening on %s", s.addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[Health] Listener stopped: %v", err)
		}
	}()
}

// Shutdown stops the listener
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
