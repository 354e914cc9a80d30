// Package health provides a simple HTTP health check endpoint.
//
// Docker and Kubernetes use these endpoints to monitor the daemon. Once the
// generation backend is loaded and the transports are started, /healthz and
// /readyz return 200 OK together with the active backend identifier.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"
)

// Status is the body returned by both endpoints.
type Status struct {
	Status  string `json:"status"`
	Backend string `json:"backend,omitempty"`
}

// Server is a lightweight HTTP server that exposes /healthz and /readyz.
type Server struct {
	port    int
	ready   atomic.Bool
	backend atomic.Value // string
	server  *http.Server
}

// New creates a new health check server.
func New(port int) *Server {
	return &Server{port: port}
}

// SetReady marks the daemon as ready to accept traffic.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// SetBackend records the active backend identifier reported in the body.
func (s *Server) SetBackend(id string) {
	s.backend.Store(id)
}

func (s *Server) status() (int, Status) {
	backend, _ := s.backend.Load().(string)
	if !s.ready.Load() {
		return http.StatusServiceUnavailable, Status{Status: "not_ready", Backend: backend}
	}
	return http.StatusOK, Status{Status: "ok", Backend: backend}
}

func (s *Server) serveStatus(w http.ResponseWriter, r *http.Request) {
	code, body := s.status()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// Handler returns the router serving both endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.serveStatus)
	mux.HandleFunc("GET /readyz", s.serveStatus)
	return mux
}

// ListenAndServe starts the health check HTTP server.
// It blocks until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("health server listening", "port", s.port)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("health server: %w", err)
	}
	return nil
}
