// Package health provides HTTP and gRPC health check endpoints.
//
// Docker, Kubernetes and systemd watchdogs use these endpoints to monitor
// the daemon's liveness. Once the reminders are loaded and the scheduler is
// running, /healthz returns 200 OK and the gRPC health service reports
// SERVING.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Service is the gRPC service name reported alongside the overall status.
const Service = "chime.Reminders"

// Server exposes /healthz and /readyz over HTTP and, optionally, the
// standard grpc.health.v1 service.
type Server struct {
	port     int
	grpcPort int
	ready    atomic.Bool
	server   *http.Server
	grpc     *grpchealth.Server
}

// New creates a new health check server. A grpcPort of 0 disables the gRPC
// health service.
func New(port, grpcPort int) *Server {
	s := &Server{port: port, grpcPort: grpcPort, grpc: grpchealth.NewServer()}
	s.SetReady(false)
	return s
}

// SetReady marks the daemon as ready to accept traffic.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)

	status := healthpb.HealthCheckResponse_NOT_SERVING
	if ready {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.grpc.SetServingStatus("", status)
	s.grpc.SetServingStatus(Service, status)
}

// Handler returns the HTTP handler serving the health endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleStatus)
	mux.HandleFunc("GET /readyz", s.handleStatus)
	return mux
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if !s.ready.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "not_ready"})
		return
	}
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
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

// ListenAndServeGRPC starts the gRPC health service if a port is configured.
// It blocks until the context is cancelled.
func (s *Server) ListenAndServeGRPC(ctx context.Context) error {
	if s.grpcPort == 0 {
		return nil
	}
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.grpcPort))
	if err != nil {
		return fmt.Errorf("grpc health listen: %w", err)
	}
	slog.Info("grpc health server listening", "port", s.grpcPort)
	return s.serveGRPC(ctx, lis)
}

func (s *Server) serveGRPC(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, s.grpc)

	go func() {
		<-ctx.Done()
		s.grpc.Shutdown()
		srv.GracefulStop()
	}()

	if err := srv.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return fmt.Errorf("grpc health server: %w", err)
	}
	return nil
}
