// Package health provides a lightweight HTTP server for container health checks.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const checkTimeout = 3 * time.Second

// CheckFunc reports whether a dependency is reachable
type CheckFunc func(ctx context.Context) error

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp,omitempty"`
	Version   string `json:"version,omitempty"`
	Commit    string `json:"commit,omitempty"`
}

// ReadyResponse represents the JSON response for readiness check endpoints.
type ReadyResponse struct {
	Status   string            `json:"status"`
	Service  string            `json:"service"`
	Checks   map[string]string `json:"checks,omitempty"`
	Duration string            `json:"duration,omitempty"`
}

// Server is a lightweight HTTP server for health check endpoints.
type Server struct {
	serviceName string
	version     string
	commit      string
	port        string
	server      *http.Server
	handler     http.Handler
	logger      *logrus.Entry
	checks      map[string]CheckFunc
	mu          sync.RWMutex
	ready       bool
}

// Config holds the configuration for the health server.
type Config struct {
	ServiceName string
	Version     string
	Commit      string
	Port        string
	Logger      *logrus.Logger

	// Checks run on /ready, keyed by dependency name
	Checks         map[string]CheckFunc
	MetricsPath    string
	MetricsHandler http.Handler
}

// NewServer creates a new health check server.
func NewServer(cfg Config) *Server {
	port := cfg.Port
	if port == "" {
		port = os.Getenv("HEALTH_PORT")
	}
	if port == "" {
		port = "8080"
	}

	baseLogger := cfg.Logger
	if baseLogger == nil {
		baseLogger = logrus.New()
		baseLogger.SetOutput(io.Discard)
	}

	s := &Server{
		serviceName: cfg.ServiceName,
		version:     cfg.Version,
		commit:      cfg.Commit,
		port:        port,
		logger:      baseLogger.WithField("component", "health"),
		checks:      make(map[string]CheckFunc, len(cfg.Checks)),
	}
	for name, check := range cfg.Checks {
		if check != nil {
			s.checks[name] = check
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.HandleFunc("/live", s.handleLive)
	if cfg.MetricsHandler != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		mux.Handle(path, cfg.MetricsHandler)
	}
	s.handler = mux

	return s
}

// Handler returns the server's routes
func (s *Server) Handler() http.Handler {
	return s.handler
}

// SetReady marks the server as ready to accept traffic.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// IsReady returns whether the server is ready.
func (s *Server) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Start starts the health check server in the background.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         ":" + s.port,
		Handler:      s.handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.WithFields(logrus.Fields{
			"port":    s.port,
			"service": s.serviceName,
		}).Info("Health check server starting")

		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithError(err).Error("Health check server error")
		}
	}()

	go func() {
		<-ctx.Done()
		if err := s.Shutdown(); err != nil {
			s.logger.WithError(err).Warn("Health check server shutdown failed")
		}
	}()

	return nil
}

// Shutdown gracefully shuts down the health check server.
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}

	s.logger.Info("Health check server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

// handleHealth handles the /health endpoint - basic liveness check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Service:   s.serviceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   s.version,
		Commit:    s.commit,
	})
}

// handleLive handles the /live endpoint - kubernetes liveness probe.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: s.serviceName,
	})
}

// handleReady handles the /ready endpoint - runs every dependency check.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	checks := make(map[string]string, len(s.checks)+1)
	allHealthy := true

	if !s.IsReady() {
		allHealthy = false
		checks["service"] = "not_ready"
	} else {
		checks["service"] = "ok"
	}

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		err := s.checks[name](ctx)
		cancel()

		if err != nil {
			allHealthy = false
			checks[name] = fmt.Sprintf("error: %v", err)
			continue
		}
		checks[name] = "ok"
	}

	response := ReadyResponse{
		Service:  s.serviceName,
		Checks:   checks,
		Duration: time.Since(start).String(),
	}

	status := http.StatusOK
	response.Status = "ok"
	if !allHealthy {
		status = http.StatusServiceUnavailable
		response.Status = "not_ready"
	}

	writeJSON(w, status, response)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
