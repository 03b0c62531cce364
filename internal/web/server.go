// Package web implements the keep-alive HTTP server that runs alongside the
// Discord bot. Hosting platforms that expect a web service probe it to keep
// the process alive; it also exposes a small status and usage API.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"stampbot/internal/usage"
)

// aliveBody is the fixed body served on the root path.
const aliveBody = "Discord Bot is alive and running."

// Server is the keep-alive HTTP server.
type Server struct {
	server    *http.Server
	logger    *zap.Logger
	ready     func() bool
	usagePath string
	started   time.Time
}

// NewServer creates the keep-alive server. ready reports whether the Discord
// session has reached its ready state; usagePath points at the usage log
// (empty disables /api/usage content).
func NewServer(addr string, ready func() bool, usagePath string, logger *zap.Logger) *Server {
	s := &Server{
		logger:    logger,
		ready:     ready,
		usagePath: usagePath,
		started:   time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/usage", s.handleUsage)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// ListenAndServe starts serving. It returns http.ErrServerClosed after a
// graceful Shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("keep-alive web server listening", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server, bounded by ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(aliveBody))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status := map[string]interface{}{
		"status":         "running",
		"bot_ready":      s.ready(),
		"uptime_seconds": time.Since(s.started).Seconds(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	entries, err := usage.ReadLog(s.usagePath)
	if err != nil {
		s.logger.Error("read usage log", zap.Error(err))
		http.Error(w, "Failed to read usage log", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []usage.Entry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}
