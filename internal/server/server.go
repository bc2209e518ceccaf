// Package server exposes sessions over HTTP: a JSON API, a websocket per
// session, an SSE feed of session changes, and the embedded dashboard.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/shahar-caura/lifeline/internal/session"
	"github.com/shahar-caura/lifeline/web"
)

// Server is the lifeline dashboard HTTP server.
type Server struct {
	port        int
	sessionsDir string
	version     string
	startTime   time.Time
	sessions    *session.Manager
	history     History
	sseHub      *SSEHub
	logger      *slog.Logger
}

// New creates a Server for the given session manager. sessionsDir is watched
// for changes made outside this process.
func New(port int, sessions *session.Manager, sessionsDir, version string, logger *slog.Logger) *Server {
	s := &Server{
		port:        port,
		sessionsDir: sessionsDir,
		version:     version,
		startTime:   time.Now(),
		sessions:    sessions,
		logger:      logger,
	}
	s.sseHub = NewSSEHub(sessionsDir, sessions.Get, logger)
	return s
}

// SetHistory enables GET /api/archive.
func (s *Server) SetHistory(h History) { s.history = h }

// Handler builds the full route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	h := &Handlers{
		Sessions:  s.sessions,
		History:   s.history,
		Version:   s.version,
		StartTime: s.startTime,
		Logger:    s.logger,
	}
	h.Register(mux)

	mux.Handle("GET /api/events", s.sseHub)

	// SPA catch-all: serves embedded static files, falls back to index.html.
	mux.Handle("/", SPAHandler(web.DistFS))
	return mux
}

// Run starts the HTTP server and blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sseHub.Start(ctx)

	// Start listener so we can log the actual port.
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	s.logger.Info("dashboard server started", "addr", ln.Addr().String())

	// Graceful shutdown on context cancellation.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
