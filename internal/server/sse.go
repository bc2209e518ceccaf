package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/shahar-caura/lifeline/internal/session"
)

// ViewLoader returns the current view of a session.
type ViewLoader func(ctx context.Context, id string) (session.View, error)

// sessionEvent is the SSE payload for one session change.
type sessionEvent struct {
	Type    string        `json:"type"` // "session" or "deleted"
	ID      string        `json:"id"`
	Session *session.View `json:"session,omitempty"`
}

// SSEHub fans out session change events to connected SSE clients. Changes
// are observed on disk, so writes from the CLI show up on the dashboard.
type SSEHub struct {
	dir    string
	load   ViewLoader
	logger *slog.Logger

	mu      sync.Mutex
	clients map[chan []byte]struct{}
}

// NewSSEHub creates an SSEHub watching the given sessions directory.
func NewSSEHub(dir string, load ViewLoader, logger *slog.Logger) *SSEHub {
	return &SSEHub{
		dir:     dir,
		load:    load,
		logger:  logger,
		clients: make(map[chan []byte]struct{}),
	}
}

// Start watches the sessions directory and broadcasts events. Blocks until ctx is cancelled.
func (h *SSEHub) Start(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		h.logger.Error("sse: failed to create watcher", "error", err)
		return
	}
	defer func() { _ = watcher.Close() }()

	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		h.logger.Error("sse: failed to create sessions dir", "error", err)
		return
	}

	if err := watcher.Add(h.dir); err != nil {
		h.logger.Error("sse: failed to watch sessions dir", "error", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			h.handle(ctx, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error("sse: watcher error", "error", err)
		}
	}
}

func (h *SSEHub) handle(ctx context.Context, event fsnotify.Event) {
	name := filepath.Base(event.Name)
	if !strings.HasSuffix(name, ".yaml") {
		return // includes .yaml.tmp
	}
	id := strings.TrimSuffix(name, ".yaml")

	var ev sessionEvent
	switch {
	case event.Op&fsnotify.Remove != 0:
		ev = sessionEvent{Type: "deleted", ID: id}
	case event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0:
		v, err := h.load(ctx, id)
		if err != nil {
			return // transient read during atomic write, or renamed away
		}
		ev = sessionEvent{Type: "session", ID: id, Session: &v}
	default:
		return
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	h.broadcast(data)
}

func (h *SSEHub) broadcast(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- data:
		default:
			// Slow client; drop this event.
		}
	}
}

func (h *SSEHub) addClient(ch chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[ch] = struct{}{}
}

func (h *SSEHub) removeClient(ch chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, ch)
	close(ch)
}

// ServeHTTP implements http.Handler for SSE connections.
func (h *SSEHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan []byte, 32)
	h.addClient(ch)
	defer h.removeClient(ch)

	keepalive := time.NewTicker(20 * time.Second)
	defer keepalive.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-keepalive.C:
			_, _ = fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		case data := <-ch:
			_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}
