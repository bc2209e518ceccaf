package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shahar-caura/lifeline/internal/archive"
	"github.com/shahar-caura/lifeline/internal/guidance"
	"github.com/shahar-caura/lifeline/internal/session"
	"github.com/shahar-caura/lifeline/internal/triage"
)

// maxBodyBytes bounds request bodies; start requests may carry a base64 image.
const maxBodyBytes = 16 << 20

// History lists archived incidents.
type History interface {
	Recent(ctx context.Context, sessionID string, limit int) ([]archive.Entry, error)
}

// Handlers serves the JSON API.
type Handlers struct {
	Sessions  *session.Manager
	History   History // optional
	Version   string
	StartTime time.Time
	Logger    *slog.Logger
}

// Register mounts every API route on mux under /api.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", h.getHealth)
	mux.HandleFunc("GET /api/disclaimer", h.getDisclaimer)
	mux.HandleFunc("POST /api/classify", h.classify)
	mux.HandleFunc("GET /api/guidance", h.listGuidance)
	mux.HandleFunc("GET /api/guidance/{type}", h.getGuidance)
	mux.HandleFunc("GET /api/presets", h.listPresets)
	mux.HandleFunc("GET /api/archive", h.listArchive)

	mux.HandleFunc("GET /api/sessions", h.listSessions)
	mux.HandleFunc("POST /api/sessions", h.createSession)
	mux.HandleFunc("GET /api/sessions/{id}", h.getSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", h.deleteSession)
	mux.HandleFunc("POST /api/sessions/{id}/start", h.startIncident)
	mux.HandleFunc("POST /api/sessions/{id}/advance", h.viewOp(h.Sessions.Advance))
	mux.HandleFunc("POST /api/sessions/{id}/retreat", h.viewOp(h.Sessions.Retreat))
	mux.HandleFunc("POST /api/sessions/{id}/toggle-summary", h.viewOp(h.Sessions.ToggleSummary))
	mux.HandleFunc("POST /api/sessions/{id}/reset", h.viewOp(h.Sessions.Reset))
	mux.HandleFunc("POST /api/sessions/{id}/actions", h.logAction)
	mux.HandleFunc("PUT /api/sessions/{id}/notes", h.setNotes)
	mux.HandleFunc("GET /api/sessions/{id}/summary", h.getSummary)
	mux.HandleFunc("POST /api/sessions/{id}/export", h.exportSummary)
	mux.HandleFunc("POST /api/sessions/{id}/speak", h.speak)
	mux.HandleFunc("GET /api/sessions/{id}/ws", h.sessionWS)
}

type healthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int    `json:"uptime_seconds"`
}

func (h *Handlers) getHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        "ok",
		Version:       h.Version,
		UptimeSeconds: int(time.Since(h.StartTime).Seconds()),
	})
}

func (h *Handlers) getDisclaimer(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"disclaimer": guidance.Disclaimer})
}

type classifyRequest struct {
	Description string `json:"description"`
	HasImage    bool   `json:"has_image"`
}

type classifyResponse struct {
	Classification triage.Classification `json:"classification"`
	Banner         triage.Banner         `json:"banner"`
	Reminder       string                `json:"reminder,omitempty"`
	Steps          []guidance.Step       `json:"steps"`
}

func (h *Handlers) classify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c := triage.Classify(req.Description, req.HasImage)
	resp := classifyResponse{
		Classification: c,
		Banner:         c.Severity.Banner(),
		Steps:          guidance.StepsFor(c.Type),
	}
	if c.Severity == triage.Critical {
		resp.Reminder = guidance.CallNow
	}
	writeJSON(w, http.StatusOK, resp)
}

type guidanceResponse struct {
	Type    triage.EmergencyType `json:"type"`
	Display string               `json:"display"`
	Steps   []guidance.Step      `json:"steps"`
}

func (h *Handlers) listGuidance(w http.ResponseWriter, _ *http.Request) {
	types := guidance.Types()
	out := make([]guidanceResponse, len(types))
	for i, t := range types {
		out[i] = guidanceResponse{Type: t, Display: t.Display(), Steps: guidance.StepsFor(t)}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) getGuidance(w http.ResponseWriter, r *http.Request) {
	t, ok := triage.ParseType(r.PathValue("type"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown emergency type")
		return
	}
	writeJSON(w, http.StatusOK, guidanceResponse{Type: t, Display: t.Display(), Steps: guidance.StepsFor(t)})
}

func (h *Handlers) listPresets(w http.ResponseWriter, _ *http.Request) {
	out := make(map[string]string)
	for _, name := range guidance.PresetNames() {
		out[name], _ = guidance.Preset(name)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) listArchive(w http.ResponseWriter, r *http.Request) {
	if h.History == nil {
		writeError(w, http.StatusNotImplemented, "archive not configured")
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, `"limit" must be a positive integer`)
			return
		}
		limit = n
	}
	entries, err := h.History.Recent(r.Context(), r.URL.Query().Get("session"), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if entries == nil {
		entries = []archive.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handlers) listSessions(w http.ResponseWriter, r *http.Request) {
	views, err := h.Sessions.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if views == nil {
		views = []session.View{}
	}
	writeJSON(w, http.StatusOK, views)
}

type createRequest struct {
	ID string `json:"id"`
}

func (h *Handlers) createSession(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	v, err := h.Sessions.Create(r.Context(), req.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *Handlers) getSession(w http.ResponseWriter, r *http.Request) {
	h.viewOp(h.Sessions.Get)(w, r)
}

func (h *Handlers) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type startRequest struct {
	Description string `json:"description"`
	Image       []byte `json:"image,omitempty"` // base64 in JSON
	Preset      string `json:"preset,omitempty"`
}

func (h *Handlers) startIncident(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Preset != "" {
		desc, ok := guidance.Preset(req.Preset)
		if !ok {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown preset %q", req.Preset))
			return
		}
		req.Description = desc
	}
	v, err := h.Sessions.Start(r.Context(), r.PathValue("id"), req.Description, req.Image)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// viewOp adapts a session operation that returns a View to a handler.
func (h *Handlers) viewOp(op func(context.Context, string) (session.View, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := op(r.Context(), r.PathValue("id"))
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

type actionRequest struct {
	Step int    `json:"step"`
	Text string `json:"text"`
}

func (h *Handlers) logAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	v, err := h.Sessions.LogAction(r.Context(), r.PathValue("id"), req.Step, req.Text)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

type notesRequest struct {
	Notes string `json:"notes"`
}

func (h *Handlers) setNotes(w http.ResponseWriter, r *http.Request) {
	var req notesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	v, err := h.Sessions.SetNotes(r.Context(), r.PathValue("id"), req.Notes)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handlers) getSummary(w http.ResponseWriter, r *http.Request) {
	text, err := h.Sessions.Summary(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

func (h *Handlers) exportSummary(w http.ResponseWriter, r *http.Request) {
	out, err := h.Sessions.Export(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type speakRequest struct {
	Target string `json:"target"`
}

func (h *Handlers) speak(w http.ResponseWriter, r *http.Request) {
	var req speakRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	if err := h.Sessions.Speak(r.Context(), r.PathValue("id"), req.Target); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// statusFor maps session errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrNoIncident):
		return http.StatusConflict
	case errors.Is(err, session.ErrInvalidID), errors.Is(err, session.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrUnavailable):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		h.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, code, "internal error")
		return
	}
	writeError(w, code, err.Error())
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Code: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}
