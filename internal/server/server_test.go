package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shahar-caura/lifeline/internal/archive"
	"github.com/shahar-caura/lifeline/internal/clock"
	"github.com/shahar-caura/lifeline/internal/export"
	"github.com/shahar-caura/lifeline/internal/guidance"
	"github.com/shahar-caura/lifeline/internal/server"
	"github.com/shahar-caura/lifeline/internal/session"
	"github.com/shahar-caura/lifeline/internal/state"
	"github.com/shahar-caura/lifeline/internal/triage"
)

var t0 = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupSessions points the state package at a temp dir and returns it.
func setupSessions(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "sessions")
	state.SetSessionsDir(dir)
	t.Cleanup(func() { state.SetSessionsDir(state.DefaultSessionsDir) })
	return dir
}

func newTestServer(t *testing.T, opts ...session.Option) (*server.Server, *session.Manager) {
	t.Helper()
	dir := setupSessions(t)
	base := []session.Option{session.WithClock(clock.Fixed{T: t0}), session.WithLogger(testLogger())}
	m := session.NewManager(append(base, opts...)...)
	return server.New(0, m, dir, "test-v0.1.0", testLogger()), m
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(t, err)
			r = bytes.NewReader(data)
		}
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) session.View {
	t.Helper()
	var v session.View
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestGetHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv.Handler(), http.MethodGet, "/api/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "test-v0.1.0", resp.Version)
}

func TestGetDisclaimer(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv.Handler(), http.MethodGet, "/api/disclaimer", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, guidance.Disclaimer, resp["disclaimer"])
}

func TestClassify(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	tests := []struct {
		desc     string
		severity triage.Severity
		typ      triage.EmergencyType
		reminder bool
	}{
		{"Person collapsed and is not breathing", triage.Critical, triage.CardiacArrest, true},
		{"small burn on finger", triage.Monitor, triage.Burns, false},
		{"hi", triage.Urgent, triage.GeneralEmergency, false},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/classify", map[string]any{"description": tt.desc})
			require.Equal(t, http.StatusOK, rec.Code)

			var resp struct {
				Classification triage.Classification `json:"classification"`
				Banner         triage.Banner         `json:"banner"`
				Reminder       string                `json:"reminder"`
				Steps          []guidance.Step       `json:"steps"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.severity, resp.Classification.Severity)
			assert.Equal(t, tt.typ, resp.Classification.Type)
			assert.Equal(t, tt.severity.Banner(), resp.Banner)
			assert.Equal(t, tt.reminder, resp.Reminder != "")
			assert.NotEmpty(t, resp.Steps)
		})
	}
}

func TestClassify_BadJSON(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv.Handler(), http.MethodPost, "/api/classify", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGuidance(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := do(t, h, http.MethodGet, "/api/guidance/choking", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Type    triage.EmergencyType `json:"type"`
		Display string               `json:"display"`
		Steps   []guidance.Step      `json:"steps"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, triage.Choking, resp.Type)
	assert.Equal(t, "Choking", resp.Display)
	assert.Len(t, resp.Steps, 5)

	rec = do(t, h, http.MethodGet, "/api/guidance/zombie_bite", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/guidance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var all []json.RawMessage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&all))
	assert.Len(t, all, len(guidance.Types()))
}

func TestPresets(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv.Handler(), http.MethodGet, "/api/presets", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp, "cardiac-arrest")
}

func TestSessionLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := do(t, h, http.MethodPost, "/api/sessions", map[string]string{"id": "kitchen"})
	require.Equal(t, http.StatusCreated, rec.Code)
	v := decodeView(t, rec)
	assert.Equal(t, "kitchen", v.ID)
	assert.Equal(t, state.StatusIdle, v.Status)

	rec = do(t, h, http.MethodPost, "/api/sessions/kitchen/advance", nil)
	assert.Equal(t, http.StatusConflict, rec.Code, "no incident yet")

	rec = do(t, h, http.MethodPost, "/api/sessions/kitchen/start", map[string]string{"description": "Person is choking badly and can't breathe"})
	require.Equal(t, http.StatusOK, rec.Code)
	v = decodeView(t, rec)
	assert.Equal(t, triage.Critical, v.Classification.Severity)
	assert.Equal(t, guidance.CallNow, v.Reminder)

	rec = do(t, h, http.MethodPost, "/api/sessions/kitchen/advance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	v = decodeView(t, rec)
	assert.Equal(t, 1, v.CurrentIndex)
	assert.Equal(t, []string{"Assess the Situation"}, v.CompletedSteps)

	rec = do(t, h, http.MethodPost, "/api/sessions/kitchen/actions", map[string]any{"step": 1, "text": "Asked if choking"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Step 1: Asked if choking"}, decodeView(t, rec).Actions)

	rec = do(t, h, http.MethodPut, "/api/sessions/kitchen/notes", map[string]string{"notes": "Patient is 60"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Patient is 60", decodeView(t, rec).Notes)

	rec = do(t, h, http.MethodPost, "/api/sessions/kitchen/toggle-summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeView(t, rec).ViewingSummary)

	rec = do(t, h, http.MethodGet, "/api/sessions/kitchen/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), "Step 1: Asked if choking")
	assert.Contains(t, rec.Body.String(), "Patient is 60")

	rec = do(t, h, http.MethodPost, "/api/sessions/kitchen/retreat", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decodeView(t, rec).CurrentIndex)

	rec = do(t, h, http.MethodGet, "/api/sessions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []session.View
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.Len(t, list, 1)

	rec = do(t, h, http.MethodPost, "/api/sessions/kitchen/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, state.StatusIdle, decodeView(t, rec).Status)

	rec = do(t, h, http.MethodDelete, "/api/sessions/kitchen", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/sessions/kitchen", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStart_Preset(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := do(t, h, http.MethodPost, "/api/sessions/p1/start", map[string]string{"preset": "severe bleeding"})
	require.Equal(t, http.StatusOK, rec.Code)
	v := decodeView(t, rec)
	assert.Equal(t, "Heavy bleeding from deep cut on arm", v.Description)

	rec = do(t, h, http.MethodPost, "/api/sessions/p1/start", map[string]string{"preset": "alien abduction"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStart_WithImage(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv.Handler(), http.MethodPost, "/api/sessions/img/start", map[string]any{
		"description": "small burn on finger",
		"image":       []byte("\x89PNG\r\n\x1a\n0000"),
	})
	require.Equal(t, http.StatusOK, rec.Code)
	v := decodeView(t, rec)
	assert.True(t, v.HasImage)
	assert.Equal(t, triage.Monitor, v.Classification.Severity)
}

func TestSessionErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/sessions/missing", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/sessions/bad.id", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/sessions/x/actions", "[").Code)

	rec := do(t, h, http.MethodPost, "/api/sessions/x/start", map[string]string{"description": "Person collapsed"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h, http.MethodPost, "/api/sessions/x/actions", map[string]any{"step": 42, "text": "   "})
	require.Equal(t, http.StatusOK, rec.Code, "blank text is ignored, whatever the step")
	assert.Empty(t, decodeView(t, rec).Actions)

	rec = do(t, h, http.MethodPost, "/api/sessions/x/actions", "{")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Message, "invalid JSON body")
}

func TestExportAndSpeak_NotConfigured(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/sessions/x/start", map[string]string{"description": "Person collapsed"}).Code)

	assert.Equal(t, http.StatusNotImplemented, do(t, h, http.MethodPost, "/api/sessions/x/export", nil).Code)
	assert.Equal(t, http.StatusNotImplemented, do(t, h, http.MethodPost, "/api/sessions/x/speak", nil).Code)
	assert.Equal(t, http.StatusNotImplemented, do(t, h, http.MethodGet, "/api/archive", nil).Code)
}

func TestExport(t *testing.T) {
	srv, _ := newTestServer(t, session.WithExportStore(export.NewFileStore(t.TempDir())))
	h := srv.Handler()
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/sessions/x/start", map[string]string{"description": "Person collapsed"}).Code)

	rec := do(t, h, http.MethodPost, "/api/sessions/x/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var out session.Exported
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	assert.Equal(t, "emergency_summary_20250314_090000.txt", out.Filename)
	assert.FileExists(t, out.Location)
}

func TestArchive(t *testing.T) {
	store, err := archive.Open(archive.DriverSQLite, filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	srv, _ := newTestServer(t, session.WithArchive(store))
	srv.SetHistory(store)
	h := srv.Handler()

	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/sessions/x/start", map[string]string{"description": "Person is choking on food"}).Code)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/sessions/x/reset", nil).Code)

	rec := do(t, h, http.MethodGet, "/api/archive?session=x", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []archive.Entry
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&entries))
	require.Len(t, entries, 1)
	assert.Equal(t, triage.Choking, entries[0].Type)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/archive?limit=zero", nil).Code)
}

func TestSPA(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := do(t, h, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>lifeline</title>")

	rec = do(t, h, http.MethodGet, "/sessions/kitchen", nil)
	require.Equal(t, http.StatusOK, rec.Code, "client-side routes fall back to index.html")

	rec = do(t, h, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}
