package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shahar-caura/lifeline/internal/triage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	t0 := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.Record(ctx, Entry{
		SessionID:      "kitchen",
		Type:           triage.Choking,
		Severity:       triage.Critical,
		Rule:           triage.RuleCritical,
		StartedAt:      t0,
		Elapsed:        3*time.Minute + 7*time.Second,
		StepsCompleted: 5,
		TotalSteps:     5,
		Actions:        2,
		Summary:        "report one",
	}))
	require.NoError(t, s.Record(ctx, Entry{
		SessionID:  "garage",
		Type:       triage.Burns,
		Severity:   triage.Monitor,
		Rule:       triage.RuleMonitor,
		StartedAt:  t0.Add(time.Hour),
		ArchivedAt: t0.Add(2 * time.Hour),
		Summary:    "report two",
	}))

	all, err := s.Recent(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "garage", all[0].SessionID)
	assert.Equal(t, "kitchen", all[1].SessionID)

	got := all[1]
	assert.Equal(t, triage.Choking, got.Type)
	assert.Equal(t, triage.Critical, got.Severity)
	assert.Equal(t, triage.RuleCritical, got.Rule)
	assert.True(t, got.StartedAt.Equal(t0))
	assert.True(t, got.ArchivedAt.Equal(t0.Add(3*time.Minute+7*time.Second)))
	assert.Equal(t, 3*time.Minute+7*time.Second, got.Elapsed)
	assert.Equal(t, 5, got.StepsCompleted)
	assert.Equal(t, 2, got.Actions)
	assert.Equal(t, "report one", got.Summary)

	kitchen, err := s.Recent(ctx, "kitchen", 0)
	require.NoError(t, err)
	require.Len(t, kitchen, 1)
	assert.Equal(t, "report one", kitchen[0].Summary)
}

func TestSchema_RetriedAfterFailure(t *testing.T) {
	s := openTestStore(t)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Recent(cancelled, "", 10)
	require.ErrorIs(t, err, context.Canceled)

	ctx := context.Background()
	entries, err := s.Recent(ctx, "", 10)
	require.NoError(t, err, "a failed first attempt does not poison the store")
	assert.Empty(t, entries)

	require.NoError(t, s.Record(ctx, Entry{SessionID: "kitchen", Type: triage.Burns, Severity: triage.Urgent, Summary: "r"}))
	entries, err = s.Recent(ctx, "kitchen", 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRecord_RequiresSessionID(t *testing.T) {
	s := openTestStore(t)
	err := s.Record(context.Background(), Entry{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session id is required")
}

func TestOpen_Validation(t *testing.T) {
	_, err := Open("mysql", "x")
	require.ErrorIs(t, err, ErrUnsupportedDriver)

	_, err = Open(DriverSQLite, "  ")
	require.Error(t, err)
}

func TestBind(t *testing.T) {
	pg := &Store{driver: DriverPostgres}
	assert.Equal(t, "a = $1 AND b = $2", pg.bind("a = ? AND b = ?"))

	lite := &Store{driver: DriverSQLite}
	assert.Equal(t, "a = ?", lite.bind("a = ?"))
}
