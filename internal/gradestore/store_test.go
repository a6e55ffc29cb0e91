package gradestore

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gradekit/gradekit/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) (*GradeStoreImpl, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "grades.db")
	store, err := NewGradeStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*GradeStoreImpl), dbPath
}

func sampleReport(repo string) schema.GradeReport {
	return schema.GradeReport{
		Repo:       repo,
		Student:    "octocat",
		Status:     schema.StatusGraded,
		RawScore:   72.5,
		Adjustment: 5,
		FinalScore: 77.5,
		Letter:     "B+",
		GradedAt:   time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC),
		MilestoneScores: []schema.MilestoneScore{
			{MilestoneID: 1, Desc: "setup", QualityScore: 90, Weight: 2, EarnedPoints: 1.8, Remark: "files created"},
			{MilestoneID: 2, Desc: "registration", QualityScore: 70, Weight: 3, EarnedPoints: 2.1, Remark: "implementation: 70%"},
		},
	}
}

// TestGradeStoreSQLiteRoundTrip exercises the full archive cycle against a
// real SQLite file.
func TestGradeStoreSQLiteRoundTrip(t *testing.T) {
	store, _ := newSQLiteStore(t)

	start := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)
	runID, err := store.BeginRun(start, map[string]any{"scorer": "heuristic", "org": "cs-2026"})
	require.NoError(t, err)
	assert.Positive(t, runID)

	require.NoError(t, store.RecordReport(runID, sampleReport("atm-octocat")))
	require.NoError(t, store.EndRun(runID, start.Add(time.Minute), 1))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.EqualValues(t, 1, status.TotalRuns)
	assert.EqualValues(t, 1, status.TotalReports)
	assert.Equal(t, runID, status.LastRunID)
	assert.EqualValues(t, 1, status.TableSizes[gradeRunsTable])
	assert.EqualValues(t, 2, status.TableSizes[milestoneScoresTable])

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].RunID)
	assert.True(t, runs[0].StartTime.Equal(start))
	require.NotNil(t, runs[0].EndTime)
	assert.Equal(t, 1, runs[0].TotalRepos)
	assert.Contains(t, runs[0].ConfigParams, `"scorer":"heuristic"`)

	reports, err := store.GetAllReports()
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "atm-octocat", reports[0].Repo)
	assert.Equal(t, "octocat", reports[0].Student)
	assert.InDelta(t, 77.5, reports[0].FinalScore, 0.001)
	assert.Equal(t, "B+", reports[0].Letter)

	scores, err := store.GetAllMilestoneScores()
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, 1, scores[0].MilestoneID)
	assert.Equal(t, 2, scores[1].MilestoneID)
	assert.InDelta(t, 2.1, scores[1].EarnedPoints, 0.001)
}

// TestGradeStoreMultipleRuns verifies run IDs increment and status tracks
// the latest run.
func TestGradeStoreMultipleRuns(t *testing.T) {
	store, _ := newSQLiteStore(t)

	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	var lastID int64
	for i := range 3 {
		id, err := store.BeginRun(base.Add(time.Duration(i)*time.Hour), nil)
		require.NoError(t, err)
		assert.Greater(t, id, lastID)
		lastID = id
	}

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.EqualValues(t, 3, status.TotalRuns)
	assert.Equal(t, lastID, status.LastRunID)
	assert.True(t, status.OldestRunTime.Equal(base))
}

// TestGradeStoreDuplicateReport ensures the (run, repo) primary key rejects
// double recording.
func TestGradeStoreDuplicateReport(t *testing.T) {
	store, _ := newSQLiteStore(t)

	runID, err := store.BeginRun(time.Now(), nil)
	require.NoError(t, err)

	require.NoError(t, store.RecordReport(runID, sampleReport("atm-octocat")))
	assert.Error(t, store.RecordReport(runID, sampleReport("atm-octocat")))

	// The failed transaction must not leave partial milestone rows behind.
	scores, err := store.GetAllMilestoneScores()
	require.NoError(t, err)
	assert.Len(t, scores, 2)
}

// TestGradeStoreNoneBackend verifies the no-op store accepts everything.
func TestGradeStoreNoneBackend(t *testing.T) {
	store, err := NewGradeStore(schema.NoneBackend, "")
	require.NoError(t, err)

	runID, err := store.BeginRun(time.Now(), nil)
	require.NoError(t, err)
	assert.Zero(t, runID)

	require.NoError(t, store.RecordReport(runID, sampleReport("x")))
	require.NoError(t, store.EndRun(runID, time.Now(), 0))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	assert.Nil(t, runs)

	require.NoError(t, store.Close())
}

// TestGradeStoreUnsupportedBackend rejects unknown backend names.
func TestGradeStoreUnsupportedBackend(t *testing.T) {
	_, err := NewGradeStore("oracle", "")
	assert.ErrorContains(t, err, "unsupported backend")
}

// TestClearStoreSQLite removes the database file.
func TestClearStoreSQLite(t *testing.T) {
	store, dbPath := newSQLiteStore(t)
	require.NoError(t, store.Close())

	require.FileExists(t, dbPath)
	require.NoError(t, ClearStore(schema.SQLiteBackend, dbPath, ""))
	_, err := os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))

	// Clearing a missing file is not an error.
	require.NoError(t, ClearStore(schema.SQLiteBackend, dbPath, ""))

	// An empty path is rejected.
	assert.Error(t, ClearStore(schema.SQLiteBackend, "", ""))
}

// TestQuoteTableName tests the quoteTableName function for all backends.
func TestQuoteTableName(t *testing.T) {
	tests := []struct {
		backend  schema.StoreBackend
		expected string
	}{
		{backend: schema.SQLiteBackend, expected: `"gradekit_grade_runs"`},
		{backend: schema.PostgreSQLBackend, expected: `"gradekit_grade_runs"`},
		{backend: schema.MySQLBackend, expected: "`gradekit_grade_runs`"},
	}

	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			assert.Equal(t, tt.expected, quoteTableName(gradeRunsTable, tt.backend))
		})
	}
}

// TestFormatTime checks the per-backend time representation.
func TestFormatTime(t *testing.T) {
	ts := time.Date(2026, 5, 2, 10, 30, 0, 0, time.UTC)

	sqliteVal := formatTime(ts, schema.SQLiteBackend)
	assert.Equal(t, ts.Format(time.RFC3339Nano), sqliteVal)

	for _, backend := range []schema.StoreBackend{schema.MySQLBackend, schema.PostgreSQLBackend} {
		assert.Equal(t, ts, formatTime(ts, backend), fmt.Sprintf("backend %s", backend))
	}
}
