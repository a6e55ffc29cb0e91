package outwriter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/gradekit/gradekit/internal/contract"
	"github.com/gradekit/gradekit/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBatchSummary() schema.BatchSummary {
	return schema.BatchSummary{
		Reports: []schema.GradeReport{
			{Repo: "assignment-alice", Student: "alice", Status: schema.StatusGraded, FinalScore: 87.5, Letter: "A", AvgQuality: 84.2, LastCommit: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
			{Repo: "assignment-bob", Student: "bob", Status: schema.StatusNoSubmissions, FinalScore: 0, Letter: "F"},
		},
		Failures: []schema.RepoFailure{
			{Repo: "assignment-carol", Reason: "clone failed"},
		},
		Duration: 3 * time.Second,
	}
}

func TestWriteSummaryTable(t *testing.T) {
	cfg := &contract.Config{Output: schema.TextOut, Precision: 2, Width: 120, Workers: 4, Scorer: schema.HeuristicScorer}
	fmtFloat, _ := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	err := writeSummaryTable(sampleBatchSummary(), cfg, fmtFloat, 3*time.Second, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "assignment-alice")
	assert.Contains(t, out, "87.50")
	assert.Contains(t, out, "no-submissions")
	assert.Contains(t, out, "Failed: assignment-carol (clone failed)")
	assert.Contains(t, out, "Graded 2 repositories (1 failures)")
	assert.Contains(t, out, "Scorer: heuristic")
}

func TestWriteSummaryCSV(t *testing.T) {
	dir := t.TempDir()
	outputFile := dir + "/summary.csv"
	cfg := &contract.Config{Output: schema.CSVOut, OutputFile: outputFile, Precision: 2}
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	err := writeSummaryCSVResults(sampleBatchSummary(), cfg, fmtFloat, intFmt)
	require.NoError(t, err)

	data, err := readFileString(outputFile)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(data), "\n")
	require.Len(t, lines, 3) // header + 2 reports
	assert.Contains(t, lines[0], "final_score")
	assert.Contains(t, lines[1], "alice")
	assert.Contains(t, lines[1], "2026-03-01T12:00:00Z")
	assert.Contains(t, lines[2], "no-submissions")
}

func TestWriteGradebookCSV(t *testing.T) {
	dir := t.TempDir()
	outputFile := dir + "/gradebook.csv"

	err := WriteGradebookCSV(sampleBatchSummary().Reports, outputFile)
	require.NoError(t, err)

	data, err := readFileString(outputFile)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(data), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "student,repo,final_score,letter_grade", lines[0])
	assert.Equal(t, "alice,assignment-alice,87.50,A", lines[1])
	assert.Equal(t, "bob,assignment-bob,0.00,F", lines[2])
}
