package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gradekit/gradekit/internal/contract"
	"github.com/gradekit/gradekit/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rendererFixture() *Renderer {
	return NewRenderer([]schema.MilestoneDefinition{
		{ID: 1, Desc: "Created project structure", Files: []string{"all folders created"}, Weight: 2},
		{ID: 2, Desc: "Added registration form", Files: []string{"register.php"}, Weight: 8,
			Criteria: []string{"Form validates input", "Passwords are hashed"}},
	})
}

func reportFixture() schema.GradeReport {
	return schema.GradeReport{
		Repo:       "assignment-alice",
		Student:    "alice",
		Status:     schema.StatusGraded,
		RawScore:   82.5,
		Adjustment: -10,
		FinalScore: 72.5,
		Letter:     "B",
		AvgQuality: 84.2,
		DaysLate:   2,

		PenaltyApplied: true,

		LastCommit: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		GradedAt:   time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),

		MilestoneScores: []schema.MilestoneScore{
			{MilestoneID: 1, Desc: "Created project structure", QualityScore: 90, Weight: 2, EarnedPoints: 1.8, Remark: "3 folders found"},
			{MilestoneID: 2, Desc: "Added registration form", QualityScore: 60, Weight: 8, EarnedPoints: 4.8, Remark: "register.php found"},
		},
		Categories: []schema.CategoryScore{
			{Name: "Basic Setup & Core Features", Earned: 6.6, Possible: 10},
		},
	}
}

func TestRenderText(t *testing.T) {
	cfg := &contract.Config{
		Policy: contract.GradingPolicy{Deadline: time.Date(2026, 2, 28, 23, 59, 59, 0, time.UTC)},
	}

	out := rendererFixture().RenderText(reportFixture(), cfg)

	assert.Contains(t, out, "DETAILED GRADING REPORT")
	assert.Contains(t, out, "@alice")
	assert.Contains(t, out, "**Submission Deadline:** 2026-02-28T23:59:59Z")
	assert.Contains(t, out, "MILESTONE 2: Added registration form")
	assert.Contains(t, out, "1. Form validates input")
	assert.Contains(t, out, "**Earned:** 4.80/8 pts")
	assert.Contains(t, out, "Late submission penalty: last commit was 2 day(s) past the deadline")
	assert.Contains(t, out, "FINAL TOTAL SCORE: 72.50/100 pts")
	assert.Contains(t, out, "FINAL GRADE: B")
	// Quality split: 90% is a strength, 60% needs work
	assert.Contains(t, out, "✓ Milestone 1: Created project structure (90%)")
	assert.Contains(t, out, "Milestone 2: Added registration form (60% - needs work)")
}

func TestRenderTextFreezeAndCutoff(t *testing.T) {
	cfg := &contract.Config{
		Freeze:     true,
		GradeUntil: time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC),
	}

	out := rendererFixture().RenderText(reportFixture(), cfg)
	assert.Contains(t, out, "GRADING LOCKED")
	assert.Contains(t, out, "Only commits before 2026-02-20T00:00:00Z are graded")
}

func TestRenderTextNoSubmissions(t *testing.T) {
	rep := schema.GradeReport{
		Repo:    "assignment-empty",
		Student: "unknown",
		Status:  schema.StatusNoSubmissions,
		Letter:  "F",
	}

	out := rendererFixture().RenderText(rep, &contract.Config{})
	assert.Contains(t, out, "No Milestones Graded")
	assert.NotContains(t, out, "FINAL GRADING SUMMARY")
}

func TestRenderHTML(t *testing.T) {
	out, err := rendererFixture().RenderHTML(reportFixture(), &contract.Config{})
	require.NoError(t, err)

	assert.Contains(t, out, "<title>Grade report for assignment-alice</title>")
	assert.Contains(t, out, "@alice")
	assert.Contains(t, out, "Milestone 2: Added registration form")
	assert.Contains(t, out, "Quality: 60%")
	assert.Contains(t, out, "4.80/8 pts")
	assert.Contains(t, out, "Final Grade: B")
	assert.Contains(t, out, "Late submission penalty (2 day(s) late)")
}

func TestRenderHTMLEscapesRemarks(t *testing.T) {
	rep := reportFixture()
	rep.MilestoneScores[0].Remark = "<script>alert('x')</script>"

	out, err := rendererFixture().RenderHTML(rep, &contract.Config{})
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>alert")
}

func TestWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "assignment-alice")

	err := rendererFixture().WriteFiles(dir, reportFixture(), &contract.Config{})
	require.NoError(t, err)

	text, err := os.ReadFile(filepath.Join(dir, TextReportName))
	require.NoError(t, err)
	assert.Contains(t, string(text), "FINAL GRADE: B")

	html, err := os.ReadFile(filepath.Join(dir, HTMLReportName))
	require.NoError(t, err)
	assert.Contains(t, string(html), "<!DOCTYPE html>")
}

func TestPerformanceLabel(t *testing.T) {
	assert.Contains(t, performanceLabel(95), "Excellent")
	assert.Contains(t, performanceLabel(80), "Good")
	assert.Contains(t, performanceLabel(60), "Fair")
	assert.Contains(t, performanceLabel(10), "significant work")
	assert.Contains(t, performanceLabel(0), "No credit")
}
