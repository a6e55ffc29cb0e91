// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/gradekit/gradekit/schema"
)

// GitClient defines the necessary operations against student repositories.
// This allows the grading logic to be tested without needing a real git executable.
type GitClient interface {
	// Run executes a git command in repoPath and returns the combined output.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// ListCommits returns all commits in chronological order (oldest first),
	// with 1-based Index assigned. DiffSize is left zero; the aggregator
	// sets it when it reads the commit's diff via CommitDiff.
	ListCommits(ctx context.Context, repoPath string) ([]schema.CommitRecord, error)

	// CommitDiff returns the textual diff of a commit against its parent,
	// or against the empty tree for the root commit.
	CommitDiff(ctx context.Context, repoPath string, hash string) (string, error)

	// Clone clones the repository at url into dest.
	Clone(ctx context.Context, url string, dest string) error

	// Pull fast-forwards an existing clone.
	Pull(ctx context.Context, repoPath string) error
}

// ScoreRequest carries everything a scorer strategy may consult for one
// (repository-state, milestone) pairing.
type ScoreRequest struct {
	RepoPath      string
	CommitMessage string
	DiffText      string
	Milestone     schema.MilestoneDefinition
}

// QualityScorer produces a quality result for one milestone. Implementations
// must return a score in [0,100] with a non-empty remark and must absorb
// every internal failure: a scorer error degrades to a zero score with a
// diagnostic remark, never a panic or an error for the caller.
type QualityScorer interface {
	Kind() schema.ScorerKind
	Score(ctx context.Context, req ScoreRequest) schema.QualityResult
}

// EvidenceCollector inspects a checked-out repository tree for a milestone's
// expected files and feature keywords. Probe failures count as "not found".
type EvidenceCollector interface {
	CheckFiles(repoPath string, def schema.MilestoneDefinition) (found, missing []string)
	CollectFeatures(repoPath string, def schema.MilestoneDefinition) []schema.FeatureSignal
}

// GradeStore defines the interface for the durable grade archive.
type GradeStore interface {
	// BeginRun creates a new grading run and returns its unique ID.
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the grading run with completion data.
	EndRun(runID int64, endTime time.Time, totalRepos int) error

	// RecordReport stores a grade report and its milestone scores.
	RecordReport(runID int64, report schema.GradeReport) error

	// GetStatus returns status information about the grade archive.
	GetStatus() (schema.StoreStatus, error)

	// GetAllRuns returns every recorded grading run.
	GetAllRuns() ([]schema.GradeRunRecord, error)

	// GetAllReports returns every recorded grade report.
	GetAllReports() ([]schema.GradeReportRecord, error)

	// GetAllMilestoneScores returns every recorded milestone score.
	GetAllMilestoneScores() ([]schema.MilestoneScoreRecord, error)

	// Close closes the underlying connection.
	Close() error
}

// StoreManager defines the interface for accessing the grade archive.
// This allows the store layer to be mocked for testing.
type StoreManager interface {
	GetGradeStore() GradeStore
}

// GradeUploader pushes a final score for one student to the gradebook
// collaborator. Scores handed to an uploader are already clamped to [0,100].
type GradeUploader interface {
	UploadGrade(ctx context.Context, student string, score float64) error
}

// Notifier delivers a rendered report to one student.
type Notifier interface {
	SendReport(ctx context.Context, student string, html string) error
}
