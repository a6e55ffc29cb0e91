package core

import (
	"context"
	"fmt"
	"time"

	"github.com/gradekit/gradekit/internal/contract"
	"github.com/gradekit/gradekit/schema"
)

// ExecutorFunc defines the function signature for executing different
// grading modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config) error

// BuildScorer picks the scorer strategy the config asks for.
func BuildScorer(cfg *contract.Config) (contract.QualityScorer, error) {
	switch cfg.Scorer {
	case schema.HeuristicScorer:
		return NewHeuristicQualityScorer(NewFSEvidenceCollector()), nil
	case schema.LLMScorer:
		return NewLLMQualityScorer(cfg.LLM), nil
	default:
		return nil, fmt.Errorf("unknown scorer kind %q", cfg.Scorer)
	}
}

// GradePipeline grades one checked-out repository end to end: commit
// listing, cutoff filtering, milestone aggregation and finalization.
type GradePipeline struct {
	cfg     *contract.Config
	git     contract.GitClient
	catalog *Catalog
	agg     *Aggregator
}

// NewGradePipeline wires a pipeline from its collaborators.
func NewGradePipeline(cfg *contract.Config, git contract.GitClient, scorer contract.QualityScorer, catalog *Catalog) *GradePipeline {
	return &GradePipeline{
		cfg:     cfg,
		git:     git,
		catalog: catalog,
		agg:     NewAggregator(git, scorer),
	}
}

// GradeLocal grades a repository already present on disk and returns its
// report. Only listing commits can fail; scoring faults are absorbed into
// the per-milestone results.
func (p *GradePipeline) GradeLocal(ctx context.Context, repoName, repoPath string) (schema.GradeReport, error) {
	commits, err := p.git.ListCommits(ctx, repoPath)
	if err != nil {
		return schema.GradeReport{}, fmt.Errorf("cannot list commits for %s: %w", repoName, err)
	}
	commits = filterCommitsUntil(commits, p.cfg.GradeUntil)

	student := studentFromCommits(commits)
	agg := p.agg.Aggregate(ctx, repoPath, commits, p.catalog)
	return Finalize(repoName, student, agg, commits, p.catalog, p.cfg.Policy, time.Now()), nil
}

// filterCommitsUntil drops commits after the cutoff and renumbers the
// survivors so milestone pairing starts from 1 again. A zero cutoff keeps
// everything.
func filterCommitsUntil(commits []schema.CommitRecord, until time.Time) []schema.CommitRecord {
	if until.IsZero() {
		return commits
	}
	kept := make([]schema.CommitRecord, 0, len(commits))
	for _, c := range commits {
		if !c.Timestamp.After(until) {
			c.Index = len(kept) + 1
			kept = append(kept, c)
		}
	}
	if len(kept) < len(commits) {
		contract.LogInfo("grading %d/%d commits before cutoff", len(kept), len(commits))
	}
	return kept
}

// studentFromCommits derives the student's handle from the most active
// author email across the history.
func studentFromCommits(commits []schema.CommitRecord) string {
	if len(commits) == 0 {
		return "unknown"
	}
	counts := make(map[string]int)
	for _, c := range commits {
		counts[c.AuthorEmail]++
	}
	var topEmail string
	var topCount int
	for email, n := range counts {
		if n > topCount || (n == topCount && email < topEmail) {
			topEmail, topCount = email, n
		}
	}
	return schema.StudentHandle(topEmail)
}
