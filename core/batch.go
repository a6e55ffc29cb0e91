package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gradekit/gradekit/internal/contract"
	"github.com/gradekit/gradekit/schema"
)

// RepoSource lists the assignment repositories to grade in a batch run.
type RepoSource interface {
	ListRepos(ctx context.Context) ([]schema.RemoteRepo, error)
}

// gatedScorer caps how many scorer calls run at once across all workers.
// LLM backends are rate limited, so the gate is usually tighter than the
// worker count.
type gatedScorer struct {
	inner contract.QualityScorer
	gate  chan struct{}
}

// NewGatedScorer wraps a scorer with a concurrency limit of n.
func NewGatedScorer(inner contract.QualityScorer, n int) contract.QualityScorer {
	if n <= 0 {
		n = contract.DefaultScorerGate
	}
	return &gatedScorer{inner: inner, gate: make(chan struct{}, n)}
}

func (g *gatedScorer) Kind() schema.ScorerKind { return g.inner.Kind() }

func (g *gatedScorer) Score(ctx context.Context, req contract.ScoreRequest) schema.QualityResult {
	select {
	case g.gate <- struct{}{}:
	case <-ctx.Done():
		return schema.QualityResult{Score: 0, Remark: fmt.Sprintf("scorer error: %v", ctx.Err())}
	}
	defer func() { <-g.gate }()
	return g.inner.Score(ctx, req)
}

// BatchGrader grades every assignment repository in an organization. Each
// repository is synced into the workspace and graded on its own worker;
// one broken repository never aborts the batch.
type BatchGrader struct {
	cfg      *contract.Config
	git      contract.GitClient
	source   RepoSource
	pipeline *GradePipeline
}

// NewBatchGrader wires a batch grader from its collaborators. The scorer
// is shared across workers, so callers should pass a gated one.
func NewBatchGrader(cfg *contract.Config, git contract.GitClient, source RepoSource, scorer contract.QualityScorer, catalog *Catalog) *BatchGrader {
	return &BatchGrader{
		cfg:      cfg,
		git:      git,
		source:   source,
		pipeline: NewGradePipeline(cfg, git, scorer, catalog),
	}
}

// Run grades all repositories and returns the batch summary. Reports are
// ordered by repository name so reruns produce stable output.
func (b *BatchGrader) Run(ctx context.Context) (schema.BatchSummary, error) {
	start := time.Now()

	repos, err := b.source.ListRepos(ctx)
	if err != nil {
		return schema.BatchSummary{}, fmt.Errorf("cannot list repositories: %w", err)
	}
	if err := os.MkdirAll(b.cfg.Workspace, 0o755); err != nil {
		return schema.BatchSummary{}, fmt.Errorf("cannot create workspace: %w", err)
	}

	workers := b.cfg.Workers
	if workers <= 0 {
		workers = contract.DefaultWorkers
	}

	var (
		mu       sync.Mutex
		reports  []schema.GradeReport
		failures []schema.RepoFailure
	)

	jobs := make(chan schema.RemoteRepo)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for repo := range jobs {
				report, err := b.gradeOne(ctx, repo)
				mu.Lock()
				if err != nil {
					contract.LogWarn(fmt.Sprintf("skipping %s", repo.Name), err)
					failures = append(failures, schema.RepoFailure{Repo: repo.Name, Reason: err.Error()})
				} else {
					reports = append(reports, report)
				}
				mu.Unlock()
			}
		}()
	}

	for _, repo := range repos {
		jobs <- repo
	}
	close(jobs)
	wg.Wait()

	sort.Slice(reports, func(i, j int) bool { return reports[i].Repo < reports[j].Repo })
	sort.Slice(failures, func(i, j int) bool { return failures[i].Repo < failures[j].Repo })

	return schema.BatchSummary{
		Reports:  reports,
		Failures: failures,
		Duration: time.Since(start),
	}, nil
}

func (b *BatchGrader) gradeOne(ctx context.Context, repo schema.RemoteRepo) (schema.GradeReport, error) {
	localPath := filepath.Join(b.cfg.Workspace, repo.Name)
	if err := b.syncRepo(ctx, repo, localPath); err != nil {
		return schema.GradeReport{}, err
	}
	return b.pipeline.GradeLocal(ctx, repo.Name, localPath)
}

// syncRepo clones a missing repository or pulls an existing one. With
// freeze enabled the existing checkout is used as-is so scores stay stable
// across reruns.
func (b *BatchGrader) syncRepo(ctx context.Context, repo schema.RemoteRepo, localPath string) error {
	if _, err := os.Stat(localPath); os.IsNotExist(err) {
		if err := b.git.Clone(ctx, repo.CloneURL, localPath); err != nil {
			return fmt.Errorf("clone failed: %w", err)
		}
		return nil
	}
	if b.cfg.Freeze {
		contract.LogInfo("freeze enabled, using existing checkout for %s", repo.Name)
		return nil
	}
	if err := b.git.Pull(ctx, localPath); err != nil {
		return fmt.Errorf("pull failed: %w", err)
	}
	return nil
}
