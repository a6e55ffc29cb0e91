package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gradekit/gradekit/internal/contract"
	"github.com/gradekit/gradekit/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource serves a fixed repository list.
type stubSource struct {
	repos []schema.RemoteRepo
	err   error
}

func (s *stubSource) ListRepos(context.Context) ([]schema.RemoteRepo, error) {
	return s.repos, s.err
}

// batchStubGit fakes clone, pull and history listing for batch runs. Clone
// creates the destination directory so the existence check behaves like a
// real checkout.
type batchStubGit struct {
	mu       sync.Mutex
	commits  map[string][]schema.CommitRecord // keyed by repo name
	failRepo string
	pulls    []string
	clones   []string
}

func (g *batchStubGit) Run(context.Context, string, ...string) ([]byte, error) {
	return nil, errors.New("not implemented")
}

func (g *batchStubGit) ListCommits(_ context.Context, repoPath string) ([]schema.CommitRecord, error) {
	name := filepath.Base(repoPath)
	if name == g.failRepo {
		return nil, fmt.Errorf("fatal: bad object HEAD")
	}
	return g.commits[name], nil
}

func (g *batchStubGit) CommitDiff(context.Context, string, string) (string, error) {
	return "diff --git a/x b/x\n+substantial change", nil
}

func (g *batchStubGit) Clone(_ context.Context, _ string, dest string) error {
	g.mu.Lock()
	g.clones = append(g.clones, filepath.Base(dest))
	g.mu.Unlock()
	return os.MkdirAll(dest, 0o755)
}

func (g *batchStubGit) Pull(_ context.Context, repoPath string) error {
	g.mu.Lock()
	g.pulls = append(g.pulls, filepath.Base(repoPath))
	g.mu.Unlock()
	return nil
}

func batchConfig(t *testing.T) *contract.Config {
	t.Helper()
	return &contract.Config{
		Workspace: filepath.Join(t.TempDir(), "graded_repos"),
		Workers:   2,
		Policy: contract.GradingPolicy{
			InstructionBonus:     contract.DefaultBonus,
			InstructionThreshold: contract.DefaultThreshold,
			LatePenalty:          contract.DefaultLatePenalty,
			Letters:              contract.DefaultLetterTable,
		},
	}
}

// TestBatchRunGradesAllRepos checks fan-out, fault isolation and stable
// ordering.
func TestBatchRunGradesAllRepos(t *testing.T) {
	now := time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)
	git := &batchStubGit{
		failRepo: "atm-broken",
		commits: map[string][]schema.CommitRecord{
			"atm-alice": {
				{Index: 1, Hash: "a1", AuthorEmail: "alice@example.com", Message: "setup", Timestamp: now},
			},
			"atm-bob": {
				{Index: 1, Hash: "b1", AuthorEmail: "bob@example.com", Message: "setup", Timestamp: now},
				{Index: 2, Hash: "b2", AuthorEmail: "bob@example.com", Message: "register", Timestamp: now.Add(time.Hour)},
			},
		},
	}
	source := &stubSource{repos: []schema.RemoteRepo{
		{Name: "atm-bob", CloneURL: "https://example.com/atm-bob.git"},
		{Name: "atm-broken", CloneURL: "https://example.com/atm-broken.git"},
		{Name: "atm-alice", CloneURL: "https://example.com/atm-alice.git"},
	}}
	scorer := &stubScorer{result: schema.QualityResult{Score: 80, Remark: "fine"}}

	grader := NewBatchGrader(batchConfig(t), git, source, scorer, testCatalog(t))
	summary, err := grader.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, summary.Reports, 2)
	assert.Equal(t, "atm-alice", summary.Reports[0].Repo)
	assert.Equal(t, "atm-bob", summary.Reports[1].Repo)
	assert.Equal(t, "alice", summary.Reports[0].Student)
	assert.Equal(t, schema.StatusGraded, summary.Reports[0].Status)

	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "atm-broken", summary.Failures[0].Repo)
	assert.Contains(t, summary.Failures[0].Reason, "bad object")

	assert.ElementsMatch(t, []string{"atm-alice", "atm-bob", "atm-broken"}, git.clones)
}

// TestBatchRunFreezeSkipsPull verifies an existing checkout is reused
// untouched when freeze is on.
func TestBatchRunFreezeSkipsPull(t *testing.T) {
	cfg := batchConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.Workspace, "atm-alice"), 0o755))

	git := &batchStubGit{commits: map[string][]schema.CommitRecord{
		"atm-alice": {{Index: 1, Hash: "a1", AuthorEmail: "alice@example.com", Message: "setup", Timestamp: time.Now()}},
	}}
	source := &stubSource{repos: []schema.RemoteRepo{{Name: "atm-alice"}}}
	scorer := &stubScorer{result: schema.QualityResult{Score: 70, Remark: "ok"}}

	cfg.Freeze = true
	grader := NewBatchGrader(cfg, git, source, scorer, testCatalog(t))
	summary, err := grader.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, summary.Reports, 1)
	assert.Empty(t, git.pulls)
	assert.Empty(t, git.clones)

	cfg.Freeze = false
	_, err = grader.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"atm-alice"}, git.pulls)
}

// TestBatchRunSourceError propagates listing failures.
func TestBatchRunSourceError(t *testing.T) {
	source := &stubSource{err: errors.New("401 bad credentials")}
	grader := NewBatchGrader(batchConfig(t), &batchStubGit{}, source, &stubScorer{}, testCatalog(t))
	_, err := grader.Run(context.Background())
	assert.ErrorContains(t, err, "bad credentials")
}
