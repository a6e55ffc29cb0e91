package core

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/gradekit/gradekit/internal/contract"
	"github.com/gradekit/gradekit/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGitClient serves canned diffs keyed by commit hash.
type stubGitClient struct {
	diffs   map[string]string
	diffErr error
}

func (s *stubGitClient) Run(context.Context, string, ...string) ([]byte, error) {
	return nil, errors.New("not implemented")
}

func (s *stubGitClient) ListCommits(context.Context, string) ([]schema.CommitRecord, error) {
	return nil, errors.New("not implemented")
}

func (s *stubGitClient) CommitDiff(_ context.Context, _ string, hash string) (string, error) {
	if s.diffErr != nil {
		return "", s.diffErr
	}
	return s.diffs[hash], nil
}

func (s *stubGitClient) Clone(context.Context, string, string) error { return nil }
func (s *stubGitClient) Pull(context.Context, string) error          { return nil }

// stubScorer returns a fixed result and records every request it sees.
// It is safe for concurrent use so batch tests can share it.
type stubScorer struct {
	mu       sync.Mutex
	result   schema.QualityResult
	requests []contract.ScoreRequest
}

func (s *stubScorer) Kind() schema.ScorerKind { return schema.HeuristicScorer }

func (s *stubScorer) Score(_ context.Context, req contract.ScoreRequest) schema.QualityResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	return s.result
}

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	cat, err := NewCatalog([]schema.MilestoneDefinition{
		{ID: 1, Desc: "setup", Weight: 2},
		{ID: 2, Desc: "registration", Weight: 8},
	}, nil)
	require.NoError(t, err)
	return cat
}

// TestAggregatePairsCommitsWithMilestones checks index pairing and the
// earned-points arithmetic.
func TestAggregatePairsCommitsWithMilestones(t *testing.T) {
	git := &stubGitClient{diffs: map[string]string{
		"aaa": "diff --git a/setup b/setup\n+plenty of changes here",
		"bbb": "diff --git a/register.php b/register.php\n+also plenty",
	}}
	scorer := &stubScorer{result: schema.QualityResult{Score: 75, Remark: "good"}}
	agg := NewAggregator(git, scorer)

	commits := []schema.CommitRecord{
		{Index: 1, Hash: "aaa", Message: "setup"},
		{Index: 2, Hash: "bbb", Message: "register"},
	}
	result := agg.Aggregate(context.Background(), "/tmp/repo", commits, testCatalog(t))

	require.Len(t, result.Scores, 2)
	assert.Equal(t, 1, result.Scores[0].MilestoneID)
	assert.Equal(t, 2, result.Scores[1].MilestoneID)
	assert.InDelta(t, 0.75*2, result.Scores[0].EarnedPoints, 0.001)
	assert.InDelta(t, 0.75*8, result.Scores[1].EarnedPoints, 0.001)
	assert.InDelta(t, 7.5, result.RawScore, 0.001)
	assert.Len(t, scorer.requests, 2)
}

// TestAggregateSkipsExtraCommits ensures commits beyond the catalog are
// ignored rather than scored.
func TestAggregateSkipsExtraCommits(t *testing.T) {
	git := &stubGitClient{diffs: map[string]string{"ccc": "a substantial diff body"}}
	scorer := &stubScorer{result: schema.QualityResult{Score: 50, Remark: "ok"}}
	agg := NewAggregator(git, scorer)

	commits := []schema.CommitRecord{{Index: 99, Hash: "ccc", Message: "late extra work"}}
	result := agg.Aggregate(context.Background(), "/tmp/repo", commits, testCatalog(t))

	assert.Empty(t, result.Scores)
	assert.Zero(t, result.RawScore)
	assert.Empty(t, scorer.requests)
}

// TestAggregateEmptyDiff verifies near-empty diffs short-circuit to zero
// quality without consulting the scorer.
func TestAggregateEmptyDiff(t *testing.T) {
	git := &stubGitClient{diffs: map[string]string{"ddd": "  \n "}}
	scorer := &stubScorer{result: schema.QualityResult{Score: 90, Remark: "unused"}}
	agg := NewAggregator(git, scorer)

	commits := []schema.CommitRecord{{Index: 1, Hash: "ddd", Message: "empty"}}
	result := agg.Aggregate(context.Background(), "/tmp/repo", commits, testCatalog(t))

	require.Len(t, result.Scores, 1)
	assert.Equal(t, 0, result.Scores[0].QualityScore)
	assert.Equal(t, EmptyDiffRemark, result.Scores[0].Remark)
	assert.Zero(t, result.Scores[0].EarnedPoints)
	assert.Empty(t, scorer.requests)
}

// TestAggregateDiffError verifies a diff read failure degrades to zero
// quality with an explanatory remark, without consulting the scorer.
func TestAggregateDiffError(t *testing.T) {
	git := &stubGitClient{diffErr: errors.New("object not found")}
	scorer := &stubScorer{result: schema.QualityResult{Score: 60, Remark: "unused"}}
	agg := NewAggregator(git, scorer)

	commits := []schema.CommitRecord{{Index: 2, Hash: "eee", Message: "register"}}
	result := agg.Aggregate(context.Background(), "/tmp/repo", commits, testCatalog(t))

	require.Len(t, result.Scores, 1)
	assert.Equal(t, 0, result.Scores[0].QualityScore)
	assert.Zero(t, result.Scores[0].EarnedPoints)
	assert.Contains(t, result.Scores[0].Remark, "commit diff unavailable")
	assert.Contains(t, result.Scores[0].Remark, "object not found")
	assert.Empty(t, scorer.requests)
}

// TestAggregateRecordsDiffSize checks that reading a commit's diff fills in
// the record's trimmed diff length.
func TestAggregateRecordsDiffSize(t *testing.T) {
	diff := "diff --git a/setup b/setup\n+plenty of changes here"
	git := &stubGitClient{diffs: map[string]string{"aaa": diff + "\n \n"}}
	scorer := &stubScorer{result: schema.QualityResult{Score: 75, Remark: "good"}}
	agg := NewAggregator(git, scorer)

	commits := []schema.CommitRecord{{Index: 1, Hash: "aaa", Message: "setup"}}
	result := agg.Aggregate(context.Background(), "/tmp/repo", commits, testCatalog(t))

	require.Len(t, result.Scores, 1)
	assert.Equal(t, len(diff), commits[0].DiffSize)
}

// TestAggregateClampsScorerOutput makes sure an out-of-range scorer result
// collapses to zero quality.
func TestAggregateClampsScorerOutput(t *testing.T) {
	git := &stubGitClient{diffs: map[string]string{"fff": "a substantial diff body"}}
	scorer := &stubScorer{result: schema.QualityResult{Score: 150, Remark: "overflow"}}
	agg := NewAggregator(git, scorer)

	commits := []schema.CommitRecord{{Index: 1, Hash: "fff", Message: "setup"}}
	result := agg.Aggregate(context.Background(), "/tmp/repo", commits, testCatalog(t))

	require.Len(t, result.Scores, 1)
	assert.Equal(t, 0, result.Scores[0].QualityScore)
	assert.Zero(t, result.Scores[0].EarnedPoints)
}

// TestGatedScorerRespectsContext ensures a cancelled context degrades to a
// zero-quality result instead of blocking on the gate.
func TestGatedScorerRespectsContext(t *testing.T) {
	inner := &stubScorer{result: schema.QualityResult{Score: 80, Remark: "fine"}}
	gated := NewGatedScorer(inner, 1)

	ctx, cancel := context.WithCancel(context.Background())
	res := gated.Score(ctx, contract.ScoreRequest{})
	assert.Equal(t, 80, res.Score)

	cancel()
	// Occupy the single slot so the next call must wait on the context.
	blocked := NewGatedScorer(inner, 1).(*gatedScorer)
	blocked.gate <- struct{}{}
	res = blocked.Score(ctx, contract.ScoreRequest{})
	assert.Equal(t, 0, res.Score)
	assert.Contains(t, res.Remark, "scorer error")
}
