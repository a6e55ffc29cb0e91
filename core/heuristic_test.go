package core

import (
	"context"
	"testing"

	"github.com/gradekit/gradekit/internal/contract"
	"github.com/gradekit/gradekit/schema"
	"github.com/stretchr/testify/assert"
)

// stubCollector returns canned evidence regardless of the repository path.
type stubCollector struct {
	found   []string
	missing []string
	signals []schema.FeatureSignal
}

func (s *stubCollector) CheckFiles(string, schema.MilestoneDefinition) (found, missing []string) {
	return s.found, s.missing
}

func (s *stubCollector) CollectFeatures(string, schema.MilestoneDefinition) []schema.FeatureSignal {
	return s.signals
}

// TestHeuristicScore covers the evidence-to-score mapping, floors and cap.
func TestHeuristicScore(t *testing.T) {
	tests := []struct {
		name           string
		weight         int
		commitMsg      string
		collector      stubCollector
		expectedScore  int
		expectedRemark string
	}{
		{
			name:           "zero weight milestone always scores 100",
			weight:         0,
			collector:      stubCollector{},
			expectedScore:  100,
			expectedRemark: "Code quality milestone - not separately graded",
		},
		{
			name:           "no evidence scores zero",
			weight:         5,
			collector:      stubCollector{},
			expectedScore:  0,
			expectedRemark: "Milestone attempted",
		},
		{
			name:   "all files and all features score 100",
			weight: 5,
			collector: stubCollector{
				found:   []string{"login.php"},
				signals: []schema.FeatureSignal{{Label: "login.php", Matched: 3, Total: 3}},
			},
			expectedScore:  100,
			expectedRemark: "files created; implementation: 100%",
		},
		{
			name:   "files without features get fallback credit",
			weight: 5,
			collector: stubCollector{
				found: []string{"register.php"},
			},
			expectedScore:  65, // 30 file points + 35 fallback
			expectedRemark: "files created; basic setup present",
		},
		{
			name:   "weak partial evidence is lifted to the combined floor",
			weight: 5,
			collector: stubCollector{
				found:   []string{"a.php"},
				missing: []string{"b.php"},
				signals: []schema.FeatureSignal{{Label: "a.php", Matched: 1, Total: 4}},
			},
			expectedScore:  70, // 15 + 18 raw, floored
			expectedRemark: "1 file(s) found; implementation: 25%",
		},
		{
			name:   "features alone are lifted to the feature floor",
			weight: 5,
			collector: stubCollector{
				signals: []schema.FeatureSignal{{Label: "app.js", Matched: 1, Total: 2}},
			},
			expectedScore:  60, // 35 raw, floored
			expectedRemark: "implementation: 50%",
		},
		{
			name:   "folder signal is valued at 90 percent",
			weight: 2,
			collector: stubCollector{
				found:   []string{"4 folders found"},
				signals: []schema.FeatureSignal{{Label: "project structure: 4 folders created", Matched: 4}},
			},
			expectedScore:  93, // 30 + round(0.9*70)
			expectedRemark: "files created; implementation: 90%",
		},
		{
			name:      "commit message bonus is capped at 100",
			weight:    3,
			commitMsg: "Added registration form",
			collector: stubCollector{
				found:   []string{"register.php"},
				signals: []schema.FeatureSignal{{Label: "register.php", Matched: 2, Total: 2}},
			},
			expectedScore:  100,
			expectedRemark: "files created; implementation: 100%",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scorer := NewHeuristicQualityScorer(&tt.collector)
			result := scorer.Score(context.Background(), contractScoreRequest(tt.weight, tt.commitMsg))
			assert.Equal(t, tt.expectedScore, result.Score)
			assert.Equal(t, tt.expectedRemark, result.Remark)
		})
	}
}

// TestHeuristicCommitMessageBonus checks the description keyword match.
func TestHeuristicCommitMessageBonus(t *testing.T) {
	collector := &stubCollector{
		found:   []string{"a.php"},
		missing: []string{"b.php", "c.php"},
	}
	scorer := NewHeuristicQualityScorer(collector)

	// 10 file points + 35 fallback, floored to 55.
	without := scorer.Score(context.Background(), contractScoreRequest(5, "wip"))
	assert.Equal(t, 55, without.Score)

	// Same evidence plus a matching message: 10 + 35 + 5 = 50 still sits
	// below the files floor, so the bonus is invisible here.
	with := scorer.Score(context.Background(), contractScoreRequest(5, "Added registration form"))
	assert.Equal(t, 55, with.Score)
}

func contractScoreRequest(weight int, commitMsg string) contract.ScoreRequest {
	return contract.ScoreRequest{
		CommitMessage: commitMsg,
		Milestone: schema.MilestoneDefinition{
			ID:     2,
			Desc:   "Added registration form",
			Weight: weight,
		},
	}
}

// TestHeuristicDeterminism verifies repeated scoring of the same evidence
// yields identical results.
func TestHeuristicDeterminism(t *testing.T) {
	collector := &stubCollector{
		found:   []string{"transfer.php"},
		signals: []schema.FeatureSignal{{Label: "transfer.php", Matched: 2, Total: 3}},
	}
	scorer := NewHeuristicQualityScorer(collector)
	req := contractScoreRequest(6, "implement transfers")

	first := scorer.Score(context.Background(), req)
	for range 5 {
		assert.Equal(t, first, scorer.Score(context.Background(), req))
	}
}

func TestCommitMessageMatches(t *testing.T) {
	assert.True(t, commitMessageMatches("added registration form", "Added registration form"))
	assert.True(t, commitMessageMatches("ADDED stuff", "Added registration form"))
	assert.False(t, commitMessageMatches("initial commit", "Created dashboard page with balance"))
	assert.False(t, commitMessageMatches("", "Added registration form"))
}
