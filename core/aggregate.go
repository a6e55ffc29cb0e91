package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/gradekit/gradekit/internal/contract"
	"github.com/gradekit/gradekit/schema"
)

// EmptyDiffRemark is recorded when a commit's diff is too small to grade.
const EmptyDiffRemark = "No significant code changes detected"

// AggregateResult is the per-milestone outcome of one repository's commit
// history, before policy adjustments.
type AggregateResult struct {
	Scores   []schema.MilestoneScore
	RawScore float64
}

// Aggregator walks a repository's chronological commits, pairs each commit
// with the milestone sharing its position, and scores the pair. The n-th
// commit is always graded against milestone id n; extra commits beyond the
// catalog are ignored.
type Aggregator struct {
	git    contract.GitClient
	scorer contract.QualityScorer
}

// NewAggregator creates an aggregator over the given git client and scorer.
func NewAggregator(git contract.GitClient, scorer contract.QualityScorer) *Aggregator {
	return &Aggregator{git: git, scorer: scorer}
}

// Aggregate scores every commit with a matching milestone and sums the
// earned points. Commits with no significant diff score zero quality
// without consulting the scorer, so reruns stay deterministic.
func (a *Aggregator) Aggregate(ctx context.Context, repoPath string, commits []schema.CommitRecord, catalog *Catalog) AggregateResult {
	var result AggregateResult
	for i := range commits {
		commit := &commits[i]
		def, ok := catalog.Get(commit.Index)
		if !ok {
			continue
		}

		quality := a.scoreCommit(ctx, repoPath, commit, def)
		earned := float64(quality.Score) / 100 * float64(def.Weight)
		result.Scores = append(result.Scores, schema.MilestoneScore{
			MilestoneID:  def.ID,
			Desc:         def.Desc,
			QualityScore: quality.Score,
			Weight:       def.Weight,
			EarnedPoints: earned,
			Remark:       quality.Remark,
		})
		result.RawScore += earned
	}
	return result
}

func (a *Aggregator) scoreCommit(ctx context.Context, repoPath string, commit *schema.CommitRecord, def schema.MilestoneDefinition) schema.QualityResult {
	diff, err := a.git.CommitDiff(ctx, repoPath, commit.Hash)
	if err != nil {
		contract.LogWarn(fmt.Sprintf("cannot read diff for %s", commit.Hash), err)
		return schema.QualityResult{Score: 0, Remark: fmt.Sprintf("commit diff unavailable: %v", err)}
	}
	commit.DiffSize = len(strings.TrimSpace(diff))
	if commit.DiffSize < contract.MinDiffChars {
		return schema.QualityResult{Score: 0, Remark: EmptyDiffRemark}
	}

	quality := a.scorer.Score(ctx, contract.ScoreRequest{
		RepoPath:      repoPath,
		CommitMessage: commit.Message,
		DiffText:      diff,
		Milestone:     def,
	})
	clamped, ok := schema.ClampQuality(quality.Score)
	if !ok {
		contract.LogWarn(fmt.Sprintf("scorer returned out-of-range quality %d for milestone %d", quality.Score, def.ID), nil)
	}
	quality.Score = clamped
	return quality
}
