package core

import (
	"time"

	"github.com/gradekit/gradekit/internal/contract"
	"github.com/gradekit/gradekit/schema"
)

// Finalize turns aggregated milestone scores into a final grade report by
// applying the grading policy: optional rescaling to a 100-point scale, the
// instruction-following bonus, the late-submission penalty, clamping to
// [0,100] and the letter lookup.
//
// A repository with no scoreable commits gets the no-submissions status and
// a failing letter, with no adjustments applied.
func Finalize(repo, student string, agg AggregateResult, commits []schema.CommitRecord, catalog *Catalog, policy contract.GradingPolicy, gradedAt time.Time) schema.GradeReport {
	report := schema.GradeReport{
		Repo:            repo,
		Student:         student,
		GradedAt:        gradedAt,
		MilestoneScores: agg.Scores,
	}

	if len(agg.Scores) == 0 {
		report.Status = schema.StatusNoSubmissions
		report.Letter = contract.FailingLetter
		return report
	}
	report.Status = schema.StatusGraded

	raw := agg.RawScore
	if policy.Rescale {
		if total := catalog.TotalWeight(); total > 0 && total != 100 {
			raw = raw / float64(total) * 100
		}
	}
	report.RawScore = raw

	var qualitySum int
	for _, s := range agg.Scores {
		qualitySum += s.QualityScore
	}
	report.AvgQuality = float64(qualitySum) / float64(len(agg.Scores))

	var adjustment float64
	if report.AvgQuality >= policy.InstructionThreshold {
		adjustment += policy.InstructionBonus
		report.BonusApplied = true
	}

	if len(commits) > 0 {
		last := commits[len(commits)-1]
		report.LastCommit = last.Timestamp
		if !policy.Deadline.IsZero() && last.Timestamp.After(policy.Deadline) {
			adjustment -= policy.LatePenalty
			report.PenaltyApplied = true
			report.DaysLate = int(last.Timestamp.Sub(policy.Deadline) / (24 * time.Hour))
		}
	}

	report.Adjustment = adjustment
	report.FinalScore = schema.Clamp(raw+adjustment, 0, 100)
	report.Letter = LetterFor(report.FinalScore, policy.Letters)
	report.Categories = categoryBreakdown(agg.Scores, catalog)
	return report
}

// LetterFor maps a final score to a letter using the policy's threshold
// table. The table is ordered by descending minimum; scores below every
// threshold get the failing letter.
func LetterFor(final float64, table []schema.GradeThreshold) schema.LetterGrade {
	if len(table) == 0 {
		table = contract.DefaultLetterTable
	}
	for _, t := range table {
		if final >= t.Min {
			return t.Letter
		}
	}
	return contract.FailingLetter
}

// categoryBreakdown sums earned points per display category. Categories
// whose milestones carry no weight are skipped.
func categoryBreakdown(scores []schema.MilestoneScore, catalog *Catalog) []schema.CategoryScore {
	earnedByID := make(map[int]float64, len(scores))
	for _, s := range scores {
		earnedByID[s.MilestoneID] += s.EarnedPoints
	}

	var breakdown []schema.CategoryScore
	for _, cat := range catalog.Categories() {
		var earned float64
		var total int
		for _, id := range cat.IDs {
			if def, ok := catalog.Get(id); ok {
				total += def.Weight
			}
			earned += earnedByID[id]
		}
		if total == 0 {
			continue
		}
		breakdown = append(breakdown, schema.CategoryScore{
			Name:     cat.Name,
			Earned:   earned,
			Possible: total,
		})
	}
	return breakdown
}
