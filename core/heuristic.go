package core

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/gradekit/gradekit/internal/contract"
	"github.com/gradekit/gradekit/schema"
)

// Heuristic scoring weights. File evidence carries 30 points, feature
// evidence the remaining 70, with generous floors for partial work.
const (
	FilePointsMax    = 30
	FeaturePointsMax = 70
	FilesOnlyCredit  = 35
	CommitMsgBonus   = 5

	// A structural signal has no keyword denominator, so it is valued
	// at a flat 90 percent.
	FolderSignalPct = 90

	FloorFilesAndFeatures = 70
	FloorFilesOnly        = 55
	FloorFeaturesOnly     = 60
)

// HeuristicQualityScorer grades a milestone from filesystem evidence alone,
// with no network calls. It is deterministic for a given repository state.
type HeuristicQualityScorer struct {
	collector contract.EvidenceCollector
}

// NewHeuristicQualityScorer creates a scorer backed by the given evidence
// collector.
func NewHeuristicQualityScorer(collector contract.EvidenceCollector) *HeuristicQualityScorer {
	return &HeuristicQualityScorer{collector: collector}
}

// Kind identifies this scorer in config and reports.
func (s *HeuristicQualityScorer) Kind() schema.ScorerKind {
	return schema.HeuristicScorer
}

// Score rates one commit against its paired milestone. Zero-weight
// milestones always score 100 since they carry no points of their own.
func (s *HeuristicQualityScorer) Score(_ context.Context, req contract.ScoreRequest) schema.QualityResult {
	def := req.Milestone
	if def.Weight == 0 {
		return schema.QualityResult{Score: 100, Remark: "Code quality milestone - not separately graded"}
	}

	found, missing := s.collector.CheckFiles(req.RepoPath, def)
	signals := s.collector.CollectFeatures(req.RepoPath, def)

	var score int
	var remarks []string

	if len(found) > 0 {
		if len(missing) == 0 {
			score += FilePointsMax
			remarks = append(remarks, "files created")
		} else {
			ratio := float64(len(found)) / float64(len(found)+len(missing))
			score += int(math.Round(FilePointsMax * ratio))
			remarks = append(remarks, fmt.Sprintf("%d file(s) found", len(found)))
		}
	}

	if len(signals) > 0 {
		var totalPct float64
		for _, sig := range signals {
			if sig.Total > 0 {
				totalPct += float64(sig.Matched) / float64(sig.Total) * 100
			} else {
				totalPct += FolderSignalPct
			}
		}
		avgPct := totalPct / float64(len(signals))
		score += int(math.Round(avgPct / 100 * FeaturePointsMax))
		remarks = append(remarks, fmt.Sprintf("implementation: %.0f%%", avgPct))
	} else if len(found) > 0 {
		score += FilesOnlyCredit
		remarks = append(remarks, "basic setup present")
	}

	if commitMessageMatches(req.CommitMessage, def.Desc) {
		score += CommitMsgBonus
	}

	switch {
	case len(found) > 0 && len(signals) > 0:
		score = max(score, FloorFilesAndFeatures)
	case len(found) > 0:
		score = max(score, FloorFilesOnly)
	case len(signals) > 0:
		score = max(score, FloorFeaturesOnly)
	}
	score = min(score, 100)

	remark := "Milestone attempted"
	if len(remarks) > 0 {
		remark = strings.Join(remarks, "; ")
	}
	return schema.QualityResult{Score: score, Remark: remark}
}

// commitMessageMatches checks whether the commit message mentions any of
// the first three words of the milestone description.
func commitMessageMatches(message, desc string) bool {
	words := strings.Fields(strings.ToLower(desc))
	if len(words) > 3 {
		words = words[:3]
	}
	lowered := strings.ToLower(message)
	for _, w := range words {
		if strings.Contains(lowered, w) {
			return true
		}
	}
	return false
}
