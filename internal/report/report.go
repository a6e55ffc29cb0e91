// Package report renders per-student grade reports as markdown text and HTML.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gradekit/gradekit/internal/contract"
	"github.com/gradekit/gradekit/schema"
)

// File names written into each graded repository's report directory.
const (
	TextReportName = "result.md"
	HTMLReportName = "result.html"
)

// Renderer turns a grade report into the student-facing artifacts. It keeps
// the catalog definitions around so reports can show expected files and
// grading criteria next to each score.
type Renderer struct {
	defs map[int]schema.MilestoneDefinition
}

// NewRenderer creates a renderer over the given milestone definitions.
func NewRenderer(defs []schema.MilestoneDefinition) *Renderer {
	byID := make(map[int]schema.MilestoneDefinition, len(defs))
	for _, d := range defs {
		byID[d.ID] = d
	}
	return &Renderer{defs: byID}
}

// WriteFiles renders both report forms into dir, creating it if needed.
func (r *Renderer) WriteFiles(dir string, rep schema.GradeReport, cfg *contract.Config) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create report dir %s: %w", dir, err)
	}

	text := r.RenderText(rep, cfg)
	if err := os.WriteFile(filepath.Join(dir, TextReportName), []byte(text), 0o644); err != nil {
		return fmt.Errorf("cannot write text report: %w", err)
	}

	html, err := r.RenderHTML(rep, cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, HTMLReportName), []byte(html), 0o644); err != nil {
		return fmt.Errorf("cannot write html report: %w", err)
	}
	return nil
}

// RenderText produces the markdown report mirrored by the HTML form.
func (r *Renderer) RenderText(rep schema.GradeReport, cfg *contract.Config) string {
	var b strings.Builder

	b.WriteString("# 📊 DETAILED GRADING REPORT\n\n")
	fmt.Fprintf(&b, "**Student Repository:** %s\n", rep.Repo)
	fmt.Fprintf(&b, "**GitHub Username:** @%s\n", rep.Student)
	fmt.Fprintf(&b, "**Graded on:** %s\n", rep.GradedAt.Format(contract.DateTimeFormat))
	if !cfg.Policy.Deadline.IsZero() {
		fmt.Fprintf(&b, "**Submission Deadline:** %s\n", cfg.Policy.Deadline.Format(contract.DateTimeFormat))
	}
	if cfg.Freeze {
		b.WriteString("\n⚠️ **GRADING LOCKED:** Scores are frozen and will not change with new commits.\n")
	}
	if !cfg.GradeUntil.IsZero() {
		fmt.Fprintf(&b, "\n📅 **Grading Cutoff:** Only commits before %s are graded.\n", cfg.GradeUntil.Format(contract.DateTimeFormat))
	}
	b.WriteString("\n---\n\n")
	b.WriteString("This report provides detailed feedback on each milestone of your project.\n")
	b.WriteString("Please review the criteria, your implementation, and suggestions for improvement.\n")

	if rep.Status == schema.StatusNoSubmissions {
		b.WriteString("\n## ⚠️ No Milestones Graded\n\n")
		b.WriteString("No milestones were found or graded for this repository.\n")
		b.WriteString("Please ensure your repository has commits corresponding to the project milestones.\n")
		return b.String()
	}

	for _, ms := range rep.MilestoneScores {
		r.writeMilestoneText(&b, ms)
	}

	r.writeSummaryText(&b, rep)
	return b.String()
}

func (r *Renderer) writeMilestoneText(b *strings.Builder, ms schema.MilestoneScore) {
	fmt.Fprintf(b, "\n## MILESTONE %d: %s\n\n", ms.MilestoneID, ms.Desc)
	fmt.Fprintf(b, "**Points Worth:** %d pts (out of 100 total)\n", ms.Weight)

	if def, ok := r.defs[ms.MilestoneID]; ok {
		if len(def.Files) > 0 {
			b.WriteString("\n### 📋 Expected Files:\n")
			for _, f := range def.Files {
				fmt.Fprintf(b, "- %s\n", f)
			}
		}
		if len(def.Criteria) > 0 {
			b.WriteString("\n### 📋 Grading Criteria:\n")
			for i, c := range def.Criteria {
				fmt.Fprintf(b, "%d. %s\n", i+1, c)
			}
		}
	}

	b.WriteString("\n### 📊 Score:\n")
	fmt.Fprintf(b, "- **Quality:** %d%% complete\n", ms.QualityScore)
	fmt.Fprintf(b, "- **Earned:** %.2f/%d pts\n", ms.EarnedPoints, ms.Weight)

	b.WriteString("\n### 💬 Assessment:\n")
	fmt.Fprintf(b, "%s\n", performanceLabel(ms.QualityScore))
	if ms.Remark != "" {
		fmt.Fprintf(b, "%s\n", ms.Remark)
	}
	b.WriteString("\n---\n")
}

func (r *Renderer) writeSummaryText(b *strings.Builder, rep schema.GradeReport) {
	b.WriteString("\n\n# 📊 FINAL GRADING SUMMARY\n\n")
	b.WriteString("This section summarizes your performance across all milestone categories.\n")
	b.WriteString("Review your strengths and areas for improvement below.\n")

	if len(rep.Categories) > 0 {
		b.WriteString("\n## Category Breakdown\n\n")
		for _, c := range rep.Categories {
			fmt.Fprintf(b, "- %s: %.2f/%d pts\n", c.Name, c.Earned, c.Possible)
		}
	}

	if rep.BonusApplied || rep.PenaltyApplied {
		b.WriteString("\n## 🎁 Bonuses & Penalties\n\n")
		if rep.BonusApplied {
			b.WriteString("- Instruction bonus: followed commit message instructions consistently\n")
		}
		if rep.PenaltyApplied {
			fmt.Fprintf(b, "- Late submission penalty: last commit was %d day(s) past the deadline\n", rep.DaysLate)
		}
		fmt.Fprintf(b, "\n**Adjustment:** %+.1f pts\n", rep.Adjustment)
		fmt.Fprintf(b, "**Score before adjustment:** %.2f pts\n", rep.RawScore)
		fmt.Fprintf(b, "**Score after adjustment:** %.2f pts\n", rep.FinalScore)
	}

	b.WriteString("\n---\n")
	fmt.Fprintf(b, "### **FINAL TOTAL SCORE: %.2f/100 pts**\n", rep.FinalScore)
	b.WriteString("---\n")
	fmt.Fprintf(b, "\n## %s FINAL GRADE: %s\n", gradeEmoji(rep.FinalScore), rep.Letter)

	strengths, improvements := splitByQuality(rep.MilestoneScores)
	b.WriteString("\n### 💪 Strengths\n")
	if len(strengths) == 0 {
		b.WriteString("- No milestones scored above 80%. Focus on improving overall implementation.\n")
	}
	for _, ms := range strengths {
		fmt.Fprintf(b, "- ✓ Milestone %d: %s (%d%%)\n", ms.MilestoneID, ms.Desc, ms.QualityScore)
	}

	b.WriteString("\n### 📌 Areas for Improvement\n")
	if len(improvements) == 0 {
		b.WriteString("- Good job! All completed milestones scored above 70%.\n")
	}
	for _, ms := range improvements {
		fmt.Fprintf(b, "- Milestone %d: %s (%d%% - needs work)\n", ms.MilestoneID, ms.Desc, ms.QualityScore)
	}

	b.WriteString("\n### 📈 Statistics\n")
	fmt.Fprintf(b, "- Milestones graded: %d\n", len(rep.MilestoneScores))
	fmt.Fprintf(b, "- Average quality: %.1f%%\n", rep.AvgQuality)
	if !rep.LastCommit.IsZero() {
		fmt.Fprintf(b, "- Last commit: %s\n", rep.LastCommit.Format(contract.DateTimeFormat))
	}

	b.WriteString("\nIf you have questions about your grade, please review this report carefully and consult with your instructor during office hours.\n")
}

// performanceLabel maps a quality score to the assessment line shown in reports.
func performanceLabel(quality int) string {
	switch {
	case quality >= 90:
		return "Excellent work! This milestone is implemented thoroughly."
	case quality >= 75:
		return "Good work. Most of this milestone is in place."
	case quality >= 55:
		return "Fair attempt. Several criteria still need attention."
	case quality > 0:
		return "This milestone needs significant work."
	default:
		return "No credit earned for this milestone."
	}
}

// gradeEmoji picks the celebration marker for the final grade banner.
func gradeEmoji(final float64) string {
	switch {
	case final >= 80:
		return "🏆"
	case final >= 65:
		return "🎯"
	case final >= 50:
		return "📚"
	default:
		return "⚠️"
	}
}

// splitByQuality partitions milestone scores into strengths (above 80%) and
// improvement areas (below 70%).
func splitByQuality(scores []schema.MilestoneScore) (strengths, improvements []schema.MilestoneScore) {
	for _, ms := range scores {
		switch {
		case ms.QualityScore > 80:
			strengths = append(strengths, ms)
		case ms.QualityScore < 70:
			improvements = append(improvements, ms)
		}
	}
	return strengths, improvements
}
