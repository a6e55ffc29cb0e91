package report

import (
	_ "embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/gradekit/gradekit/internal/contract"
	"github.com/gradekit/gradekit/schema"
)

//go:embed result.html.tmpl
var resultTemplate string

var htmlTmpl = template.Must(template.New("result").Parse(resultTemplate))

// htmlMilestone carries one milestone plus its catalog definition for the template.
type htmlMilestone struct {
	schema.MilestoneScore
	Files    []string
	Criteria []string
	Label    string
}

// htmlModel is the render model handed to the HTML template.
type htmlModel struct {
	Repo          string
	Student       string
	GradedAt      string
	Deadline      string
	NoSubmissions bool
	Milestones    []htmlMilestone
	Categories    []schema.CategoryScore
	BonusApplied  bool
	Penalty       bool
	DaysLate      int
	Adjustment    float64
	RawScore      float64
	FinalScore    float64
	Letter        string
	AvgQuality    float64
	Emoji         string
}

// RenderHTML produces the standalone result.html document for one report.
func (r *Renderer) RenderHTML(rep schema.GradeReport, cfg *contract.Config) (string, error) {
	model := htmlModel{
		Repo:          rep.Repo,
		Student:       rep.Student,
		GradedAt:      rep.GradedAt.Format(contract.DateTimeFormat),
		NoSubmissions: rep.Status == schema.StatusNoSubmissions,
		Categories:    rep.Categories,
		BonusApplied:  rep.BonusApplied,
		Penalty:       rep.PenaltyApplied,
		DaysLate:      rep.DaysLate,
		Adjustment:    rep.Adjustment,
		RawScore:      rep.RawScore,
		FinalScore:    rep.FinalScore,
		Letter:        string(rep.Letter),
		AvgQuality:    rep.AvgQuality,
		Emoji:         gradeEmoji(rep.FinalScore),
	}
	if !cfg.Policy.Deadline.IsZero() {
		model.Deadline = cfg.Policy.Deadline.Format(contract.DateTimeFormat)
	}
	for _, ms := range rep.MilestoneScores {
		hm := htmlMilestone{MilestoneScore: ms, Label: performanceLabel(ms.QualityScore)}
		if def, ok := r.defs[ms.MilestoneID]; ok {
			hm.Files = def.Files
			hm.Criteria = def.Criteria
		}
		model.Milestones = append(model.Milestones, hm)
	}

	var b strings.Builder
	if err := htmlTmpl.Execute(&b, model); err != nil {
		return "", fmt.Errorf("cannot render html report: %w", err)
	}
	return b.String(), nil
}
