package schema

import "time"

// GradeReport is the terminal aggregate produced once per graded repository.
type GradeReport struct {
	Repo       string      `json:"repo"`
	Student    string      `json:"student"`
	Status     RepoStatus  `json:"status"`
	RawScore   float64     `json:"raw_score"`  // Sum of earned points, NOT clamped
	Adjustment float64     `json:"adjustment"` // Bonus minus penalty, signed
	FinalScore float64     `json:"final_score"`
	Letter     LetterGrade `json:"letter_grade"`
	AvgQuality float64     `json:"avg_quality"`
	DaysLate   int         `json:"days_late"` // Informational only; the penalty is flat

	BonusApplied   bool `json:"bonus_applied"`
	PenaltyApplied bool `json:"penalty_applied"`

	LastCommit time.Time `json:"last_commit"`
	GradedAt   time.Time `json:"graded_at"`

	MilestoneScores []MilestoneScore `json:"milestone_scores"`
	Categories      []CategoryScore  `json:"categories,omitempty"`
}

// RepoFailure records a repository whose grading pass aborted entirely
// (clone/pull failure and similar). Failures never abort the batch.
type RepoFailure struct {
	Repo   string `json:"repo"`
	Reason string `json:"reason"`
}

// BatchSummary is the outcome of one batch grading run.
type BatchSummary struct {
	Reports  []GradeReport `json:"reports"`
	Failures []RepoFailure `json:"failures,omitempty"`
	Duration time.Duration `json:"duration"`
}
