// Package schema has configs, models and global helpers for all parts of gradekit.
package schema

import "time"

// MilestoneDefinition is one rubric-graded unit of expected work.
// Definitions are loaded once per run from the catalog and never mutated.
type MilestoneDefinition struct {
	ID          int        // Positive, unique; defines catalog ordering (gaps allowed)
	Desc        string     // Free text label shown in reports
	Files       []string   // Expected path patterns: exact path, glob, or folder-set sentinel
	Weight      int        // Non-negative point value; 0 means "not separately graded"
	Criteria    []string   // Rubric bullet points for the report and the LLM prompt
	ProbeFiles  []string   // Candidate files scanned for feature keywords
	KeywordGrps [][]string // Keyword alternative groups; a group matches if ANY alternative appears
	Folders     []string   // Acceptable structure folders for folder-set milestones
}

// CommitRecord is a read-only view of one commit in chronological order.
type CommitRecord struct {
	Index       int       // 1-based position, oldest first
	Hash        string    // Full commit hash
	AuthorEmail string    // Author email, used to derive the student identity
	Message     string    // Full commit message
	DiffSize    int       // Trimmed byte length of the textual diff against the parent
	Timestamp   time.Time // Commit time
}

// MilestoneScore is the outcome of pairing one commit with one milestone.
// Immutable after creation.
type MilestoneScore struct {
	MilestoneID  int     `json:"milestone_id"`
	Desc         string  `json:"desc"`
	QualityScore int     `json:"quality_score"` // Always in [0,100]
	Weight       int     `json:"weight"`
	EarnedPoints float64 `json:"earned_points"` // QualityScore/100 * Weight, exactly
	Remark       string  `json:"remark"`
}

// QualityResult is the contract every scorer strategy must honor:
// a score in [0,100] and a non-empty remark, never an error.
type QualityResult struct {
	Score  int
	Remark string
}

// FeatureSignal is one "feature found" finding from the evidence collector.
// Total == 0 marks a folder-structure signal with no keyword groups.
type FeatureSignal struct {
	Label   string
	Matched int
	Total   int
}

// Evidence holds the findings used to score one milestone heuristically.
type Evidence struct {
	FoundFiles   []string
	MissingFiles []string
	Features     []FeatureSignal
}

// RemoteRepo is one assignment repository discovered on the hosting org.
type RemoteRepo struct {
	Name     string
	CloneURL string
}

// Category groups milestone ids under a display name for report breakdowns.
type Category struct {
	Name string
	IDs  []int
}

// CategoryScore is the earned/possible rollup for one category.
type CategoryScore struct {
	Name     string  `json:"name"`
	Earned   float64 `json:"earned"`
	Possible int     `json:"possible"`
}

// GradeThreshold maps a minimum final score to a letter grade.
// Tables are ordered highest-first; the first match wins, and a score
// exactly equal to Min counts as meeting that threshold.
type GradeThreshold struct {
	Min    float64
	Letter LetterGrade
}
