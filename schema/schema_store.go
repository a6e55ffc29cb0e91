package schema

import "time"

// StoreStatus holds status information about the grade archive.
type StoreStatus struct {
	Backend       StoreBackend
	Connected     bool
	TotalRuns     int64
	LastRunID     int64
	LastRunTime   time.Time
	OldestRunTime time.Time
	TotalReports  int64
	TableSizes    map[string]int64
}

// GradeRunRecord mirrors one row of the grade runs table.
type GradeRunRecord struct {
	RunID        int64
	StartTime    time.Time
	EndTime      *time.Time
	TotalRepos   int
	ConfigParams string
}

// GradeReportRecord mirrors one row of the grade reports table.
type GradeReportRecord struct {
	RunID      int64
	Repo       string
	Student    string
	Status     string
	RawScore   float64
	Adjustment float64
	FinalScore float64
	Letter     string
	GradedAt   time.Time
}

// MilestoneScoreRecord mirrors one row of the milestone scores table.
type MilestoneScoreRecord struct {
	RunID        int64
	Repo         string
	MilestoneID  int
	QualityScore int
	Weight       int
	EarnedPoints float64
	Remark       string
}
