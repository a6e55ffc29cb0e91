// Package parquet provides data structures and functions for exporting
// grade archive data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/gradekit/gradekit/schema"
	"github.com/parquet-go/parquet-go"
)

// GradeRun represents a single grading run with metadata.
// This struct maps to the gradekit_grade_runs database table.
type GradeRun struct {
	// RunID is the unique identifier for this grading run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the run began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// TotalRepos is the number of repositories graded in this run
	TotalRepos int32 `parquet:"total_repos,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// GradeReportRow represents one repository's final grade in a run.
// This struct maps to the gradekit_grade_reports database table.
type GradeReportRow struct {
	RunID      int64     `parquet:"run_id,snappy"`
	Repo       string    `parquet:"repo,snappy"`
	Student    string    `parquet:"student,snappy"`
	Status     string    `parquet:"status,snappy"`
	RawScore   float64   `parquet:"raw_score,snappy"`
	Adjustment float64   `parquet:"adjustment,snappy"`
	FinalScore float64   `parquet:"final_score,snappy"`
	Letter     string    `parquet:"letter_grade,snappy"`
	GradedAt   time.Time `parquet:"graded_at,snappy"`
}

// MilestoneScoreRow represents one milestone's score within a report.
// This struct maps to the gradekit_milestone_scores database table.
type MilestoneScoreRow struct {
	RunID        int64   `parquet:"run_id,snappy"`
	Repo         string  `parquet:"repo,snappy"`
	MilestoneID  int32   `parquet:"milestone_id,snappy"`
	QualityScore int32   `parquet:"quality_score,snappy"`
	Weight       int32   `parquet:"weight,snappy"`
	EarnedPoints float64 `parquet:"earned_points,snappy"`
	Remark       *string `parquet:"remark,optional,snappy"`
}

// writeParquet writes rows of any archive row type to a Parquet file using
// struct schema inference from the parquet tags.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteGradeRunsParquet writes a slice of GradeRun structs to a Parquet file.
func WriteGradeRunsParquet(data []GradeRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteGradeReportsParquet writes a slice of GradeReportRow structs to a Parquet file.
func WriteGradeReportsParquet(data []GradeReportRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteMilestoneScoresParquet writes a slice of MilestoneScoreRow structs to a Parquet file.
func WriteMilestoneScoresParquet(data []MilestoneScoreRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ConvertGradeRunRecords converts schema.GradeRunRecord to GradeRun for Parquet export.
func ConvertGradeRunRecords(records []schema.GradeRunRecord) []GradeRun {
	result := make([]GradeRun, len(records))
	for i, record := range records {
		var params *string
		if record.ConfigParams != "" {
			p := record.ConfigParams
			params = &p
		}
		result[i] = GradeRun{
			RunID:        record.RunID,
			StartTime:    record.StartTime,
			EndTime:      record.EndTime,
			TotalRepos:   int32(record.TotalRepos),
			ConfigParams: params,
		}
	}
	return result
}

// ConvertGradeReportRecords converts schema.GradeReportRecord to GradeReportRow for Parquet export.
func ConvertGradeReportRecords(records []schema.GradeReportRecord) []GradeReportRow {
	result := make([]GradeReportRow, len(records))
	for i, record := range records {
		result[i] = GradeReportRow{
			RunID:      record.RunID,
			Repo:       record.Repo,
			Student:    record.Student,
			Status:     record.Status,
			RawScore:   record.RawScore,
			Adjustment: record.Adjustment,
			FinalScore: record.FinalScore,
			Letter:     record.Letter,
			GradedAt:   record.GradedAt,
		}
	}
	return result
}

// ConvertMilestoneScoreRecords converts schema.MilestoneScoreRecord to MilestoneScoreRow for Parquet export.
func ConvertMilestoneScoreRecords(records []schema.MilestoneScoreRecord) []MilestoneScoreRow {
	result := make([]MilestoneScoreRow, len(records))
	for i, record := range records {
		var remark *string
		if record.Remark != "" {
			r := record.Remark
			remark = &r
		}
		result[i] = MilestoneScoreRow{
			RunID:        record.RunID,
			Repo:         record.Repo,
			MilestoneID:  int32(record.MilestoneID),
			QualityScore: int32(record.QualityScore),
			Weight:       int32(record.Weight),
			EarnedPoints: record.EarnedPoints,
			Remark:       remark,
		}
	}
	return result
}
