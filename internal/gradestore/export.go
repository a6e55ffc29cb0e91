package gradestore

import (
	"errors"
	"fmt"

	"github.com/gradekit/gradekit/internal/parquet"
)

// ExecuteGradeExport performs the actual export of grade archive data to Parquet files.
func ExecuteGradeExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Get the grade store
	store := Manager.GetGradeStore()

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no grade data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total grading runs: %d\n", status.TotalRuns)
	fmt.Printf("Total grade reports: %d\n", status.TotalReports)

	// Retrieve all grading runs
	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve grade runs: %w", err)
	}

	// Retrieve all grade reports
	reports, err := store.GetAllReports()
	if err != nil {
		return fmt.Errorf("failed to retrieve grade reports: %w", err)
	}

	// Retrieve all milestone scores
	scores, err := store.GetAllMilestoneScores()
	if err != nil {
		return fmt.Errorf("failed to retrieve milestone scores: %w", err)
	}

	// Convert to Parquet format and write each table
	runsFile := outputFile + ".grade_runs.parquet"
	if err := parquet.WriteGradeRunsParquet(parquet.ConvertGradeRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write grade runs: %w", err)
	}
	fmt.Printf("Exported %d grade runs to: %s\n", len(runs), runsFile)

	reportsFile := outputFile + ".grade_reports.parquet"
	if err := parquet.WriteGradeReportsParquet(parquet.ConvertGradeReportRecords(reports), reportsFile); err != nil {
		return fmt.Errorf("failed to write grade reports: %w", err)
	}
	fmt.Printf("Exported %d grade reports to: %s\n", len(reports), reportsFile)

	scoresFile := outputFile + ".milestone_scores.parquet"
	if err := parquet.WriteMilestoneScoresParquet(parquet.ConvertMilestoneScoreRecords(scores), scoresFile); err != nil {
		return fmt.Errorf("failed to write milestone scores: %w", err)
	}
	fmt.Printf("Exported %d milestone scores to: %s\n", len(scores), scoresFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
