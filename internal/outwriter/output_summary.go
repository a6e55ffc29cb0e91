package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/gradekit/gradekit/internal/contract"
	"github.com/gradekit/gradekit/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteBatchSummary outputs the batch grading results, dispatching based on
// the output format configured.
func WriteBatchSummary(summary schema.BatchSummary, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeSummaryJSONResults(summary, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeSummaryCSVResults(summary, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryTable(summary, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeSummaryJSONResults handles opening the file and calling the JSON writer.
func writeSummaryJSONResults(summary schema.BatchSummary, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, summary)
	}, "Wrote JSON")
}

// writeSummaryCSVResults handles opening the file and calling the CSV writer.
func writeSummaryCSVResults(summary schema.BatchSummary, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := []string{
			"repo",
			"student",
			"status",
			"raw_score",
			"adjustment",
			"final_score",
			"letter_grade",
			"avg_quality",
			"days_late",
			"last_commit",
		}
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for _, r := range summary.Reports {
				lastCommit := ""
				if !r.LastCommit.IsZero() {
					lastCommit = r.LastCommit.Format(contract.DateTimeFormat)
				}
				rec := []string{
					r.Repo,                        // Repository
					r.Student,                     // Student handle
					string(r.Status),              // Status
					fmtFloat(r.RawScore),          // Raw score
					fmtFloat(r.Adjustment),        // Adjustment
					fmtFloat(r.FinalScore),        // Final score
					string(r.Letter),              // Letter grade
					fmtFloat(r.AvgQuality),        // Average quality
					fmt.Sprintf(intFmt, r.DaysLate), // Days late
					lastCommit,                    // Last commit date
				}
				if err := csvWriter.Write(rec); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV")
}

// writeSummaryTable generates and writes the human-readable batch table.
func writeSummaryTable(summary schema.BatchSummary, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", "Repo", "Student", "Final", "Letter", "Quality", "Status"})

	// Right-align the numeric columns for a minimal look
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, r := range summary.Reports {
		letter := string(r.Letter)
		status := string(r.Status)
		if cfg.UseColors {
			letter = contract.GetColorLetter(r.Letter, r.FinalScore)
			status = contract.GetStatusLabel(r.Status)
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			r.Repo,
			r.Student,
			fmtFloat(r.FinalScore),
			letter,
			fmtFloat(r.AvgQuality),
			status,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	for _, f := range summary.Failures {
		if _, err := fmt.Fprintf(writer, "Failed: %s (%s)\n", f.Repo, f.Reason); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(writer, "Graded %d repositories (%d failures)\n", len(summary.Reports), len(summary.Failures)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Grading completed in %v with %d workers. Scorer: %s\n", duration, cfg.Workers, cfg.Scorer); err != nil {
		return err
	}
	return nil
}

// WriteGradebookCSV writes the student,score gradebook consumed by bulk
// gradebook imports. Repositories without submissions still get a row so
// missing students are visible in the roster.
func WriteGradebookCSV(reports []schema.GradeReport, outputFile string) error {
	return writeWithFile(outputFile, func(w io.Writer) error {
		header := []string{"student", "repo", "final_score", "letter_grade"}
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for _, r := range reports {
				rec := []string{
					r.Student,
					r.Repo,
					strconv.FormatFloat(r.FinalScore, 'f', 2, 64),
					string(r.Letter),
				}
				if err := csvWriter.Write(rec); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote gradebook")
}
