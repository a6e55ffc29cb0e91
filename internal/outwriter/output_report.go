package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/gradekit/gradekit/internal/contract"
	"github.com/gradekit/gradekit/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteGradeReport outputs one grade report, dispatching based on the output format configured.
func WriteGradeReport(report schema.GradeReport, cfg *contract.Config) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeReportJSONResults(report, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeReportCSVResults(report, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportTable(report, cfg, fmtFloat, intFmt, w)
		}, "Wrote table")
	}
	return nil
}

// writeReportJSONResults handles opening the file and calling the JSON writer.
func writeReportJSONResults(report schema.GradeReport, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, report)
	}, "Wrote JSON")
}

// writeReportCSVResults handles opening the file and calling the CSV writer.
func writeReportCSVResults(report schema.GradeReport, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := []string{
			"milestone_id",
			"desc",
			"quality_score",
			"weight",
			"earned_points",
			"remark",
		}
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for _, ms := range report.MilestoneScores {
				rec := []string{
					strconv.Itoa(ms.MilestoneID),      // Milestone ID
					ms.Desc,                           // Description
					fmt.Sprintf(intFmt, ms.QualityScore), // Quality
					fmt.Sprintf(intFmt, ms.Weight),    // Weight
					fmtFloat(ms.EarnedPoints),         // Earned
					ms.Remark,                         // Remark
				}
				if err := csvWriter.Write(rec); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV")
}

// writeReportTable generates and writes the human-readable per-repo table.
func writeReportTable(report schema.GradeReport, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "Grade report for %s (student: %s)\n", report.Repo, report.Student); err != nil {
		return err
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"ID", "Milestone", "Quality", "Weight", "Earned", "Remark"})

	// Right-align the numeric columns for a minimal look
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	descWidth := getMaxTableDescWidth(cfg)
	var data [][]string
	for _, ms := range report.MilestoneScores {
		data = append(data, []string{
			strconv.Itoa(ms.MilestoneID),
			contract.TruncateText(ms.Desc, descWidth),
			fmt.Sprintf(intFmt, ms.QualityScore),
			fmt.Sprintf(intFmt, ms.Weight),
			fmtFloat(ms.EarnedPoints),
			contract.TruncateText(ms.Remark, descWidth),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if err := writeCategoryBreakdown(writer, report.Categories, fmtFloat); err != nil {
		return err
	}
	return writeReportSummary(writer, report, cfg, fmtFloat)
}

// writeCategoryBreakdown prints the per-category earned/possible rollup.
func writeCategoryBreakdown(writer io.Writer, categories []schema.CategoryScore, fmtFloat func(float64) string) error {
	if len(categories) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(writer, "Category breakdown:"); err != nil {
		return err
	}
	for _, c := range categories {
		if _, err := fmt.Fprintf(writer, "  %-32s %s / %d\n", c.Name, fmtFloat(c.Earned), c.Possible); err != nil {
			return err
		}
	}
	return nil
}

// writeReportSummary prints the terminal grade lines shared by table output.
func writeReportSummary(writer io.Writer, report schema.GradeReport, cfg *contract.Config, fmtFloat func(float64) string) error {
	letter := string(report.Letter)
	status := string(report.Status)
	if cfg.UseColors {
		letter = contract.GetColorLetter(report.Letter, report.FinalScore)
		status = contract.GetStatusLabel(report.Status)
	}

	adjustment := fmtFloat(report.Adjustment)
	if report.Adjustment > 0 {
		adjustment = "+" + adjustment
	}
	lines := []string{
		fmt.Sprintf("Status: %s", status),
		fmt.Sprintf("Raw score: %s", fmtFloat(report.RawScore)),
		fmt.Sprintf("Adjustment: %s", adjustment),
		fmt.Sprintf("Final score: %s (%s)", fmtFloat(report.FinalScore), letter),
		fmt.Sprintf("Average quality: %s%%", fmtFloat(report.AvgQuality)),
	}
	if report.BonusApplied {
		lines = append(lines, "Instruction bonus applied")
	}
	if report.PenaltyApplied {
		lines = append(lines, fmt.Sprintf("Late penalty applied (%d days late)", report.DaysLate))
	}
	if !report.LastCommit.IsZero() {
		lines = append(lines, fmt.Sprintf("Last commit: %s", report.LastCommit.Format(contract.DateTimeFormat)))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(writer, line); err != nil {
			return err
		}
	}
	return nil
}
