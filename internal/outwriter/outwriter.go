// Package outwriter has output and writer logic for grade results.
package outwriter

import (
	"os"
	"time"

	"github.com/gradekit/gradekit/internal/contract"
	"github.com/gradekit/gradekit/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteReport prints a single grade report using the configured output format.
func (ow *OutWriter) WriteReport(report schema.GradeReport, cfg *contract.Config) error {
	return WriteGradeReport(report, cfg)
}

// WriteSummary prints a batch grading summary using the configured output format.
func (ow *OutWriter) WriteSummary(summary schema.BatchSummary, cfg *contract.Config, duration time.Duration) error {
	return WriteBatchSummary(summary, cfg, duration)
}

// WriteCatalog prints the milestone catalog using the configured output format.
func (ow *OutWriter) WriteCatalog(defs []schema.MilestoneDefinition, categories []schema.Category, cfg *contract.Config) error {
	return WriteCatalogDefinitions(defs, categories, cfg)
}

// WritePolicy prints the active grading policy using the configured output format.
func (ow *OutWriter) WritePolicy(policy contract.GradingPolicy, cfg *contract.Config) error {
	return WriteGradingPolicy(policy, cfg)
}

// WriteGradebook writes the canonical student,score gradebook CSV.
func (ow *OutWriter) WriteGradebook(reports []schema.GradeReport, outputFile string) error {
	return WriteGradebookCSV(reports, outputFile)
}

// getMaxTableDescWidth calculates the maximum width for milestone descriptions
// in table output based on terminal width.
func getMaxTableDescWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default for narrow terminals and CI
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the fixed columns (id, quality, weight, earned)
	// plus table borders, separators, and padding.
	baseWidth := 50

	available := termWidth - baseWidth
	if available < 15 {
		return 15
	}
	if available > 60 {
		return 60
	}
	return available
}
