package cmd

import (
	"github.com/gradekit/gradekit/core"
	"github.com/gradekit/gradekit/internal/contract"
	"github.com/spf13/cobra"
)

// batchCmd grades every matching repository in a GitHub organization.
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Grade all assignment repositories in a GitHub organization.",
	Long: `Discover, sync, and grade every assignment repository in an organization.

Lists repositories whose names start with the assignment prefix, clones or
pulls each one into the workspace, and grades them concurrently. A failure
in one repository never aborts the batch; failed repositories appear in
the summary with their error.

Produces:
- A ranked summary table (or CSV/JSON) across all students
- Per-repository Markdown and HTML report files in the workspace
- A gradebook.csv ready for LMS import
- An archived run in the grade store for later upload and notification

Examples:
  # Grade every assignment-* repository in the course org
  gradekit batch --org cs101-fall26 --prefix assignment-

  # Stable re-grading: no pulls, cutoff at the deadline
  gradekit batch --org cs101-fall26 --prefix assignment- --freeze --grade-until 2026-05-01T00:00:00Z

  # Apply a late penalty against a deadline
  gradekit batch --org cs101-fall26 --prefix assignment- --deadline 2026-04-30T23:59:59Z

  # Export the summary as CSV
  gradekit batch --org cs101-fall26 --prefix assignment- --output csv --output-file summary.csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteGradeBatch(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot grade organization", err)
		}
	},
}
