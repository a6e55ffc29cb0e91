package cmd

import (
	"github.com/gradekit/gradekit/core"
	"github.com/gradekit/gradekit/internal/contract"
	"github.com/spf13/cobra"
)

// gradeCmd grades a single local repository.
var gradeCmd = &cobra.Command{
	Use:   "grade [repo-path]",
	Short: "Grade a single student repository.",
	Long: `Grade one local repository against the milestone catalog.

Walks the repository's Git history milestone by milestone, extracts each
milestone's diff, scores its quality, and aggregates the results into a
final score with a letter grade. Also writes Markdown and HTML report
files into the workspace directory.

Examples:
  # Grade the repository in the current directory
  gradekit grade

  # Grade a specific clone
  gradekit grade ./assignment-alice

  # Use the LLM scorer with a custom catalog
  gradekit grade ./assignment-alice --scorer llm --catalog milestones.yaml

  # Reproduce a past grade by cutting off later commits
  gradekit grade ./assignment-alice --grade-until 2026-05-01T00:00:00Z

  # Export results as JSON
  gradekit grade --output json --output-file result.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteGradeRepo(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot grade repository", err)
		}
	},
}
