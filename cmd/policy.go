package cmd

import (
	"github.com/gradekit/gradekit/core"
	"github.com/gradekit/gradekit/internal/contract"
	"github.com/spf13/cobra"
)

// policyCmd prints the effective grading policy.
var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Print the effective grading policy.",
	Long: `Print the grading policy that would apply to the next run.

Shows the instruction bonus and its quality threshold, the late penalty
and deadline, whether raw scores are rescaled, and the letter grade
table. Useful for verifying flag and config file combinations before
grading a whole organization.

Examples:
  # Show the default policy
  gradekit policy

  # Preview a stricter policy
  gradekit policy --bonus 0 --late-penalty 20 --letters '90:A,80:B,70:C,60:D'`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePolicyShow(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot show policy", err)
		}
	},
}
