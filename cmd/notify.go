package cmd

import (
	"github.com/gradekit/gradekit/core"
	"github.com/gradekit/gradekit/internal/contract"
	"github.com/spf13/cobra"
)

// notifyCmd sends report cards to students over Microsoft Teams.
var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Send the latest run's report cards via Microsoft Teams.",
	Long: `Send each student their HTML report card in a 1:1 Teams chat.

Reads the latest grade run from the archive, re-renders each student's
HTML report, opens (or reuses) a one-on-one chat between the instructor
and the student, and posts the report. Reports larger than the Teams
message limit are split on milestone boundaries into numbered parts.

A failed delivery for one student does not stop the rest; failures are
reported at the end.

Requires: --graph-tenant-id, --graph-client-id, --graph-client-secret,
and --graph-instructor (or their GRADEKIT_* environment variables).
Students identified by a bare Git handle get --graph-student-domain
appended to form their email.

Examples:
  # Notify every student from the last batch run
  gradekit notify --graph-instructor prof@school.edu --graph-student-domain school.edu

  # Credentials via environment
  GRADEKIT_GRAPH_CLIENT_SECRET=... gradekit notify --graph-instructor prof@school.edu`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteGradeNotify(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot notify students", err)
		}
	},
}
