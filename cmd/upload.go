package cmd

import (
	"github.com/gradekit/gradekit/core"
	"github.com/gradekit/gradekit/internal/contract"
	"github.com/spf13/cobra"
)

// uploadCmd pushes archived grades to Moodle.
var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload the latest run's grades to Moodle.",
	Long: `Push final scores from the most recent archived run to Moodle.

Reads the latest grade run from the archive, resolves each student's
Moodle user id by username, and writes their final score into the
configured assignment activity via the Moodle web service API.

Repositories that failed to grade are skipped. A failed upload for one
student does not stop the rest; failures are reported at the end.

Requires: --moodle-url, --moodle-token, --moodle-course-id, and
--moodle-activity-id (or their GRADEKIT_* environment variables).

Examples:
  # Upload after a batch run
  gradekit batch --org cs101-fall26 --prefix assignment-
  gradekit upload --moodle-url https://moodle.school.edu --moodle-course-id 42 --moodle-activity-id 9001

  # Keep the token out of shell history
  GRADEKIT_MOODLE_TOKEN=... gradekit upload --moodle-url https://moodle.school.edu --moodle-course-id 42 --moodle-activity-id 9001`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteGradeUpload(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot upload grades", err)
		}
	},
}
