package cmd

import (
	"github.com/gradekit/gradekit/core"
	"github.com/gradekit/gradekit/internal/contract"
	"github.com/spf13/cobra"
)

// catalogCmd groups milestone catalog inspection commands.
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the milestone catalog",
	Long: `Inspect the milestone catalog used for grading.

The catalog defines every milestone's id, description, point weight,
expected files, and grading criteria, plus the category groupings used
in report breakdowns. Grading uses the built-in catalog unless --catalog
points at a custom JSON or YAML file.

Subcommands:
  show - Print the resolved catalog

Examples:
  # Show the built-in catalog
  gradekit catalog show

  # Validate and show a custom catalog
  gradekit catalog show --catalog milestones.yaml`,
}

// catalogShowCmd prints the resolved milestone catalog.
var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved milestone catalog.",
	Long: `Print every milestone in the resolved catalog.

Loads the custom catalog when --catalog is set, otherwise the built-in
one, and prints each milestone with its weight and expected files along
with the category groupings and total weight.

Examples:
  # Table form
  gradekit catalog show

  # Machine-readable form for tooling
  gradekit catalog show --output json --output-file catalog.json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCatalogShow(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot show catalog", err)
		}
	},
}
