// Package cmd defines the command-line interface for gradekit.
package cmd

import (
	"github.com/gradekit/gradekit/internal/contract"
	"github.com/gradekit/gradekit/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(gradeCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(policyCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(notifyCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the catalog subcommands to the parent catalog command
	catalogCmd.AddCommand(catalogShowCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeExportCmd)
	storeCmd.AddCommand(storeMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("org", "o", "", "GitHub organization holding student repositories")
	rootCmd.PersistentFlags().StringP("prefix", "p", "", "Repository name prefix for the assignment (e.g. assignment-)")
	rootCmd.PersistentFlags().String("workspace", "graded_repos", "Directory for clones and rendered report files")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent repository workers")
	rootCmd.PersistentFlags().Int("scorer-gate", contract.DefaultScorerGate, "Max concurrent scorer calls shared across workers")
	rootCmd.PersistentFlags().String("scorer", string(schema.HeuristicScorer), "Quality scorer: heuristic or llm")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Bool("freeze", false, "Skip pulls on existing clones so scores stay stable")
	rootCmd.PersistentFlags().String("grade-until", "", "Ignore commits after this instant (ISO8601)")
	rootCmd.PersistentFlags().String("catalog", "", "Path to a custom milestone catalog (JSON or YAML)")
	rootCmd.PersistentFlags().Float64("bonus", contract.DefaultBonus, "Instruction bonus points")
	rootCmd.PersistentFlags().Float64("bonus-threshold", contract.DefaultThreshold, "Average quality percentage required for the bonus")
	rootCmd.PersistentFlags().Float64("late-penalty", contract.DefaultLatePenalty, "Flat deduction for a post-deadline last commit")
	rootCmd.PersistentFlags().String("deadline", "", "Submission deadline (ISO8601, empty disables the late penalty)")
	rootCmd.PersistentFlags().Bool("rescale", false, "Rescale raw score by 100/sum(weights) before adjustments")
	rootCmd.PersistentFlags().String("letters", "", "Custom letter table (format: '80:A,65:B,55:C,50:D')")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Grade archive backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("github-token", "", "GitHub token for listing and cloning private repositories")
	rootCmd.PersistentFlags().String("llm-api-key", "", "API key for the LLM scorer")
	rootCmd.PersistentFlags().String("llm-model", "", "Model name for the LLM scorer")
	rootCmd.PersistentFlags().String("llm-base-url", "", "Base URL of an OpenAI-compatible endpoint")
	rootCmd.PersistentFlags().String("llm-timeout", "", "Per-call timeout for the LLM scorer (e.g. 90s)")
	rootCmd.PersistentFlags().String("moodle-url", "", "Moodle site URL for grade upload")
	rootCmd.PersistentFlags().String("moodle-token", "", "Moodle web service token")
	rootCmd.PersistentFlags().Int("moodle-course-id", 0, "Moodle course id receiving grades")
	rootCmd.PersistentFlags().Int("moodle-activity-id", 0, "Moodle assignment activity id receiving grades")
	rootCmd.PersistentFlags().String("graph-tenant-id", "", "Microsoft Graph tenant id for Teams notifications")
	rootCmd.PersistentFlags().String("graph-client-id", "", "Microsoft Graph application client id")
	rootCmd.PersistentFlags().String("graph-client-secret", "", "Microsoft Graph application client secret")
	rootCmd.PersistentFlags().String("graph-instructor", "", "Instructor email used to open 1:1 Teams chats")
	rootCmd.PersistentFlags().String("graph-student-domain", "", "Email domain appended to bare student handles")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
