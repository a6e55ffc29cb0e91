package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gradekit/gradekit/schema"
)

// Default values for configuration.
const (
	DefaultPrecision   = 2
	DefaultScorerGate  = 2
	DefaultBonus       = 5.0
	DefaultThreshold   = 80.0
	DefaultLatePenalty = 10.0
	MinDiffChars       = 10 // Trimmed diffs below this length short-circuit to a zero score
)

// DefaultWorkers is the default number of concurrent repository workers.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// deadlineFormat is the legacy "YYYY-MM-DD HH:MM:SS" form accepted for
// deadlines and grading cutoffs alongside RFC3339.
const deadlineFormat = "2006-01-02 15:04:05"

// DefaultLetterTable is the ordered highest-first grade classification.
// A final score equal to a boundary maps to that boundary's grade.
var DefaultLetterTable = []schema.GradeThreshold{
	{Min: 80, Letter: "A"},
	{Min: 75, Letter: "B+"},
	{Min: 70, Letter: "B"},
	{Min: 65, Letter: "C+"},
	{Min: 60, Letter: "C"},
	{Min: 55, Letter: "D+"},
	{Min: 50, Letter: "D"},
}

// FailingLetter is awarded below the lowest threshold.
const FailingLetter schema.LetterGrade = "F"

// GradingPolicy holds the run-wide bonus/penalty configuration consumed by
// the grade finalizer.
type GradingPolicy struct {
	InstructionBonus     float64   // Added once when average quality meets the threshold
	InstructionThreshold float64   // Inclusive percentage bound for the bonus
	LatePenalty          float64   // Flat deduction for a post-deadline last commit
	Deadline             time.Time // Zero value disables the penalty
	Rescale              bool      // Rescale raw score by 100/sum(weights) before adjustment
	Letters              []schema.GradeThreshold
}

// LLMConfig holds the chat-completion scorer settings.
type LLMConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// MoodleConfig holds the grade upload collaborator settings.
type MoodleConfig struct {
	BaseURL    string
	Token      string
	CourseID   int
	ActivityID int // Assignment activity receiving the grades
}

// GraphConfig holds the Teams notification collaborator settings.
type GraphConfig struct {
	TenantID      string
	ClientID      string
	ClientSecret  string
	Instructor    string // Instructor email for 1:1 chat creation
	StudentDomain string // Appended to bare student handles to form their email
}

// Config holds the runtime configuration for grading.
// This struct remains the "final, validated" config.
type Config struct {
	RepoPath   string // Single-repo grading target (set by positional arg)
	Org        string // GitHub organization for batch grading
	RepoPrefix string // Assignment repository name prefix
	Workspace  string // Directory holding clones and rendered reports

	Workers    int
	ScorerGate int // Max concurrent scorer calls shared across workers
	Scorer     schema.ScorerKind
	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	Freeze     bool      // Skip pulls on existing clones so scores stay stable
	GradeUntil time.Time // Drop commits after this instant (zero = grade all)

	CatalogFile string
	Policy      GradingPolicy

	StoreBackend schema.StoreBackend
	StoreConnect string // Please use env var as this is plaintext

	GitHubToken string
	LLM         LLMConfig
	Moodle      MoodleConfig
	Graph       GraphConfig
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoPathStr string

	Org       string `mapstructure:"org"`
	Prefix    string `mapstructure:"prefix"`
	Workspace string `mapstructure:"workspace"`

	Workers    int    `mapstructure:"workers"`
	ScorerGate int    `mapstructure:"scorer-gate"`
	Scorer     string `mapstructure:"scorer"`
	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Precision  int    `mapstructure:"precision"`
	Width      int    `mapstructure:"width"`
	Color      string `mapstructure:"color"`

	Freeze     bool   `mapstructure:"freeze"`
	GradeUntil string `mapstructure:"grade-until"`

	Catalog string `mapstructure:"catalog"`

	Bonus          float64 `mapstructure:"bonus"`
	BonusThreshold float64 `mapstructure:"bonus-threshold"`
	LatePenalty    float64 `mapstructure:"late-penalty"`
	Deadline       string  `mapstructure:"deadline"`
	Rescale        bool    `mapstructure:"rescale"`
	Letters        string  `mapstructure:"letters"`

	StoreBackend string `mapstructure:"store-backend"`
	StoreConnect string `mapstructure:"store-db-connect"`

	GitHubToken string `mapstructure:"github-token"`

	LLMAPIKey  string `mapstructure:"llm-api-key"`
	LLMModel   string `mapstructure:"llm-model"`
	LLMBaseURL string `mapstructure:"llm-base-url"`
	LLMTimeout string `mapstructure:"llm-timeout"`

	MoodleURL        string `mapstructure:"moodle-url"`
	MoodleToken      string `mapstructure:"moodle-token"`
	MoodleCourseID   int    `mapstructure:"moodle-course-id"`
	MoodleActivityID int    `mapstructure:"moodle-activity-id"`

	GraphTenantID      string `mapstructure:"graph-tenant-id"`
	GraphClientID      string `mapstructure:"graph-client-id"`
	GraphClientSecret  string `mapstructure:"graph-client-secret"`
	GraphInstructor    string `mapstructure:"graph-instructor"`
	GraphStudentDomain string `mapstructure:"graph-student-domain"`
}

// ProcessAndValidate performs all complex parsing and validation on the raw
// inputs and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// --- 1. Workers / scorer gate ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.ScorerGate <= 0 {
		return fmt.Errorf("scorer-gate must be greater than 0 (received %d)", input.ScorerGate)
	}
	cfg.ScorerGate = input.ScorerGate

	// --- 2. Scorer strategy ---
	cfg.Scorer = schema.ScorerKind(strings.ToLower(input.Scorer))
	if _, ok := schema.ValidScorerKinds[cfg.Scorer]; !ok {
		return fmt.Errorf("invalid scorer '%s'. must be heuristic or llm", input.Scorer)
	}

	// --- 3. Precision and output ---
	if input.Precision < 0 || input.Precision > 4 {
		return fmt.Errorf("precision must be between 0 and 4 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.UseColors = parseBoolish(input.Color, true)

	// --- 4. Repo targets and workspace ---
	cfg.Org = input.Org
	cfg.RepoPrefix = input.Prefix
	cfg.Workspace = input.Workspace
	if cfg.Workspace == "" {
		cfg.Workspace = "graded_repos"
	}
	if input.RepoPathStr != "" {
		abs, err := filepath.Abs(input.RepoPathStr)
		if err != nil {
			return fmt.Errorf("invalid repo path %q: %w", input.RepoPathStr, err)
		}
		cfg.RepoPath = abs
	}

	// --- 5. Time cutoffs ---
	cfg.Freeze = input.Freeze
	if input.GradeUntil != "" {
		t, err := parseFlexibleTime(input.GradeUntil)
		if err != nil {
			return fmt.Errorf("invalid grade-until %q: %w", input.GradeUntil, err)
		}
		cfg.GradeUntil = t
	}

	// --- 6. Grading policy ---
	cfg.Policy = GradingPolicy{
		InstructionBonus:     input.Bonus,
		InstructionThreshold: input.BonusThreshold,
		LatePenalty:          input.LatePenalty,
		Rescale:              input.Rescale,
		Letters:              DefaultLetterTable,
	}
	if input.Bonus < 0 {
		return fmt.Errorf("bonus must not be negative (received %v)", input.Bonus)
	}
	if input.LatePenalty < 0 {
		return fmt.Errorf("late-penalty must not be negative (received %v)", input.LatePenalty)
	}
	if input.BonusThreshold < 0 || input.BonusThreshold > 100 {
		return fmt.Errorf("bonus-threshold must be within [0,100] (received %v)", input.BonusThreshold)
	}
	if input.Deadline != "" {
		t, err := parseFlexibleTime(input.Deadline)
		if err != nil {
			return fmt.Errorf("invalid deadline %q: %w", input.Deadline, err)
		}
		cfg.Policy.Deadline = t
	}
	if input.Letters != "" {
		table, err := ParseLetterTable(input.Letters)
		if err != nil {
			return fmt.Errorf("invalid letters %q: %w", input.Letters, err)
		}
		cfg.Policy.Letters = table
	}

	// --- 7. Catalog ---
	cfg.CatalogFile = input.Catalog

	// --- 8. Grade archive backend ---
	cfg.StoreBackend = schema.StoreBackend(strings.ToLower(input.StoreBackend))
	if _, ok := schema.ValidStoreBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, or none", input.StoreBackend)
	}
	cfg.StoreConnect = input.StoreConnect
	if err := ValidateStoreConnectionString(cfg.StoreBackend, cfg.StoreConnect); err != nil {
		return err
	}

	// --- 9. Collaborator credentials ---
	cfg.GitHubToken = input.GitHubToken

	cfg.LLM = LLMConfig{
		APIKey:  input.LLMAPIKey,
		Model:   input.LLMModel,
		BaseURL: strings.TrimRight(input.LLMBaseURL, "/"),
		Timeout: 60 * time.Second,
	}
	if input.LLMTimeout != "" {
		d, err := time.ParseDuration(input.LLMTimeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid llm-timeout %q", input.LLMTimeout)
		}
		cfg.LLM.Timeout = d
	}
	if cfg.Scorer == schema.LLMScorer && cfg.LLM.APIKey == "" {
		return fmt.Errorf("llm scorer selected but llm-api-key is empty. Set GRADEKIT_LLM_API_KEY")
	}

	cfg.Moodle = MoodleConfig{
		BaseURL:    strings.TrimRight(input.MoodleURL, "/"),
		Token:      input.MoodleToken,
		CourseID:   input.MoodleCourseID,
		ActivityID: input.MoodleActivityID,
	}
	cfg.Graph = GraphConfig{
		TenantID:      input.GraphTenantID,
		ClientID:      input.GraphClientID,
		ClientSecret:  input.GraphClientSecret,
		Instructor:    input.GraphInstructor,
		StudentDomain: strings.TrimPrefix(input.GraphStudentDomain, "@"),
	}

	return nil
}

// Clone returns a copy of the config safe for per-request overrides. Slices
// on the policy are shared and must be treated as read-only.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ValidateStoreConnectionString checks that SQL backends carry a connection
// string. SQLite falls back to the default database file when empty.
func ValidateStoreConnectionString(backend schema.StoreBackend, connStr string) error {
	switch backend {
	case schema.MySQLBackend, schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required for %s backend", backend)
		}
	}
	return nil
}

// ParseLetterTable parses "80:A,75:B+,70:B" into an ordered threshold table.
// Entries are sorted highest-first; duplicates are rejected.
func ParseLetterTable(s string) ([]schema.GradeThreshold, error) {
	var table []schema.GradeThreshold
	seen := make(map[float64]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		minStr, letter, ok := strings.Cut(part, ":")
		if !ok || letter == "" {
			return nil, fmt.Errorf("entry %q must look like '80:A'", part)
		}
		minVal, err := strconv.ParseFloat(strings.TrimSpace(minStr), 64)
		if err != nil {
			return nil, fmt.Errorf("entry %q has a non-numeric threshold", part)
		}
		if seen[minVal] {
			return nil, fmt.Errorf("duplicate threshold %v", minVal)
		}
		seen[minVal] = true
		table = append(table, schema.GradeThreshold{Min: minVal, Letter: schema.LetterGrade(strings.TrimSpace(letter))})
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("no entries found")
	}
	sort.Slice(table, func(i, j int) bool { return table[i].Min > table[j].Min })
	return table, nil
}

// parseFlexibleTime accepts RFC3339 or the legacy "YYYY-MM-DD HH:MM:SS" form.
func parseFlexibleTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation(deadlineFormat, s, time.Local)
}

// parseBoolish interprets yes/no/true/false/1/0 with a default for anything else.
func parseBoolish(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1", "on":
		return true
	case "no", "false", "0", "off":
		return false
	default:
		return def
	}
}

// GetGradeDBFilePath returns the path to the SQLite DB file for the grade archive.
func GetGradeDBFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gradekit.grades.db"
	}
	return filepath.Join(home, ".gradekit.grades.db")
}
