package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// ScorerKind represents the quality scorer strategy in use.
	ScorerKind string

	// RepoStatus represents the terminal grading status of one repository.
	RepoStatus string

	// LetterGrade represents a letter grade classification.
	LetterGrade string

	// StoreBackend represents the database backend for the grade archive.
	StoreBackend string
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	CSVOut  OutputMode = "csv"
	JSONOut OutputMode = "json"
)

// All quality scorer strategies supported.
const (
	HeuristicScorer ScorerKind = "heuristic" // default
	LLMScorer       ScorerKind = "llm"
)

// All terminal repository statuses.
//
// StatusNoSubmissions is deliberately distinct from a graded zero:
// downstream consumers must be able to tell "scored 0" apart from
// "nothing to score".
const (
	StatusGraded        RepoStatus = "graded"
	StatusNoSubmissions RepoStatus = "no-submissions"
	StatusFetchFailed   RepoStatus = "fetch-failed"
)

// All grade archive backends supported.
const (
	SQLiteBackend     StoreBackend = "sqlite" // default
	MySQLBackend      StoreBackend = "mysql"
	PostgreSQLBackend StoreBackend = "postgresql"
	NoneBackend       StoreBackend = "none"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	CSVOut:  {},
	JSONOut: {},
}

// ValidScorerKinds lists all valid scorer strategies.
var ValidScorerKinds = map[ScorerKind]struct{}{
	HeuristicScorer: {},
	LLMScorer:       {},
}

// ValidStoreBackends lists all valid grade archive backends.
var ValidStoreBackends = map[StoreBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
