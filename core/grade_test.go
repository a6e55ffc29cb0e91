package core

import (
	"testing"
	"time"

	"github.com/gradekit/gradekit/internal/contract"
	"github.com/gradekit/gradekit/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFilterCommitsUntil verifies cutoff filtering renumbers survivors so
// milestone pairing restarts from 1.
func TestFilterCommitsUntil(t *testing.T) {
	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	commits := []schema.CommitRecord{
		{Index: 1, Hash: "a", Timestamp: base},
		{Index: 2, Hash: "b", Timestamp: base.Add(24 * time.Hour)},
		{Index: 3, Hash: "c", Timestamp: base.Add(48 * time.Hour)},
	}

	kept := filterCommitsUntil(commits, base.Add(24*time.Hour))
	require.Len(t, kept, 2)
	assert.Equal(t, "a", kept[0].Hash)
	assert.Equal(t, "b", kept[1].Hash)
	assert.Equal(t, 1, kept[0].Index)
	assert.Equal(t, 2, kept[1].Index)

	// Zero cutoff keeps everything untouched.
	all := filterCommitsUntil(commits, time.Time{})
	assert.Equal(t, commits, all)

	// Cutoff before the first commit drops every commit.
	none := filterCommitsUntil(commits, base.Add(-time.Hour))
	assert.Empty(t, none)
}

// TestStudentFromCommits verifies the most active author wins and GitHub
// noreply addresses resolve to usernames.
func TestStudentFromCommits(t *testing.T) {
	tests := []struct {
		name     string
		commits  []schema.CommitRecord
		expected string
	}{
		{
			name:     "no commits",
			commits:  nil,
			expected: "unknown",
		},
		{
			name: "noreply email resolves to username",
			commits: []schema.CommitRecord{
				{AuthorEmail: "12345+octocat@users.noreply.github.com"},
			},
			expected: "octocat",
		},
		{
			name: "most active author wins over instructor commits",
			commits: []schema.CommitRecord{
				{AuthorEmail: "instructor@example.edu"},
				{AuthorEmail: "alice@example.com"},
				{AuthorEmail: "alice@example.com"},
			},
			expected: "alice",
		},
		{
			name: "tie breaks deterministically",
			commits: []schema.CommitRecord{
				{AuthorEmail: "bob@example.com"},
				{AuthorEmail: "alice@example.com"},
			},
			expected: "alice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, studentFromCommits(tt.commits))
		})
	}
}

// TestBuildScorer checks scorer selection from config.
func TestBuildScorer(t *testing.T) {
	heuristic, err := BuildScorer(&contract.Config{Scorer: schema.HeuristicScorer})
	require.NoError(t, err)
	assert.Equal(t, schema.HeuristicScorer, heuristic.Kind())

	llm, err := BuildScorer(&contract.Config{Scorer: schema.LLMScorer})
	require.NoError(t, err)
	assert.Equal(t, schema.LLMScorer, llm.Kind())

	_, err = BuildScorer(&contract.Config{Scorer: "psychic"})
	assert.Error(t, err)
}
