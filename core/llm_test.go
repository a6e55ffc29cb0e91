package core

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gradekit/gradekit/internal/contract"
	"github.com/gradekit/gradekit/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func llmTestServer(t *testing.T, reply string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.WriteHeader(status)
		body := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": reply}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(body))
	}))
}

func llmScoreRequest() contract.ScoreRequest {
	return contract.ScoreRequest{
		CommitMessage: "added login",
		DiffText:      "diff --git a/login.php b/login.php\n+session_start();",
		Milestone: schema.MilestoneDefinition{
			ID:       5,
			Desc:     "Login with session and failed login handling",
			Weight:   6,
			Criteria: []string{"Login form with email and PIN"},
		},
	}
}

// TestLLMScoreParsesReply covers the happy path plus prose-wrapped JSON.
func TestLLMScoreParsesReply(t *testing.T) {
	tests := []struct {
		name           string
		reply          string
		expectedScore  int
		expectedRemark string
	}{
		{
			name:           "plain json",
			reply:          `{"quality_score": 85, "remark": "solid login flow"}`,
			expectedScore:  85,
			expectedRemark: "solid login flow",
		},
		{
			name:           "json wrapped in prose",
			reply:          "Here is my assessment:\n```json\n{\"quality_score\": 72, \"remark\": \"works\"}\n```\nGood luck!",
			expectedScore:  72,
			expectedRemark: "works",
		},
		{
			name:           "legacy score key",
			reply:          `{"score": 64, "remark": "older prompt shape"}`,
			expectedScore:  64,
			expectedRemark: "older prompt shape",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := llmTestServer(t, tt.reply, http.StatusOK)
			defer srv.Close()

			scorer := NewLLMQualityScorer(contract.LLMConfig{APIKey: "test-key", BaseURL: srv.URL})
			result := scorer.Score(context.Background(), llmScoreRequest())
			assert.Equal(t, tt.expectedScore, result.Score)
			assert.Equal(t, tt.expectedRemark, result.Remark)
		})
	}
}

// TestLLMScoreAbsorbsFailures ensures every failure degrades to zero
// quality with a diagnostic remark instead of an error.
func TestLLMScoreAbsorbsFailures(t *testing.T) {
	tests := []struct {
		name   string
		reply  string
		status int
	}{
		{name: "http error", reply: `{"quality_score": 80}`, status: http.StatusTooManyRequests},
		{name: "unparseable reply", reply: "I cannot grade this.", status: http.StatusOK},
		{name: "missing score key", reply: `{"remark": "forgot the number"}`, status: http.StatusOK},
		{name: "out of range score", reply: `{"quality_score": 250, "remark": "!"}`, status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := llmTestServer(t, tt.reply, tt.status)
			defer srv.Close()

			scorer := NewLLMQualityScorer(contract.LLMConfig{APIKey: "test-key", BaseURL: srv.URL})
			result := scorer.Score(context.Background(), llmScoreRequest())
			assert.Equal(t, 0, result.Score)
			assert.Contains(t, result.Remark, "scorer error")
		})
	}
}

// TestLLMScoreUnreachable covers a dead endpoint.
func TestLLMScoreUnreachable(t *testing.T) {
	scorer := NewLLMQualityScorer(contract.LLMConfig{APIKey: "test-key", BaseURL: "http://127.0.0.1:1"})
	result := scorer.Score(context.Background(), llmScoreRequest())
	assert.Equal(t, 0, result.Score)
	assert.Contains(t, result.Remark, "scorer error")
}

// TestLLMScoreZeroWeightSkipsNetwork verifies zero-weight milestones are
// answered locally.
func TestLLMScoreZeroWeightSkipsNetwork(t *testing.T) {
	scorer := NewLLMQualityScorer(contract.LLMConfig{APIKey: "test-key", BaseURL: "http://127.0.0.1:1"})
	req := llmScoreRequest()
	req.Milestone.Weight = 0

	result := scorer.Score(context.Background(), req)
	assert.Equal(t, 100, result.Score)
	assert.Equal(t, "Code quality milestone - not separately graded", result.Remark)
}

// TestBuildPromptTruncatesDiff keeps oversized diffs within the cap.
func TestBuildPromptTruncatesDiff(t *testing.T) {
	req := llmScoreRequest()
	for len(req.DiffText) <= maxDiffChars {
		req.DiffText += req.DiffText
	}

	prompt := buildPrompt(req)
	assert.Less(t, len(prompt), len(req.DiffText))
	assert.Contains(t, prompt, req.Milestone.Desc)
	assert.Contains(t, prompt, fmt.Sprintf("MILESTONE WEIGHT: %d points", req.Milestone.Weight))
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "bare object", raw: `{"a":1}`, expected: `{"a":1}`},
		{name: "fenced object", raw: "```json\n{\"a\":1}\n```", expected: `{"a":1}`},
		{name: "nested braces", raw: `note {"a":{"b":2}} done`, expected: `{"a":{"b":2}}`},
		{name: "no braces", raw: "nothing here", expected: "nothing here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractJSON(tt.raw))
		})
	}
}
