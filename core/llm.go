package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gradekit/gradekit/internal/contract"
	"github.com/gradekit/gradekit/schema"
)

const (
	defaultLLMBaseURL = "https://api.openai.com/v1"
	defaultLLMModel   = "gpt-4o-mini"
	defaultLLMTimeout = 60 * time.Second

	// Diffs are truncated before prompting to keep requests bounded.
	maxDiffChars = 4000
)

// LLMQualityScorer rates a commit by sending its diff and the milestone
// rubric to an OpenAI-compatible chat completions endpoint. Any failure
// (network, auth, malformed reply) is absorbed into a zero-quality result
// so one bad call never aborts a grading run.
type LLMQualityScorer struct {
	cfg    contract.LLMConfig
	client *http.Client
}

// NewLLMQualityScorer creates a scorer from the given LLM settings,
// applying defaults for the model, base URL and timeout.
func NewLLMQualityScorer(cfg contract.LLMConfig) *LLMQualityScorer {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultLLMBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultLLMModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultLLMTimeout
	}
	return &LLMQualityScorer{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Kind identifies this scorer in config and reports.
func (s *LLMQualityScorer) Kind() schema.ScorerKind {
	return schema.LLMScorer
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// scorerReply is the JSON shape the model is asked to produce. Older
// prompts used "score" instead of "quality_score", so both are accepted.
type scorerReply struct {
	QualityScore *int   `json:"quality_score"`
	Score        *int   `json:"score"`
	Remark       string `json:"remark"`
}

// Score rates one commit against its paired milestone. Zero-weight
// milestones are answered locally without a network call.
func (s *LLMQualityScorer) Score(ctx context.Context, req contract.ScoreRequest) schema.QualityResult {
	if req.Milestone.Weight == 0 {
		return schema.QualityResult{Score: 100, Remark: "Code quality milestone - not separately graded"}
	}

	content, err := s.complete(ctx, buildPrompt(req))
	if err != nil {
		return schema.QualityResult{Score: 0, Remark: fmt.Sprintf("scorer error: %v", err)}
	}

	var reply scorerReply
	if err := json.Unmarshal([]byte(extractJSON(content)), &reply); err != nil {
		return schema.QualityResult{Score: 0, Remark: fmt.Sprintf("scorer error: unparseable reply: %v", err)}
	}
	score := reply.QualityScore
	if score == nil {
		score = reply.Score
	}
	if score == nil {
		return schema.QualityResult{Score: 0, Remark: "scorer error: reply missing quality score"}
	}
	clamped, ok := schema.ClampQuality(*score)
	if !ok {
		return schema.QualityResult{Score: 0, Remark: fmt.Sprintf("scorer error: quality %d out of range", *score)}
	}
	return schema.QualityResult{Score: clamped, Remark: reply.Remark}
}

func (s *LLMQualityScorer) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    s.cfg.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	url := strings.TrimSuffix(s.cfg.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat completions returned %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat completions returned no choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// extractJSON slices out the outermost object from a reply that may be
// wrapped in prose or code fences. If no braces are found the raw text is
// returned and left to the JSON decoder to reject.
func extractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return raw
	}
	return raw[start : end+1]
}

func buildPrompt(req contract.ScoreRequest) string {
	def := req.Milestone

	var criteria strings.Builder
	for _, c := range def.Criteria {
		fmt.Fprintf(&criteria, "  - %s\n", c)
	}
	criteriaText := criteria.String()
	if criteriaText == "" {
		criteriaText = "  - General implementation quality\n"
	}

	expectedFiles := "N/A"
	if len(def.Files) > 0 {
		expectedFiles = strings.Join(def.Files, ", ")
	}

	diff := req.DiffText
	if len(diff) > maxDiffChars {
		diff = diff[:maxDiffChars]
	}

	return fmt.Sprintf(`You are a fair, flexible, and supportive grader for a Banking System project milestone.

MILESTONE: %s
MILESTONE WEIGHT: %d points (out of 100 total for all milestones)
EXPECTED FILES: %s

GRADING CRITERIA (check each point):
%s
STUDENT COMMIT MESSAGE:
%s

CODE CHANGES (diff):
%s

GRADING PHILOSOPHY:
You are evaluating student work, not professional production code. Be FLEXIBLE and GENEROUS while being fair.
- Students are learning, so give credit for honest attempts and functional implementations
- Focus on whether the core functionality works, not perfection
- Don't penalize heavily for missing advanced features or edge cases
- If the basic requirement is met, start at 70%% and adjust up or down

EVALUATION STEPS:
1. Did the student make relevant file changes matching this milestone?
2. Is the basic functionality present (even if not perfect)?
3. Does it show understanding of the concept?
4. Be LENIENT on minor issues, styling, or missing edge cases

QUALITY SCORE GUIDELINES (be flexible and generous):
- 90-100%%: Excellent implementation, all/most criteria met, works well
- 75-89%%: Good implementation, core functionality works, minor issues are acceptable
- 60-74%%: Basic implementation present, shows understanding, may have some issues
- 45-59%%: Partial implementation, shows effort but incomplete or has problems
- 25-44%%: Minimal implementation, shows some attempt but lacking key parts
- 0-24%%: Not implemented, no relevant changes, or completely wrong

IMPORTANT GRADING RULES:
1. If relevant files are modified and basic functionality exists, start at 70%%
2. If student attempted the milestone but incomplete, give 50-65%%
3. If code shows understanding but has bugs, give 60-75%%
4. Only give below 50%% if milestone barely attempted or wrong approach
5. Give 80-90%% if it works reasonably well (perfection not required)
6. Reserve 0-40%% for truly missing/wrong implementations

BE GENEROUS: Students are learning. Credit effort and functional code appropriately.

Respond ONLY in JSON format:
{
  "quality_score": <0-100>,
  "remark": "<brief positive or constructive comment>"
}`, def.Desc, def.Weight, expectedFiles, criteriaText, req.CommitMessage, diff)
}
