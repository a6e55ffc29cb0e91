package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/gradekit/gradekit/core"
	"github.com/gradekit/gradekit/internal/contract"
	"github.com/gradekit/gradekit/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

func (h *toolHandler) handleGradeRepository(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	repoPath := request.GetString("repo_path", "")
	if repoPath == "" {
		return mcp.NewToolResultError("repo_path is required"), nil
	}
	cfg.RepoPath = repoPath
	if s := request.GetString("scorer", ""); s != "" {
		cfg.Scorer = schema.ScorerKind(s)
	}

	catalog, err := core.ResolveCatalog(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("catalog load failed: %v", err)), nil
	}
	scorer, err := core.BuildScorer(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scorer setup failed: %v", err)), nil
	}

	pipeline := core.NewGradePipeline(cfg, contract.NewLocalGitClient(), scorer, catalog)
	report, err := pipeline.GradeLocal(ctx, filepath.Base(cfg.RepoPath), cfg.RepoPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("grading failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetCatalog(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	catalog, err := core.ResolveCatalog(h.baseCfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("catalog load failed: %v", err)), nil
	}

	payload := map[string]any{
		"milestones":   catalog.Definitions(),
		"categories":   catalog.Categories(),
		"total_weight": catalog.TotalWeight(),
	}
	jsonData, _ := json.MarshalIndent(payload, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetGradeRuns(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store := h.mgr.GetGradeStore()
	if store == nil {
		return mcp.NewToolResultError("grade archive is not initialized"), nil
	}

	runs, err := store.GetAllRuns()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot read grade runs: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(runs, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
