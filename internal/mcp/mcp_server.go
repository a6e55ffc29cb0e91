// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/gradekit/gradekit/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the gradekit MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Gradekit Grading Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: grade_repository ---
	s.AddTool(mcp.NewTool("grade_repository",
		mcp.WithDescription("Grade a checked-out student repository against the milestone catalog."),
		mcp.WithString("repo_path", mcp.Description("Path to the student's Git repository."), mcp.Required()),
		mcp.WithString("scorer", mcp.Description("Quality scorer strategy (heuristic, llm). Defaults to the configured scorer."), mcp.Enum("heuristic", "llm")),
	), h.handleGradeRepository)

	// --- 2. Tool: get_catalog ---
	s.AddTool(mcp.NewTool("get_catalog",
		mcp.WithDescription("Return the active milestone catalog with weights, expected files and grading criteria."),
	), h.handleGetCatalog)

	// --- 3. Tool: get_grade_runs ---
	s.AddTool(mcp.NewTool("get_grade_runs",
		mcp.WithDescription("Return every recorded grading run from the grade archive."),
	), h.handleGetGradeRuns)

	return s
}

// StartMCPServer starts the gradekit MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
