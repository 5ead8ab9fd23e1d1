// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/gradekit/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// GraderFactory builds a grading backend from a per-request config.
// Injected so handlers can be unit tested without a live endpoint.
type GraderFactory func(cfg *contract.Config) contract.Grader

// NewMCPServer initializes and configures the Gradekit MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, newGrader GraderFactory, mgr contract.HistoryManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Gradekit Grading Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg:   baseCfg,
		newGrader: newGrader,
		mgr:       mgr,
	}

	// --- 1. Tool: grade_submission ---
	s.AddTool(mcp.NewTool("grade_submission",
		mcp.WithDescription("Grade a free-text submission against a rubric with multiple independent passes and return the reconciled report."),
		mcp.WithString("rubric_path", mcp.Description("Path to the rubric file (txt, md, docx or xlsx)."), mcp.Required()),
		mcp.WithString("answer_path", mcp.Description("Path to the submission file to grade."), mcp.Required()),
		mcp.WithNumber("passes", mcp.Description("Number of independent grading passes. Defaults to the server configuration.")),
		mcp.WithNumber("tolerance", mcp.Description("Agreement tolerance as a percent of each criterion's max points.")),
		mcp.WithString("strictness", mcp.Description("Scoring strictness (proportional, hardfail)."), mcp.Enum("proportional", "hardfail")),
		mcp.WithString("model", mcp.Description("Model identifier to grade with.")),
	), h.handleGradeSubmission)

	// --- 2. Tool: validate_rubric ---
	s.AddTool(mcp.NewTool("validate_rubric",
		mcp.WithDescription("Parse a rubric file and report structural violations without grading anything."),
		mcp.WithString("rubric_path", mcp.Description("Path to the rubric file to validate."), mcp.Required()),
	), h.handleValidateRubric)

	// --- 3. Tool: grading_history ---
	s.AddTool(mcp.NewTool("grading_history",
		mcp.WithDescription("List persisted grading runs from the history store, most recent last."),
		mcp.WithNumber("limit", mcp.Description("Return only the most recent N runs.")),
	), h.handleGradingHistory)

	return s
}

// StartMCPServer starts the Gradekit MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, newGrader GraderFactory, mgr contract.HistoryManager) error {
	s := NewMCPServer(baseCfg, newGrader, mgr)
	return server.ServeStdio(s)
}
