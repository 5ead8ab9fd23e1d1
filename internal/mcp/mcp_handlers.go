package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/gradekit/core"
	"github.com/huangsam/gradekit/internal/contract"
	"github.com/huangsam/gradekit/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg   *contract.Config
	newGrader GraderFactory
	mgr       contract.HistoryManager
}

func (h *toolHandler) handleGradeSubmission(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.RubricPath = request.GetString("rubric_path", "")
	cfg.AnswerPath = request.GetString("answer_path", "")
	if cfg.RubricPath == "" {
		return mcp.NewToolResultError("rubric_path is required"), nil
	}
	if cfg.AnswerPath == "" {
		return mcp.NewToolResultError("answer_path is required"), nil
	}

	if p := request.GetInt("passes", 0); p > 0 {
		cfg.Passes = p
	}
	if tol := request.GetFloat("tolerance", -1); tol >= 0 {
		cfg.Tolerance = tol
	}
	if s := request.GetString("strictness", ""); s != "" {
		cfg.Strictness = schema.Strictness(s)
	}
	if m := request.GetString("model", ""); m != "" {
		cfg.Model = m
	}

	if err := contract.RevalidateGrading(cfg); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid grading parameters: %v", err)), nil
	}

	report, err := core.GetGradingReport(ctx, h.newGrader(cfg), cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("grading failed: %v", err)), nil
	}

	if store := h.mgr.GetHistoryStore(); store != nil {
		if _, err := store.SaveRun(report); err != nil {
			contract.LogWarn("history save", err)
		}
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleValidateRubric(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("rubric_path", "")
	if path == "" {
		return mcp.NewToolResultError("rubric_path is required"), nil
	}

	r, violations, err := core.GetRubricViolations(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("rubric validation failed: %v", err)), nil
	}

	if violations == nil {
		violations = []string{}
	}
	payload := map[string]any{
		"title":        r.Title,
		"criteria":     len(r.Criteria),
		"total_points": r.TotalPoints(),
		"valid":        len(violations) == 0,
		"violations":   violations,
	}

	jsonData, _ := json.MarshalIndent(payload, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGradingHistory(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store := h.mgr.GetHistoryStore()
	if store == nil {
		return mcp.NewToolResultError("history store is not initialized"), nil
	}

	runs, err := store.GetAllRuns()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history lookup failed: %v", err)), nil
	}

	if limit := request.GetInt("limit", 0); limit > 0 && limit < len(runs) {
		runs = runs[len(runs)-limit:]
	}

	jsonData, _ := json.MarshalIndent(runs, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
