package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/gradekit/internal/contract"
	"github.com/huangsam/gradekit/internal/extract"
	"github.com/huangsam/gradekit/internal/outwriter"
	"github.com/huangsam/gradekit/internal/rubric"
	"github.com/huangsam/gradekit/schema"
)

// GetGradingReport runs the full grading pipeline and returns the
// reconciled report. It is shared by the CLI and the MCP server.
func GetGradingReport(ctx context.Context, grader contract.Grader, cfg *contract.Config) (*schema.Report, error) {
	r, err := loadRubric(cfg.RubricPath)
	if err != nil {
		return nil, err
	}

	answer, err := extract.Text(cfg.AnswerPath)
	if err != nil {
		return nil, err
	}

	outcome, err := runPasses(ctx, grader, r, answer, cfg)
	if err != nil {
		return nil, err
	}

	reconciled, err := Reconcile(outcome.candidates, r, cfg.Tolerance)
	if err != nil {
		return nil, err
	}

	var total float64
	for _, c := range reconciled {
		total += c.Points
	}
	feedback := pickOverallFeedback(outcome.candidates, total)

	report := assembleReport(reconciled, r, cfg, outcome, feedback)
	buildAudit(report, r, answer, cfg, outcome)
	return report, nil
}

// ExecuteGrade grades one submission, persists the run when a history
// backend is configured and prints the report. It serves as the main
// entry point for the 'grade' command.
func ExecuteGrade(ctx context.Context, grader contract.Grader, manager contract.HistoryManager, cfg *contract.Config) error {
	start := time.Now()
	report, err := GetGradingReport(ctx, grader, cfg)
	if err != nil {
		return err
	}

	if store := manager.GetHistoryStore(); store != nil {
		if _, err := store.SaveRun(report); err != nil {
			contract.LogWarn("history save", err)
		}
	}

	duration := time.Since(start)
	return outwriter.PrintReport(report, cfg, duration)
}

// GetRubricViolations parses the rubric file and returns every
// validation issue found. An empty slice means the rubric is valid.
func GetRubricViolations(path string) (*schema.Rubric, []string, error) {
	content, err := extract.Text(path)
	if err != nil {
		return nil, nil, err
	}
	r, err := rubric.Parse(content)
	if err != nil {
		return nil, nil, err
	}
	return r, rubric.Validate(r), nil
}

// ExecuteValidateRubric checks a rubric file and prints all violations.
// It serves as the main entry point for the 'validate-rubric' command.
func ExecuteValidateRubric(cfg *contract.Config) error {
	r, violations, err := GetRubricViolations(cfg.RubricPath)
	if err != nil {
		return err
	}

	if err := outwriter.PrintValidation(r, violations, cfg); err != nil {
		return err
	}
	if len(violations) > 0 {
		return &schema.RubricError{Violations: violations}
	}
	return nil
}

// ExecuteHealth verifies that the grading backend is reachable.
// It serves as the main entry point for the 'health' command.
func ExecuteHealth(ctx context.Context, grader contract.Grader, cfg *contract.Config) error {
	start := time.Now()
	if err := grader.Health(ctx); err != nil {
		return fmt.Errorf("backend %s is unhealthy: %w", cfg.BaseURL, err)
	}
	return outwriter.PrintHealth(cfg, time.Since(start))
}

// ExecuteHistoryList prints all persisted grading runs.
func ExecuteHistoryList(manager contract.HistoryManager, cfg *contract.Config) error {
	store := manager.GetHistoryStore()
	if store == nil {
		return fmt.Errorf("no history backend configured")
	}
	runs, err := store.GetAllRuns()
	if err != nil {
		return err
	}
	return outwriter.PrintHistory(runs, cfg)
}

// ExecuteHistoryStatus prints status information about the history store.
func ExecuteHistoryStatus(manager contract.HistoryManager, cfg *contract.Config) error {
	store := manager.GetHistoryStore()
	if store == nil {
		return fmt.Errorf("no history backend configured")
	}
	status, err := store.GetStatus()
	if err != nil {
		return err
	}
	return outwriter.PrintHistoryStatus(status, cfg)
}

// ExecuteHistoryPurge removes all persisted grading runs.
func ExecuteHistoryPurge(manager contract.HistoryManager) error {
	store := manager.GetHistoryStore()
	if store == nil {
		return fmt.Errorf("no history backend configured")
	}
	return store.Purge()
}

// loadRubric extracts the rubric file's text, parses it and rejects it
// when validation finds any violation. Grading never starts on a rubric
// that fails validation.
func loadRubric(path string) (*schema.Rubric, error) {
	content, err := extract.Text(path)
	if err != nil {
		return nil, err
	}
	r, err := rubric.Parse(content)
	if err != nil {
		return nil, err
	}
	if err := rubric.ValidateOrError(r); err != nil {
		return nil, err
	}
	return r, nil
}
