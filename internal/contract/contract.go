// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/gradekit/schema"
)

// Grader defines the operations a grading backend must support.
// This allows the core engine to be tested without a live LLM endpoint.
type Grader interface {
	// Grade runs one grading pass for the answer against the rubric and
	// returns the strictly validated candidate result.
	Grade(ctx context.Context, rubric *schema.Rubric, answer string) (*schema.CandidateResult, error)

	// Health verifies that the backend is reachable and authorized.
	Health(ctx context.Context) error
}

// HistoryManager defines the interface for managing the run history store.
// This allows the persistence layer to be mocked for testing.
type HistoryManager interface {
	GetHistoryStore() HistoryStore
}

// HistoryStore defines the interface for grading run persistence.
type HistoryStore interface {
	// SaveRun persists a completed report and returns its unique run ID
	SaveRun(report *schema.Report) (int64, error)

	// GetAllRuns retrieves all persisted grading runs in run order
	GetAllRuns() ([]schema.GradingRunRecord, error)

	// Purge removes all persisted grading runs
	Purge() error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// Close closes the underlying connection
	Close() error
}
