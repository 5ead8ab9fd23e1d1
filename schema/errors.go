package schema

import (
	"fmt"
	"strings"
)

// RubricError aggregates every violation found while validating a rubric.
// Validation does not stop at the first problem so that callers can show
// the complete list.
type RubricError struct {
	Violations []string
}

func (e *RubricError) Error() string {
	if len(e.Violations) == 1 {
		return fmt.Sprintf("invalid rubric: %s", e.Violations[0])
	}
	return fmt.Sprintf("invalid rubric (%d violations): %s", len(e.Violations), strings.Join(e.Violations, "; "))
}

// ExtractionError indicates that a supported answer file could not be read
// or yielded no usable text.
type ExtractionError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot extract text from %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("cannot extract text from %s: %s", e.Path, e.Reason)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// UnsupportedFormatError indicates an answer file with an extension that
// no extractor handles.
type UnsupportedFormatError struct {
	Path      string
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported answer format %q for %s (supported: .txt, .md, .docx, .pdf, .xlsx)", e.Extension, e.Path)
}

// BackendError indicates that a single grading pass failed at the backend.
// Transient failures are retried before this error surfaces.
type BackendError struct {
	PassIndex int
	Transient bool
	Err       error
}

func (e *BackendError) Error() string {
	kind := "permanent"
	if e.Transient {
		kind = "transient"
	}
	return fmt.Sprintf("grading pass %d failed (%s): %v", e.PassIndex+1, kind, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// InsufficientPassesError indicates that too few passes survived validation
// to reconcile a report.
type InsufficientPassesError struct {
	Valid    int
	Required int
	Total    int
}

func (e *InsufficientPassesError) Error() string {
	return fmt.Sprintf("only %d of %d grading passes produced valid results (need at least %d)", e.Valid, e.Total, e.Required)
}

// ReconciliationInvariantError indicates that reconciliation produced a value
// that violates a structural invariant. No partial report is emitted.
type ReconciliationInvariantError struct {
	Criterion string
	Detail    string
}

func (e *ReconciliationInvariantError) Error() string {
	return fmt.Sprintf("reconciliation invariant violated for criterion %q: %s", e.Criterion, e.Detail)
}
