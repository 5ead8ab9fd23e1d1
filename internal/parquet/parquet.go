// Package parquet exports grading run history to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/gradekit/schema"
	"github.com/parquet-go/parquet-go"
)

// GradingRun represents a single persisted grading run.
// This struct maps to the gradekit_runs database table.
type GradingRun struct {
	// RunID is the unique identifier for this grading run
	RunID int64 `parquet:"run_id,snappy"`

	// GradedAt is when the run completed (stored as TIMESTAMP with nanosecond precision)
	GradedAt time.Time `parquet:"graded_at,snappy"`

	// RubricTitle is the title of the rubric the submission was graded against
	RubricTitle string `parquet:"rubric_title,snappy"`

	// Total is the reconciled total awarded across all criteria
	Total float64 `parquet:"total,snappy"`

	// MaxTotal is the maximum points the rubric carries
	MaxTotal float64 `parquet:"max_total,snappy"`

	// Band is the derived grade band for the run
	Band string `parquet:"band,snappy"`

	// NeedsReview flags runs where at least one criterion split across passes
	NeedsReview bool `parquet:"needs_review,snappy"`

	// Passes is the number of grading passes attempted
	Passes int32 `parquet:"passes,snappy"`

	// Model is the backend model the run used
	Model string `parquet:"model,snappy"`

	// ReportJSON contains the full JSON-encoded report (nullable)
	ReportJSON *string `parquet:"report_json,optional,snappy"`
}

// WriteGradingRunsParquet writes a slice of GradingRun structs to a Parquet file.
func WriteGradingRunsParquet(data []GradingRun, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the GradingRun struct tags
	writer := parquet.NewGenericWriter[GradingRun](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertGradingRunRecords converts schema.GradingRunRecord to GradingRun for Parquet export.
func ConvertGradingRunRecords(records []schema.GradingRunRecord) []GradingRun {
	result := make([]GradingRun, len(records))
	for i, record := range records {
		result[i] = GradingRun{
			RunID:       record.RunID,
			GradedAt:    record.GradedAt,
			RubricTitle: record.RubricTitle,
			Total:       record.Total,
			MaxTotal:    record.MaxTotal,
			Band:        record.Band,
			NeedsReview: record.NeedsReview,
			Passes:      int32(record.Passes),
			Model:       record.Model,
			ReportJSON:  record.ReportJSON,
		}
	}
	return result
}
