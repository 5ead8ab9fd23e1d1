package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/gradekit/internal/contract"
	"github.com/huangsam/gradekit/schema"
)

// PrintValidation outputs the rubric validation outcome, dispatching
// based on the configured output format.
func PrintValidation(r *schema.Rubric, violations []string, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, validationPayload(r, violations))
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeValidationCSV(w, violations)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeValidationText(w, r, violations, cfg)
		}, "Wrote report")
	}
}

func validationPayload(r *schema.Rubric, violations []string) map[string]any {
	if violations == nil {
		violations = []string{}
	}
	return map[string]any{
		"title":        r.Title,
		"criteria":     len(r.Criteria),
		"total_points": r.TotalPoints(),
		"valid":        len(violations) == 0,
		"violations":   violations,
	}
}

func writeValidationText(w io.Writer, r *schema.Rubric, violations []string, cfg *contract.Config) error {
	fmtFloat := createFormatter(cfg.Precision)
	if _, err := fmt.Fprintf(w, "%s: %d criteria, %s points total\n",
		r.Title, len(r.Criteria), fmtFloat(r.TotalPoints())); err != nil {
		return err
	}

	if len(violations) == 0 {
		_, err := fmt.Fprintln(w, "Rubric is valid")
		return err
	}

	header := fmt.Sprintf("Found %d issue(s):", len(violations))
	if cfg.UseColors {
		header = contract.ReviewColor.Sprint(header)
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	for _, v := range violations {
		if _, err := fmt.Fprintf(w, "  - %s\n", v); err != nil {
			return err
		}
	}
	return nil
}

func writeValidationCSV(w io.Writer, violations []string) error {
	return writeCSVWithHeader(w, []string{"index", "violation"}, func(csvWriter *csv.Writer) error {
		for i, v := range violations {
			if err := csvWriter.Write([]string{strconv.Itoa(i + 1), v}); err != nil {
				return err
			}
		}
		return nil
	})
}
