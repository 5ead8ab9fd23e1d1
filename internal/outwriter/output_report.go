package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/huangsam/gradekit/internal/contract"
	"github.com/huangsam/gradekit/schema"
)

// PrintReport outputs the grading report, dispatching based on the
// configured output format.
func PrintReport(report *schema.Report, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportCSV(w, report, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for grade reports; use 'gradekit history export'")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportTable(w, report, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
}

// writeReportTable generates and writes the human-readable report table.
func writeReportTable(w io.Writer, report *schema.Report, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	if _, err := fmt.Fprintf(w, "%s\n\n", report.Title); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Criterion", "Points", "Max", "Agreement", "Justification"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	maxWidth := getMaxJustificationWidth(cfg)
	var data [][]string
	for _, c := range report.Criteria {
		agreement := strings.ToUpper(string(c.Agreement))
		if c.VarianceNote != nil {
			agreement = fmt.Sprintf("%s (%s..%s over %d passes)",
				agreement, fmtFloat(c.VarianceNote.MinPoints), fmtFloat(c.VarianceNote.MaxPoints), c.VarianceNote.PassCount)
		}
		data = append(data, []string{
			c.Criterion,
			fmtFloat(c.Points),
			fmtFloat(c.MaxPoints),
			agreement,
			contract.TruncateText(c.Justification, maxWidth),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	band := string(report.Band)
	if cfg.UseColors {
		band = contract.GetColorBand(report.Percentage(), cfg.BandThresholds)
	}
	if _, err := fmt.Fprintf(w, "Total: %s / %s (%s%%) -> %s\n",
		fmtFloat(report.Total), fmtFloat(report.MaxTotal), fmtFloat(report.Percentage()), band); err != nil {
		return err
	}

	if report.NeedsReview {
		notice := "Needs review: at least one criterion split across passes"
		if cfg.UseColors {
			notice = contract.ReviewColor.Sprint(notice)
		}
		if _, err := fmt.Fprintln(w, notice); err != nil {
			return err
		}
	}
	if report.Degraded {
		if _, err := fmt.Fprintln(w, "Degraded: result from a single surviving pass"); err != nil {
			return err
		}
	}

	if report.OverallFeedback != "" {
		if _, err := fmt.Fprintf(w, "\nFeedback: %s\n", report.OverallFeedback); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "Graded in %v with %d/%d valid passes using %s\n",
		duration.Round(time.Millisecond), report.Audit.ValidPasses, report.Audit.Passes, report.Audit.Model)
	return err
}

// writeReportCSV writes one row per criterion plus a trailing total row.
func writeReportCSV(w io.Writer, report *schema.Report, fmtFloat func(float64) string) error {
	header := []string{
		"criterion",
		"points",
		"max_points",
		"agreement",
		"justification",
		"variance_min",
		"variance_max",
		"pass_count",
	}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, c := range report.Criteria {
			rec := []string{
				c.Criterion,
				fmtFloat(c.Points),
				fmtFloat(c.MaxPoints),
				string(c.Agreement),
				c.Justification,
				"", "", "",
			}
			if c.VarianceNote != nil {
				rec[5] = fmtFloat(c.VarianceNote.MinPoints)
				rec[6] = fmtFloat(c.VarianceNote.MaxPoints)
				rec[7] = strconv.Itoa(c.VarianceNote.PassCount)
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return csvWriter.Write([]string{
			"TOTAL",
			fmtFloat(report.Total),
			fmtFloat(report.MaxTotal),
			string(report.Band),
			report.OverallFeedback,
			"", "", "",
		})
	})
}
