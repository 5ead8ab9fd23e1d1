package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/gradekit/schema"
)

// Color variables for console output.
var (
	ExcellentColor    = color.New(color.FgGreen, color.Bold) // excellentColor represents a standout result.
	GoodColor         = color.New(color.FgCyan)              // goodColor represents a solid result.
	SatisfactoryColor = color.New(color.FgYellow)            // satisfactoryColor represents an acceptable result.
	PassingColor      = color.New(color.FgMagenta)           // passingColor represents a marginal result.
	FailingColor      = color.New(color.FgRed, color.Bold)   // failingColor represents a failing result.
	ReviewColor       = color.New(color.FgRed, color.Bold)   // reviewColor flags reports that need a human look.
)

// GetPlainBand returns the band label for a score percentage using the given
// threshold table. Bands are evaluated from highest threshold to lowest.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainBand(pct float64, thresholds map[schema.Band]float64) schema.Band {
	for _, band := range schema.BandOrder {
		if pct >= thresholds[band] {
			return band
		}
	}
	return schema.FailingBand
}

// GetColorBand returns a colored band label for console output (table).
// It uses GetPlainBand to determine the label, and then applies the appropriate color.
func GetColorBand(pct float64, thresholds map[schema.Band]float64) string {
	band := GetPlainBand(pct, thresholds)

	switch band {
	case schema.ExcellentBand:
		return ExcellentColor.Sprint(string(band))
	case schema.GoodBand:
		return GoodColor.Sprint(string(band))
	case schema.SatisfactoryBand:
		return SatisfactoryColor.Sprint(string(band))
	case schema.PassingBand:
		return PassingColor.Sprint(string(band))
	default: // "Failing"
		return FailingColor.Sprint(string(band))
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the
// provided file path. An empty path selects stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// LogInfo logs an informational message to stderr, keeping stdout
// free for report output.
func LogInfo(msg string) {
	_, _ = fmt.Fprintf(os.Stderr, "Info %s\n", msg)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for run history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".gradekit_history.db"
	}
	return filepath.Join(homeDir, ".gradekit_history.db")
}

// TruncateText truncates a string to a maximum width with ellipsis suffix.
// Requires maxWidth > 3 to ensure there's space for both the "..." suffix and
// at least one character of content.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
