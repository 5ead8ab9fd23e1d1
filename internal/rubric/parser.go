// Package rubric parses and validates grading rubrics from plain text.
package rubric

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/huangsam/gradekit/schema"
)

// DefaultTitle is used when the rubric text carries no heading.
const DefaultTitle = "Grading Rubric"

// Patterns for the supported rubric line formats.
var (
	// numberedPattern matches "1. Criterion Name (10 points): Description".
	numberedPattern = regexp.MustCompile(`(?i)^\s*(\d+)\.\s*([^(]+)\((\d+(?:\.\d+)?)\s*(?:points?|pts?|marks?)\)[:\s]*(.*)$`)

	// simplePattern matches "Criterion Name - 10 pts - Description".
	simplePattern = regexp.MustCompile(`(?i)^\s*([^-]+?)\s*[-–—]\s*(\d+(?:\.\d+)?)\s*(?:points?|pts?|marks?)\s*[-–—]\s*(.+)$`)

	// colonPattern matches "Criterion Name: 10 points, Description".
	colonPattern = regexp.MustCompile(`(?i)^\s*([^:]+):\s*(\d+(?:\.\d+)?)\s*(?:points?|pts?|marks?)[,;:\s]+(.+)$`)

	// cellPointsPattern finds a points value inside a markdown table cell.
	cellPointsPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:points?|pts?|marks?)?`)

	// pointsHintPattern detects lines that mention points, which disqualifies
	// them as title candidates.
	pointsHintPattern = regexp.MustCompile(`(?i)\d+\s*(?:points?|pts?|marks?)`)

	// declaredTotalPattern matches a standalone total line such as
	// "Total: 100 points" or "Total points = 100".
	declaredTotalPattern = regexp.MustCompile(`(?i)^\s*total(?:\s*points?)?\s*[:=]\s*(\d+(?:\.\d+)?)\s*(?:points?|pts?|marks?)?\s*$`)
)

// Parse converts raw rubric text into a structured Rubric.
// It tries each supported line format in order: numbered list, dash
// separated, colon separated, then markdown table rows. Lines that match
// no format are skipped. Returns an error when the text yields no criteria.
func Parse(content string) (*schema.Rubric, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("rubric content is empty")
	}

	lines := strings.Split(strings.TrimSpace(content), "\n")
	var criteria []schema.Criterion
	var declaredTotal *float64

	for lineNum, line := range lines {
		stripped := strings.TrimSpace(line)

		// Skip empty lines, headings, and table separators
		if stripped == "" || strings.HasPrefix(stripped, "#") || strings.HasPrefix(stripped, "---") {
			continue
		}
		if strings.HasPrefix(stripped, "|") && isTableSeparator(stripped) {
			continue
		}

		if m := declaredTotalPattern.FindStringSubmatch(stripped); m != nil {
			total, err := parsePoints(m[1], lineNum+1)
			if err != nil {
				return nil, err
			}
			if declaredTotal == nil {
				declaredTotal = &total
			}
			continue
		}

		criterion, err := parseLine(stripped, lineNum+1)
		if err != nil {
			return nil, err
		}
		if criterion != nil {
			criteria = append(criteria, *criterion)
		}
	}

	if len(criteria) == 0 {
		return nil, fmt.Errorf("no valid criteria found. Expected format like:\n" +
			"  1. Content Accuracy (10 points): Description\n" +
			"  OR: Content Accuracy - 10 pts - Description")
	}

	title := extractTitle(lines)
	if title == "" {
		title = DefaultTitle
	}

	return &schema.Rubric{Title: title, Criteria: criteria, DeclaredTotal: declaredTotal}, nil
}

// parseLine tries each pattern against a single line.
func parseLine(line string, lineNum int) (*schema.Criterion, error) {
	if m := numberedPattern.FindStringSubmatch(line); m != nil {
		points, err := parsePoints(m[3], lineNum)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSpace(m[2])
		description := strings.TrimSpace(m[4])
		if description == "" {
			description = fmt.Sprintf("Evaluation of %s", name)
		}
		return &schema.Criterion{Name: name, MaxPoints: points, Description: description}, nil
	}

	if m := simplePattern.FindStringSubmatch(line); m != nil {
		points, err := parsePoints(m[2], lineNum)
		if err != nil {
			return nil, err
		}
		return &schema.Criterion{
			Name:        strings.TrimSpace(m[1]),
			MaxPoints:   points,
			Description: strings.TrimSpace(m[3]),
		}, nil
	}

	if m := colonPattern.FindStringSubmatch(line); m != nil {
		points, err := parsePoints(m[2], lineNum)
		if err != nil {
			return nil, err
		}
		return &schema.Criterion{
			Name:        strings.TrimSpace(m[1]),
			MaxPoints:   points,
			Description: strings.TrimSpace(m[3]),
		}, nil
	}

	return parseTableRow(line, lineNum)
}

// parseTableRow tries to parse a markdown table row like
// "| Criterion | 10 points | Description |".
func parseTableRow(line string, lineNum int) (*schema.Criterion, error) {
	if !strings.HasPrefix(line, "|") {
		return nil, nil
	}

	var cells []string
	for _, c := range strings.Split(line, "|") {
		if trimmed := strings.TrimSpace(c); trimmed != "" {
			cells = append(cells, trimmed)
		}
	}
	if len(cells) < 2 {
		return nil, nil
	}

	for i, cell := range cells {
		m := cellPointsPattern.FindStringSubmatch(cell)
		if m == nil {
			continue
		}
		points, err := parsePoints(m[1], lineNum)
		if err != nil {
			return nil, err
		}

		var name, description string
		if i == 0 {
			name = strings.TrimSpace(strings.Replace(cell, m[0], "", 1))
			if name == "" {
				name = fmt.Sprintf("Criterion %d", lineNum)
			}
			description = strings.Join(cells[1:], " ")
		} else {
			name = cells[0]
			if i+1 < len(cells) {
				description = strings.Join(cells[i+1:], " ")
			}
		}
		if description == "" {
			description = fmt.Sprintf("Evaluation of %s", name)
		}

		if name != "" && points > 0 {
			return &schema.Criterion{Name: name, MaxPoints: points, Description: description}, nil
		}
	}
	return nil, nil
}

// parsePoints parses a points value from its string form.
func parsePoints(s string, lineNum int) (float64, error) {
	points, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: invalid points value: %s", lineNum, s)
	}
	if points <= 0 {
		return 0, fmt.Errorf("line %d: points must be positive, got %s", lineNum, s)
	}
	return points, nil
}

// isTableSeparator reports whether a table line contains only dashes and colons.
func isTableSeparator(line string) bool {
	body := strings.TrimSpace(strings.ReplaceAll(line, "|", ""))
	if body == "" {
		return false
	}
	for _, r := range body {
		if r != '-' && r != ':' && r != ' ' {
			return false
		}
	}
	return true
}

// extractTitle returns the rubric title from a leading heading, if present.
func extractTitle(lines []string) string {
	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}
		// Markdown heading
		if strings.HasPrefix(stripped, "#") {
			return strings.TrimSpace(strings.TrimLeft(stripped, "#"))
		}
		// First non-empty line that doesn't look like a criterion
		if !pointsHintPattern.MatchString(stripped) {
			if len(stripped) < 100 && !strings.ContainsAny(stripped, "|-:") {
				return stripped
			}
			break
		}
	}
	return ""
}
