package extract

import (
	"archive/zip"
	"encoding/xml"
	"sort"
	"strconv"
	"strings"

	"github.com/huangsam/gradekit/schema"
)

// sharedStrings mirrors xl/sharedStrings.xml. Each si entry may hold one
// t element or several rich-text runs.
type sharedStrings struct {
	Items []sharedStringItem `xml:"si"`
}

type sharedStringItem struct {
	Text string   `xml:"t"`
	Runs []string `xml:"r>t"`
}

func (s *sharedStringItem) value() string {
	if s.Text != "" {
		return s.Text
	}
	return strings.Join(s.Runs, "")
}

// worksheet mirrors the cell data of one xl/worksheets/sheetN.xml.
type worksheet struct {
	Rows []worksheetRow `xml:"sheetData>row"`
}

type worksheetRow struct {
	Cells []worksheetCell `xml:"c"`
}

type worksheetCell struct {
	Type  string `xml:"t,attr"`
	Value string `xml:"v"`
	// Inline strings carry their text under is>t instead of v
	Inline string `xml:"is>t"`
}

// xlsxText extracts cell text from a spreadsheet. Cells in one row are
// joined by tabs, rows by newlines, sheets by a blank line.
func xlsxText(path string) (string, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return "", &schema.ExtractionError{Path: path, Reason: "not a valid spreadsheet", Err: err}
	}
	defer func() { _ = reader.Close() }()

	shared, err := readSharedStrings(&reader.Reader)
	if err != nil {
		return "", &schema.ExtractionError{Path: path, Reason: "cannot parse shared strings", Err: err}
	}

	// Collect sheet entries in workbook order so output is deterministic
	var sheets []*zip.File
	for _, f := range reader.File {
		if strings.HasPrefix(f.Name, "xl/worksheets/sheet") && strings.HasSuffix(f.Name, ".xml") {
			sheets = append(sheets, f)
		}
	}
	if len(sheets) == 0 {
		return "", &schema.ExtractionError{Path: path, Reason: "missing worksheet data"}
	}
	sort.Slice(sheets, func(i, j int) bool { return sheetNumber(sheets[i].Name) < sheetNumber(sheets[j].Name) })

	var parts []string
	for _, f := range sheets {
		text, err := readSheet(f, shared)
		if err != nil {
			return "", &schema.ExtractionError{Path: path, Reason: "cannot parse worksheet " + f.Name, Err: err}
		}
		if text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, "\n\n"), nil
}

// sheetNumber pulls the numeric suffix out of a worksheet entry name so
// sheet10.xml sorts after sheet2.xml.
func sheetNumber(name string) int {
	base := strings.TrimSuffix(strings.TrimPrefix(name, "xl/worksheets/sheet"), ".xml")
	n, err := strconv.Atoi(base)
	if err != nil {
		return 0
	}
	return n
}

// readSharedStrings loads the shared string table, which may be absent.
func readSharedStrings(r *zip.Reader) ([]string, error) {
	for _, f := range r.File {
		if f.Name != "xl/sharedStrings.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer func() { _ = rc.Close() }()

		var table sharedStrings
		if err := xml.NewDecoder(rc).Decode(&table); err != nil {
			return nil, err
		}
		values := make([]string, len(table.Items))
		for i := range table.Items {
			values[i] = table.Items[i].value()
		}
		return values, nil
	}
	return nil, nil
}

// readSheet renders one worksheet's cells as tab-separated rows.
func readSheet(f *zip.File, shared []string) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer func() { _ = rc.Close() }()

	var sheet worksheet
	if err := xml.NewDecoder(rc).Decode(&sheet); err != nil {
		return "", err
	}

	var lines []string
	for _, row := range sheet.Rows {
		var cells []string
		for _, cell := range row.Cells {
			if v := cellText(cell, shared); v != "" {
				cells = append(cells, v)
			}
		}
		if len(cells) > 0 {
			lines = append(lines, strings.Join(cells, "\t"))
		}
	}
	return strings.Join(lines, "\n"), nil
}

// cellText resolves a cell's display value based on its type attribute.
func cellText(cell worksheetCell, shared []string) string {
	switch cell.Type {
	case "s": // shared string index
		idx, err := strconv.Atoi(cell.Value)
		if err != nil || idx < 0 || idx >= len(shared) {
			return ""
		}
		return shared[idx]
	case "inlineStr":
		return cell.Inline
	default: // numbers, booleans, formula results
		return cell.Value
	}
}
