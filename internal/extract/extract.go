// Package extract pulls plain text out of answer files in the supported formats.
package extract

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/huangsam/gradekit/schema"
)

// SupportedExtensions lists every answer file extension an extractor
// handles. Legacy binary formats (.doc, .xls) are not supported; only
// the OOXML containers can be read.
var SupportedExtensions = []string{".txt", ".md", ".docx", ".pdf", ".xlsx"}

// Text extracts plain text from an answer file, dispatching on extension.
// It returns an UnsupportedFormatError for unknown extensions and an
// ExtractionError when a supported file yields no usable text.
func Text(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var content string
	var err error
	switch ext {
	case ".txt", ".md":
		content, err = plainText(path)
	case ".docx":
		content, err = docxText(path)
	case ".xlsx":
		content, err = xlsxText(path)
	case ".pdf":
		content, err = pdfText(path)
	default:
		return "", &schema.UnsupportedFormatError{Path: path, Extension: ext}
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(content) == "" {
		return "", &schema.ExtractionError{Path: path, Reason: "file is empty or contains only whitespace"}
	}
	return content, nil
}

// plainText reads a .txt or .md file. Files that are not valid UTF-8 are
// decoded byte-wise as Latin-1 so legacy exports still grade.
func plainText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &schema.ExtractionError{Path: path, Reason: "cannot read file", Err: err}
	}

	// Strip a UTF-8 BOM if present
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		data = data[3:]
	}

	if utf8.Valid(data) {
		return string(data), nil
	}

	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes), nil
}
