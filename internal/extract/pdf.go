package extract

import (
	"bytes"

	"github.com/huangsam/gradekit/schema"
	"github.com/ledongthuc/pdf"
)

// pdfText extracts the text layer from a PDF. Scanned PDFs without a text
// layer come back empty and surface as an ExtractionError in Text.
func pdfText(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", &schema.ExtractionError{Path: path, Reason: "not a valid PDF", Err: err}
	}
	defer func() { _ = file.Close() }()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", &schema.ExtractionError{Path: path, Reason: "cannot read text layer", Err: err}
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", &schema.ExtractionError{Path: path, Reason: "cannot read text layer", Err: err}
	}
	return buf.String(), nil
}
