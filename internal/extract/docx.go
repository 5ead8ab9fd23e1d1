package extract

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"strings"

	"github.com/huangsam/gradekit/schema"
)

// docxText extracts paragraph text from a Word document. OOXML stores the
// body in word/document.xml inside the zip container; text lives in w:t
// runs and paragraphs end at w:p boundaries.
func docxText(path string) (string, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return "", &schema.ExtractionError{Path: path, Reason: "not a valid Word document", Err: err}
	}
	defer func() { _ = reader.Close() }()

	var document *zip.File
	for _, f := range reader.File {
		if f.Name == "word/document.xml" {
			document = f
			break
		}
	}
	if document == nil {
		return "", &schema.ExtractionError{Path: path, Reason: "missing word/document.xml"}
	}

	rc, err := document.Open()
	if err != nil {
		return "", &schema.ExtractionError{Path: path, Reason: "cannot open document body", Err: err}
	}
	defer func() { _ = rc.Close() }()

	text, err := decodeDocumentXML(rc)
	if err != nil {
		return "", &schema.ExtractionError{Path: path, Reason: "cannot parse document body", Err: err}
	}
	return text, nil
}

// decodeDocumentXML streams the document body, collecting w:t character data
// and emitting newlines at paragraph ends.
func decodeDocumentXML(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var sb strings.Builder
	var inText bool

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return sb.String(), nil
}
