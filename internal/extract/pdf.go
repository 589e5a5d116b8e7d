package extract

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// PDFText is the PDF text-extraction capability.
type PDFText interface {
	// ExtractText returns the plain text of a PDF document.
	ExtractText(data []byte) (string, error)
}

// PDFReader extracts text with the pure-Go ledongthuc/pdf reader.
type PDFReader struct{}

// NewPDFReader creates a PDFReader.
func NewPDFReader() *PDFReader {
	return &PDFReader{}
}

// ExtractText returns the concatenated plain text of all pages.
func (r *PDFReader) ExtractText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	text, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, text); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	return buf.String(), nil
}
