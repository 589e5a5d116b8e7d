package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/Gosha-Prog/Hahaton-Cherpy/internal/model"
)

// headerRule separates page blocks in the flattened artifact.
var headerRule = strings.Repeat("=", 80)

// TextWriter outputs the flattened human-readable form of the crawl: per
// record a URL header, optional title, main text, OCR image blocks, and file
// content blocks. This concatenated document is what the answer engine
// embeds in its prompts.
type TextWriter struct {
	baseWriter
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs all records in order.
func (w *TextWriter) Write(records []*model.PageRecord) (int, error) {
	var b strings.Builder

	for _, page := range records {
		fmt.Fprintf(&b, "\n%s\nURL: %s\n%s\n\n", headerRule, page.URL, headerRule)

		if page.Metadata.Title != "" {
			fmt.Fprintf(&b, "Title: %s\n", page.Metadata.Title)
		}

		fmt.Fprintf(&b, "\nMain text:\n%s\n", page.Text)

		if len(page.Images) > 0 {
			b.WriteString("\nText from images:\n")
			for _, img := range page.Images {
				fmt.Fprintf(&b, "\nImage: %s\n", img.URL)
				if img.AltText != "" {
					fmt.Fprintf(&b, "Description: %s\n", img.AltText)
				}
				fmt.Fprintf(&b, "Text: %s\n", img.OCRText)
			}
		}

		if len(page.FilesContent) > 0 {
			b.WriteString("\nFile contents:\n")
			for _, file := range page.FilesContent {
				fmt.Fprintf(&b, "\nFile: %s\n%s\n", file.URL, file.Content)
			}
		}
	}

	return io.WriteString(w.output, b.String())
}
