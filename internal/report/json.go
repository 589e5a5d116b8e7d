package report

import (
	"encoding/json"
	"io"

	"github.com/Gosha-Prog/Hahaton-Cherpy/internal/model"
)

// JSONWriter outputs page records as an indented UTF-8 JSON array.
// This is the structured crawl artifact; ReadRecords round-trips it.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because it is sufficient for our needs and behaves
// consistently across Go versions.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed output. On by default because the
	// artifact is meant to be inspectable.
	indent bool
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithCompactJSON disables indentation.
func WithCompactJSON() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = false
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
		indent:     true,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the records as a JSON array.
func (w *JSONWriter) Write(records []*model.PageRecord) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(records, "", "  ")
	} else {
		data, err = json.Marshal(records)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}

// ReadRecords parses the structured artifact back into page records.
func ReadRecords(r io.Reader) ([]*model.PageRecord, error) {
	var records []*model.PageRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, err
	}
	return records, nil
}
