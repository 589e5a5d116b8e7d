package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/Gosha-Prog/Hahaton-Cherpy/internal/model"
)

// answerRule separates question/answer pairs in the answers report.
var answerRule = strings.Repeat("-", 80)

// AnswersWriter outputs question/answer pairs, delimited by a fixed
// separator line, in original question order. Failed completions are
// rendered as "answer unavailable" with the failure reason, so the pairing
// never silently misaligns.
type AnswersWriter struct {
	baseWriter
}

// NewAnswersWriter creates an AnswersWriter that outputs to the given writer.
func NewAnswersWriter(output io.Writer) *AnswersWriter {
	return &AnswersWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs all answer records in order.
func (w *AnswersWriter) Write(answers []model.AnswerRecord) (int, error) {
	var b strings.Builder

	for _, a := range answers {
		fmt.Fprintf(&b, "Question: %s\n", a.Question)
		if a.Failed {
			fmt.Fprintf(&b, "Answer: answer unavailable (%s)\n", a.FailReason)
		} else {
			fmt.Fprintf(&b, "Answer: %s\n", a.Answer)
		}
		fmt.Fprintf(&b, "%s\n\n", answerRule)
	}

	return io.WriteString(w.output, b.String())
}
