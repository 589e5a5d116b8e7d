package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/Gosha-Prog/Hahaton-Cherpy/internal/model"
)

// MarkdownWriter outputs a run report in Markdown format.
// This format is designed for documentation and sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full run report in Markdown format.
func (w *MarkdownWriter) Write(report *model.RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writePages(md, report)
	w.writeAnswers(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.RunReport) {
	md.H1("Cherpy Crawl Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Root URL", "`" + report.RootURL + "`"},
			{"Date Started", report.DateStarted.Format("2006-01-02 15:04:05 MST")},
			{"Pages Visited", strconv.Itoa(report.PagesVisited)},
			{"Questions Answered", strconv.Itoa(report.AnsweredCount())},
			{"Status", w.getStatusText(report)},
		},
	})
	md.PlainText("")
}

// getStatusText returns the status text based on report state.
func (w *MarkdownWriter) getStatusText(report *model.RunReport) string {
	if report.ErrorMessage != "" {
		return "❌ Error - " + report.ErrorMessage
	}
	return "✅ Complete"
}

// writePages writes a table summarizing the crawled pages.
func (w *MarkdownWriter) writePages(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Crawled Pages")
	md.PlainText("")

	if len(report.Records) == 0 {
		md.PlainText("No pages were crawled.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Records))
	for i, rec := range report.Records {
		title := rec.Metadata.Title
		if title == "" {
			title = "-"
		}
		rows[i] = []string{
			truncateString(rec.URL, 60),
			truncateString(title, 40),
			strconv.Itoa(len(rec.Images)),
			strconv.Itoa(len(rec.FilesContent)),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Title", "Images", "Files"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeAnswers writes the question/answer section.
func (w *MarkdownWriter) writeAnswers(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Answers")
	md.PlainText("")

	if len(report.Answers) == 0 {
		md.PlainText("No questions were asked.")
		md.PlainText("")
		return
	}

	for _, a := range report.Answers {
		md.PlainText("**Q: " + a.Question + "**")
		md.PlainText("")
		if a.Failed {
			md.Warningf("Answer unavailable: %s", a.FailReason)
		} else {
			md.PlainText(a.Answer)
		}
		md.PlainText("")
	}
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by cherpy*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
// Cuts land on rune boundaries so multibyte titles stay valid UTF-8.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
