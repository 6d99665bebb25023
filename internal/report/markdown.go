package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/xmldecode/internal/model"
	"github.com/nao1215/xmldecode/internal/xmltree"
)

// MarkdownWriter outputs results in Markdown format.
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

// Write outputs the results in Markdown format.
func (w *MarkdownWriter) Write(results []model.DecodedResult) (int, error) {
	job := &model.Job{Results: results}
	if len(results) > 0 {
		job.TagName = results[0].TagName
	}
	return w.WriteJob(job)
}

// WriteJob outputs the job in Markdown format.
func (w *MarkdownWriter) WriteJob(job *model.Job) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, job)
	w.writeSummary(md, job)
	w.writeResults(md, job.Results)
	w.writeEmbedded(md, job)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with job information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, job *model.Job) {
	md.H1("Decoded XML Report")
	md.PlainText("")

	rows := [][]string{}
	if job.Source != "" {
		rows = append(rows, []string{"Source", "`" + job.Source + "`"})
	}
	if !job.DateProcessed.IsZero() {
		rows = append(rows, []string{"Processed", job.DateProcessed.Format("2006-01-02 15:04:05 MST")})
	}
	rows = append(rows,
		[]string{"Tag", "`" + job.TagName + "`"},
		[]string{"Status", w.getStatusText(job)},
	)

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// getStatusText returns the status text based on job state.
func (w *MarkdownWriter) getStatusText(job *model.Job) string {
	if job.ErrorMessage != "" {
		return "❌ Error - " + job.ErrorMessage
	}
	return "✅ Complete"
}

// writeSummary writes the match counts and a pie chart of their kinds.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, job *model.Job) {
	md.H2("Summary")
	md.PlainText("")

	total := len(job.Results)
	encoded := model.Base64Count(job.Results)

	md.Table(markdown.TableSet{
		Header: []string{"Kind", "Count"},
		Rows: [][]string{
			{"Base64", strconv.Itoa(encoded)},
			{"Plain text", strconv.Itoa(total - encoded)},
			{"**Total**", "**" + strconv.Itoa(total) + "**"},
		},
	})
	md.PlainText("")

	if total > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Matched Content"),
			piechart.WithShowData(true),
		)
		if encoded > 0 {
			chart.LabelAndIntValue("Base64", uint64(encoded))
		}
		if total-encoded > 0 {
			chart.LabelAndIntValue("Plain text", uint64(total-encoded))
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	switch {
	case total == 0:
		md.Warningf("No <%s> element was found in the document.", job.TagName)
	case encoded == 0:
		md.Note("None of the matched elements holds Base64 content.")
	default:
		md.Tipf("%d of %d matched element(s) decoded.", encoded, total)
	}
	md.PlainText("")
}

// writeResults writes one section per result.
func (w *MarkdownWriter) writeResults(md *markdown.Markdown, results []model.DecodedResult) {
	if len(results) == 0 {
		return
	}

	md.H2("Results")
	md.PlainText("")

	for i, r := range results {
		md.H3f("Result %d", i+1)
		md.PlainText("")

		if !r.IsBase64 {
			md.PlainText("Content is not Base64:")
			md.PlainText("")
			md.CodeBlocks(markdown.SyntaxHighlightNone, truncateString(r.OriginalBase64, 200))
			md.PlainText("")
			continue
		}

		if !r.HasDecodedText() {
			md.Note("Content is Base64 but does not decode to UTF-8 text.")
			md.PlainText("")
			continue
		}

		md.CodeBlocks(markdown.SyntaxHighlightXML, trimNewline(xmltree.PrettyPrint(r.DecodedText)))
		md.PlainText("")
		md.Details("Original Base64", truncateString(r.OriginalBase64, 120))
		md.PlainText("")
	}
}

// writeEmbedded writes the embedded element section when one was found.
func (w *MarkdownWriter) writeEmbedded(md *markdown.Markdown, job *model.Job) {
	if !job.EmbeddedFound {
		return
	}

	md.H2f("Embedded <%s>", job.ElementName)
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightXML, trimNewline(job.Embedded))
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [xmldecode](https://github.com/nao1215/xmldecode)*")
}

// truncateString truncates a string to maxLen bytes with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

func trimNewline(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\n' {
		return s[:n-1]
	}
	return s
}
