package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/xmldecode/internal/model"
	"github.com/nao1215/xmldecode/internal/pretty"
)

// TerminalWriter outputs human-readable text for terminal display.
// Decoded payloads are rendered through a pretty.Printer, which may add
// ANSI colors when it uses the token printer's ANSIRenderer.
type TerminalWriter struct {
	baseWriter

	// printer renders decoded payloads.
	printer pretty.Printer

	// verbose enables additional detail in the output.
	verbose bool
}

// TerminalWriterOption configures a TerminalWriter.
type TerminalWriterOption func(*TerminalWriter)

// WithPrinter sets the printer used for decoded payloads.
func WithPrinter(p pretty.Printer) TerminalWriterOption {
	return func(w *TerminalWriter) {
		w.printer = p
	}
}

// WithVerbose also prints the original content of Base64 results.
func WithVerbose(verbose bool) TerminalWriterOption {
	return func(w *TerminalWriter) {
		w.verbose = verbose
	}
}

// NewTerminalWriter creates a TerminalWriter that outputs to the given writer.
// The tree printer is used unless WithPrinter says otherwise.
func NewTerminalWriter(output io.Writer, opts ...TerminalWriterOption) *TerminalWriter {
	w := &TerminalWriter{
		baseWriter: newBaseWriter(output),
		printer:    pretty.TreePrinter{},
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the results in human-readable format.
func (w *TerminalWriter) Write(results []model.DecodedResult) (int, error) {
	var sb strings.Builder
	w.writeResults(&sb, results)
	return io.WriteString(w.output, sb.String())
}

// WriteJob outputs the job in human-readable format.
func (w *TerminalWriter) WriteJob(job *model.Job) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, job)
	w.writeResults(&sb, job.Results)
	w.writeEmbedded(&sb, job)
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

// writeHeader writes the job information block.
func (w *TerminalWriter) writeHeader(sb *strings.Builder, job *model.Job) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                          XMLDECODE REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	source := job.Source
	if source == model.StdinSource {
		source = "(stdin)"
	}
	fmt.Fprintf(sb, "Source:    %s\n", source)
	fmt.Fprintf(sb, "Tag:       <%s>\n", job.TagName)
	if !job.DateProcessed.IsZero() {
		fmt.Fprintf(sb, "Processed: %s\n", job.DateProcessed.Format("2006-01-02 15:04:05 MST"))
	}
	fmt.Fprintf(sb, "Matches:   %d (%d Base64)\n", len(job.Results), job.Base64Count())

	if job.ErrorMessage != "" {
		fmt.Fprintf(sb, "Status:    ERROR - %s\n", job.ErrorMessage)
	} else {
		sb.WriteString("Status:    Complete\n")
	}
	sb.WriteString("\n")
}

// writeResults writes one block per result.
func (w *TerminalWriter) writeResults(sb *strings.Builder, results []model.DecodedResult) {
	for i, r := range results {
		sb.WriteString(strings.Repeat("-", 70))
		sb.WriteString("\n")
		fmt.Fprintf(sb, "RESULT %d <%s>\n", i+1, r.TagName)
		sb.WriteString(strings.Repeat("-", 70))
		sb.WriteString("\n\n")

		switch {
		case !r.IsBase64:
			sb.WriteString("  [-] not Base64\n")
			fmt.Fprintf(sb, "    Content: %s\n", truncateString(strings.TrimSpace(r.OriginalBase64), 60))
		case !r.HasDecodedText():
			sb.WriteString("  [!] Base64, but not UTF-8 text\n")
		default:
			sb.WriteString("  [+] decoded\n")
			if w.verbose {
				fmt.Fprintf(sb, "    Original: %s\n", r.OriginalBase64)
			}
			sb.WriteString("\n")
			sb.WriteString(w.printer.Print(r.DecodedText))
		}
		sb.WriteString("\n")
	}
}

// writeEmbedded writes the embedded element, if any.
func (w *TerminalWriter) writeEmbedded(sb *strings.Builder, job *model.Job) {
	if !job.EmbeddedFound {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "EMBEDDED <%s>\n", job.ElementName)
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
	sb.WriteString(job.Embedded)
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *TerminalWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
