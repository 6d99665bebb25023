package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/xmldecode/internal/database"
	"github.com/nao1215/xmldecode/internal/model"
	"github.com/spf13/cobra"
)

// Diff output formats.
const (
	diffFormatText     = "text"
	diffFormatJSON     = "json"
	diffFormatMarkdown = "markdown"
)

// ErrInvalidDiffFormat is returned for an unknown history diff format.
var ErrInvalidDiffFormat = errors.New("invalid format: must be one of text, json, markdown")

// previewLength is the number of characters of a payload shown per change.
const previewLength = 60

func newHistoryDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <old-id> <new-id>",
		Short: "Compare the decoded payloads of two saved runs",
		Long: `Diff shows which matched elements appeared or disappeared between two
saved runs. Elements are compared by their original text, so a payload that
moved within the document counts as unchanged.

Examples:
  xmldecode history diff 3f1c2a9e-... 8b0d44e1-...
  xmldecode history diff -f json 3f1c2a9e-... 8b0d44e1-...`,
		Args: cobra.ExactArgs(2),
		RunE: runHistoryDiffCmd,
	}
	cmd.Flags().StringP("format", "f", diffFormatText, "Output format: text, json or markdown")
	return cmd
}

// RunDiff holds the result of comparing two saved runs.
type RunDiff struct {
	// Previous describes the older run.
	Previous RunMetadata `json:"previous"`

	// Current describes the newer run.
	Current RunMetadata `json:"current"`

	// Added contains results present only in the current run.
	Added []model.DecodedResult `json:"added,omitempty"`

	// Removed contains results present only in the previous run.
	Removed []model.DecodedResult `json:"removed,omitempty"`

	// UnchangedCount is the number of results found in both runs.
	UnchangedCount int `json:"unchanged_count"`

	// SameDocument reports whether both runs decoded byte-identical documents.
	SameDocument bool `json:"same_document"`
}

// RunMetadata contains the summary of one side of a RunDiff.
type RunMetadata struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Timestamp   time.Time `json:"timestamp"`
	ResultCount int       `json:"result_count"`
	Base64Count int       `json:"base64_count"`
	Embedded    bool      `json:"embedded"`
}

func runMetadata(run *database.Run) RunMetadata {
	return RunMetadata{
		ID:          run.ID,
		Source:      run.Source,
		Timestamp:   run.Timestamp,
		ResultCount: run.ResultCount,
		Base64Count: run.Base64Count,
		Embedded:    run.Embedded,
	}
}

// runHistoryDiffCmd executes the history diff command.
func runHistoryDiffCmd(cmd *cobra.Command, args []string) error {
	setupLogger(cmd)

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	switch format {
	case diffFormatText, diffFormatJSON, diffFormatMarkdown:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidDiffFormat, format)
	}

	db, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	previous, err := db.GetRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	current, err := db.GetRun(cmd.Context(), args[1])
	if err != nil {
		return err
	}

	diff := compareRuns(previous, current)

	out := cmd.OutOrStdout()
	switch format {
	case diffFormatJSON:
		return writeDiffJSON(out, diff)
	case diffFormatMarkdown:
		return writeDiffMarkdown(out, diff)
	default:
		return writeDiffText(out, diff)
	}
}

// compareRuns compares the results of two runs as multisets keyed by
// their original text.
func compareRuns(previous, current *database.Run) *RunDiff {
	diff := &RunDiff{
		Previous:     runMetadata(previous),
		Current:      runMetadata(current),
		SameDocument: previous.Digest == current.Digest,
	}

	remaining := make(map[string]int)
	for _, r := range previous.Job.Results {
		remaining[resultKey(r)]++
	}

	for _, r := range current.Job.Results {
		key := resultKey(r)
		if remaining[key] > 0 {
			remaining[key]--
			diff.UnchangedCount++
			continue
		}
		diff.Added = append(diff.Added, r)
	}

	for _, r := range previous.Job.Results {
		key := resultKey(r)
		if remaining[key] > 0 {
			remaining[key]--
			diff.Removed = append(diff.Removed, r)
		}
	}

	return diff
}

func resultKey(r model.DecodedResult) string {
	return r.TagName + "|" + r.OriginalBase64
}

// writeDiffJSON writes the diff as indented JSON.
func writeDiffJSON(w io.Writer, diff *RunDiff) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(diff)
}

// writeDiffText writes the diff in human-readable text form.
func writeDiffText(w io.Writer, diff *RunDiff) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Run Comparison: %s -> %s\n", displaySource(diff.Previous.Source), displaySource(diff.Current.Source))
	b.WriteString(strings.Repeat("=", 60) + "\n")
	if diff.SameDocument {
		b.WriteString("\nBoth runs decoded the same document.\n")
	}

	fmt.Fprintf(&b, "\nPrevious run: %s  %s\n", diff.Previous.ID, diff.Previous.Timestamp.Local().Format(time.DateTime))
	fmt.Fprintf(&b, "Current run:  %s  %s\n", diff.Current.ID, diff.Current.Timestamp.Local().Format(time.DateTime))

	b.WriteString("\nSummary:\n")
	fmt.Fprintf(&b, "  %-10s  %-10s  %-10s  %-10s\n", "Kind", "Previous", "Current", "Change")
	b.WriteString("  " + strings.Repeat("-", 45) + "\n")
	fmt.Fprintf(&b, "  %-10s  %-10d  %-10d  %-10s\n", "Base64",
		diff.Previous.Base64Count, diff.Current.Base64Count,
		formatDelta(diff.Current.Base64Count-diff.Previous.Base64Count))
	fmt.Fprintf(&b, "  %-10s  %-10d  %-10d  %-10s\n", "Total",
		diff.Previous.ResultCount, diff.Current.ResultCount,
		formatDelta(diff.Current.ResultCount-diff.Previous.ResultCount))

	if len(diff.Added) > 0 {
		fmt.Fprintf(&b, "\nAdded (%d):\n", len(diff.Added))
		for _, r := range diff.Added {
			fmt.Fprintf(&b, "  [+] %s\n", describeResult(r))
		}
	}
	if len(diff.Removed) > 0 {
		fmt.Fprintf(&b, "\nRemoved (%d):\n", len(diff.Removed))
		for _, r := range diff.Removed {
			fmt.Fprintf(&b, "  [-] %s\n", describeResult(r))
		}
	}
	if diff.UnchangedCount > 0 {
		fmt.Fprintf(&b, "\nUnchanged: %d element(s)\n", diff.UnchangedCount)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// writeDiffMarkdown writes the diff as a Markdown document.
func writeDiffMarkdown(w io.Writer, diff *RunDiff) error {
	md := markdown.NewMarkdown(w)

	md.H1("Run Comparison")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Previous", "Current", "Change"},
		Rows: [][]string{
			{"Run", "`" + diff.Previous.ID + "`", "`" + diff.Current.ID + "`", "-"},
			{"Source", displaySource(diff.Previous.Source), displaySource(diff.Current.Source), "-"},
			{"Base64", strconv.Itoa(diff.Previous.Base64Count), strconv.Itoa(diff.Current.Base64Count),
				formatDelta(diff.Current.Base64Count - diff.Previous.Base64Count)},
			{"**Total**", "**" + strconv.Itoa(diff.Previous.ResultCount) + "**", "**" + strconv.Itoa(diff.Current.ResultCount) + "**",
				"**" + formatDelta(diff.Current.ResultCount-diff.Previous.ResultCount) + "**"},
		},
	})
	md.PlainText("")

	if len(diff.Added) > 0 {
		md.H2(fmt.Sprintf("Added (%d)", len(diff.Added)))
		md.PlainText("")
		md.BulletList(describeResults(diff.Added)...)
		md.PlainText("")
	}
	if len(diff.Removed) > 0 {
		md.H2(fmt.Sprintf("Removed (%d)", len(diff.Removed)))
		md.PlainText("")
		md.BulletList(describeResults(diff.Removed)...)
		md.PlainText("")
	}
	if diff.UnchangedCount > 0 {
		md.PlainTextf("*%d element(s) unchanged*", diff.UnchangedCount)
	}

	return md.Build()
}

func describeResults(results []model.DecodedResult) []string {
	lines := make([]string, 0, len(results))
	for _, r := range results {
		lines = append(lines, describeResult(r))
	}
	return lines
}

// describeResult renders a one-line preview of a result, preferring the
// decoded text when there is one.
func describeResult(r model.DecodedResult) string {
	kind, text := "plain", r.OriginalBase64
	if r.HasDecodedText() {
		kind, text = "base64", r.DecodedText
	}
	text = strings.Join(strings.Fields(text), " ")
	if runes := []rune(text); len(runes) > previewLength {
		text = string(runes[:previewLength]) + "..."
	}
	return fmt.Sprintf("<%s> [%s] %s", r.TagName, kind, text)
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	}
	return strconv.Itoa(delta)
}
