package extractor

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/nao1215/xmldecode/internal/model"
)

var (
	betweenTags = regexp.MustCompile(`>\s*<`)
	selfClosing = regexp.MustCompile(`/\s*>`)
)

// elementPattern matches <name ...> through the first following </name>.
func elementPattern(name string) *regexp.Regexp {
	quoted := regexp.QuoteMeta(name)
	return regexp.MustCompile(`(?s)<` + quoted + `(?:\s[^>]*)?>.*?</` + quoted + `\s*>`)
}

// ExtractNamedElement returns the first element called elementName found in
// the decoded text of results, indented with Indent. Only Base64 results
// with decoded text are searched, in order. The boolean is false when no
// result contains the element.
//
// The match ends at the first closing tag of that name, so an element
// nested inside a same-named element is cut short.
func (e *Extractor) ExtractNamedElement(results []model.DecodedResult, elementName string) (string, bool) {
	if elementName == "" {
		elementName = DefaultElementName
	}
	re := elementPattern(elementName)

	for i, r := range results {
		if !r.HasDecodedText() {
			continue
		}
		match := re.FindString(r.DecodedText)
		if match == "" {
			continue
		}
		e.logger.Debug("found embedded element",
			slog.String("element", elementName),
			slog.Int("result", i+1),
		)
		return Indent(match), true
	}
	return "", false
}

// Indent lays out an XML fragment one tag per line using only the text of
// each line. Closing tags dedent before they are written; a line that opens
// a tag without closing it on the same line indents the lines after it.
// Depth never goes below zero.
func Indent(xml string) string {
	formatted := betweenTags.ReplaceAllString(strings.TrimSpace(xml), ">\n<")

	var b strings.Builder
	depth := 0
	for _, line := range strings.Split(formatted, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "</") && depth > 0 {
			depth--
		}

		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(line)
		b.WriteByte('\n')

		if opensLevel(line) {
			depth++
		}
	}
	return b.String()
}

func opensLevel(line string) bool {
	if len(line) < 2 || line[0] != '<' || line[1] == '/' {
		return false
	}
	if strings.Contains(line, "</") {
		return false
	}
	_, size := utf8.DecodeRuneInString(line[1:])
	return !selfClosing.MatchString(line[1+size:])
}
