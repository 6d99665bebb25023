package xmltoken

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Indent is the indentation emitted per depth level.
const Indent = "  "

// Renderer decides how chunks look. Tag and Content receive escaped text.
type Renderer interface {
	Tag(escaped string) string
	Content(escaped string) string
	LineBreak() string
}

// PrettyPrint scans xml and renders every chunk as indentation, the rendered
// chunk and a line break. A nil renderer means HTMLRenderer.
func PrettyPrint(xml string, r Renderer) string {
	if r == nil {
		r = HTMLRenderer{}
	}

	var b strings.Builder
	for _, c := range Scan(xml) {
		b.WriteString(strings.Repeat(Indent, c.Depth))
		if c.Kind == KindTag {
			b.WriteString(r.Tag(c.Text))
		} else {
			b.WriteString(r.Content(c.Text))
		}
		b.WriteString(r.LineBreak())
	}
	return b.String()
}

// CSS classes used by HTMLRenderer.
const (
	TagClass     = "xml-tag"
	ContentClass = "xml-content"
)

// HTMLRenderer wraps chunks in spans classed TagClass or ContentClass and
// separates lines with <br>. The escaped text is safe to embed as HTML.
type HTMLRenderer struct{}

// Tag implements Renderer.
func (HTMLRenderer) Tag(escaped string) string {
	return `<span class="` + TagClass + `">` + escaped + `</span>`
}

// Content implements Renderer.
func (HTMLRenderer) Content(escaped string) string {
	return `<span class="` + ContentClass + `">` + escaped + `</span>`
}

// LineBreak implements Renderer.
func (HTMLRenderer) LineBreak() string {
	return "<br>"
}

// PlainRenderer emits the original markup, one chunk per line.
type PlainRenderer struct{}

// Tag implements Renderer.
func (PlainRenderer) Tag(escaped string) string { return Unescape(escaped) }

// Content implements Renderer.
func (PlainRenderer) Content(escaped string) string { return Unescape(escaped) }

// LineBreak implements Renderer.
func (PlainRenderer) LineBreak() string { return "\n" }

// Default terminal colors for ANSIRenderer.
var (
	TagColor     = lipgloss.AdaptiveColor{Light: "#1565C0", Dark: "#64B5F6"}
	ContentColor = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#8BC34A"}
)

// ANSIRenderer colors tags and content for a terminal.
type ANSIRenderer struct {
	tag     lipgloss.Style
	content lipgloss.Style
}

// NewANSIRenderer creates an ANSIRenderer whose color support is detected
// from w. Pass force=true to always emit true-color sequences, for example
// when output is piped into a pager that understands them.
func NewANSIRenderer(w io.Writer, force bool) *ANSIRenderer {
	renderer := lipgloss.NewRenderer(w)
	if force {
		renderer.SetColorProfile(termenv.TrueColor)
	}
	return &ANSIRenderer{
		tag:     renderer.NewStyle().Foreground(TagColor).Bold(true),
		content: renderer.NewStyle().Foreground(ContentColor),
	}
}

// Tag implements Renderer.
func (r *ANSIRenderer) Tag(escaped string) string {
	return r.tag.Render(Unescape(escaped))
}

// Content implements Renderer.
func (r *ANSIRenderer) Content(escaped string) string {
	return r.content.Render(Unescape(escaped))
}

// LineBreak implements Renderer.
func (r *ANSIRenderer) LineBreak() string { return "\n" }
