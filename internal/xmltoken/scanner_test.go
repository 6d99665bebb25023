package xmltoken

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEscape(t *testing.T) {
	t.Parallel()

	in := `<a x="1" y='2'>&</a>`
	want := "&lt;a x=&quot;1&quot; y=&#039;2&#039;&gt;&amp;&lt;/a&gt;"
	if got := Escape(in); got != want {
		t.Errorf("Escape() = %q, want %q", got, want)
	}
	if got := Unescape(want); got != in {
		t.Errorf("Unescape() = %q, want %q", got, in)
	}
	if got := Unescape("&amp;lt;"); got != "&lt;" {
		t.Errorf("Unescape() decoded twice: %q", got)
	}
}

func TestScan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []Chunk
	}{
		{
			name: "nested elements with text",
			in:   "<a><b>x</b></a>",
			want: []Chunk{
				{Kind: KindTag, Text: "&lt;a&gt;", Depth: 0},
				{Kind: KindTag, Text: "&lt;b&gt;", Depth: 1},
				{Kind: KindContent, Text: "x", Depth: 2},
				{Kind: KindTag, Text: "&lt;/b&gt;", Depth: 1},
				{Kind: KindTag, Text: "&lt;/a&gt;", Depth: 0},
			},
		},
		{
			name: "self-closing tag does not open a level",
			in:   "<a><b/><c /></a>",
			want: []Chunk{
				{Kind: KindTag, Text: "&lt;a&gt;", Depth: 0},
				{Kind: KindTag, Text: "&lt;b/&gt;", Depth: 1},
				{Kind: KindTag, Text: "&lt;c /&gt;", Depth: 1},
				{Kind: KindTag, Text: "&lt;/a&gt;", Depth: 0},
			},
		},
		{
			name: "whitespace between tags is dropped and content is trimmed",
			in:   "<a>\n   hello world  \n</a>",
			want: []Chunk{
				{Kind: KindTag, Text: "&lt;a&gt;", Depth: 0},
				{Kind: KindContent, Text: "hello world", Depth: 1},
				{Kind: KindTag, Text: "&lt;/a&gt;", Depth: 0},
			},
		},
		{
			name: "extra closing tags never go below zero",
			in:   "</a></b><c>",
			want: []Chunk{
				{Kind: KindTag, Text: "&lt;/a&gt;", Depth: 0},
				{Kind: KindTag, Text: "&lt;/b&gt;", Depth: 0},
				{Kind: KindTag, Text: "&lt;c&gt;", Depth: 0},
			},
		},
		{
			name: "unterminated tag becomes the last chunk",
			in:   "<a>text<b attr",
			want: []Chunk{
				{Kind: KindTag, Text: "&lt;a&gt;", Depth: 0},
				{Kind: KindContent, Text: "text", Depth: 1},
				{Kind: KindTag, Text: "&lt;b attr", Depth: 1},
			},
		},
		{
			name: "plain text only",
			in:   "just text",
			want: []Chunk{
				{Kind: KindContent, Text: "just text", Depth: 0},
			},
		},
		{
			name: "empty input",
			in:   "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Scan(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Scan() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPrettyPrint(t *testing.T) {
	t.Parallel()

	t.Run("html renderer wraps chunks in classed spans", func(t *testing.T) {
		t.Parallel()

		got := PrettyPrint("<a><b>x</b></a>", HTMLRenderer{})
		want := `<span class="xml-tag">&lt;a&gt;</span><br>` +
			`  <span class="xml-tag">&lt;b&gt;</span><br>` +
			`    <span class="xml-content">x</span><br>` +
			`  <span class="xml-tag">&lt;/b&gt;</span><br>` +
			`<span class="xml-tag">&lt;/a&gt;</span><br>`
		if got != want {
			t.Errorf("PrettyPrint() = %q, want %q", got, want)
		}
	})

	t.Run("nil renderer means html", func(t *testing.T) {
		t.Parallel()

		if got, want := PrettyPrint("<a/>", nil), PrettyPrint("<a/>", HTMLRenderer{}); got != want {
			t.Errorf("PrettyPrint(nil) = %q, want %q", got, want)
		}
	})

	t.Run("plain renderer restores markup", func(t *testing.T) {
		t.Parallel()

		got := PrettyPrint(`<a k="v"><b>1 &amp; 2</b></a>`, PlainRenderer{})
		want := "<a k=\"v\">\n  <b>\n    1 &amp; 2\n  </b>\n</a>\n"
		if got != want {
			t.Errorf("PrettyPrint() = %q, want %q", got, want)
		}
	})

	t.Run("declarations and comments open a level", func(t *testing.T) {
		t.Parallel()

		got := PrettyPrint(`<?xml version="1.0"?><a><b>x</b></a>`, PlainRenderer{})
		want := "<?xml version=\"1.0\"?>\n  <a>\n    <b>\n      x\n    </b>\n  </a>\n"
		if got != want {
			t.Errorf("PrettyPrint() = %q, want %q", got, want)
		}

		got = PrettyPrint(`<a><!-- note --><b/></a>`, PlainRenderer{})
		want = "<a>\n  <!-- note -->\n    <b/>\n  </a>\n"
		if got != want {
			t.Errorf("PrettyPrint() = %q, want %q", got, want)
		}
	})

	t.Run("markup inside content cannot inject html", func(t *testing.T) {
		t.Parallel()

		got := PrettyPrint(`<a>"quoted" 'single'</a>`, HTMLRenderer{})
		if strings.Contains(got, `"quoted"`) || strings.Contains(got, "'single'") {
			t.Errorf("PrettyPrint() left quotes unescaped: %q", got)
		}
	})

	t.Run("ansi renderer keeps text readable", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		got := PrettyPrint("<a>x</a>", NewANSIRenderer(&buf, true))
		for _, want := range []string{"<a>", "x", "</a>"} {
			if !strings.Contains(got, want) {
				t.Errorf("PrettyPrint() = %q, missing %q", got, want)
			}
		}
		if !strings.Contains(got, "\x1b[") {
			t.Errorf("PrettyPrint() = %q, want ANSI sequences when forced", got)
		}
	})

	t.Run("ansi renderer without a terminal emits no sequences", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		got := PrettyPrint("<a>x</a>", NewANSIRenderer(&buf, false))
		if want := "<a>\n  x\n</a>\n"; got != want {
			t.Errorf("PrettyPrint() = %q, want %q", got, want)
		}
	})
}

func TestKindString(t *testing.T) {
	t.Parallel()

	if KindTag.String() != "tag" || KindContent.String() != "content" {
		t.Errorf("unexpected kind names %q %q", KindTag, KindContent)
	}
}
