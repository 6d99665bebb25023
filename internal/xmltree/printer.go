package xmltree

import (
	"strings"

	"github.com/beevik/etree"
)

// Indent is the indentation emitted per nesting level.
const Indent = "  "

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

// PrettyPrint re-serializes a well-formed XML document starting at its root
// element. Elements without child nodes are self-closed, whitespace-only
// text is dropped, other text is trimmed and put on its own line. Comments,
// CDATA sections, processing instructions and the XML declaration are not
// emitted.
//
// If xml cannot be parsed the input is returned unchanged.
func PrettyPrint(xml string) string {
	doc, err := Parse(xml)
	if err != nil {
		return xml
	}

	var b strings.Builder
	writeElement(&b, doc.Root(), 0)
	return b.String()
}

func writeElement(b *strings.Builder, e *etree.Element, depth int) {
	indent := strings.Repeat(Indent, depth)

	b.WriteString(indent)
	b.WriteByte('<')
	b.WriteString(e.FullTag())
	for _, attr := range e.Attr {
		b.WriteByte(' ')
		b.WriteString(attr.FullKey())
		b.WriteString(`="`)
		b.WriteString(attrEscaper.Replace(attr.Value))
		b.WriteByte('"')
	}

	if len(e.Child) == 0 {
		b.WriteString("/>\n")
		return
	}
	b.WriteString(">\n")

	childIndent := indent + Indent
	for _, tok := range e.Child {
		switch t := tok.(type) {
		case *etree.Element:
			writeElement(b, t, depth+1)
		case *etree.CharData:
			if t.IsCData() {
				continue
			}
			text := strings.TrimSpace(t.Data)
			if text == "" {
				continue
			}
			b.WriteString(childIndent)
			b.WriteString(textEscaper.Replace(text))
			b.WriteByte('\n')
		}
	}

	b.WriteString(indent)
	b.WriteString("</")
	b.WriteString(e.FullTag())
	b.WriteString(">\n")
}
