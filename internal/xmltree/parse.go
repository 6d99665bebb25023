package xmltree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// ErrParse marks a document that is not well-formed XML.
var ErrParse = errors.New("xml document is not well-formed")

// Parse reads document into an etree document and verifies it has exactly
// one root element. CDATA sections are kept as distinct tokens so callers
// can tell them from plain text.
func Parse(document string) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.PreserveCData = true

	if err := doc.ReadFromString(document); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	roots := 0
	for _, tok := range doc.Child {
		switch t := tok.(type) {
		case *etree.Element:
			roots++
		case *etree.CharData:
			if strings.TrimSpace(t.Data) != "" {
				return nil, fmt.Errorf("%w: text outside the root element", ErrParse)
			}
		}
	}

	switch roots {
	case 0:
		return nil, fmt.Errorf("%w: no root element", ErrParse)
	case 1:
		return doc, nil
	default:
		return nil, fmt.Errorf("%w: %d root elements", ErrParse, roots)
	}
}

// TextContent returns the concatenation of all character data below e,
// CDATA included, in document order.
func TextContent(e *etree.Element) string {
	var b strings.Builder
	appendText(&b, e)
	return b.String()
}

func appendText(b *strings.Builder, e *etree.Element) {
	for _, tok := range e.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			b.WriteString(t.Data)
		case *etree.Element:
			appendText(b, t)
		}
	}
}

// Walk calls fn for e and every descendant element in pre-order.
func Walk(e *etree.Element, fn func(*etree.Element)) {
	fn(e)
	for _, child := range e.ChildElements() {
		Walk(child, fn)
	}
}
