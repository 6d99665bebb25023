// Package pretty exposes the two XML pretty-printers behind one interface.
package pretty

import (
	"errors"
	"fmt"

	"github.com/nao1215/xmldecode/internal/xmltoken"
	"github.com/nao1215/xmldecode/internal/xmltree"
)

// Kind names a printer implementation.
type Kind string

const (
	// KindTree parses the document and re-serializes the tree.
	KindTree Kind = "tree"
	// KindToken scans escaped text without parsing.
	KindToken Kind = "token"
)

// ErrUnknownKind is returned by New for an unsupported printer kind.
var ErrUnknownKind = errors.New("unknown printer kind")

// Printer turns an XML string into an indented rendition.
type Printer interface {
	Print(xml string) string
}

// TreePrinter prints through xmltree.PrettyPrint.
type TreePrinter struct{}

// Print implements Printer.
func (TreePrinter) Print(xml string) string {
	return xmltree.PrettyPrint(xml)
}

// TokenPrinter prints through xmltoken.PrettyPrint with its Renderer.
type TokenPrinter struct {
	Renderer xmltoken.Renderer
}

// Print implements Printer.
func (p TokenPrinter) Print(xml string) string {
	return xmltoken.PrettyPrint(xml, p.Renderer)
}

// New returns the printer for kind. The renderer is only used by the token
// printer; nil selects HTML output.
func New(kind Kind, renderer xmltoken.Renderer) (Printer, error) {
	switch kind {
	case KindTree, "":
		return TreePrinter{}, nil
	case KindToken:
		return TokenPrinter{Renderer: renderer}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, string(kind))
	}
}
