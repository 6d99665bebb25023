package extractor

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/beevik/etree"
	"github.com/nao1215/xmldecode/internal/codec"
	"github.com/nao1215/xmldecode/internal/model"
	"github.com/nao1215/xmldecode/internal/xmltree"
)

// DefaultElementName is the embedded element looked up by default.
const DefaultElementName = "webformData"

// Extractor locates tagged payloads and embedded elements.
// It holds no per-call state and is safe for concurrent use.
type Extractor struct {
	logger         *slog.Logger
	defaultTagName string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for decode warnings and debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// WithDefaultTagName sets the tag used when Extract receives an empty name.
func WithDefaultTagName(tagName string) Option {
	return func(e *Extractor) {
		e.defaultTagName = tagName
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		defaultTagName: model.DefaultTagName,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Extract returns one DecodedResult per element of document named tagName.
//
// The name is compared against the qualified name as written, so
// "ns:contenido" only matches elements with that prefix. The text content of
// each match is the concatenation of all its descendant text. DecodedText is
// filled only when that text is canonical Base64.
//
// A document without matches yields an empty slice and an error wrapping
// ErrNoMatch. A malformed document yields an error wrapping xmltree.ErrParse.
func (e *Extractor) Extract(document, tagName string) ([]model.DecodedResult, error) {
	if strings.TrimSpace(document) == "" {
		return nil, ErrEmptyDocument
	}
	if tagName == "" {
		tagName = e.defaultTagName
	}
	if tagName == "" {
		return nil, ErrEmptyTagName
	}

	doc, err := xmltree.Parse(document)
	if err != nil {
		return nil, err
	}

	results := make([]model.DecodedResult, 0)
	xmltree.Walk(doc.Root(), func(el *etree.Element) {
		if el.FullTag() != tagName {
			return
		}

		text := xmltree.TextContent(el)
		isBase64 := codec.IsBase64(text)

		var decoded string
		if isBase64 {
			decoded = codec.DecodeBase64UTF8WithLogger(text, e.logger)
		}
		results = append(results, model.NewDecodedResult(tagName, text, decoded, isBase64))
	})

	if len(results) == 0 {
		return results, fmt.Errorf("%w: %q", ErrNoMatch, tagName)
	}

	e.logger.Debug("extracted tagged content",
		slog.String("tag", tagName),
		slog.Int("matches", len(results)),
		slog.Int("base64", model.Base64Count(results)),
	)
	return results, nil
}
