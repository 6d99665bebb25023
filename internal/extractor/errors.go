package extractor

import "errors"

var (
	// ErrEmptyDocument is returned when the document is empty or whitespace.
	ErrEmptyDocument = errors.New("document is empty")

	// ErrNoMatch is returned when the document parses but contains no
	// element with the requested tag name.
	ErrNoMatch = errors.New("no element matches the tag name")

	// ErrEmptyTagName is returned when Extract is called without a tag name
	// and the extractor has no default.
	ErrEmptyTagName = errors.New("tag name is empty")
)
