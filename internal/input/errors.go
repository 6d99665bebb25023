package input

import "errors"

var (
	// ErrRead is returned when the source cannot be read.
	ErrRead = errors.New("failed to read the file")

	// ErrEmptyFile is returned when the source holds no content.
	ErrEmptyFile = errors.New("the file has no content")

	// ErrUnsupportedEncoding is returned for content that is not UTF-8.
	ErrUnsupportedEncoding = errors.New("unsupported encoding: content must be UTF-8")

	// ErrInvalidFile is returned when a selected file is not an XML file.
	ErrInvalidFile = errors.New("the file must be a valid XML file")

	// ErrNoFile is returned when a selection holds no file.
	ErrNoFile = errors.New("no file was selected")
)
