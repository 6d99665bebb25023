package input

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
)

// XMLMIMEType is the accepted media type of XML files.
const XMLMIMEType = "text/xml"

// MaxSize is the largest document ReadAll accepts.
const MaxSize = 64 << 20

// ReadFile reads the XML document at path.
func ReadFile(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // reading user-selected files is the purpose
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer f.Close()

	return ReadAll(f)
}

// ReadAll reads an XML document from r and returns it as text without a
// leading byte order mark.
//
// Content with a non UTF-8 byte order mark or with invalid UTF-8 sequences
// yields ErrUnsupportedEncoding; content that is empty or only whitespace
// yields ErrEmptyFile.
func ReadAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRead, err)
	}
	if len(data) > MaxSize {
		return "", fmt.Errorf("%w: larger than %d bytes", ErrRead, MaxSize)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return "", ErrEmptyFile
	}

	if _, name, certain := charset.DetermineEncoding(data, XMLMIMEType); certain && name != "utf-8" {
		return "", fmt.Errorf("%w: detected %s", ErrUnsupportedEncoding, name)
	}
	if !utf8.Valid(data) {
		return "", ErrUnsupportedEncoding
	}

	text, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnsupportedEncoding, err)
	}
	if strings.TrimSpace(string(text)) == "" {
		return "", ErrEmptyFile
	}
	return string(text), nil
}
