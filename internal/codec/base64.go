package codec

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"regexp"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// base64Pattern is the lexical shape of standard, padded Base64.
var base64Pattern = regexp.MustCompile(`^[A-Za-z0-9+/]*={0,2}$`)

// IsBase64 reports whether s is a canonical standard Base64 encoding.
func IsBase64(s string) bool {
	if s == "" {
		return false
	}
	if len(s)%4 != 0 {
		return false
	}
	if !base64Pattern.MatchString(s) {
		return false
	}

	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return false
	}
	return base64.StdEncoding.EncodeToString(raw) == s
}

// Decode decodes standard Base64 and interprets the bytes as UTF-8 text.
// A leading byte order mark is removed from the result.
func Decode(s string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidBase64, err)
	}
	if !utf8.Valid(raw) {
		return "", ErrInvalidUTF8
	}

	text, err := unicode.UTF8BOM.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidUTF8, err)
	}
	return string(text), nil
}

// DecodeBase64UTF8 decodes s like Decode but never returns an error.
// Failures are logged with slog.Default and produce an empty string, so an
// empty result cannot tell "empty input" from "undecodable input" apart.
func DecodeBase64UTF8(s string) string {
	return DecodeBase64UTF8WithLogger(s, nil)
}

// DecodeBase64UTF8WithLogger is DecodeBase64UTF8 logging to logger.
// A nil logger means slog.Default().
func DecodeBase64UTF8WithLogger(s string, logger *slog.Logger) string {
	if s == "" {
		return ""
	}

	text, err := Decode(s)
	if err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("failed to decode base64 payload",
			"error", err,
			"payload", s,
		)
		return ""
	}
	return text
}

// Encode returns the standard Base64 encoding of text.
func Encode(text string) string {
	return base64.StdEncoding.EncodeToString([]byte(text))
}
