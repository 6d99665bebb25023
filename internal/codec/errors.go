package codec

import "errors"

var (
	// ErrInvalidBase64 is returned when the input is not standard Base64.
	ErrInvalidBase64 = errors.New("invalid base64 input")

	// ErrInvalidUTF8 is returned when the decoded bytes are not valid UTF-8.
	ErrInvalidUTF8 = errors.New("decoded bytes are not valid UTF-8")
)
