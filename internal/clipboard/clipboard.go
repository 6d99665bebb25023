// Package clipboard copies text to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

var (
	// ErrClipboard is returned when the system clipboard cannot be written.
	ErrClipboard = errors.New("failed to copy to the clipboard")

	// ErrEmptyContent is returned when there is nothing to copy.
	ErrEmptyContent = errors.New("no content to copy")
)

// Test seams.
var (
	writeAll    = clipboard.WriteAll
	unsupported = func() bool { return clipboard.Unsupported }
)

// Copy writes content to the system clipboard.
func Copy(content string) error {
	if content == "" {
		return ErrEmptyContent
	}
	if unsupported() {
		return fmt.Errorf("%w: no clipboard utility available", ErrClipboard)
	}
	if err := writeAll(content); err != nil {
		return fmt.Errorf("%w: %w", ErrClipboard, err)
	}
	return nil
}
