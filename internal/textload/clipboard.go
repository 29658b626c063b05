package textload

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrClipboardUnsupported is returned when no clipboard utility is
// available, e.g. xclip or xsel missing on Linux.
var ErrClipboardUnsupported = errors.New("clipboard not supported on this system")

// readClipboard is swapped out in tests.
var readClipboard = clipboard.ReadAll

// FromClipboard returns the current clipboard contents.
func FromClipboard() (string, error) {
	if clipboard.Unsupported {
		return "", ErrClipboardUnsupported
	}
	text, err := readClipboard()
	if err != nil {
		return "", fmt.Errorf("failed to read clipboard: %w", err)
	}
	return text, nil
}
