package ui

import (
	"errors"

	"github.com/atotto/clipboard"

	apperrors "github.com/gitsage/gitmsg/internal/pkg/errors"
	"github.com/gitsage/gitmsg/internal/pkg/host"
)

// SystemClipboard implements host.Clipboard with the OS clipboard.
type SystemClipboard struct{}

var _ host.Clipboard = SystemClipboard{}

// WriteText replaces the clipboard contents with text.
func (SystemClipboard) WriteText(text string) error {
	if clipboard.Unsupported {
		return apperrors.NewHostActionError("copying to clipboard", errClipboardUnsupported)
	}
	if err := clipboard.WriteAll(text); err != nil {
		return apperrors.NewHostActionError("copying to clipboard", err)
	}
	return nil
}

var errClipboardUnsupported = errors.New("no clipboard utility available (install xclip, xsel or wl-clipboard)")
