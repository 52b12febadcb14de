package console

import (
	"context"

	"github.com/atotto/clipboard"
)

// SystemClipboard writes to the operating system clipboard.
type SystemClipboard struct {
	// unsupported reports whether no clipboard utility is installed.
	unsupported func() bool
	writeAll    func(string) error
}

// NewSystemClipboard returns a clipboard backed by the platform utility
// (pbcopy, xclip, xsel, wl-copy or the Windows API).
func NewSystemClipboard() SystemClipboard {
	return SystemClipboard{
		unsupported: func() bool { return clipboard.Unsupported },
		writeAll:    clipboard.WriteAll,
	}
}

// WriteText implements identifiers.Clipboard. It reports false without an
// error when the platform has no clipboard utility.
func (c SystemClipboard) WriteText(ctx context.Context, text string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if c.unsupported != nil && c.unsupported() {
		return false, nil
	}
	write := c.writeAll
	if write == nil {
		write = clipboard.WriteAll
	}
	if err := write(text); err != nil {
		return false, err
	}
	return true, nil
}
