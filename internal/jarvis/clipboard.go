package jarvis

import "github.com/atotto/clipboard"

// SystemClipboard is the OS clipboard (xclip/xsel/wl-clipboard, pbcopy or
// the Win32 API).
type SystemClipboard struct{}

// Available is false when no clipboard utility was found.
func (SystemClipboard) Available() bool { return !clipboard.Unsupported }

func (SystemClipboard) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (SystemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }
