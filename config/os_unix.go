//go:build !windows

package config

import (
	"os"

	"golang.org/x/term"
)

// EnableColorOutput checks if colorized output is possible.
func EnableColorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}

// TerminalWidth returns width of the terminal attached to stream or 0 if
// stream is not a terminal.
func TerminalWidth(stream *os.File) int {
	if !term.IsTerminal(int(stream.Fd())) {
		return 0
	}
	w, _, err := term.GetSize(int(stream.Fd()))
	if err != nil {
		return 0
	}
	return w
}
