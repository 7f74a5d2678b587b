package ui

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

var terminalInitialized bool

// InitTerminal configures the terminal before lipgloss renders anything.
//
// termenv (used by lipgloss) queries the terminal background via OSC 11 and
// the reply can land in stdin, where the first prompt would read it as an
// answer. Pre-setting COLORFGBG skips the query.
func InitTerminal() {
	if terminalInitialized {
		return
	}
	terminalInitialized = true

	if os.Getenv("COLORFGBG") == "" {
		os.Setenv("COLORFGBG", "0;15")
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		// Disable focus reporting (CSI ? 1004 l)
		fmt.Fprint(os.Stdout, "\033[?1004l")
	}
}
