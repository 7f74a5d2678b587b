package main

import "github.com/tesseract-olap/tesseract-setup/internal/ui"

func main() {
	// Before lipgloss renders anything, so its terminal queries cannot
	// leak into the first prompt's input.
	ui.InitTerminal()

	Execute()
}
