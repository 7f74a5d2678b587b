package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/tesseract-olap/tesseract-setup/internal/account"
	"github.com/tesseract-olap/tesseract-setup/internal/installer"
	"github.com/tesseract-olap/tesseract-setup/internal/system"
	ui "github.com/tesseract-olap/tesseract-setup/internal/ui"
	"github.com/tesseract-olap/tesseract-setup/internal/unitfile"
)

// stdinPrompter is the production installer.Prompter. Prompts go to stderr
// the way a shell's read -p does; answers come from stdin through a single
// buffered reader so piped answers are not lost between prompts.
type stdinPrompter struct {
	in     *bufio.Reader
	out    io.Writer
	colors *ui.ColorConfig
}

func newStdinPrompter() *stdinPrompter {
	c := ui.NewColorConfigFromGlobal()
	c.Enabled = c.Enabled && term.IsTerminal(int(os.Stderr.Fd()))
	return &stdinPrompter{
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stderr,
		colors: c,
	}
}

func (p *stdinPrompter) ReadLine(prompt string) (string, error) {
	fmt.Fprint(p.out, p.colors.Prompt(prompt))

	line, err := p.in.ReadString('\n')
	if err != nil {
		// Keep the partial line; the caller decides what EOF means.
		return strings.TrimRight(line, "\r\n"), err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// newDeps creates production dependencies from the current flags and config.
func newDeps() (*installer.Deps, error) {
	cfg, err := loadCfg()
	if err != nil {
		return nil, err
	}

	return &installer.Deps{
		Cfg:            cfg,
		Accounts:       account.New(account.ExecRunner{}),
		Unit:           unitfile.New(cfg.UnitPath),
		Prompter:       newStdinPrompter(),
		Printer:        getPrinter(),
		ServiceRunning: system.ServiceRunning,
	}, nil
}

// getPrinter returns a UI printer bound to the current --output flag.
func getPrinter() ui.Printer { return ui.NewPrinterFromGlobal(flagOutput) }
