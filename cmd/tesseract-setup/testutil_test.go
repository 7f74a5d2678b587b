package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	ui "github.com/tesseract-olap/tesseract-setup/internal/ui"
)

const sampleUnit = `[Unit]
Description=Tesseract OLAP server

[Service]
User=tesseract
Environment=TESSERACT_DATABASE_URL=127.0.0.1:9000
Environment=TESSERACT_SCHEMA_FILEPATH=schema.json
ExecStart=/usr/local/bin/tesseract-olap

[Install]
WantedBy=multi-user.target
`

// mockPrompter replays scripted answers; io.EOF once they run out.
type mockPrompter struct {
	responses []string
}

func (m *mockPrompter) ReadLine(prompt string) (string, error) {
	if len(m.responses) == 0 {
		return "", io.EOF
	}
	r := m.responses[0]
	m.responses = m.responses[1:]
	return r, nil
}

// mockAccounts pretends to manage a single account.
type mockAccounts struct {
	exists bool
}

func (m *mockAccounts) Ensure(ctx context.Context, name string) (bool, error) {
	if m.exists {
		return false, nil
	}
	m.exists = true
	return true, nil
}

func plainPrinter(format string, w io.Writer) ui.Printer {
	p := ui.NewPrinter(format)
	p.Colors = &ui.ColorConfig{Theme: ui.DefaultTheme()}
	p.W = w
	return p
}

func writeUnit(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tesseract-olap.service")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// resetFlags restores the package-level flag variables after a test.
func resetFlags(t *testing.T) {
	t.Helper()
	saved := []string{flagUnitFile, flagUser, flagConfig, flagOutput}
	t.Cleanup(func() {
		flagUnitFile, flagUser, flagConfig, flagOutput = saved[0], saved[1], saved[2], saved[3]
	})
}

