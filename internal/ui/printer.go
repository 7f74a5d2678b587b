package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Printer centralizes output formatting for commands.
// - Respects --output (text|json|yaml) for structured results
// - Uses ColorConfig for styling when printing text
// - Writes to W (stdout unless a test swaps it)
type Printer struct {
	format string
	Colors *ColorConfig
	W      io.Writer
}

func NewPrinter(format string) Printer {
	return Printer{format: format, Colors: NewColorConfig(), W: os.Stdout}
}

// Structured reports whether results should be emitted as JSON or YAML
// instead of status lines.
func (p Printer) Structured() bool { return p.format == "json" || p.format == "yaml" }

// Textf prints formatted text.
func (p Printer) Textf(format string, a ...any) { fmt.Fprintf(p.W, format, a...) }

// Emit writes v as JSON or YAML per the printer's format.
func (p Printer) Emit(v any) error {
	if p.format == "yaml" {
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = p.W.Write(data)
		return err
	}
	enc := json.NewEncoder(p.W)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Success prints a success line with themed prefix.
func (p Printer) Success(msg string) {
	fmt.Fprintln(p.W, p.Colors.StatusIcon("success"), msg)
}

// Info prints an informational line.
func (p Printer) Info(msg string) {
	fmt.Fprintln(p.W, p.Colors.StatusIcon("info"), msg)
}

// Warn prints a warning line.
func (p Printer) Warn(msg string) {
	fmt.Fprintln(p.W, p.Colors.StatusIcon("warn"), msg)
}

// Error prints an error line.
func (p Printer) Error(msg string) {
	fmt.Fprintln(p.W, p.Colors.StatusIcon("error"), msg)
}

// Header prints a section header.
func (p Printer) Header(title string) {
	fmt.Fprintln(p.W, p.Colors.Header(" "+title+" "))
}

// Separator prints a themed separator line of n characters.
func (p Printer) Separator(n int) { fmt.Fprintln(p.W, p.Colors.Separator(n)) }

// KeyValueLine prints a key-value pair with proper formatting
func (p Printer) KeyValueLine(key, value, colorType string) {
	var coloredValue string
	switch colorType {
	case "blue":
		coloredValue = p.Colors.Info(value)
	case "yellow":
		coloredValue = p.Colors.Warning(value)
	case "green":
		coloredValue = p.Colors.Success(value)
	case "dim":
		coloredValue = p.Colors.Description(value)
	default:
		coloredValue = p.Colors.Value(value)
	}
	fmt.Fprintf(p.W, "%s %s\n", p.Colors.Label(key+":"), coloredValue)
}
