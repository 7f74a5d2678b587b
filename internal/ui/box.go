package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// GuidanceBox renders a titled, bordered block of commands for the
// operator to run next. With colors disabled it falls back to plain
// indented lines so piped output stays greppable.
func GuidanceBox(c *ColorConfig, title string, lines []string) string {
	if !c.Enabled {
		var b strings.Builder
		b.WriteString(title)
		b.WriteString("\n")
		for _, l := range lines {
			b.WriteString("  ")
			b.WriteString(l)
			b.WriteString("\n")
		}
		return b.String()
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39"))

	cmdStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	body := make([]string, 0, len(lines)+2)
	body = append(body, titleStyle.Render(title), "")
	for _, l := range lines {
		body = append(body, cmdStyle.Render("$ "+l))
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(0, 1)

	return boxStyle.Render(strings.Join(body, "\n")) + "\n"
}
