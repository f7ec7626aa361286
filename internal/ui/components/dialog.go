package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var dialogStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#273540")).
	Padding(1, 2).
	Width(40)

// ConfirmDialog renders a yes/no confirmation.
func ConfirmDialog(title, message string) string {
	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7f57b4")).
		Bold(true).
		Render(title)

	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#9ba0bf")).
		Render(message)

	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#9ba0bf")).
		Render("\ny: confirm | n: cancel")

	return dialogStyle.Render(header + "\n\n" + body + hint)
}

// InputDialog renders a text input prompt.
func InputDialog(title, input string) string {
	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7f57b4")).
		Bold(true).
		Render(title)

	field := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#436b77")).
		Render("> " + input + "█")

	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#9ba0bf")).
		Render("\nenter: submit | esc: cancel")

	return dialogStyle.Render(header + "\n\n" + field + hint)
}

// ListSection is a titled group of bullet lines shown inside a dialog.
type ListSection struct {
	Title string
	Lines []string
}

var (
	sectionTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#7f57b4")).
				Bold(true)
	sectionLineStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#d7d9da"))
)

// ConfirmListDialog renders a confirmation with summary rows followed by
// bullet sections. Sections without lines are skipped.
func ConfirmListDialog(title string, summary []TableRow, sections []ListSection, width int) string {
	parts := make([]string, 0, len(sections)+2)
	if len(summary) > 0 {
		parts = append(parts, Table("Summary", summary, width))
	}
	contentWidth := BoxContentWidth(width)
	for _, section := range sections {
		if len(section.Lines) == 0 {
			continue
		}
		lines := []string{sectionTitleStyle.Render(SanitizeOneLine(section.Title))}
		for _, line := range section.Lines {
			lines = append(lines, sectionLineStyle.Render(ClampTextWidth("• "+SanitizeOneLine(line), contentWidth)))
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}
	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#9ba0bf")).
		Render("y: confirm | n: cancel")
	parts = append(parts, hint)

	return TitledBox(title, strings.Join(parts, "\n\n"), width)
}
