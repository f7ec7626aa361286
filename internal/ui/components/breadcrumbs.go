package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Crumb is one segment of a breadcrumb trail.
type Crumb struct {
	Label  string
	Active bool
}

var (
	crumbStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ba0bf"))
	crumbActiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#7f57b4")).
				Bold(true)
	crumbSepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#273540"))
)

// Breadcrumbs renders crumbs joined by "›". When the trail is wider than
// width, leading crumbs collapse into "…".
func Breadcrumbs(crumbs []Crumb, width int) string {
	if len(crumbs) == 0 {
		return ""
	}
	sep := crumbSepStyle.Render(" › ")
	render := func(list []Crumb, elided bool) string {
		parts := make([]string, 0, len(list)+1)
		if elided {
			parts = append(parts, crumbStyle.Render("…"))
		}
		for _, c := range list {
			label := SanitizeOneLine(c.Label)
			if c.Active {
				parts = append(parts, crumbActiveStyle.Render(label))
			} else {
				parts = append(parts, crumbStyle.Render(label))
			}
		}
		return strings.Join(parts, sep)
	}

	out := render(crumbs, false)
	for start := 1; width > 0 && lipgloss.Width(out) > width && start < len(crumbs); start++ {
		out = render(crumbs[start:], true)
	}
	return out
}
