package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const bannerArt = `
 ██████  ██   ██   █████   ██████         █████    ██████
██       ██   ██  ██   ██  ██   ██       ██   ██  ██
 █████   ███████  ██   ██  ██████        ██   ██   █████
     ██  ██   ██  ██   ██  ██            ██   ██       ██
██████   ██   ██   █████   ██             █████   ██████`

const bannerSubtitle = "Mechanic Shop OS • Command-Line Interface"

// RenderBanner returns the styled ASCII banner.
func RenderBanner() string {
	lines := splitLines(bannerArt)
	rendered := ""

	baseStyle := lipgloss.NewStyle().Foreground(ColorPrimary)
	accentStyle := lipgloss.NewStyle().Foreground(ColorAccent)

	maxWidth := 0
	for _, line := range lines {
		if w := lipgloss.Width(line); w > maxWidth {
			maxWidth = w
		}
	}

	row := 0
	for _, line := range lines {
		if line == "" {
			continue
		}
		// Bottom rows pick up the accent color like a lit shop sign.
		style := baseStyle
		if row >= 3 {
			style = accentStyle
		}
		rendered += style.Render(line) + "\n"
		row++
	}

	subtitleWidth := lipgloss.Width(bannerSubtitle)
	blockWidth := maxWidth
	if blockWidth < subtitleWidth {
		blockWidth = subtitleWidth
	}

	subtitleStyle := lipgloss.NewStyle().
		Foreground(ColorMuted).
		Width(blockWidth).
		Align(lipgloss.Center)
	subtitle := subtitleStyle.Render(bannerSubtitle)

	underlineStyle := lipgloss.NewStyle().
		Foreground(ColorBorder).
		Width(blockWidth).
		Align(lipgloss.Center)
	underline := underlineStyle.Render(strings.Repeat("─", subtitleWidth))

	return "\n" + rendered + "\n" + subtitle + "\n" + underline + "\n"
}

// RenderCompactBanner is the one-line header used on short terminals.
func RenderCompactBanner() string {
	return BannerStyle.Render("SHOP OS") + MutedStyle.Render("  mechanic shop console")
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
