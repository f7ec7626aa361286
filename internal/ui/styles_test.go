package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/gravitrone/shopos/cli/internal/ui/components"
	"github.com/gravitrone/shopos/cli/internal/workflow"
)

func TestStatusColorFallsBackToMuted(t *testing.T) {
	assert.Equal(t, lipgloss.Color("#a7754e"), StatusColor(workflow.StatusInBay))
	assert.Equal(t, ColorMuted, StatusColor(workflow.Status("towed")))
}

func TestStatusBadgeIncludesLabel(t *testing.T) {
	assert.Contains(t, components.SanitizeText(StatusBadge(workflow.StatusWaitingParts)), "Waiting on Parts")
	assert.Contains(t, components.SanitizeText(StatusBadge(workflow.Status("towed"))), "towed")
}

func TestDividerWidth(t *testing.T) {
	assert.Equal(t, "", Divider(0))
	assert.Equal(t, 5, lipgloss.Width(Divider(5)))
}
