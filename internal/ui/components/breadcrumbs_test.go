package components

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestBreadcrumbsJoinsLabels(t *testing.T) {
	out := SanitizeText(Breadcrumbs([]Crumb{{Label: "Home"}, {Label: "Jobs"}, {Label: "42", Active: true}}, 0))
	assert.Equal(t, "Home › Jobs › 42", out)
}

func TestBreadcrumbsCollapsesWhenNarrow(t *testing.T) {
	crumbs := []Crumb{{Label: "Home"}, {Label: "Customers"}, {Label: "Jane Doe"}, {Label: "Vehicles", Active: true}}
	out := Breadcrumbs(crumbs, 24)
	clean := SanitizeText(out)
	assert.LessOrEqual(t, lipgloss.Width(out), 24)
	assert.Contains(t, clean, "…")
	assert.Contains(t, clean, "Vehicles")
}

func TestBreadcrumbsEmpty(t *testing.T) {
	assert.Equal(t, "", Breadcrumbs(nil, 40))
}
