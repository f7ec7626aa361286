package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/shopos/cli/internal/api"
	"github.com/gravitrone/shopos/cli/internal/ui/components"
	"github.com/gravitrone/shopos/cli/internal/workflow"
)

func TestActiveJobsOrdering(t *testing.T) {
	jobs := []api.Job{
		{ID: "a", Status: workflow.StatusScheduled, Priority: workflow.PriorityNormal},
		{ID: "b", Status: workflow.StatusCompleted, Priority: workflow.PriorityHigh},
		{ID: "c", Status: workflow.StatusInBay, Priority: workflow.PriorityNormal},
		{ID: "d", Status: workflow.StatusScheduled, Priority: workflow.PriorityHigh},
		{ID: "e", Status: workflow.StatusIncomingCall, Priority: workflow.PriorityHigh},
		{ID: "f", Status: workflow.StatusWaitingParts, Priority: workflow.PriorityLow},
	}

	var ids []string
	for _, j := range activeJobs(jobs) {
		ids = append(ids, j.ID)
	}
	assert.Equal(t, []string{"d", "c", "a", "f"}, ids)
}

func TestDashboardRendersPipelineAndBays(t *testing.T) {
	model := NewDashboardModel(2)
	model.width = 120
	assert.Contains(t, components.SanitizeText(model.View()), "Loading shop floor...")

	model, _ = model.Update(jobsLoadedMsg{items: []api.Job{
		{ID: "a", Title: "Brake pads", Status: workflow.StatusInBay},
		{ID: "b", Title: "Alternator", Status: workflow.StatusInBay},
		{ID: "c", Title: "Oil change", Status: workflow.StatusCompleted},
	}})

	view := components.SanitizeText(model.View())
	assert.Contains(t, view, "Shop Floor")
	assert.Contains(t, view, "Bays 2/2 in use")
	assert.Contains(t, view, "2 active")
	assert.Contains(t, view, "Brake pads")
	assert.NotContains(t, view, "Oil change")
}

func TestDashboardTracksStatusUpdates(t *testing.T) {
	model := NewDashboardModel(4)
	model, _ = model.Update(jobsLoadedMsg{items: []api.Job{
		{ID: "a", Title: "Brake pads", Status: workflow.StatusInBay},
	}})
	require.Len(t, model.active, 1)

	model, _ = model.Update(jobStatusUpdatedMsg{
		job:  api.Job{ID: "a", Title: "Brake pads", Status: workflow.StatusCompleted},
		from: workflow.StatusInBay,
		to:   workflow.StatusCompleted,
	})
	assert.Empty(t, model.active)
	assert.Contains(t, components.SanitizeText(model.View()), "Nothing on the floor right now.")
}

func TestDashboardEnterSelectsActiveJob(t *testing.T) {
	model := NewDashboardModel(4)
	model, _ = model.Update(jobsSnapshotMsg{jobs: []api.Job{
		{ID: "a", Title: "Brake pads", Status: workflow.StatusScheduled},
		{ID: "b", Title: "Alternator", Status: workflow.StatusInBay},
	}})

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg, ok := cmd().(selectMsg)
	require.True(t, ok)
	assert.Equal(t, "b", msg.item.ID)
}
