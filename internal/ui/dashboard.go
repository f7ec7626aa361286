package ui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/shopos/cli/internal/api"
	"github.com/gravitrone/shopos/cli/internal/selection"
	"github.com/gravitrone/shopos/cli/internal/ui/components"
	"github.com/gravitrone/shopos/cli/internal/workflow"
)

// --- Dashboard Model ---

// DashboardModel shows the shop floor at a glance: jobs per status, bay
// occupancy and the active jobs ordered by priority.
type DashboardModel struct {
	jobs   []api.Job
	active []api.Job
	list   *components.List
	bays   int
	loaded bool
	width  int
	height int
}

func NewDashboardModel(bays int) DashboardModel {
	return DashboardModel{
		bays: bays,
		list: components.NewList(8),
	}
}

func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case jobsLoadedMsg:
		m.setJobs(msg.items)
	case jobsSnapshotMsg:
		m.setJobs(msg.jobs)
	case jobStatusUpdatedMsg:
		for i := range m.jobs {
			if m.jobs[i].ID == msg.job.ID {
				m.jobs[i] = msg.job
			}
		}
		m.setJobs(m.jobs)
	case tea.KeyMsg:
		switch {
		case isDown(msg):
			m.list.Down()
		case isUp(msg):
			m.list.Up()
		case isEnter(msg), isSpace(msg):
			idx := m.list.Selected()
			if idx >= 0 && idx < len(m.active) {
				return m, selectCmd(selection.JobItem(m.active[idx]))
			}
		}
	}
	return m, nil
}

func (m *DashboardModel) setJobs(jobs []api.Job) {
	m.loaded = true
	m.jobs = jobs
	m.active = activeJobs(jobs)
	labels := make([]string, len(m.active))
	for i, j := range m.active {
		labels[i] = j.Title
	}
	m.list.SetItemsKeepCursor(labels)
}

// activeJobs returns jobs still on the floor, high priority first and then
// furthest along the workflow.
func activeJobs(jobs []api.Job) []api.Job {
	out := make([]api.Job, 0, len(jobs))
	for _, j := range jobs {
		if meta, ok := workflow.Meta(j.Status); ok && meta.IsActive {
			out = append(out, j)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		pa, pb := priorityRank(out[a].Priority), priorityRank(out[b].Priority)
		if pa != pb {
			return pa < pb
		}
		return workflow.GetWorkflowProgress(out[a].Status) > workflow.GetWorkflowProgress(out[b].Status)
	})
	return out
}

func priorityRank(p workflow.Priority) int {
	switch p {
	case workflow.PriorityHigh:
		return 0
	case workflow.PriorityLow:
		return 2
	}
	return 1
}

func (m DashboardModel) View() string {
	if !m.loaded {
		return components.Indent("  "+MutedStyle.Render("Loading shop floor..."), 1)
	}
	return components.Indent(m.renderPipeline()+"\n\n"+m.renderActive(), 1)
}

func (m DashboardModel) renderPipeline() string {
	counts := make(map[workflow.Status]int, len(workflow.Statuses))
	for _, j := range m.jobs {
		counts[j.Status]++
	}
	total := len(m.jobs)

	width := components.BoxContentWidth(m.width)
	labelWidth := 18
	countWidth := 5
	barWidth := width - labelWidth - countWidth - 8
	if barWidth < 10 {
		barWidth = 10
	}
	if barWidth > 40 {
		barWidth = 40
	}

	var b strings.Builder
	for _, s := range workflow.Statuses {
		meta, _ := workflow.Meta(s)
		pct := 0
		if total > 0 {
			pct = counts[s] * 100 / total
		}
		label := lipgloss.NewStyle().Foreground(StatusColor(s)).Width(labelWidth).Render(meta.Icon + " " + meta.Label)
		count := NormalStyle.Width(countWidth).Align(lipgloss.Right).Render(fmt.Sprintf("%d", counts[s]))
		b.WriteString(label + count + "  " + components.ProgressBar(pct, barWidth, meta.Color))
		b.WriteString("\n")
	}

	inBay := countBayJobs(m.jobs)
	bayLine := fmt.Sprintf("Bays %d/%d in use", inBay, m.bays)
	style := SuccessStyle
	if m.bays > 0 && inBay >= m.bays {
		style = WarningStyle
	}
	b.WriteString("\n" + style.Render(bayLine))
	return components.TitledBox("Shop Floor", b.String(), m.width)
}

func (m DashboardModel) renderActive() string {
	if len(m.active) == 0 {
		return components.EmptyStateBox(
			"Active Jobs",
			"Nothing on the floor right now.",
			[]string{"Press 2 to open the jobs list"},
			m.width,
		)
	}

	tableWidth := components.BoxContentWidth(m.width)
	statusWidth := 18
	priorityWidth := 8
	estWidth := 14
	titleWidth := tableWidth - (statusWidth + priorityWidth + estWidth + 3)
	if titleWidth < 12 {
		titleWidth = 12
	}
	cols := []components.TableColumn{
		{Header: "Job", Width: titleWidth, Align: lipgloss.Left},
		{Header: "Status", Width: statusWidth, Align: lipgloss.Left, Style: statusLabelStyle},
		{Header: "Priority", Width: priorityWidth, Align: lipgloss.Left},
		{Header: "Est.", Width: estWidth, Align: lipgloss.Left},
	}

	visible := m.list.Visible()
	rows := make([][]string, 0, len(visible))
	active := -1
	for i := range visible {
		abs := m.list.RelToAbs(i)
		if abs < 0 || abs >= len(m.active) {
			continue
		}
		j := m.active[abs]
		if m.list.IsSelected(abs) {
			active = len(rows)
		}
		rows = append(rows, []string{
			components.ClampTextWidthEllipsis(j.Title, titleWidth),
			j.Status.Label(),
			dashIfEmpty(string(j.Priority)),
			workflow.GetEstimatedTimeInStatus(j.Status),
		})
	}
	table := components.TableGridWithActiveRow(cols, rows, tableWidth, active)
	countLine := MutedStyle.Render(fmt.Sprintf("%d active", len(m.active)))
	return components.TitledBox("Active Jobs", countLine+"\n\n"+table+"\n", m.width)
}
