package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/shopos/cli/internal/api"
	"github.com/gravitrone/shopos/cli/internal/selection"
	"github.com/gravitrone/shopos/cli/internal/ui/components"
	"github.com/gravitrone/shopos/cli/internal/workflow"
)

var dockBoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder).
	Padding(1, 2)

const (
	dockWidthPercent = 32
	dockMinWidth     = 38
	dockMaxWidth     = 56
	dockGap          = 3

	// Below this content width the dock stacks under the tab content.
	dockSideBySideMin = 110
)

func preferredDockWidth(contentWidth int) int {
	if contentWidth <= 0 {
		return dockMinWidth
	}
	w := contentWidth * dockWidthPercent / 100
	if w < dockMinWidth {
		w = dockMinWidth
	}
	if w > dockMaxWidth {
		w = dockMaxWidth
	}
	return w
}

func dockBoxContentWidth(width int) int {
	if width <= 0 {
		return 0
	}
	contentWidth := width - dockBoxStyle.GetHorizontalFrameSize()
	if contentWidth < 10 {
		contentWidth = 10
	}
	return contentWidth
}

func renderDockBox(content string, width int) string {
	if width <= 0 {
		return ""
	}
	// Width includes padding but not borders.
	borderW := dockBoxStyle.GetBorderLeftSize() + dockBoxStyle.GetBorderRightSize()
	inner := width - borderW
	if inner < 1 {
		inner = 1
	}
	return dockBoxStyle.Width(inner).Render(content)
}

func wrapDockText(text string, width int) []string {
	text = components.SanitizeOneLine(text)
	if width <= 0 || text == "" {
		return nil
	}
	if lipgloss.Width(text) <= width {
		return []string{text}
	}

	var out []string
	var line strings.Builder
	lineW := 0
	for _, r := range text {
		rw := lipgloss.Width(string(r))
		if rw < 1 {
			rw = 1
		}
		if lineW+rw > width && lineW > 0 {
			out = append(out, strings.TrimRight(line.String(), " "))
			line.Reset()
			lineW = 0
			if r == ' ' {
				continue
			}
		}
		line.WriteRune(r)
		lineW += rw
	}
	if line.Len() > 0 {
		out = append(out, strings.TrimRight(line.String(), " "))
	}
	return out
}

func renderDockRow(label, value string, width int) string {
	label = components.SanitizeOneLine(label)
	value = components.SanitizeOneLine(value)

	prefixWidth := lipgloss.Width(label) + 2
	maxValue := width - prefixWidth
	if maxValue < 4 {
		maxValue = 4
	}
	value = components.ClampTextWidthEllipsis(value, maxValue)
	return MetaKeyStyle.Render(label) + MetaPunctStyle.Render(": ") + MetaValueStyle.Render(value)
}

func padDockLines(lines []string, width int) string {
	if width <= 0 || len(lines) == 0 {
		return ""
	}
	padded := make([]string, 0, len(lines))
	for _, line := range lines {
		if w := lipgloss.Width(line); w > width {
			line = components.ClampTextWidth(components.SanitizeText(line), width)
		}
		if w := lipgloss.Width(line); w < width {
			line += strings.Repeat(" ", width-w)
		}
		padded = append(padded, line)
	}
	return strings.Join(padded, "\n")
}

// --- Dock ---

func (a App) dockOpen() bool {
	return a.sel != nil && a.sel.Dock().Open
}

// dockSideBySide reports whether the dock sits to the right of the tab
// content rather than below it.
func (a App) dockSideBySide() bool {
	return a.dockOpen() && components.BoxContentWidth(a.width) >= dockSideBySideMin
}

// mainWidth is the width tab content may use given the dock layout.
func (a App) mainWidth() int {
	if !a.dockSideBySide() {
		return a.width
	}
	return a.width - preferredDockWidth(components.BoxContentWidth(a.width)) - dockGap
}

func (a App) renderDock() string {
	if !a.dockOpen() {
		return ""
	}
	width := preferredDockWidth(components.BoxContentWidth(a.width))
	if !a.dockSideBySide() {
		width = components.BoxContentWidth(a.width)
	}
	contentWidth := dockBoxContentWidth(width)

	state := a.sel.Dock()
	var lines []string
	switch {
	case state.View == selection.ViewMenu:
		lines = a.dockMenuLines(contentWidth)
	case state.Context == selection.ContextEmpty:
		lines = []string{
			MetaKeyStyle.Render("Dock"),
			MutedStyle.Render("Nothing selected."),
		}
	default:
		payload, ok := a.sel.Payload()
		if !ok {
			lines = []string{MutedStyle.Render("Nothing selected.")}
			break
		}
		lines = a.dockContextLines(payload, contentWidth)
	}
	lines = append(lines, "", MutedStyle.Render("esc close · ctrl+b hide"))
	return renderDockBox(padDockLines(lines, contentWidth), width)
}

func (a App) dockMenuLines(width int) []string {
	lines := []string{MetaKeyStyle.Render("Recent")}
	recent := a.sel.Recent()
	if len(recent) == 0 {
		lines = append(lines, MutedStyle.Render("No recent items."))
	}
	for _, item := range recent {
		title := selection.SelectionIcon(item.Type) + " " + selection.SelectionTitle(item)
		lines = append(lines, NormalStyle.Render(components.ClampTextWidthEllipsis(title, width)))
		if sub := strings.TrimSpace(item.Subtitle); sub != "" {
			lines = append(lines, MutedStyle.Render("   "+components.ClampTextWidthEllipsis(sub, width-3)))
		}
	}

	lines = append(lines, "", MetaKeyStyle.Render("Quick actions"))
	for _, qa := range [][2]string{
		{"ctrl+k", "Command palette"},
		{"ctrl+h", "Selection history"},
		{"1-4", "Switch tabs"},
		{"alt+left", "Go back"},
	} {
		lines = append(lines, AccentStyle.Render(fmt.Sprintf("%-9s", qa[0]))+NormalStyle.Render(qa[1]))
	}
	return lines
}

func (a App) dockContextLines(p selection.DockPayload, width int) []string {
	if p.InitialData == nil {
		return []string{
			MetaKeyStyle.Render(selection.SelectionIcon(p.EntityType) + " " + string(p.EntityType)),
			MutedStyle.Render(fmt.Sprintf("Loading %s %s...", p.EntityType, shortID(p.EntityID))),
		}
	}

	item := selection.Item{ID: p.EntityID, Type: p.EntityType, Data: p.InitialData}
	title := selection.SelectionIcon(p.EntityType) + " " + selection.SelectionTitle(item)
	lines := make([]string, 0, 16)
	for _, part := range wrapDockText(title, width) {
		lines = append(lines, SelectedStyle.Render(part))
	}
	lines = append(lines, "")

	switch data := p.InitialData.(type) {
	case selection.JobPayload:
		lines = append(lines, a.dockJobLines(data.Job, width)...)
	case selection.CustomerPayload:
		lines = append(lines, dockCustomerLines(data.Customer, width)...)
	case selection.VehiclePayload:
		lines = append(lines, dockVehicleLines(data.Vehicle, width)...)
	case selection.CallPayload:
		c := data.Call
		lines = append(lines,
			renderDockRow("From", dashIfEmpty(c.CallerName), width),
			renderDockRow("Phone", dashIfEmpty(c.PhoneNumber), width),
			renderDockRow("Received", formatTime(c.ReceivedAt), width),
		)
		if s := strings.TrimSpace(c.Summary); s != "" {
			lines = append(lines, "")
			for _, part := range wrapDockText(s, width) {
				lines = append(lines, NormalStyle.Render(part))
			}
		}
	case selection.AppointmentPayload:
		ap := data.Appointment
		lines = append(lines,
			renderDockRow("Starts", formatTime(ap.StartsAt), width),
			renderDockRow("Ends", formatTime(ap.EndsAt), width),
		)
		if ap.JobID != "" {
			lines = append(lines, renderDockRow("Job", shortID(ap.JobID), width))
		}
	}
	if p.Source != "" && p.Source != "selection" {
		lines = append(lines, "", MutedStyle.Render("opened from "+p.Source))
	}
	return lines
}

func (a App) dockJobLines(job api.Job, width int) []string {
	meta, _ := workflow.Meta(job.Status)
	barWidth := width - 5
	if barWidth > 30 {
		barWidth = 30
	}
	lines := []string{
		StatusBadge(job.Status),
		components.ProgressBar(workflow.GetWorkflowProgress(job.Status), barWidth, meta.Color),
		renderDockRow("Est. time", workflow.GetEstimatedTimeInStatus(job.Status), width),
	}
	if job.Priority != "" {
		lines = append(lines, renderDockRow("Priority", string(job.Priority), width))
	}
	if job.BayNumber != nil {
		lines = append(lines, renderDockRow("Bay", fmt.Sprintf("%d", *job.BayNumber), width))
	}
	if job.Technician != "" {
		lines = append(lines, renderDockRow("Technician", job.Technician, width))
	}
	lines = append(lines,
		renderDockRow("Customer", dashIfEmpty(shortID(job.CustomerID)), width),
		renderDockRow("Vehicle", dashIfEmpty(shortID(job.VehicleID)), width),
		renderDockRow("Updated", formatTime(job.UpdatedAt), width),
	)

	rules := workflow.GetValidTransitions(job.Status)
	if len(rules) == 0 {
		return lines
	}
	ctx := a.transitionContext()
	lines = append(lines, "", MetaKeyStyle.Render("Next steps"))
	for _, rule := range rules {
		decision := workflow.CanTransitionTo(job.WorkflowJob(), rule.To, &ctx)
		label := "→ " + rule.To.Label()
		if rule.RequiresConfirmation {
			label += " · confirm"
		}
		if !decision.Allowed {
			lines = append(lines, MutedStyle.Render(components.ClampTextWidthEllipsis(label, width)))
			for _, part := range wrapDockText(decision.Reason, width-2) {
				lines = append(lines, WarningStyle.Render("  "+part))
			}
			continue
		}
		lines = append(lines, lipgloss.NewStyle().Foreground(StatusColor(rule.To)).Render(components.ClampTextWidthEllipsis(label, width)))
	}
	lines = append(lines, MutedStyle.Render("s move · w parts · n next"))
	return lines
}

func dockCustomerLines(c api.Customer, width int) []string {
	lines := []string{
		renderDockRow("Phone", dashIfEmpty(c.Phone), width),
		renderDockRow("Email", dashIfEmpty(c.Email), width),
	}
	if c.Company != "" {
		lines = append(lines, renderDockRow("Company", c.Company, width))
	}
	if notes := strings.TrimSpace(c.Notes); notes != "" {
		lines = append(lines, "", MetaKeyStyle.Render("Notes"))
		for _, part := range wrapDockText(notes, width) {
			lines = append(lines, NormalStyle.Render(part))
		}
	}
	return lines
}

func dockVehicleLines(v api.Vehicle, width int) []string {
	lines := []string{
		renderDockRow("Plate", dashIfEmpty(v.LicensePlate), width),
		renderDockRow("VIN", dashIfEmpty(v.VIN), width),
	}
	if v.Mileage > 0 {
		lines = append(lines, renderDockRow("Mileage", fmt.Sprintf("%d mi", v.Mileage), width))
	}
	if v.CustomerID != "" {
		lines = append(lines, renderDockRow("Owner", shortID(v.CustomerID), width))
	}
	return lines
}

// transitionContext reports bay usage from the loaded job list.
func (a App) transitionContext() workflow.TransitionContext {
	return workflow.TransitionContext{
		BayCapacity:    a.config.Bays(),
		CurrentBayJobs: countBayJobs(a.jobs.allItems),
	}
}

func countBayJobs(jobs []api.Job) int {
	n := 0
	for _, j := range jobs {
		if meta, ok := workflow.Meta(j.Status); ok && meta.OccupiesBay {
			n++
		}
	}
	return n
}
