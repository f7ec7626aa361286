package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/shopos/cli/internal/api"
	"github.com/gravitrone/shopos/cli/internal/selection"
	"github.com/gravitrone/shopos/cli/internal/ui/components"
	"github.com/gravitrone/shopos/cli/internal/workflow"
)

// --- Messages ---

type jobsLoadedMsg struct{ items []api.Job }
type jobCreatedMsg struct{ job api.Job }
type jobStatusUpdatedMsg struct {
	job      api.Job
	from     workflow.Status
	to       workflow.Status
	advisory string
}

// pendingMove is a status change waiting on a y/n confirmation.
type pendingMove struct {
	job      api.Job
	to       workflow.Status
	rule     workflow.StatusTransition
	advisory string
}

const (
	jobFieldTitle = iota
	jobFieldDescription
	jobFieldPriority
	jobFieldCustomer
	jobFieldVehicle
	jobFieldCount
)

var jobPriorityOptions = []string{
	string(workflow.PriorityNormal),
	string(workflow.PriorityHigh),
	string(workflow.PriorityLow),
}

// --- Jobs Model ---

type JobsModel struct {
	client    *api.Client
	bays      int
	allItems  []api.Job
	items     []api.Job
	list      *components.List
	loading   bool
	searching bool
	searchBuf string
	width     int
	height    int

	// add
	adding         bool
	addFields      []formField
	addFocus       int
	addPriorityIdx int
	addSaving      bool
	addErr         string

	// status picker
	picking   bool
	pickJob   *api.Job
	pickRules []workflow.StatusTransition
	pickIdx   int

	confirm *pendingMove
	moving  bool
}

// NewJobsModel builds the jobs tab. bays is the shop's bay capacity.
func NewJobsModel(client *api.Client, bays int) JobsModel {
	return JobsModel{
		client: client,
		bays:   bays,
		list:   components.NewList(15),
		addFields: []formField{
			{label: "Title"},
			{label: "Description"},
			{label: "Priority"},
			{label: "Customer ID"},
			{label: "Vehicle ID"},
		},
	}
}

func (m *JobsModel) Init() tea.Cmd {
	m.loading = true
	return m.loadJobs
}

func (m JobsModel) Update(msg tea.Msg) (JobsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case jobsLoadedMsg:
		m.loading = false
		m.allItems = msg.items
		m.applyJobSearch()
		return m, nil
	case jobsSnapshotMsg:
		m.loading = false
		m.allItems = msg.jobs
		m.applyJobSearch()
		return m, nil
	case jobCreatedMsg:
		m.resetAddForm()
		m.adding = false
		m.loading = true
		return m, m.loadJobs
	case jobStatusUpdatedMsg:
		m.moving = false
		m.replaceJob(msg.job)
		return m, nil
	case errMsg:
		m.loading = false
		m.addSaving = false
		m.moving = false
		if m.adding {
			m.addErr = ErrorMessage(msg.err, "Could not save job")
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case m.confirm != nil:
			return m.handleConfirmKeys(msg)
		case m.picking:
			return m.handlePickKeys(msg)
		case m.adding:
			return m.handleAddKeys(msg)
		case m.searching:
			return m.handleSearchKeys(msg)
		}
		return m.handleListKeys(msg)
	}
	return m, nil
}

func (m JobsModel) View() string {
	switch {
	case m.confirm != nil:
		return components.Indent(m.renderConfirm(), 1)
	case m.picking:
		return components.Indent(m.renderPicker(), 1)
	case m.adding:
		return components.Indent(m.renderAdd(), 1)
	}
	return components.Indent(m.renderList(), 1)
}

// capturing reports whether keys belong to an input or modal in this tab.
func (m JobsModel) capturing() bool {
	return m.searching || m.adding || m.picking || m.confirm != nil
}

// --- List ---

func (m JobsModel) renderList() string {
	if m.loading && len(m.allItems) == 0 {
		return "  " + MutedStyle.Render("Loading jobs...")
	}

	countLine := fmt.Sprintf("%d total · %d/%d bays in use", len(m.items), countBayJobs(m.allItems), m.bays)
	if m.searching || strings.TrimSpace(m.searchBuf) != "" {
		query := components.SanitizeOneLine(m.searchBuf)
		if m.searching {
			query += AccentStyle.Render("█")
		}
		countLine = fmt.Sprintf("%s · search: %s", countLine, query)
	}

	if len(m.items) == 0 {
		return components.EmptyStateBox(
			"Jobs",
			"No jobs found.",
			[]string{"Press a to add a job", "Press / to search", "Press ctrl+k for the command palette"},
			m.width,
		)
	}

	tableWidth := components.BoxContentWidth(m.width)
	sepWidth := 1
	if b := lipgloss.RoundedBorder().Left; b != "" {
		sepWidth = lipgloss.Width(b)
	}
	// 5 columns -> 4 separators.
	available := tableWidth - (4 * sepWidth)
	if available < 40 {
		available = 40
	}
	numWidth := 6
	statusWidth := 18
	priorityWidth := 8
	updatedWidth := 11
	titleWidth := available - (numWidth + statusWidth + priorityWidth + updatedWidth)
	if titleWidth < 12 {
		titleWidth = 12
	}
	cols := []components.TableColumn{
		{Header: "#", Width: numWidth, Align: lipgloss.Right},
		{Header: "Job", Width: titleWidth, Align: lipgloss.Left},
		{Header: "Status", Width: statusWidth, Align: lipgloss.Left, Style: statusLabelStyle},
		{Header: "Priority", Width: priorityWidth, Align: lipgloss.Left},
		{Header: "Updated", Width: updatedWidth, Align: lipgloss.Left},
	}

	visible := m.list.Visible()
	rows := make([][]string, 0, len(visible))
	active := -1
	for i := range visible {
		abs := m.list.RelToAbs(i)
		if abs < 0 || abs >= len(m.items) {
			continue
		}
		j := m.items[abs]
		if m.list.IsSelected(abs) {
			active = len(rows)
		}
		num := j.JobNumber
		if num == "" {
			num = shortID(j.ID)
		}
		updated := j.UpdatedAt
		if updated.IsZero() {
			updated = j.CreatedAt
		}
		rows = append(rows, []string{
			num,
			components.ClampTextWidthEllipsis(j.Title, titleWidth),
			j.Status.Label(),
			dashIfEmpty(string(j.Priority)),
			formatTime(updated),
		})
	}

	table := components.TableGridWithActiveRow(cols, rows, tableWidth, active)
	content := MutedStyle.Render(countLine) + "\n\n" + table + "\n"
	return components.TitledBox("Jobs", content, m.width)
}

func (m JobsModel) handleListKeys(msg tea.KeyMsg) (JobsModel, tea.Cmd) {
	switch {
	case isDown(msg):
		m.list.Down()
	case isUp(msg):
		m.list.Up()
	case isEnter(msg), isSpace(msg):
		if job, ok := m.selectedJob(); ok {
			return m, selectCmd(selection.JobItem(job))
		}
	case isKey(msg, "/"):
		m.searching = true
	case isKey(msg, "s"):
		if job, ok := m.selectedJob(); ok {
			return m.openPicker(job)
		}
	case isKey(msg, "c"):
		if job, ok := m.selectedJob(); ok {
			return m, m.peekCustomer(job)
		}
	case isBack(msg):
		if m.searchBuf != "" {
			m.searchBuf = ""
			m.applyJobSearch()
		}
	}
	return m, nil
}

func (m JobsModel) handleSearchKeys(msg tea.KeyMsg) (JobsModel, tea.Cmd) {
	switch {
	case isBack(msg):
		m.searching = false
		m.searchBuf = ""
	case isEnter(msg):
		m.searching = false
		return m, nil
	case isKey(msg, "backspace", "delete"):
		m.searchBuf = dropLastRune(m.searchBuf)
	case isKey(msg, "ctrl+u"):
		m.searchBuf = ""
	case isDown(msg):
		m.list.Down()
		return m, nil
	case isUp(msg):
		m.list.Up()
		return m, nil
	default:
		if ch := msg.String(); isPrintable(ch) {
			m.searchBuf += ch
		}
	}
	m.applyJobSearch()
	return m, nil
}

func (m *JobsModel) applyJobSearch() {
	query := strings.TrimSpace(strings.ToLower(m.searchBuf))
	if query == "" {
		m.items = m.allItems
	} else {
		filtered := make([]api.Job, 0, len(m.allItems))
		for _, j := range m.allItems {
			line := strings.ToLower(strings.Join([]string{
				j.Title, j.JobNumber, j.Status.Label(), string(j.Status), j.Technician, j.ID,
			}, " "))
			if strings.Contains(line, query) {
				filtered = append(filtered, j)
			}
		}
		m.items = filtered
	}
	labels := make([]string, len(m.items))
	for i, j := range m.items {
		labels[i] = j.Title
	}
	m.list.SetItemsKeepCursor(labels)
}

func (m *JobsModel) replaceJob(job api.Job) {
	for i := range m.allItems {
		if m.allItems[i].ID == job.ID {
			m.allItems[i] = job
			m.applyJobSearch()
			return
		}
	}
	m.allItems = append(m.allItems, job)
	m.applyJobSearch()
}

func (m JobsModel) selectedJob() (api.Job, bool) {
	idx := m.list.Selected()
	if idx < 0 || idx >= len(m.items) {
		return api.Job{}, false
	}
	return m.items[idx], true
}

func (m JobsModel) peekCustomer(job api.Job) tea.Cmd {
	if strings.TrimSpace(job.CustomerID) == "" {
		return toastCmd(toastInfo, "", "This job has no customer on file.")
	}
	return openContextCmd(selection.DockPayload{
		EntityType: selection.EntityCustomer,
		EntityID:   job.CustomerID,
		Source:     "jobs",
	})
}

// --- Status Moves ---

// MarkWaiting moves job to waiting on parts.
func (m JobsModel) MarkWaiting(job api.Job) (JobsModel, tea.Cmd) {
	return m.requestMove(job, workflow.StatusWaitingParts)
}

// Advance moves job to its default next status.
func (m JobsModel) Advance(job api.Job) (JobsModel, tea.Cmd) {
	next, ok := workflow.GetNextStatus(job.Status)
	if !ok {
		return m, toastCmd(toastInfo, "", fmt.Sprintf("No next step from %s.", job.Status.Label()))
	}
	return m.requestMove(job, next)
}

// findJob returns the loaded copy of a job by id.
func (m JobsModel) findJob(id string) (api.Job, bool) {
	for _, j := range m.allItems {
		if j.ID == id {
			return j, true
		}
	}
	return api.Job{}, false
}

// StartAdd opens the add form.
func (m JobsModel) StartAdd() JobsModel {
	m.resetAddForm()
	m.adding = true
	return m
}

// StartSearch focuses the search input.
func (m JobsModel) StartSearch() JobsModel {
	m.searching = true
	return m
}

func (m JobsModel) transitionContext() workflow.TransitionContext {
	return workflow.TransitionContext{
		BayCapacity:    m.bays,
		CurrentBayJobs: countBayJobs(m.allItems),
	}
}

func (m JobsModel) requestMove(job api.Job, to workflow.Status) (JobsModel, tea.Cmd) {
	if m.moving {
		return m, nil
	}
	ctx := m.transitionContext()
	wj := job.WorkflowJob()
	decision := workflow.CanTransitionTo(wj, to, &ctx)
	if !decision.Allowed {
		return m, toastCmd(toastWarning, "Cannot move job", decision.Reason)
	}
	rule := workflow.ValidateTransition(job.Status, to, &wj)
	if rule != nil && rule.RequiresConfirmation {
		m.confirm = &pendingMove{job: job, to: to, rule: *rule, advisory: decision.Reason}
		return m, nil
	}
	return m.move(job, to, decision.Reason)
}

func (m JobsModel) move(job api.Job, to workflow.Status, advisory string) (JobsModel, tea.Cmd) {
	m.moving = true
	client := m.client
	from := job.Status
	return m, func() tea.Msg {
		updated, err := client.UpdateJobStatus(job.ID, to)
		if err != nil {
			return errMsg{err}
		}
		return jobStatusUpdatedMsg{job: *updated, from: from, to: to, advisory: advisory}
	}
}

func (m JobsModel) handleConfirmKeys(msg tea.KeyMsg) (JobsModel, tea.Cmd) {
	switch {
	case isKey(msg, "y"), isEnter(msg):
		pending := *m.confirm
		m.confirm = nil
		return m.move(pending.job, pending.to, pending.advisory)
	case isKey(msg, "n"), isBack(msg):
		m.confirm = nil
	}
	return m, nil
}

func (m JobsModel) renderConfirm() string {
	p := m.confirm
	ctx := m.transitionContext()
	summary := []components.TableRow{
		{Label: "Job", Value: selection.SelectionTitle(selection.JobItem(p.job))},
		{Label: "From", Value: p.job.Status.Label()},
		{Label: "To", Value: p.to.Label(), ValueColor: string(StatusColor(p.to))},
	}
	var warnings []string
	if p.rule.WarningMessage != "" {
		warnings = append(warnings, p.rule.WarningMessage)
	}
	if p.advisory != "" {
		warnings = append(warnings, p.advisory)
	}
	sections := []components.ListSection{
		{Title: "Heads up", Lines: warnings},
		{Title: "Check before moving", Lines: p.rule.PendingPrerequisites(p.job.WorkflowJob(), &ctx)},
		{Title: "This will also", Lines: p.rule.AutoActions},
	}
	return components.ConfirmListDialog("Move to "+p.to.Label()+"?", summary, sections, m.width)
}

func (m JobsModel) openPicker(job api.Job) (JobsModel, tea.Cmd) {
	rules := workflow.GetValidTransitions(job.Status)
	if len(rules) == 0 {
		return m, toastCmd(toastInfo, "", fmt.Sprintf("No moves available from %s.", job.Status.Label()))
	}
	m.picking = true
	m.pickJob = &job
	m.pickRules = rules
	m.pickIdx = 0
	return m, nil
}

func (m JobsModel) handlePickKeys(msg tea.KeyMsg) (JobsModel, tea.Cmd) {
	switch {
	case isBack(msg):
		m.picking = false
		m.pickJob = nil
	case isDown(msg):
		if m.pickIdx < len(m.pickRules)-1 {
			m.pickIdx++
		}
	case isUp(msg):
		if m.pickIdx > 0 {
			m.pickIdx--
		}
	case isEnter(msg):
		job := *m.pickJob
		to := m.pickRules[m.pickIdx].To
		m.picking = false
		m.pickJob = nil
		return m.requestMove(job, to)
	}
	return m, nil
}

func (m JobsModel) renderPicker() string {
	job := *m.pickJob
	ctx := m.transitionContext()
	var b strings.Builder
	b.WriteString(MutedStyle.Render("Currently " + job.Status.Label()))
	b.WriteString("\n\n")
	for i, rule := range m.pickRules {
		decision := workflow.CanTransitionTo(job.WorkflowJob(), rule.To, &ctx)
		label := rule.To.Label()
		if rule.RequiresConfirmation {
			label += MutedStyle.Render(" · confirm")
		}
		prefix := "    "
		style := NormalStyle
		if i == m.pickIdx {
			prefix = "  > "
			style = SelectedStyle
		}
		if !decision.Allowed {
			style = MutedStyle
		}
		b.WriteString(style.Render(prefix + label))
		if !decision.Allowed {
			b.WriteString("\n" + WarningStyle.Render("      "+components.SanitizeOneLine(decision.Reason)))
		}
		if i < len(m.pickRules)-1 {
			b.WriteString("\n")
		}
	}
	title := "Move " + selection.SelectionTitle(selection.JobItem(job))
	return components.TitledBox(title, b.String(), m.width)
}

// --- Add ---

func (m JobsModel) handleAddKeys(msg tea.KeyMsg) (JobsModel, tea.Cmd) {
	if m.addSaving {
		return m, nil
	}
	switch {
	case isDown(msg), isKey(msg, "tab"):
		m.addFocus = (m.addFocus + 1) % jobFieldCount
	case isUp(msg), isKey(msg, "shift+tab"):
		m.addFocus = (m.addFocus - 1 + jobFieldCount) % jobFieldCount
	case isKey(msg, "ctrl+s"):
		return m.saveAdd()
	case isBack(msg):
		m.resetAddForm()
		m.adding = false
	case isKey(msg, "backspace"):
		if m.addFocus != jobFieldPriority {
			f := &m.addFields[m.addFocus]
			f.value = dropLastRune(f.value)
		}
	default:
		if m.addFocus == jobFieldPriority {
			switch {
			case isKey(msg, "left"):
				m.addPriorityIdx = (m.addPriorityIdx - 1 + len(jobPriorityOptions)) % len(jobPriorityOptions)
			case isKey(msg, "right"), isSpace(msg):
				m.addPriorityIdx = (m.addPriorityIdx + 1) % len(jobPriorityOptions)
			}
			return m, nil
		}
		if ch := msg.String(); isPrintable(ch) {
			m.addFields[m.addFocus].value += ch
		}
	}
	return m, nil
}

func (m JobsModel) renderAdd() string {
	if m.addSaving {
		return MutedStyle.Render("Saving...")
	}

	var b strings.Builder
	for i, f := range m.addFields {
		value := f.value
		if i == jobFieldPriority {
			value = jobPriorityOptions[m.addPriorityIdx]
		}
		if i == m.addFocus {
			b.WriteString(SelectedStyle.Render("> " + f.label + ":"))
			b.WriteString("\n")
			b.WriteString(NormalStyle.Render("  " + value))
			if i != jobFieldPriority {
				b.WriteString(AccentStyle.Render("█"))
			} else {
				b.WriteString(MutedStyle.Render("  ←/→"))
			}
		} else {
			b.WriteString(MutedStyle.Render("  " + f.label + ":"))
			b.WriteString("\n")
			b.WriteString(NormalStyle.Render("  " + dashIfEmpty(value)))
		}
		if i < jobFieldCount-1 {
			b.WriteString("\n\n")
		}
	}

	if m.addErr != "" {
		b.WriteString("\n\n")
		b.WriteString(components.ErrorBox("Error", m.addErr, m.width))
	}
	return components.TitledBox("New Job", b.String(), m.width)
}

func (m JobsModel) saveAdd() (JobsModel, tea.Cmd) {
	title := strings.TrimSpace(m.addFields[jobFieldTitle].value)
	if title == "" {
		m.addErr = "Title is required"
		return m, nil
	}
	input := api.CreateJobInput{
		Title:       title,
		Description: strings.TrimSpace(m.addFields[jobFieldDescription].value),
		Status:      workflow.StatusIncomingCall,
		Priority:    workflow.Priority(jobPriorityOptions[m.addPriorityIdx]),
		CustomerID:  strings.TrimSpace(m.addFields[jobFieldCustomer].value),
		VehicleID:   strings.TrimSpace(m.addFields[jobFieldVehicle].value),
	}

	m.addSaving = true
	m.addErr = ""
	client := m.client
	return m, func() tea.Msg {
		job, err := client.CreateJob(input)
		if err != nil {
			return errMsg{err}
		}
		return jobCreatedMsg{job: *job}
	}
}

func (m *JobsModel) resetAddForm() {
	m.addSaving = false
	m.addErr = ""
	m.addFocus = 0
	m.addPriorityIdx = statusIndex(jobPriorityOptions, string(workflow.PriorityNormal))
	for i := range m.addFields {
		m.addFields[i].value = ""
	}
}

// --- Helpers ---

func (m JobsModel) loadJobs() tea.Msg {
	items, err := m.client.ListJobs(nil)
	if err != nil {
		return errMsg{err}
	}
	return jobsLoadedMsg{items}
}
