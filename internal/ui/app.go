package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/gravitrone/shopos/cli/internal/api"
	"github.com/gravitrone/shopos/cli/internal/config"
	"github.com/gravitrone/shopos/cli/internal/logging"
	"github.com/gravitrone/shopos/cli/internal/navigation"
	"github.com/gravitrone/shopos/cli/internal/realtime"
	"github.com/gravitrone/shopos/cli/internal/selection"
	"github.com/gravitrone/shopos/cli/internal/shortcuts"
	"github.com/gravitrone/shopos/cli/internal/ui/components"
	"github.com/gravitrone/shopos/cli/internal/workflow"
)

// --- Tab Constants ---

const (
	tabDashboard = 0
	tabJobs      = 1
	tabCustomers = 2
	tabVehicles  = 3
	tabCount     = 4
)

var (
	tabNames    = []string{"Dashboard", "Jobs", "Customers", "Vehicles"}
	tabRoutes   = []string{"/", "/jobs", "/customers", "/vehicles"}
	tabContexts = []string{"dashboard", "jobs", "customers", "vehicles"}
)

// --- Messages ---

type errMsg struct{ err error }
type reloginDoneMsg struct {
	apiKey string
	err    error
}
type startupCheckedMsg struct {
	apiErr  string
	authErr string
}

// selectMsg records a selection in the selection store.
type selectMsg struct{ item selection.Item }

// openContextMsg shows a record in the dock without tracking the visit.
type openContextMsg struct{ payload selection.DockPayload }

// dockDataLoadedMsg carries a record fetched for a dock context that was
// opened by id only.
type dockDataLoadedMsg struct{ data selection.Payload }

// shortcutMsg is emitted by registry handlers and run on the next update.
type shortcutMsg struct{ id string }

func selectCmd(item selection.Item) tea.Cmd {
	return func() tea.Msg { return selectMsg{item: item} }
}

func openContextCmd(p selection.DockPayload) tea.Cmd {
	return func() tea.Msg { return openContextMsg{payload: p} }
}

// --- App Model ---

// Deps are the stores and clients the app is built from. Nil stores are
// replaced with in-memory ones.
type Deps struct {
	Client     *api.Client
	Config     *config.Config
	Selection  *selection.Store
	Navigation *navigation.Store
	Shortcuts  *shortcuts.Registry
	// Updates carries live messages from SubscribeJobs. Nil disables live
	// updates.
	Updates <-chan tea.Msg
}

// App is the root TUI model that routes between tabs.
type App struct {
	client  *api.Client
	config  *config.Config
	sel     *selection.Store
	nav     *navigation.Store
	keys    *shortcuts.Registry
	tracker *realtime.StatusTracker
	updates <-chan tea.Msg
	log     *logrus.Entry

	tab         int
	width       int
	height      int
	helpOpen    bool
	quitConfirm bool
	help        help.Model

	startupChecking bool
	toast           *appToast
	toastSeq        int

	paletteOpen     bool
	paletteQuery    string
	paletteIndex    int
	paletteSource   []paletteAction
	paletteFiltered []paletteAction

	dashboard DashboardModel
	jobs      JobsModel
	customers CustomersModel
	vehicles  VehiclesModel
	history   HistoryModel
}

// NewApp creates the root application model.
func NewApp(deps Deps) App {
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	sel := deps.Selection
	if sel == nil {
		sel = selection.New(selection.Options{})
	}
	nav := deps.Navigation
	if nav == nil {
		nav = navigation.New(navigation.Options{})
	}
	keys := deps.Shortcuts
	if keys == nil {
		keys = shortcuts.NewRegistry()
	}

	a := App{
		client:          deps.Client,
		config:          cfg,
		sel:             sel,
		nav:             nav,
		keys:            keys,
		tracker:         &realtime.StatusTracker{},
		updates:         deps.Updates,
		log:             logging.NewLogger("ui"),
		tab:             tabDashboard,
		help:            help.New(),
		startupChecking: deps.Client != nil,
		dashboard:       NewDashboardModel(cfg.Bays()),
		jobs:            NewJobsModel(deps.Client, cfg.Bays()),
		customers:       NewCustomersModel(deps.Client),
		vehicles:        NewVehiclesModel(deps.Client),
		history:         NewHistoryModel(),
	}

	items := make([]navigation.Item, 0, tabCount)
	for i, name := range tabNames {
		items = append(items, navigation.Item{
			ID:    tabContexts[i],
			Label: name,
			Path:  tabRoutes[i],
		})
	}
	nav.SetNavigationItems(items)
	a.registerShortcuts()
	a.syncShortcuts()
	return a
}

func (a App) Init() tea.Cmd {
	a.nav.SetCurrentPath(tabRoutes[a.tab])
	a.nav.SetBreadcrumbs(navigation.GenerateBreadcrumbsFromPath(tabRoutes[a.tab], nil))
	cmds := []tea.Cmd{a.nav.SetPageTitle(tabNames[a.tab])}
	if a.client != nil {
		cmds = append(cmds, a.jobs.loadJobs)
	}
	if a.startupChecking {
		cmds = append(cmds, a.runStartupCheckCmd())
	}
	cmds = append(cmds, waitForUpdate(a.updates))
	return tea.Batch(cmds...)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case errMsg:
		var cmd tea.Cmd
		a.dashboard, _ = a.dashboard.Update(msg)
		a.jobs, cmd = a.jobs.Update(msg)
		a.customers, _ = a.customers.Update(msg)
		a.vehicles, _ = a.vehicles.Update(msg)
		a.log.WithError(msg.err).Warn("request failed")
		if a.jobs.adding {
			return a, cmd
		}
		return a, tea.Batch(cmd, a.pushToast(toastError, "", ErrorMessage(msg.err, "Request failed")))
	case toastMsg:
		return a, a.pushToast(msg.level, msg.title, msg.text)
	case clearToastMsg:
		if a.toast != nil && a.toast.id == msg.id {
			a.toast = nil
		}
		return a, nil
	case reloginDoneMsg:
		if msg.err != nil {
			return a, a.pushToast(toastError, "Re-login failed", ErrorMessage(msg.err, "Re-login failed"))
		}
		a.config.APIKey = msg.apiKey
		if err := a.config.Save(); err != nil {
			return a, a.pushToast(toastError, "", fmt.Sprintf("save config: %v", err))
		}
		if a.client != nil {
			a.client.SetAPIKey(msg.apiKey)
		}
		return a, a.setToast(toastSuccess, "Re-login complete. API key refreshed.")
	case startupCheckedMsg:
		a.startupChecking = false
		switch {
		case msg.apiErr != "":
			return a, a.pushToast(toastError, "Backend unreachable", msg.apiErr)
		case msg.authErr != "":
			return a, a.pushToast(toastWarning, "Not signed in", "Run shopos login or use the palette to re-login.")
		}
		return a, nil

	case shortcutMsg:
		return a.runShortcut(msg.id)
	case selectMsg:
		return a.applySelection(msg.item)
	case openContextMsg:
		return a.openContext(msg.payload)
	case dockDataLoadedMsg:
		if p, ok := a.sel.Payload(); ok && p.EntityType == msg.data.EntityType() && p.EntityID == msg.data.EntityID() {
			a.sel.SetDockContext(selection.ContextFromType(p.EntityType), msg.data)
		}
		return a, nil
	case historyRemoveMsg:
		a.sel.RemoveFromHistory(msg.item.ID, msg.item.Type)
		a.history = a.history.refresh(a.sel.History())
		return a, nil
	case historyClearMsg:
		a.sel.ClearHistory()
		a.history = a.history.refresh(nil)
		return a, a.setToast(toastInfo, "Selection history cleared.")
	case showCustomerVehiclesMsg:
		cmd := a.switchTab(tabVehicles)
		filterCmd := a.vehicles.FilterByOwner(msg.customer)
		path := "/customers/" + msg.customer.ID + "/vehicles"
		a.nav.SetCurrentPath(path)
		a.nav.SetBreadcrumbs(navigation.GenerateBreadcrumbsFromPath(path, map[string]string{
			"/customers/" + msg.customer.ID: msg.customer.FullName(),
		}))
		return a, tea.Batch(cmd, filterCmd, a.nav.SetPageTitle(msg.customer.FullName()+" vehicles"))

	case jobsLoadedMsg:
		var cmd tea.Cmd
		a.jobs, cmd = a.jobs.Update(msg)
		a.dashboard, _ = a.dashboard.Update(msg)
		a.tracker.Observe(msg.items)
		return a, cmd
	case jobsSnapshotMsg:
		return a.applySnapshot(msg)
	case realtimeClosedMsg:
		a.updates = nil
		a.tracker.Reset()
		if msg.err != nil {
			a.log.WithError(msg.err).Warn("live updates stopped")
			return a, a.pushToast(toastWarning, "Live updates stopped", ErrorMessage(msg.err, "connection closed"))
		}
		return a, nil
	case jobCreatedMsg:
		var cmd tea.Cmd
		a.jobs, cmd = a.jobs.Update(msg)
		a.sel.AddToRecent(selection.JobItem(msg.job))
		return a, tea.Batch(cmd, a.setToast(toastSuccess, fmt.Sprintf("Job %q logged.", msg.job.Title)))
	case jobStatusUpdatedMsg:
		var cmd tea.Cmd
		a.jobs, cmd = a.jobs.Update(msg)
		a.dashboard, _ = a.dashboard.Update(msg)
		a.tracker.Record(msg.job)
		item := selection.JobItem(msg.job)
		a.sel.AddToHistory(item)
		a.refreshDockJob(msg.job)
		text := workflow.GetTransitionMessage(msg.from, msg.to)
		if msg.advisory != "" {
			text += " " + msg.advisory
		}
		a.syncShortcuts()
		return a, tea.Batch(cmd, a.pushToast(toastSuccess, "", text))

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	// Delegate remaining messages to the tab that loaded them.
	var cmd tea.Cmd
	switch msg.(type) {
	case customersLoadedMsg:
		a.customers, cmd = a.customers.Update(msg)
	case vehiclesLoadedMsg:
		a.vehicles, cmd = a.vehicles.Update(msg)
	}
	return a, cmd
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}
	if a.quitConfirm {
		switch {
		case isKey(msg, "y"):
			return a, tea.Quit
		case isKey(msg, "n"), isBack(msg):
			a.quitConfirm = false
			a.syncShortcuts()
		}
		return a, nil
	}
	if a.helpOpen {
		if isBack(msg) || isKey(msg, "?") {
			a.helpOpen = false
			a.syncShortcuts()
		}
		return a, nil
	}
	if a.history.visible {
		var cmd tea.Cmd
		a.history, cmd = a.history.Update(msg)
		a.syncShortcuts()
		return a, cmd
	}
	if a.paletteOpen {
		return a.handlePaletteKeys(msg)
	}

	ev := shortcuts.FromKeyMsg(msg, a.capturing())
	handled, cmd := a.keys.HandleKeyDown(ev)
	// Terminals report no key release; the press is its own release.
	a.keys.HandleKeyUp(ev.Key)
	if handled {
		return a, cmd
	}

	switch a.tab {
	case tabDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case tabJobs:
		a.jobs, cmd = a.jobs.Update(msg)
	case tabCustomers:
		a.customers, cmd = a.customers.Update(msg)
	case tabVehicles:
		a.vehicles, cmd = a.vehicles.Update(msg)
	}
	a.syncShortcuts()
	return a, cmd
}

// capturing reports whether the focused tab owns the keyboard.
func (a App) capturing() bool {
	switch a.tab {
	case tabJobs:
		return a.jobs.capturing()
	case tabCustomers:
		return a.customers.capturing()
	case tabVehicles:
		return a.vehicles.capturing()
	}
	return false
}

func (a App) hasUnsaved() bool {
	if !a.jobs.adding {
		return false
	}
	for _, f := range a.jobs.addFields {
		if strings.TrimSpace(f.value) != "" {
			return true
		}
	}
	return false
}

func (a *App) resize() {
	w := a.mainWidth()
	a.dashboard.width, a.dashboard.height = w, a.height
	a.jobs.width, a.jobs.height = w, a.height
	a.customers.width, a.customers.height = w, a.height
	a.vehicles.width, a.vehicles.height = w, a.height
	a.history.width, a.history.height = a.width, a.height
	a.help.Width = components.BoxContentWidth(a.width)
}

// --- Shortcuts ---

func (a *App) registerShortcuts() {
	emit := func(id string) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return shortcutMsg{id: id} }
		}
	}
	defs := []shortcuts.Shortcut{
		{ID: "palette", Key: "k", Modifiers: shortcuts.Modifiers{Ctrl: true}, Description: "Command palette"},
		{ID: "help", Key: "?", Description: "Keyboard shortcuts"},
		{ID: "dock.toggle", Key: "b", Modifiers: shortcuts.Modifiers{Ctrl: true}, Description: "Toggle dock"},
		{ID: "history", Key: "h", Modifiers: shortcuts.Modifiers{Ctrl: true}, Description: "Selection history"},
		{ID: "nav.back", Key: "left", Modifiers: shortcuts.Modifiers{Alt: true}, Description: "Go back"},
		{ID: "dock.close", Key: "esc", Description: "Close dock context", Disabled: true},
		{ID: "quit", Key: "q", Description: "Quit"},
		{ID: "jobs.waiting", Key: "w", Context: "jobs", Description: "Mark waiting on parts"},
		{ID: "jobs.next", Key: "n", Context: "jobs", Description: "Advance to next status"},
		{ID: "jobs.add", Key: "a", Context: "jobs", Description: "New job"},
	}
	for i := 1; i <= tabCount; i++ {
		defs = append(defs, shortcuts.Shortcut{
			ID:          fmt.Sprintf("tab.%d", i),
			Key:         fmt.Sprintf("%d", i),
			Description: tabNames[i-1],
		})
	}
	for _, s := range defs {
		s.Handler = emit(s.ID)
		if err := a.keys.Register(s); err != nil {
			a.log.WithError(err).Warn("shortcut not registered")
		}
	}
}

// syncShortcuts aligns the registry with what is on screen. Overlays own
// the keyboard, so the registry is off while one is up.
func (a *App) syncShortcuts() {
	if a.overlayOpen() {
		a.keys.Disable()
	} else {
		a.keys.Enable()
	}
	a.keys.SetContext(tabContexts[a.tab])
	dock := a.sel.Dock()
	closable := dock.Open && dock.View == selection.ViewContext && !a.capturing()
	for _, s := range a.keys.Shortcuts() {
		if s.ID != "dock.close" || s.Disabled == !closable {
			continue
		}
		s.Disabled = !closable
		if err := a.keys.Update(s.ID, s); err != nil {
			a.log.WithError(err).Debug("dock.close not updated")
		}
	}
}

func (a App) overlayOpen() bool {
	return a.helpOpen || a.paletteOpen || a.history.visible || a.quitConfirm
}

func (a App) runShortcut(id string) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch id {
	case "palette":
		a.openPalette()
	case "help":
		a.helpOpen = true
	case "dock.toggle":
		a.sel.ToggleDock()
		a.resize()
	case "dock.close":
		a.sel.ResetDock()
		a.resize()
	case "history":
		a.history = a.history.open(a.sel.History())
	case "nav.back":
		cmd = a.goBack()
	case "quit":
		if a.hasUnsaved() {
			a.quitConfirm = true
			a.syncShortcuts()
			return a, nil
		}
		return a, tea.Quit
	case "jobs.waiting", "jobs.next":
		job, ok := a.targetJob()
		if !ok {
			return a, a.setToast(toastInfo, "Select a job first.")
		}
		if id == "jobs.waiting" {
			a.jobs, cmd = a.jobs.MarkWaiting(job)
		} else {
			a.jobs, cmd = a.jobs.Advance(job)
		}
	case "jobs.add":
		a.jobs = a.jobs.StartAdd()
	default:
		var n int
		if _, err := fmt.Sscanf(id, "tab.%d", &n); err == nil && n >= 1 && n <= tabCount {
			cmd = a.switchTab(n - 1)
		}
	}
	a.syncShortcuts()
	return a, cmd
}

// targetJob is the job a status shortcut acts on: the selected job when one
// is selected, else the row under the cursor.
func (a App) targetJob() (api.Job, bool) {
	if item, ok := a.sel.Current(); ok && item.Type == selection.EntityJob {
		if job, ok := a.jobs.findJob(item.ID); ok {
			return job, true
		}
		if p, ok := item.Data.(selection.JobPayload); ok {
			return p.Job, true
		}
	}
	return a.jobs.selectedJob()
}

// --- Navigation ---

func (a *App) switchTab(tab int) tea.Cmd {
	if tab < 0 || tab >= tabCount {
		return nil
	}
	old := a.tab
	a.tab = tab
	if tab != tabVehicles || a.vehicles.owner == nil {
		path := tabRoutes[tab]
		a.nav.SetCurrentPath(path)
		a.nav.SetBreadcrumbs(navigation.GenerateBreadcrumbsFromPath(path, nil))
	}
	a.syncShortcuts()
	cmds := []tea.Cmd{a.nav.SetPageTitle(tabNames[tab])}
	if old != tab {
		cmds = append(cmds, a.initTab(tab))
	}
	return tea.Batch(cmds...)
}

func (a *App) initTab(tab int) tea.Cmd {
	if a.client == nil {
		return nil
	}
	switch tab {
	case tabJobs:
		if len(a.jobs.allItems) == 0 {
			return a.jobs.Init()
		}
	case tabCustomers:
		return a.customers.Init()
	case tabVehicles:
		return a.vehicles.Init()
	}
	return nil
}

func (a *App) goBack() tea.Cmd {
	path, ok := a.nav.GoBack()
	if !ok {
		return a.setToast(toastInfo, "Nothing to go back to.")
	}
	a.nav.SetBreadcrumbs(navigation.GenerateBreadcrumbsFromPath(path, nil))
	for i, route := range tabRoutes {
		if route == path {
			a.tab = i
			a.syncShortcuts()
			return a.nav.SetPageTitle(tabNames[i])
		}
	}
	// Record paths land back on their tab.
	for i, route := range tabRoutes[1:] {
		if strings.HasPrefix(path, route+"/") {
			a.tab = i + 1
			break
		}
	}
	a.syncShortcuts()
	return nil
}

// --- Selection ---

func (a App) applySelection(item selection.Item) (tea.Model, tea.Cmd) {
	if !a.sel.SelectItem(item) {
		return a, a.setToast(toastWarning, fmt.Sprintf("Cannot select a %s.", item.Type))
	}
	a.resize()
	title := selection.SelectionTitle(item)
	path := recordPath(item)
	a.nav.SetCurrentPath(path)
	a.nav.SetBreadcrumbs(navigation.GenerateBreadcrumbsFromPath(path, map[string]string{path: title}))
	a.syncShortcuts()
	return a, a.nav.SetPageTitle(title)
}

func recordPath(item selection.Item) string {
	return fmt.Sprintf("/%ss/%s", item.Type, item.ID)
}

func (a App) openContext(p selection.DockPayload) (tea.Model, tea.Cmd) {
	if !a.sel.OpenContext(p) {
		return a, a.setToast(toastWarning, fmt.Sprintf("Cannot show a %s.", p.EntityType))
	}
	a.resize()
	a.syncShortcuts()
	if p.InitialData != nil || a.client == nil {
		return a, nil
	}
	return a, a.fetchDockData(p)
}

func (a App) fetchDockData(p selection.DockPayload) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		var data selection.Payload
		switch p.EntityType {
		case selection.EntityJob:
			job, err := client.GetJob(p.EntityID)
			if err != nil {
				return errMsg{err}
			}
			data = selection.JobPayload{Job: *job}
		case selection.EntityCustomer:
			c, err := client.GetCustomer(p.EntityID)
			if err != nil {
				return errMsg{err}
			}
			data = selection.CustomerPayload{Customer: *c}
		case selection.EntityVehicle:
			v, err := client.GetVehicle(p.EntityID)
			if err != nil {
				return errMsg{err}
			}
			data = selection.VehiclePayload{Vehicle: *v}
		default:
			return nil
		}
		return dockDataLoadedMsg{data: data}
	}
}

// refreshDockJob redraws the dock when it is showing job.
func (a *App) refreshDockJob(job api.Job) {
	p, ok := a.sel.Payload()
	if !ok || p.EntityType != selection.EntityJob || p.EntityID != job.ID {
		return
	}
	a.sel.SetDockContext(selection.ContextJobDetails, selection.JobPayload{Job: job})
}

func (a App) applySnapshot(msg jobsSnapshotMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	for _, change := range a.tracker.Observe(msg.jobs) {
		text := fmt.Sprintf("%s: %s → %s", change.Title, change.From.Label(), change.To.Label())
		cmds = append(cmds, a.pushToast(toastInfo, "Job updated", text))
	}
	var cmd tea.Cmd
	a.jobs, cmd = a.jobs.Update(msg)
	a.dashboard, _ = a.dashboard.Update(msg)
	for _, job := range msg.jobs {
		a.refreshDockJob(job)
	}
	cmds = append(cmds, cmd, waitForUpdate(a.updates))
	return a, tea.Batch(cmds...)
}

// --- Startup ---

func (a App) runStartupCheckCmd() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		check := client.WithTimeout(700 * time.Millisecond)
		msg := startupCheckedMsg{}
		if _, err := check.Health(); err != nil {
			msg.apiErr = ErrorMessage(err, "health check failed")
			return msg
		}
		if _, err := check.ListJobs(api.QueryParams{"limit": "1"}); err != nil {
			msg.authErr = err.Error()
		}
		return msg
	}
}

func (a *App) reloginCmd() tea.Cmd {
	if a.client == nil {
		return func() tea.Msg {
			return errMsg{err: fmt.Errorf("re-login unavailable; run shopos login")}
		}
	}
	username := strings.TrimSpace(a.config.Username)
	if username == "" {
		return func() tea.Msg {
			return errMsg{err: fmt.Errorf("username missing; run shopos login")}
		}
	}
	client := a.client
	return func() tea.Msg {
		resp, err := client.Login(username)
		if err != nil {
			return reloginDoneMsg{err: err}
		}
		return reloginDoneMsg{apiKey: resp.APIKey}
	}
}

// --- View ---

func (a App) View() string {
	banner := centerBlockUniform(RenderCompactBanner(), a.width)
	tabs := centerBlockUniform(a.renderTabs(), a.width)
	crumbs := centerBlockUniform(a.renderBreadcrumbs(), a.width)

	var content string
	switch {
	case a.quitConfirm:
		content = centerBlockUniform(a.renderQuitConfirm(), a.width)
	case a.helpOpen:
		content = centerBlockUniform(a.renderHelp(), a.width)
	case a.paletteOpen:
		content = centerBlockUniform(a.renderPalette(), a.width)
	case a.history.visible:
		content = centerBlockUniform(a.history.View(), a.width)
	default:
		content = a.renderMain()
	}

	hints := components.StatusBar(a.statusHints(), a.width)
	feedback := ""
	if a.toast != nil {
		feedback = "\n\n" + centerBlockUniform(a.renderToast(), a.width)
	}
	return fmt.Sprintf("%s\n%s\n%s\n\n%s\n\n%s%s", banner, tabs, crumbs, content, hints, feedback)
}

func (a App) renderMain() string {
	var tab string
	switch a.tab {
	case tabDashboard:
		tab = a.dashboard.View()
	case tabJobs:
		tab = a.jobs.View()
	case tabCustomers:
		tab = a.customers.View()
	case tabVehicles:
		tab = a.vehicles.View()
	}
	if !a.dockOpen() {
		return centerBlockUniform(tab, a.width)
	}
	dock := a.renderDock()
	if a.dockSideBySide() {
		return lipgloss.JoinHorizontal(lipgloss.Top, tab, strings.Repeat(" ", dockGap), dock)
	}
	return centerBlockUniform(tab+"\n\n"+components.Indent(dock, 1), a.width)
}

func (a App) renderTabs() string {
	segments := make([]string, 0, len(tabNames))
	for i, name := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if i == a.tab {
			segments = append(segments, TabActiveStyle.Render(label))
		} else {
			segments = append(segments, TabInactiveStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, segments...)
}

func (a App) renderBreadcrumbs() string {
	trail := a.nav.Breadcrumbs()
	crumbs := make([]components.Crumb, 0, len(trail))
	for _, c := range trail {
		crumbs = append(crumbs, components.Crumb{Label: c.Label, Active: c.IsActive})
	}
	return components.Breadcrumbs(crumbs, components.BoxContentWidth(a.width))
}

func (a App) renderHelp() string {
	bindings := a.keys.Bindings()
	columns := make([][]key.Binding, 0, (len(bindings)+5)/6)
	for start := 0; start < len(bindings); start += 6 {
		end := min(start+6, len(bindings))
		columns = append(columns, bindings[start:end])
	}
	body := MutedStyle.Render("esc to close") + "\n\n" + a.help.FullHelpView(columns)
	if tabHints := a.statusHintsForTab(); len(tabHints) > 0 {
		body += "\n\n" + MetaKeyStyle.Render(tabNames[a.tab]) + "\n  " + strings.Join(tabHints, "\n  ")
	}
	return components.Indent(components.TitledBox("Help", body, a.width), 1)
}

func (a App) renderQuitConfirm() string {
	body := "You have an unsaved job. Quit anyway?"
	return components.Indent(components.ConfirmDialog("Quit", body), 1)
}

func (a App) statusHints() []string {
	switch {
	case a.quitConfirm:
		return []string{components.Hint("y", "Confirm"), components.Hint("n", "Cancel")}
	case a.helpOpen:
		return []string{components.Hint("esc", "Back")}
	case a.paletteOpen:
		return []string{
			components.Hint("↑/↓", "Move"),
			components.Hint("enter", "Run"),
			components.Hint("esc", "Close"),
		}
	case a.history.visible:
		return []string{components.Hint("esc", "Close")}
	}

	base := []string{
		components.Hint("1-4", "Tabs"),
		components.Hint("ctrl+k", "Palette"),
		components.Hint("ctrl+b", "Dock"),
		components.Hint("?", "Help"),
		components.Hint("q", "Quit"),
	}
	return append(base, a.statusHintsForTab()...)
}

func (a App) statusHintsForTab() []string {
	switch a.tab {
	case tabDashboard:
		return []string{components.Hint("enter", "Open job")}
	case tabJobs:
		switch {
		case a.jobs.confirm != nil:
			return []string{components.Hint("y", "Confirm"), components.Hint("n", "Cancel")}
		case a.jobs.picking:
			return []string{components.Hint("enter", "Move"), components.Hint("esc", "Cancel")}
		case a.jobs.adding:
			return []string{
				components.Hint("tab", "Next field"),
				components.Hint("ctrl+s", "Save"),
				components.Hint("esc", "Cancel"),
			}
		}
		return []string{
			components.Hint("enter", "Select"),
			components.Hint("/", "Search"),
			components.Hint("s", "Move"),
			components.Hint("w", "Parts"),
			components.Hint("n", "Next"),
			components.Hint("a", "Add"),
			components.Hint("c", "Customer"),
		}
	case tabCustomers:
		return []string{
			components.Hint("enter", "Select"),
			components.Hint("/", "Search"),
			components.Hint("v", "Vehicles"),
		}
	case tabVehicles:
		return []string{
			components.Hint("enter", "Select"),
			components.Hint("/", "Search"),
			components.Hint("o", "Owner"),
		}
	}
	return nil
}
