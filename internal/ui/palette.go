package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/gravitrone/shopos/cli/internal/selection"
	"github.com/gravitrone/shopos/cli/internal/ui/components"
)

// --- Command Palette ---

type paletteAction struct {
	ID    string
	Label string
	Desc  string
}

const recentActionPrefix = "recent:"

type paletteActions []paletteAction

func (p paletteActions) String(i int) string { return p[i].Label + " " + p[i].Desc }
func (p paletteActions) Len() int            { return len(p) }

func defaultPaletteActions() []paletteAction {
	return []paletteAction{
		{ID: "tab:dashboard", Label: "Dashboard", Desc: "Shop floor overview"},
		{ID: "tab:jobs", Label: "Jobs", Desc: "Browse jobs"},
		{ID: "tab:customers", Label: "Customers", Desc: "Browse customers"},
		{ID: "tab:vehicles", Label: "Vehicles", Desc: "Browse vehicles"},
		{ID: "jobs:add", Label: "New job", Desc: "Log an incoming call"},
		{ID: "jobs:search", Label: "Search jobs", Desc: "Filter the job list"},
		{ID: "dock:toggle", Label: "Toggle dock", Desc: "Show or hide the side dock"},
		{ID: "dock:menu", Label: "Dock menu", Desc: "Recent items and quick actions"},
		{ID: "dock:reset", Label: "Reset dock", Desc: "Back to the dock menu, keep selection"},
		{ID: "history:open", Label: "Selection history", Desc: "Recently viewed records"},
		{ID: "history:clear", Label: "Clear history", Desc: "Forget viewed records"},
		{ID: "recent:clear", Label: "Clear recent", Desc: "Forget recent items"},
		{ID: "nav:back", Label: "Go back", Desc: "Previous screen"},
		{ID: "nav:clear", Label: "Clear route history", Desc: "Forget visited screens"},
		{ID: "auth:relogin", Label: "Re-login", Desc: "Refresh the API key"},
		{ID: "help", Label: "Help", Desc: "Keyboard shortcuts"},
		{ID: "quit", Label: "Quit", Desc: "Exit Shop OS"},
	}
}

// recentPaletteActions lists recent items so they can be reopened by name.
func recentPaletteActions(items []selection.Item) []paletteAction {
	out := make([]paletteAction, 0, len(items))
	for _, item := range items {
		out = append(out, paletteAction{
			ID:    fmt.Sprintf("%s%s:%s", recentActionPrefix, item.Type, item.ID),
			Label: selection.SelectionTitle(item),
			Desc:  fmt.Sprintf("recent %s", item.Type),
		})
	}
	return out
}

// filterPalette ranks actions by fuzzy match. An empty query keeps the
// original order.
func filterPalette(items []paletteAction, query string) []paletteAction {
	query = strings.TrimSpace(query)
	if query == "" {
		return items
	}
	matches := fuzzy.FindFrom(query, paletteActions(items))
	out := make([]paletteAction, 0, len(matches))
	for _, m := range matches {
		out = append(out, items[m.Index])
	}
	return out
}

func (a *App) openPalette() {
	a.paletteOpen = true
	a.paletteQuery = ""
	a.paletteIndex = 0
	a.paletteSource = a.paletteSourceActions()
	a.paletteFiltered = filterPalette(a.paletteSource, "")
}

func (a App) paletteSourceActions() []paletteAction {
	actions := defaultPaletteActions()
	if a.sel != nil {
		actions = append(actions, recentPaletteActions(a.sel.Recent())...)
	}
	return actions
}

func (a *App) refreshPaletteFiltered() {
	a.paletteFiltered = filterPalette(a.paletteSource, a.paletteQuery)
	if a.paletteIndex >= len(a.paletteFiltered) {
		a.paletteIndex = 0
	}
}

func (a App) renderPalette() string {
	query := components.SanitizeOneLine(a.paletteQuery)

	var b strings.Builder
	b.WriteString("  > " + query)
	b.WriteString(AccentStyle.Render("█"))
	b.WriteString("\n\n")

	items := a.paletteFiltered
	if len(items) == 0 {
		b.WriteString(MutedStyle.Render("No matches."))
	} else {
		for i, item := range items {
			label := components.SanitizeOneLine(item.Label)
			desc := components.SanitizeOneLine(item.Desc)
			line := fmt.Sprintf("%s  %s", label, MutedStyle.Render(desc))
			if i == a.paletteIndex {
				b.WriteString(SelectedStyle.Render("  > " + line))
			} else {
				b.WriteString(NormalStyle.Render("    " + line))
			}
			if i < len(items)-1 {
				b.WriteString("\n")
			}
		}
	}

	return components.TitledBox("Command Palette", b.String(), a.width)
}

func (a App) handlePaletteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case isBack(msg):
		a.paletteOpen = false
		a.syncShortcuts()
		return a, nil
	case isEnter(msg):
		if len(a.paletteFiltered) == 0 {
			return a, nil
		}
		action := a.paletteFiltered[a.paletteIndex]
		a.paletteOpen = false
		a.paletteQuery = ""
		return a.runPaletteAction(action)
	case isUp(msg):
		if a.paletteIndex > 0 {
			a.paletteIndex--
		}
	case isDown(msg):
		if a.paletteIndex < len(a.paletteFiltered)-1 {
			a.paletteIndex++
		}
	case isKey(msg, "backspace"):
		if a.paletteQuery != "" {
			a.paletteQuery = dropLastRune(a.paletteQuery)
			a.refreshPaletteFiltered()
		}
	default:
		if ch := msg.String(); isPrintable(ch) {
			a.paletteQuery += ch
			a.refreshPaletteFiltered()
		}
	}
	return a, nil
}

func (a App) runPaletteAction(action paletteAction) (tea.Model, tea.Cmd) {
	if strings.HasPrefix(action.ID, recentActionPrefix) && action.ID != "recent:clear" {
		a.syncShortcuts()
		rest := strings.TrimPrefix(action.ID, recentActionPrefix)
		kind, id, ok := strings.Cut(rest, ":")
		if !ok {
			return a, nil
		}
		for _, item := range a.sel.Recent() {
			if item.ID == id && string(item.Type) == kind {
				return a, selectCmd(item)
			}
		}
		return a, nil
	}

	var cmd tea.Cmd
	switch action.ID {
	case "tab:dashboard":
		cmd = a.switchTab(tabDashboard)
	case "tab:jobs":
		cmd = a.switchTab(tabJobs)
	case "tab:customers":
		cmd = a.switchTab(tabCustomers)
	case "tab:vehicles":
		cmd = a.switchTab(tabVehicles)
	case "jobs:add":
		cmd = a.switchTab(tabJobs)
		a.jobs = a.jobs.StartAdd()
	case "jobs:search":
		cmd = a.switchTab(tabJobs)
		a.jobs = a.jobs.StartSearch()
	case "dock:toggle":
		a.sel.ToggleDock()
	case "dock:menu":
		a.sel.ShowMenu()
	case "dock:reset":
		a.sel.ResetDock()
	case "history:open":
		a.history = a.history.open(a.sel.History())
	case "history:clear":
		a.sel.ClearHistory()
		cmd = toastCmd(toastInfo, "", "Selection history cleared.")
	case "recent:clear":
		a.sel.ClearRecent()
		cmd = toastCmd(toastInfo, "", "Recent items cleared.")
	case "nav:back":
		cmd = a.goBack()
	case "nav:clear":
		a.nav.ClearRouteHistory()
		cmd = toastCmd(toastInfo, "", "Route history cleared.")
	case "auth:relogin":
		cmd = a.reloginCmd()
	case "help":
		a.helpOpen = true
	case "quit":
		return a.runShortcut("quit")
	}
	a.syncShortcuts()
	return a, cmd
}
