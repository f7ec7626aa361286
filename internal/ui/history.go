package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/shopos/cli/internal/selection"
	"github.com/gravitrone/shopos/cli/internal/ui/components"
)

// historyRemoveMsg drops one record from the selection history.
type historyRemoveMsg struct{ item selection.Item }

// historyClearMsg empties the selection history.
type historyClearMsg struct{}

// HistoryModel is the overlay listing recently viewed records, newest first.
type HistoryModel struct {
	visible   bool
	all       []selection.Item
	items     []selection.Item
	list      *components.List
	filtering bool
	filterBuf string
	width     int
	height    int
	now       func() time.Time
}

func NewHistoryModel() HistoryModel {
	return HistoryModel{
		list: components.NewList(12),
		now:  time.Now,
	}
}

func (m HistoryModel) open(items []selection.Item) HistoryModel {
	m.visible = true
	m.filtering = false
	m.filterBuf = ""
	m.list.SetItems(nil)
	return m.refresh(items)
}

// refresh swaps in a new history snapshot, keeping the cursor.
func (m HistoryModel) refresh(items []selection.Item) HistoryModel {
	m.all = items
	m.applyFilter()
	return m
}

func (m HistoryModel) Update(msg tea.Msg) (HistoryModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.filtering {
		return m.handleFilterKeys(key)
	}
	switch {
	case isBack(key):
		if m.filterBuf != "" {
			m.filterBuf = ""
			m.applyFilter()
			return m, nil
		}
		m.visible = false
	case isDown(key):
		m.list.Down()
	case isUp(key):
		m.list.Up()
	case isEnter(key):
		if item, ok := m.selected(); ok {
			m.visible = false
			return m, selectCmd(item)
		}
	case isKey(key, "d"):
		if item, ok := m.selected(); ok {
			return m, func() tea.Msg { return historyRemoveMsg{item: item} }
		}
	case isKey(key, "c"):
		if len(m.all) > 0 {
			return m, func() tea.Msg { return historyClearMsg{} }
		}
	case isKey(key, "f", "/"):
		m.filtering = true
	}
	return m, nil
}

func (m HistoryModel) handleFilterKeys(msg tea.KeyMsg) (HistoryModel, tea.Cmd) {
	switch {
	case isEnter(msg):
		m.filtering = false
	case isBack(msg):
		m.filtering = false
		m.filterBuf = ""
	case isKey(msg, "backspace", "delete"):
		m.filterBuf = dropLastRune(m.filterBuf)
	default:
		if ch := msg.String(); isPrintable(ch) {
			m.filterBuf += ch
		}
	}
	m.applyFilter()
	return m, nil
}

func (m *HistoryModel) applyFilter() {
	terms := strings.Fields(strings.ToLower(m.filterBuf))
	if len(terms) == 0 {
		m.items = m.all
	} else {
		m.items = make([]selection.Item, 0, len(m.all))
		for _, item := range m.all {
			line := strings.ToLower(strings.Join([]string{
				selection.SelectionTitle(item), item.Subtitle, string(item.Type), item.ID,
			}, " "))
			if matchesAll(line, terms) {
				m.items = append(m.items, item)
			}
		}
	}
	labels := make([]string, len(m.items))
	for i, item := range m.items {
		labels[i] = selection.SelectionTitle(item)
	}
	m.list.SetItemsKeepCursor(labels)
}

func matchesAll(line string, terms []string) bool {
	for _, t := range terms {
		if !strings.Contains(line, t) {
			return false
		}
	}
	return true
}

func (m HistoryModel) selected() (selection.Item, bool) {
	idx := m.list.Selected()
	if idx < 0 || idx >= len(m.items) {
		return selection.Item{}, false
	}
	return m.items[idx], true
}

func (m HistoryModel) View() string {
	if m.filtering {
		return components.Indent(components.InputDialog("Filter History", m.filterBuf), 1)
	}
	if len(m.all) == 0 {
		return components.Indent(components.EmptyStateBox(
			"History",
			"Nothing viewed yet.",
			[]string{"Records you open show up here", "esc to close"},
			m.width,
		), 1)
	}

	countLine := fmt.Sprintf("%d viewed", len(m.items))
	if m.filterBuf != "" {
		countLine = fmt.Sprintf("%s · filter: %s", countLine, components.SanitizeOneLine(m.filterBuf))
	}

	tableWidth := components.BoxContentWidth(m.width)
	typeWidth := 12
	whenWidth := 10
	titleWidth := tableWidth - (typeWidth + whenWidth + 2)
	if titleWidth < 12 {
		titleWidth = 12
	}
	cols := []components.TableColumn{
		{Header: "Record", Width: titleWidth, Align: lipgloss.Left},
		{Header: "Type", Width: typeWidth, Align: lipgloss.Left},
		{Header: "Viewed", Width: whenWidth, Align: lipgloss.Right},
	}

	visible := m.list.Visible()
	rows := make([][]string, 0, len(visible))
	active := -1
	for i := range visible {
		abs := m.list.RelToAbs(i)
		if abs < 0 || abs >= len(m.items) {
			continue
		}
		item := m.items[abs]
		if m.list.IsSelected(abs) {
			active = len(rows)
		}
		title := selection.SelectionIcon(item.Type) + " " + selection.SelectionTitle(item)
		rows = append(rows, []string{
			components.ClampTextWidthEllipsis(title, titleWidth),
			string(item.Type),
			relativeTime(m.now(), item.Timestamp),
		})
	}

	table := components.TableGridWithActiveRow(cols, rows, tableWidth, active)
	hint := components.Hint("enter", "Open") + "  " + components.Hint("d", "Remove") + "  " +
		components.Hint("c", "Clear") + "  " + components.Hint("f", "Filter")
	body := MutedStyle.Render(countLine) + "\n\n" + table + "\n\n" + hint
	return components.Indent(components.TitledBox("History", body, m.width), 1)
}

// relativeTime renders a short "5m ago" style age.
func relativeTime(now, t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
	return fmt.Sprintf("%dd ago", int(d.Hours()/24))
}
