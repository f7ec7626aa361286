package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/shopos/cli/internal/api"
	"github.com/gravitrone/shopos/cli/internal/selection"
	"github.com/gravitrone/shopos/cli/internal/ui/components"
)

// --- Messages ---

type customersLoadedMsg struct{ items []api.Customer }

// showCustomerVehiclesMsg asks the app to open the vehicles tab filtered to
// one customer.
type showCustomerVehiclesMsg struct{ customer api.Customer }

// --- Customers Model ---

type CustomersModel struct {
	client    *api.Client
	allItems  []api.Customer
	items     []api.Customer
	list      *components.List
	loading   bool
	searching bool
	searchBuf string
	width     int
	height    int
}

func NewCustomersModel(client *api.Client) CustomersModel {
	return CustomersModel{
		client: client,
		list:   components.NewList(15),
	}
}

func (m *CustomersModel) Init() tea.Cmd {
	m.loading = true
	return m.loadCustomers
}

func (m CustomersModel) Update(msg tea.Msg) (CustomersModel, tea.Cmd) {
	switch msg := msg.(type) {
	case customersLoadedMsg:
		m.loading = false
		m.allItems = msg.items
		m.applySearch()
		return m, nil
	case errMsg:
		m.loading = false
		return m, nil
	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKeys(msg)
		}
		return m.handleListKeys(msg)
	}
	return m, nil
}

func (m CustomersModel) View() string {
	return components.Indent(m.renderList(), 1)
}

func (m CustomersModel) capturing() bool {
	return m.searching
}

func (m CustomersModel) renderList() string {
	if m.loading && len(m.allItems) == 0 {
		return "  " + MutedStyle.Render("Loading customers...")
	}
	if len(m.items) == 0 && !m.searching && m.searchBuf == "" {
		return components.EmptyStateBox(
			"Customers",
			"No customers found.",
			[]string{"Customers appear here once the front desk logs them"},
			m.width,
		)
	}

	countLine := fmt.Sprintf("%d total", len(m.items))
	if m.searching || m.searchBuf != "" {
		query := components.SanitizeOneLine(m.searchBuf)
		if m.searching {
			query += AccentStyle.Render("█")
		}
		countLine = fmt.Sprintf("%s · search: %s", countLine, query)
	}

	tableWidth := components.BoxContentWidth(m.width)
	sepWidth := 1
	if b := lipgloss.RoundedBorder().Left; b != "" {
		sepWidth = lipgloss.Width(b)
	}
	available := tableWidth - (3 * sepWidth)
	if available < 40 {
		available = 40
	}
	phoneWidth := 15
	companyWidth := 16
	emailWidth := 24
	nameWidth := available - (phoneWidth + companyWidth + emailWidth)
	if nameWidth < 12 {
		nameWidth = 12
	}
	cols := []components.TableColumn{
		{Header: "Name", Width: nameWidth, Align: lipgloss.Left},
		{Header: "Company", Width: companyWidth, Align: lipgloss.Left},
		{Header: "Phone", Width: phoneWidth, Align: lipgloss.Left},
		{Header: "Email", Width: emailWidth, Align: lipgloss.Left},
	}

	visible := m.list.Visible()
	rows := make([][]string, 0, len(visible))
	active := -1
	for i := range visible {
		abs := m.list.RelToAbs(i)
		if abs < 0 || abs >= len(m.items) {
			continue
		}
		c := m.items[abs]
		if m.list.IsSelected(abs) {
			active = len(rows)
		}
		rows = append(rows, []string{
			components.ClampTextWidthEllipsis(dashIfEmpty(c.FullName()), nameWidth),
			components.ClampTextWidthEllipsis(dashIfEmpty(c.Company), companyWidth),
			dashIfEmpty(c.Phone),
			components.ClampTextWidthEllipsis(dashIfEmpty(c.Email), emailWidth),
		})
	}

	table := components.TableGridWithActiveRow(cols, rows, tableWidth, active)
	return components.TitledBox("Customers", MutedStyle.Render(countLine)+"\n\n"+table+"\n", m.width)
}

func (m CustomersModel) handleListKeys(msg tea.KeyMsg) (CustomersModel, tea.Cmd) {
	switch {
	case isDown(msg):
		m.list.Down()
	case isUp(msg):
		m.list.Up()
	case isEnter(msg), isSpace(msg):
		if c, ok := m.selected(); ok {
			return m, selectCmd(selection.CustomerItem(c))
		}
	case isKey(msg, "v"):
		if c, ok := m.selected(); ok {
			return m, func() tea.Msg { return showCustomerVehiclesMsg{customer: c} }
		}
	case isKey(msg, "/"):
		m.searching = true
	case isBack(msg):
		if m.searchBuf != "" {
			m.searchBuf = ""
			m.applySearch()
		}
	}
	return m, nil
}

func (m CustomersModel) handleSearchKeys(msg tea.KeyMsg) (CustomersModel, tea.Cmd) {
	switch {
	case isBack(msg):
		m.searching = false
		m.searchBuf = ""
	case isEnter(msg):
		m.searching = false
		return m, nil
	case isKey(msg, "backspace", "delete"):
		m.searchBuf = dropLastRune(m.searchBuf)
	default:
		if ch := msg.String(); isPrintable(ch) {
			m.searchBuf += ch
		}
	}
	m.applySearch()
	return m, nil
}

func (m *CustomersModel) applySearch() {
	query := strings.ToLower(strings.TrimSpace(m.searchBuf))
	if query == "" {
		m.items = m.allItems
	} else {
		filtered := make([]api.Customer, 0, len(m.allItems))
		for _, c := range m.allItems {
			line := strings.ToLower(strings.Join([]string{c.FullName(), c.Company, c.Phone, c.Email}, " "))
			if strings.Contains(line, query) {
				filtered = append(filtered, c)
			}
		}
		m.items = filtered
	}
	labels := make([]string, len(m.items))
	for i, c := range m.items {
		labels[i] = c.FullName()
	}
	m.list.SetItemsKeepCursor(labels)
}

func (m CustomersModel) selected() (api.Customer, bool) {
	idx := m.list.Selected()
	if idx < 0 || idx >= len(m.items) {
		return api.Customer{}, false
	}
	return m.items[idx], true
}

func (m CustomersModel) loadCustomers() tea.Msg {
	items, err := m.client.ListCustomers(nil)
	if err != nil {
		return errMsg{err}
	}
	return customersLoadedMsg{items}
}
