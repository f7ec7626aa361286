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

type vehiclesLoadedMsg struct {
	customerID string
	items      []api.Vehicle
}

// --- Vehicles Model ---

type VehiclesModel struct {
	client    *api.Client
	owner     *api.Customer
	allItems  []api.Vehicle
	items     []api.Vehicle
	list      *components.List
	loading   bool
	searching bool
	searchBuf string
	width     int
	height    int
}

func NewVehiclesModel(client *api.Client) VehiclesModel {
	return VehiclesModel{
		client: client,
		list:   components.NewList(15),
	}
}

func (m *VehiclesModel) Init() tea.Cmd {
	m.loading = true
	return m.loadVehicles()
}

// FilterByOwner limits the list to one customer's vehicles and reloads.
func (m *VehiclesModel) FilterByOwner(c api.Customer) tea.Cmd {
	m.owner = &c
	m.searchBuf = ""
	m.allItems = nil
	m.applySearch()
	return m.Init()
}

func (m *VehiclesModel) clearOwner() tea.Cmd {
	if m.owner == nil {
		return nil
	}
	m.owner = nil
	return m.Init()
}

func (m VehiclesModel) Update(msg tea.Msg) (VehiclesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case vehiclesLoadedMsg:
		if msg.customerID != m.ownerID() {
			return m, nil
		}
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

func (m VehiclesModel) View() string {
	return components.Indent(m.renderList(), 1)
}

func (m VehiclesModel) capturing() bool {
	return m.searching
}

func (m VehiclesModel) ownerID() string {
	if m.owner == nil {
		return ""
	}
	return m.owner.ID
}

func (m VehiclesModel) title() string {
	if m.owner == nil {
		return "Vehicles"
	}
	return "Vehicles · " + components.SanitizeOneLine(m.owner.FullName())
}

func (m VehiclesModel) renderList() string {
	if m.loading && len(m.allItems) == 0 {
		return "  " + MutedStyle.Render("Loading vehicles...")
	}
	if len(m.items) == 0 && !m.searching && m.searchBuf == "" {
		tips := []string{"Press / to search"}
		if m.owner != nil {
			tips = []string{"Press esc to show every vehicle"}
		}
		return components.EmptyStateBox(m.title(), "No vehicles found.", tips, m.width)
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
	plateWidth := 10
	vinWidth := 19
	mileageWidth := 10
	nameWidth := available - (plateWidth + vinWidth + mileageWidth)
	if nameWidth < 12 {
		nameWidth = 12
	}
	cols := []components.TableColumn{
		{Header: "Vehicle", Width: nameWidth, Align: lipgloss.Left},
		{Header: "Plate", Width: plateWidth, Align: lipgloss.Left},
		{Header: "VIN", Width: vinWidth, Align: lipgloss.Left},
		{Header: "Mileage", Width: mileageWidth, Align: lipgloss.Right},
	}

	visible := m.list.Visible()
	rows := make([][]string, 0, len(visible))
	active := -1
	for i := range visible {
		abs := m.list.RelToAbs(i)
		if abs < 0 || abs >= len(m.items) {
			continue
		}
		v := m.items[abs]
		if m.list.IsSelected(abs) {
			active = len(rows)
		}
		mileage := "-"
		if v.Mileage > 0 {
			mileage = fmt.Sprintf("%d", v.Mileage)
		}
		rows = append(rows, []string{
			components.ClampTextWidthEllipsis(selection.SelectionTitle(selection.VehicleItem(v)), nameWidth),
			dashIfEmpty(v.LicensePlate),
			dashIfEmpty(v.VIN),
			mileage,
		})
	}

	table := components.TableGridWithActiveRow(cols, rows, tableWidth, active)
	return components.TitledBox(m.title(), MutedStyle.Render(countLine)+"\n\n"+table+"\n", m.width)
}

func (m VehiclesModel) handleListKeys(msg tea.KeyMsg) (VehiclesModel, tea.Cmd) {
	switch {
	case isDown(msg):
		m.list.Down()
	case isUp(msg):
		m.list.Up()
	case isEnter(msg), isSpace(msg):
		if v, ok := m.selected(); ok {
			return m, selectCmd(selection.VehicleItem(v))
		}
	case isKey(msg, "o"):
		if v, ok := m.selected(); ok && v.CustomerID != "" {
			return m, openContextCmd(selection.DockPayload{
				EntityType: selection.EntityCustomer,
				EntityID:   v.CustomerID,
				Source:     "vehicles",
			})
		}
	case isKey(msg, "/"):
		m.searching = true
	case isBack(msg):
		if m.searchBuf != "" {
			m.searchBuf = ""
			m.applySearch()
			return m, nil
		}
		return m, m.clearOwner()
	}
	return m, nil
}

func (m VehiclesModel) handleSearchKeys(msg tea.KeyMsg) (VehiclesModel, tea.Cmd) {
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

func (m *VehiclesModel) applySearch() {
	query := strings.ToLower(strings.TrimSpace(m.searchBuf))
	if query == "" {
		m.items = m.allItems
	} else {
		filtered := make([]api.Vehicle, 0, len(m.allItems))
		for _, v := range m.allItems {
			line := strings.ToLower(strings.Join([]string{
				fmt.Sprintf("%d", v.Year), v.Make, v.Model, v.LicensePlate, v.VIN,
			}, " "))
			if strings.Contains(line, query) {
				filtered = append(filtered, v)
			}
		}
		m.items = filtered
	}
	labels := make([]string, len(m.items))
	for i, v := range m.items {
		labels[i] = v.ID
	}
	m.list.SetItemsKeepCursor(labels)
}

func (m VehiclesModel) selected() (api.Vehicle, bool) {
	idx := m.list.Selected()
	if idx < 0 || idx >= len(m.items) {
		return api.Vehicle{}, false
	}
	return m.items[idx], true
}

func (m VehiclesModel) loadVehicles() tea.Cmd {
	client := m.client
	ownerID := m.ownerID()
	return func() tea.Msg {
		var params api.QueryParams
		if ownerID != "" {
			params = api.QueryParams{"customer_id": ownerID}
		}
		items, err := client.ListVehicles(params)
		if err != nil {
			return errMsg{err}
		}
		return vehiclesLoadedMsg{customerID: ownerID, items: items}
	}
}
