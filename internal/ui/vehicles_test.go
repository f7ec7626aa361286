package ui

import (
	"encoding/json"
	"net/http"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/shopos/cli/internal/api"
	"github.com/gravitrone/shopos/cli/internal/selection"
	"github.com/gravitrone/shopos/cli/internal/ui/components"
)

func vehiclesHandler(t *testing.T, owners *[]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/vehicles", r.URL.Path)
		owner := r.URL.Query().Get("customer_id")
		*owners = append(*owners, owner)
		items := []map[string]any{
			{"id": "veh-1", "customer_id": "cust-1", "year": 2019, "make": "Honda", "model": "Civic", "license_plate": "7ABC123"},
		}
		if owner == "" {
			items = append(items, map[string]any{
				"id": "veh-2", "customer_id": "cust-2", "year": 2021, "make": "Ford", "model": "Transit", "vin": "1FTBW2CM5MKA00001",
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": items})
	}
}

func TestVehiclesModelFilterByOwner(t *testing.T) {
	var owners []string
	_, client := testJobsClient(t, vehiclesHandler(t, &owners))
	model := NewVehiclesModel(client)
	model.width = 120

	cmd := model.Init()
	model, _ = model.Update(cmd())
	require.Len(t, model.items, 2)

	cmd = model.FilterByOwner(api.Customer{ID: "cust-1", FirstName: "Dana", LastName: "Ortiz"})
	assert.Empty(t, model.items)
	model, _ = model.Update(cmd())
	require.Len(t, model.items, 1)
	assert.Equal(t, []string{"", "cust-1"}, owners)

	view := components.SanitizeText(model.View())
	assert.Contains(t, view, "Vehicles · Dana Ortiz")
	assert.Contains(t, view, "2019 Honda Civic")

	// esc drops the owner filter and reloads everything.
	model, cmd = model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Nil(t, model.owner)
	model, _ = model.Update(cmd())
	assert.Len(t, model.items, 2)
}

func TestVehiclesModelIgnoresStaleLoads(t *testing.T) {
	model := NewVehiclesModel(nil)
	_ = model.FilterByOwner(api.Customer{ID: "cust-1"})

	model, _ = model.Update(vehiclesLoadedMsg{customerID: "", items: []api.Vehicle{{ID: "veh-9"}}})
	assert.Empty(t, model.items)
	assert.True(t, model.loading)
}

func TestVehiclesModelOpenOwner(t *testing.T) {
	model := NewVehiclesModel(nil)
	model, _ = model.Update(vehiclesLoadedMsg{items: []api.Vehicle{{ID: "veh-1", CustomerID: "cust-1", Make: "Honda"}}})

	_, cmd := model.Update(keyRune('o'))
	require.NotNil(t, cmd)
	msg, ok := cmd().(openContextMsg)
	require.True(t, ok)
	assert.Equal(t, selection.EntityCustomer, msg.payload.EntityType)
	assert.Equal(t, "cust-1", msg.payload.EntityID)
	assert.Equal(t, "vehicles", msg.payload.Source)

	_, cmd = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	sel, ok := cmd().(selectMsg)
	require.True(t, ok)
	assert.Equal(t, selection.EntityVehicle, sel.item.Type)
}
