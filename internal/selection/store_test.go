package selection

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/shopos/cli/internal/api"
	"github.com/gravitrone/shopos/cli/internal/storage"
	"github.com/gravitrone/shopos/cli/internal/workflow"
)

var fixedNow = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, *storage.Memory) {
	t.Helper()
	mem := storage.NewMemory()
	return New(Options{Storage: mem, Now: func() time.Time { return fixedNow }}), mem
}

func jobItem(id string) Item {
	return JobItem(api.Job{ID: id, Title: "Brake job " + id, Status: workflow.StatusInBay})
}

// requireDockInvariants checks the rules every dock operation must keep.
func requireDockInvariants(t *testing.T, s *Store) {
	t.Helper()
	dock := s.Dock()
	assert.Equal(t, dock.Context == ContextMenu, dock.View == ViewMenu, "menu view iff menu context")
	if dock.Context == ContextEmpty {
		assert.False(t, dock.Open, "empty context keeps the dock closed")
	}
	if dock.View != ViewContext {
		return
	}
	payload, hasPayload := s.Payload()
	cur, hasCur := s.Current()
	if dock.Context != ContextEmpty || hasCur {
		require.True(t, hasPayload, "context view needs a payload")
	}
	if hasCur {
		assert.Equal(t, cur.Type, payload.EntityType)
	}
}

func TestNewStartsClosedOnMenu(t *testing.T) {
	s, _ := newTestStore(t)

	_, ok := s.Current()
	assert.False(t, ok)
	assert.Equal(t, DockState{Context: ContextMenu, View: ViewMenu}, s.Dock())
	_, ok = s.Payload()
	assert.False(t, ok)
}

func TestSelectItemEveryType(t *testing.T) {
	for _, tt := range []struct {
		typ  EntityType
		want DockContext
	}{
		{EntityJob, ContextJobDetails},
		{EntityCustomer, ContextCustomerDetails},
		{EntityVehicle, ContextVehicleDetails},
		{EntityCall, ContextCallDetails},
		{EntityAppointment, ContextAppointmentDetails},
	} {
		t.Run(string(tt.typ), func(t *testing.T) {
			s, _ := newTestStore(t)
			require.True(t, s.SelectItem(Item{ID: "x1", Type: tt.typ, Title: "thing"}))

			cur, ok := s.Current()
			require.True(t, ok)
			assert.Equal(t, "x1", cur.ID)
			assert.Equal(t, tt.typ, cur.Type)
			assert.Equal(t, fixedNow, cur.Timestamp)

			dock := s.Dock()
			assert.Equal(t, ViewContext, dock.View)
			assert.True(t, dock.Open)
			assert.Equal(t, tt.want, dock.Context)

			payload, ok := s.Payload()
			require.True(t, ok)
			assert.Equal(t, tt.typ, payload.EntityType)
			assert.Equal(t, "x1", payload.EntityID)
		})
	}
}

func TestSelectItemRejectsUnsupportedType(t *testing.T) {
	s, _ := newTestStore(t)
	require.True(t, s.SelectItem(jobItem("j1")))

	assert.False(t, s.SelectItem(Item{ID: "inv1", Type: "invoice"}))

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "j1", cur.ID)
	assert.Len(t, s.History(), 1)
}

func TestSelectItemRejectsMismatchedPayload(t *testing.T) {
	s, _ := newTestStore(t)
	item := Item{ID: "j1", Type: EntityJob, Data: CustomerPayload{Customer: api.Customer{ID: "c1"}}}
	assert.False(t, s.SelectItem(item))
	_, ok := s.Current()
	assert.False(t, ok)
}

func TestHistoryDedupAndPromote(t *testing.T) {
	s, _ := newTestStore(t)
	require.True(t, s.SelectItem(jobItem("A")))
	require.True(t, s.SelectItem(jobItem("B")))
	require.True(t, s.SelectItem(jobItem("A")))

	history := s.History()
	require.Len(t, history, 2)
	assert.Equal(t, "A", history[0].ID)
	assert.Equal(t, "B", history[1].ID)

	recent := s.Recent()
	require.Len(t, recent, 2)
	assert.Equal(t, "A", recent[0].ID)
}

func TestHistoryDedupIsPerType(t *testing.T) {
	s, _ := newTestStore(t)
	require.True(t, s.SelectItem(jobItem("1")))
	require.True(t, s.SelectItem(Item{ID: "1", Type: EntityCustomer, Title: "Dana"}))

	assert.Len(t, s.History(), 2)
}

func TestReselectSameEntityDoesNotPush(t *testing.T) {
	s, _ := newTestStore(t)
	require.True(t, s.SelectItem(jobItem("A")))
	s.ClearHistory()

	updated := jobItem("A")
	updated.Title = "Brake job A (updated)"
	require.True(t, s.SelectItem(updated))

	assert.Empty(t, s.History())
	cur, _ := s.Current()
	assert.Equal(t, "Brake job A (updated)", cur.Title)
}

func TestHistoryAndRecentCaps(t *testing.T) {
	s, _ := newTestStore(t)
	for i := 0; i < 60; i++ {
		require.True(t, s.SelectItem(jobItem(fmt.Sprintf("j%d", i))))
	}

	history := s.History()
	require.Len(t, history, MaxHistory)
	assert.Equal(t, "j59", history[0].ID)
	assert.Equal(t, "j10", history[MaxHistory-1].ID)

	recent := s.Recent()
	require.Len(t, recent, MaxRecent)
	assert.Equal(t, "j59", recent[0].ID)
	assert.Equal(t, "j50", recent[MaxRecent-1].ID)
}

func TestClearSelectionKeepsDockOpen(t *testing.T) {
	s, _ := newTestStore(t)
	require.True(t, s.SelectItem(jobItem("A")))
	s.ClearSelection()

	_, ok := s.Current()
	assert.False(t, ok)
	dock := s.Dock()
	assert.Equal(t, ContextMenu, dock.Context)
	assert.Equal(t, ViewMenu, dock.View)
	assert.True(t, dock.Open)
	_, ok = s.Payload()
	assert.False(t, ok)
}

func TestSetDockContextEmptyClosesDock(t *testing.T) {
	s, _ := newTestStore(t)
	require.True(t, s.SelectItem(jobItem("A")))

	require.True(t, s.SetDockContext(ContextEmpty, nil))
	dock := s.Dock()
	assert.Equal(t, ContextEmpty, dock.Context)
	assert.Equal(t, ViewContext, dock.View)
	assert.False(t, dock.Open)
	assert.Nil(t, dock.Data)
	requireDockInvariants(t, s)

	payload, ok := s.Payload()
	require.True(t, ok)
	assert.Equal(t, EntityJob, payload.EntityType)
	assert.Equal(t, "A", payload.EntityID)
	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "A", cur.ID)
}

func TestSetDockContextEmptyRebuildsPayloadFromSelection(t *testing.T) {
	s, _ := newTestStore(t)
	require.True(t, s.SelectItem(jobItem("A")))
	s.ShowMenu()

	require.True(t, s.SetDockContext(ContextEmpty, nil))
	requireDockInvariants(t, s)
	payload, ok := s.Payload()
	require.True(t, ok)
	assert.Equal(t, "A", payload.EntityID)
}

func TestSetDockContextEmptyWithoutSelectionHasNoPayload(t *testing.T) {
	s, _ := newTestStore(t)

	require.True(t, s.SetDockContext(ContextEmpty, nil))
	requireDockInvariants(t, s)
	_, ok := s.Payload()
	assert.False(t, ok)
}

func TestDockInvariantsHoldAcrossOperations(t *testing.T) {
	s, _ := newTestStore(t)
	vehicle := VehiclePayload{Vehicle: api.Vehicle{ID: "v1"}}

	steps := []struct {
		name string
		run  func()
	}{
		{"select job", func() { s.SelectItem(jobItem("A")) }},
		{"empty", func() { s.SetDockContext(ContextEmpty, nil) }},
		{"job details", func() { s.SetDockContext(ContextJobDetails, nil) }},
		{"toggle", func() { s.ToggleDock() }},
		{"open", func() { s.OpenDock() }},
		{"show menu", func() { s.ShowMenu() }},
		{"job details from menu", func() { s.SetDockContext(ContextJobDetails, nil) }},
		{"close", func() { s.CloseDock() }},
		{"reset", func() { s.ResetDock() }},
		{"empty after reset", func() { s.SetDockContext(ContextEmpty, nil) }},
		{"vehicle context", func() { s.OpenContext(DockPayload{EntityType: EntityVehicle, EntityID: "v1", InitialData: vehicle}) }},
		{"select customer", func() { s.SelectItem(Item{ID: "c1", Type: EntityCustomer}) }},
		{"vehicle details", func() { s.SetDockContext(ContextVehicleDetails, vehicle) }},
		{"menu with data", func() { s.SetDockContext(ContextMenu, vehicle) }},
		{"select again", func() { s.SelectItem(jobItem("B")) }},
		{"clear", func() { s.ClearSelection() }},
		{"empty without selection", func() { s.SetDockContext(ContextEmpty, nil) }},
	}
	for _, step := range steps {
		step.run()
		t.Run(step.name, func(t *testing.T) { requireDockInvariants(t, s) })
	}
}

func TestSetDockContextDetailUsesSelectionPayload(t *testing.T) {
	s, _ := newTestStore(t)
	item := jobItem("A")
	require.True(t, s.SelectItem(item))
	s.ShowMenu()

	require.True(t, s.SetDockContext(ContextJobDetails, nil))
	payload, ok := s.Payload()
	require.True(t, ok)
	assert.Equal(t, "A", payload.EntityID)
	assert.Equal(t, item.Data, s.Dock().Data)
	_, ok = s.Current()
	assert.True(t, ok)
}

func TestSetDockContextMenuKeepsExplicitData(t *testing.T) {
	s, _ := newTestStore(t)
	data := CustomerPayload{Customer: api.Customer{ID: "c1"}}

	require.True(t, s.SetDockContext(ContextMenu, data))
	dock := s.Dock()
	assert.Equal(t, ViewMenu, dock.View)
	assert.True(t, dock.Open)
	assert.Equal(t, data, dock.Data)
}

func TestSetDockContextDetailOpensAndKeepsPayloadInvariant(t *testing.T) {
	s, _ := newTestStore(t)
	require.True(t, s.SelectItem(jobItem("A")))
	s.CloseDock()

	require.True(t, s.SetDockContext(ContextVehicleDetails, nil))
	dock := s.Dock()
	assert.True(t, dock.Open)
	assert.Equal(t, ViewContext, dock.View)

	payload, ok := s.Payload()
	require.True(t, ok)
	assert.Equal(t, EntityVehicle, payload.EntityType)
	_, ok = s.Current()
	assert.False(t, ok, "job selection no longer matches the vehicle payload")
}

func TestSetDockContextUnknownIgnored(t *testing.T) {
	s, _ := newTestStore(t)
	assert.False(t, s.SetDockContext("invoice-details", nil))
	assert.Equal(t, ContextMenu, s.Dock().Context)
}

func TestDockVisibilityTogglesAreIndependent(t *testing.T) {
	s, _ := newTestStore(t)
	require.True(t, s.SelectItem(jobItem("A")))

	s.ToggleDock()
	assert.False(t, s.Dock().Open)
	s.OpenDock()
	assert.True(t, s.Dock().Open)
	s.CloseDock()
	assert.False(t, s.Dock().Open)

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "A", cur.ID)
	assert.Equal(t, ContextJobDetails, s.Dock().Context)
}

func TestShowMenuAndResetDock(t *testing.T) {
	s, _ := newTestStore(t)
	require.True(t, s.SelectItem(jobItem("A")))
	s.CloseDock()

	s.ShowMenu()
	assert.Equal(t, DockState{Context: ContextMenu, View: ViewMenu, Open: true}, s.Dock())
	_, ok := s.Payload()
	assert.False(t, ok)

	s.ResetDock()
	assert.Equal(t, DockState{Context: ContextMenu, View: ViewMenu}, s.Dock())
}

func TestOpenContextSkipsHistory(t *testing.T) {
	s, _ := newTestStore(t)
	data := VehiclePayload{Vehicle: api.Vehicle{ID: "v1", Make: "Ford"}}

	require.True(t, s.OpenContext(DockPayload{EntityType: EntityVehicle, EntityID: "v1", InitialData: data, Source: "palette"}))

	dock := s.Dock()
	assert.Equal(t, ContextVehicleDetails, dock.Context)
	assert.Equal(t, ViewContext, dock.View)
	assert.True(t, dock.Open)
	assert.Equal(t, data, dock.Data)
	assert.Empty(t, s.History())
	assert.Empty(t, s.Recent())

	assert.False(t, s.OpenContext(DockPayload{EntityType: "invoice", EntityID: "i1"}))
}

func TestOpenContextClearsOtherSelection(t *testing.T) {
	s, _ := newTestStore(t)
	require.True(t, s.SelectItem(jobItem("A")))

	require.True(t, s.OpenContext(DockPayload{EntityType: EntityJob, EntityID: "A"}))
	_, ok := s.Current()
	assert.True(t, ok)

	require.True(t, s.OpenContext(DockPayload{EntityType: EntityJob, EntityID: "B"}))
	_, ok = s.Current()
	assert.False(t, ok)
}

func TestRemoveFromHistory(t *testing.T) {
	s, _ := newTestStore(t)
	require.True(t, s.SelectItem(jobItem("1")))
	require.True(t, s.SelectItem(Item{ID: "1", Type: EntityCustomer}))
	require.True(t, s.SelectItem(jobItem("2")))

	s.RemoveFromHistory("1", EntityCustomer)
	history := s.History()
	require.Len(t, history, 2)
	assert.Equal(t, "2", history[0].ID)
	assert.Equal(t, EntityJob, history[1].Type)

	s.RemoveFromHistory("1")
	history = s.History()
	require.Len(t, history, 1)
	assert.Equal(t, "2", history[0].ID)
	assert.Len(t, s.Recent(), 3, "recents are untouched")
}

func TestAddAndClearRecent(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddToRecent(jobItem("A"))
	s.AddToRecent(Item{ID: "bad", Type: "invoice"})

	recent := s.Recent()
	require.Len(t, recent, 1)
	assert.Equal(t, fixedNow, recent[0].Timestamp)

	s.ClearRecent()
	assert.Empty(t, s.Recent())
}

func TestPersistAndRestore(t *testing.T) {
	s, mem := newTestStore(t)
	require.True(t, s.SelectItem(JobItem(api.Job{ID: "j1", Title: "Oil change", Status: workflow.StatusScheduled})))
	require.True(t, s.SelectItem(VehicleItem(api.Vehicle{ID: "v1", Year: 2019, Make: "Subaru", Model: "Outback"})))

	restored := New(Options{Storage: mem})
	require.NoError(t, restored.Restore())

	history := restored.History()
	require.Len(t, history, 2)
	assert.Equal(t, "v1", history[0].ID)
	vehicle, ok := history[0].Data.(VehiclePayload)
	require.True(t, ok)
	assert.Equal(t, "Subaru", vehicle.Vehicle.Make)

	job, ok := history[1].Data.(JobPayload)
	require.True(t, ok)
	assert.Equal(t, workflow.StatusScheduled, job.Job.Status)
	assert.Len(t, restored.Recent(), 2)

	_, selected := restored.Current()
	assert.False(t, selected, "selection is not persisted")
}

func TestRestoreDropsUnsupportedAndMissing(t *testing.T) {
	mem := storage.NewMemory()
	s := New(Options{Storage: mem})
	require.NoError(t, s.Restore())
	assert.Empty(t, s.History())

	raw, err := json.Marshal(map[string]any{
		"history": []map[string]any{
			{"id": "i1", "type": "invoice", "title": "Invoice", "data": map[string]any{"total": 10}},
			{"id": "c1", "type": "customer", "title": "Dana"},
		},
	})
	require.NoError(t, err)
	require.NoError(t, mem.Put(StorageKey, raw))

	require.NoError(t, s.Restore())
	history := s.History()
	require.Len(t, history, 1)
	assert.Equal(t, "c1", history[0].ID)
}

func TestSelectionTitle(t *testing.T) {
	vehicle := VehicleItem(api.Vehicle{ID: "v1", Year: 2018, Make: "Honda", Model: "Civic"})
	assert.Equal(t, "2018 Honda Civic", SelectionTitle(vehicle))

	noYear := Item{ID: "v2", Type: EntityVehicle, Data: VehiclePayload{Vehicle: api.Vehicle{ID: "v2", Make: " Ford "}}}
	assert.Equal(t, "Ford", SelectionTitle(noYear))

	stored := Item{ID: "v3", Type: EntityVehicle, Title: "Work truck", Data: VehiclePayload{Vehicle: api.Vehicle{ID: "v3"}}}
	assert.Equal(t, "Work truck", SelectionTitle(stored))

	bare := Item{ID: "v4", Type: EntityVehicle}
	assert.Equal(t, "Vehicle v4", SelectionTitle(bare))

	job := JobItem(api.Job{ID: "j1", JobNumber: "1042", Title: "Timing belt"})
	assert.Equal(t, "#1042 Timing belt", job.Title)

	call := CallItem(api.Call{ID: "k1", PhoneNumber: "555-0100"})
	assert.Equal(t, "Call from 555-0100", call.Title)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, ContextAppointmentDetails, ContextFromType(EntityAppointment))
	assert.Equal(t, ContextMenu, ContextFromType("invoice"))
	assert.True(t, CanSelectType(EntityCall))
	assert.False(t, CanSelectType("invoice"))
	assert.Equal(t, "🚗", SelectionIcon(EntityVehicle))
	assert.Equal(t, "•", SelectionIcon("invoice"))

	typ, ok := TypeFromContext(ContextCustomerDetails)
	require.True(t, ok)
	assert.Equal(t, EntityCustomer, typ)
	_, ok = TypeFromContext(ContextEmpty)
	assert.False(t, ok)
}
