package selection

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// EntityType is the kind of record a selection points at.
type EntityType string

const (
	EntityJob         EntityType = "job"
	EntityCustomer    EntityType = "customer"
	EntityVehicle     EntityType = "vehicle"
	EntityCall        EntityType = "call"
	EntityAppointment EntityType = "appointment"
)

// DockContext is what the side dock is currently showing.
type DockContext string

const (
	ContextMenu               DockContext = "menu"
	ContextEmpty              DockContext = "empty"
	ContextJobDetails         DockContext = "job-details"
	ContextCustomerDetails    DockContext = "customer-details"
	ContextVehicleDetails     DockContext = "vehicle-details"
	ContextCallDetails        DockContext = "call-details"
	ContextAppointmentDetails DockContext = "appointment-details"
)

// DockView is the dock's top-level mode.
type DockView string

const (
	ViewMenu    DockView = "menu"
	ViewContext DockView = "context"
)

var typeContexts = map[EntityType]DockContext{
	EntityJob:         ContextJobDetails,
	EntityCustomer:    ContextCustomerDetails,
	EntityVehicle:     ContextVehicleDetails,
	EntityCall:        ContextCallDetails,
	EntityAppointment: ContextAppointmentDetails,
}

var typeIcons = map[EntityType]string{
	EntityJob:         "🔧",
	EntityCustomer:    "👤",
	EntityVehicle:     "🚗",
	EntityCall:        "📞",
	EntityAppointment: "📅",
}

// Item is one selected entity. Items are values; a new selection replaces
// the previous one rather than mutating it.
type Item struct {
	ID        string
	Type      EntityType
	Title     string
	Subtitle  string
	Data      Payload
	Timestamp time.Time
}

type itemJSON struct {
	ID        string          `json:"id"`
	Type      EntityType      `json:"type"`
	Title     string          `json:"title"`
	Subtitle  string          `json:"subtitle,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

func (i Item) MarshalJSON() ([]byte, error) {
	data, err := encodePayload(i.Data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(itemJSON{
		ID:        i.ID,
		Type:      i.Type,
		Title:     i.Title,
		Subtitle:  i.Subtitle,
		Data:      data,
		Timestamp: i.Timestamp,
	})
}

func (i *Item) UnmarshalJSON(b []byte) error {
	var raw itemJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var data Payload
	if CanSelectType(raw.Type) {
		var err error
		if data, err = decodePayload(raw.Type, raw.Data); err != nil {
			return err
		}
	}
	*i = Item{
		ID:        raw.ID,
		Type:      raw.Type,
		Title:     raw.Title,
		Subtitle:  raw.Subtitle,
		Data:      data,
		Timestamp: raw.Timestamp,
	}
	return nil
}

func (i Item) sameEntity(other Item) bool {
	return i.ID == other.ID && i.Type == other.Type
}

// DockPayload is what the dock needs to render a context view.
type DockPayload struct {
	EntityType  EntityType
	EntityID    string
	InitialData Payload
	Source      string
}

// DockState is a snapshot of the dock.
type DockState struct {
	Context DockContext
	Data    Payload
	Open    bool
	View    DockView
}

// --- Helpers ---

// ContextFromType maps an entity type to its dock context. Unknown types map
// to the menu.
func ContextFromType(t EntityType) DockContext {
	if ctx, ok := typeContexts[t]; ok {
		return ctx
	}
	return ContextMenu
}

// TypeFromContext is the inverse of ContextFromType for detail contexts.
func TypeFromContext(ctx DockContext) (EntityType, bool) {
	for t, c := range typeContexts {
		if c == ctx {
			return t, true
		}
	}
	return "", false
}

// CanSelectType reports whether t is one of the selectable entity types.
func CanSelectType(t EntityType) bool {
	_, ok := typeContexts[t]
	return ok
}

// SelectionIcon returns the glyph shown next to an entity of type t.
func SelectionIcon(t EntityType) string {
	if icon, ok := typeIcons[t]; ok {
		return icon
	}
	return "•"
}

// SelectionTitle formats a display title from the item's payload, falling
// back to the stored title and then to "{Type} {id}".
func SelectionTitle(item Item) string {
	if title := payloadTitle(item.Data); title != "" {
		return title
	}
	if title := strings.TrimSpace(item.Title); title != "" {
		return title
	}
	return fmt.Sprintf("%s %s", typeName(item.Type), item.ID)
}

func payloadTitle(p Payload) string {
	switch p := p.(type) {
	case JobPayload:
		title := strings.TrimSpace(p.Job.Title)
		if p.Job.JobNumber != "" && title != "" {
			return fmt.Sprintf("#%s %s", p.Job.JobNumber, title)
		}
		return title
	case CustomerPayload:
		return firstNonEmpty(p.Customer.FullName(), p.Customer.Company)
	case VehiclePayload:
		var parts []string
		if p.Vehicle.Year > 0 {
			parts = append(parts, fmt.Sprintf("%d", p.Vehicle.Year))
		}
		parts = append(parts, p.Vehicle.Make, p.Vehicle.Model)
		return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	case CallPayload:
		if who := firstNonEmpty(p.Call.CallerName, p.Call.PhoneNumber); who != "" {
			return "Call from " + who
		}
	case AppointmentPayload:
		if title := strings.TrimSpace(p.Appointment.Title); title != "" {
			return title
		}
		if !p.Appointment.StartsAt.IsZero() {
			return "Appointment " + p.Appointment.StartsAt.Format("Jan 2 3:04 PM")
		}
	}
	return ""
}

func typeName(t EntityType) string {
	s := string(t)
	if s == "" {
		return "Item"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
