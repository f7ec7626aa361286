package selection

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gravitrone/shopos/cli/internal/api"
)

// Payload is the typed data attached to a selection. Exactly one variant
// exists per EntityType; consumers switch on the concrete type.
type Payload interface {
	EntityType() EntityType
	EntityID() string
	isPayload()
}

type JobPayload struct{ Job api.Job }
type CustomerPayload struct{ Customer api.Customer }
type VehiclePayload struct{ Vehicle api.Vehicle }
type CallPayload struct{ Call api.Call }
type AppointmentPayload struct{ Appointment api.Appointment }

func (JobPayload) EntityType() EntityType         { return EntityJob }
func (CustomerPayload) EntityType() EntityType    { return EntityCustomer }
func (VehiclePayload) EntityType() EntityType     { return EntityVehicle }
func (CallPayload) EntityType() EntityType        { return EntityCall }
func (AppointmentPayload) EntityType() EntityType { return EntityAppointment }

func (p JobPayload) EntityID() string         { return p.Job.ID }
func (p CustomerPayload) EntityID() string    { return p.Customer.ID }
func (p VehiclePayload) EntityID() string     { return p.Vehicle.ID }
func (p CallPayload) EntityID() string        { return p.Call.ID }
func (p AppointmentPayload) EntityID() string { return p.Appointment.ID }

func (JobPayload) isPayload()         {}
func (CustomerPayload) isPayload()    {}
func (VehiclePayload) isPayload()     {}
func (CallPayload) isPayload()        {}
func (AppointmentPayload) isPayload() {}

// encodePayload returns the variant's record as JSON, or nil for no payload.
func encodePayload(p Payload) (json.RawMessage, error) {
	var v any
	switch p := p.(type) {
	case nil:
		return nil, nil
	case JobPayload:
		v = p.Job
	case CustomerPayload:
		v = p.Customer
	case VehiclePayload:
		v = p.Vehicle
	case CallPayload:
		v = p.Call
	case AppointmentPayload:
		v = p.Appointment
	default:
		return nil, fmt.Errorf("unknown payload %T", p)
	}
	return json.Marshal(v)
}

// decodePayload rebuilds the variant for t from raw JSON.
func decodePayload(t EntityType, raw json.RawMessage) (Payload, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	switch t {
	case EntityJob:
		var p JobPayload
		err := json.Unmarshal(raw, &p.Job)
		return p, err
	case EntityCustomer:
		var p CustomerPayload
		err := json.Unmarshal(raw, &p.Customer)
		return p, err
	case EntityVehicle:
		var p VehiclePayload
		err := json.Unmarshal(raw, &p.Vehicle)
		return p, err
	case EntityCall:
		var p CallPayload
		err := json.Unmarshal(raw, &p.Call)
		return p, err
	case EntityAppointment:
		var p AppointmentPayload
		err := json.Unmarshal(raw, &p.Appointment)
		return p, err
	}
	return nil, fmt.Errorf("unsupported entity type %q", t)
}

// --- Item constructors ---

// JobItem builds a selection for a job row.
func JobItem(job api.Job) Item {
	item := Item{ID: job.ID, Type: EntityJob, Data: JobPayload{Job: job}}
	item.Title = SelectionTitle(item)
	item.Subtitle = job.Status.Label()
	return item
}

// CustomerItem builds a selection for a customer row.
func CustomerItem(c api.Customer) Item {
	item := Item{ID: c.ID, Type: EntityCustomer, Data: CustomerPayload{Customer: c}}
	item.Title = SelectionTitle(item)
	item.Subtitle = firstNonEmpty(c.Phone, c.Email)
	return item
}

// VehicleItem builds a selection for a vehicle row.
func VehicleItem(v api.Vehicle) Item {
	item := Item{ID: v.ID, Type: EntityVehicle, Data: VehiclePayload{Vehicle: v}}
	item.Title = SelectionTitle(item)
	item.Subtitle = firstNonEmpty(v.LicensePlate, v.VIN)
	return item
}

// CallItem builds a selection for a logged call.
func CallItem(c api.Call) Item {
	item := Item{ID: c.ID, Type: EntityCall, Data: CallPayload{Call: c}}
	item.Title = SelectionTitle(item)
	item.Subtitle = c.Summary
	return item
}

// AppointmentItem builds a selection for an appointment.
func AppointmentItem(a api.Appointment) Item {
	item := Item{ID: a.ID, Type: EntityAppointment, Data: AppointmentPayload{Appointment: a}}
	item.Title = SelectionTitle(item)
	if !a.StartsAt.IsZero() {
		item.Subtitle = a.StartsAt.Format(time.Kitchen)
	}
	return item
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
