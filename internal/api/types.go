package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gravitrone/shopos/cli/internal/workflow"
)

// --- API Response Envelope ---

// Result is the {success, data, error, message} envelope every backend
// endpoint returns.
type Result[T any] struct {
	Success *bool           `json:"success,omitempty"`
	Data    T               `json:"data"`
	Error   json.RawMessage `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Err reports a failed envelope as an error. A missing success flag counts
// as success so older endpoints that only send data keep working.
func (r Result[T]) Err() error {
	if r.Success == nil || *r.Success {
		return nil
	}
	if msg, ok := parseErrorRaw(r.Error); ok {
		return fmt.Errorf("%s", msg)
	}
	if msg := strings.TrimSpace(r.Message); msg != "" {
		return fmt.Errorf("%s", msg)
	}
	return fmt.Errorf("request failed")
}

func parseErrorRaw(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false
	}
	return parseErrorValue(value)
}

// JSONMap handles free-form JSON fields the backend may return as strings.
type JSONMap map[string]any

func (j *JSONMap) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err == nil {
		*j = m
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" || s == "null" {
			*j = make(map[string]any)
			return nil
		}
		return json.Unmarshal([]byte(s), (*map[string]any)(j))
	}
	*j = make(map[string]any)
	return nil
}

// --- Job ---

// Job is a unit of shop work tied to a customer and usually a vehicle.
type Job struct {
	ID          string            `json:"id"`
	JobNumber   string            `json:"job_number,omitempty"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Status      workflow.Status   `json:"status"`
	Priority    workflow.Priority `json:"priority,omitempty"`
	CustomerID  string            `json:"customer_id,omitempty"`
	VehicleID   string            `json:"vehicle_id,omitempty"`
	BayNumber   *int              `json:"bay_number,omitempty"`
	Technician  string            `json:"technician,omitempty"`
	Metadata    JSONMap           `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// WorkflowJob projects the fields the transition rules need.
func (j Job) WorkflowJob() workflow.Job {
	return workflow.Job{
		ID:         j.ID,
		Status:     j.Status,
		Priority:   j.Priority,
		CustomerID: j.CustomerID,
		VehicleID:  j.VehicleID,
	}
}

// CreateJobInput defines the fields required to create a new job.
type CreateJobInput struct {
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Status      workflow.Status   `json:"status"`
	Priority    workflow.Priority `json:"priority,omitempty"`
	CustomerID  string            `json:"customer_id,omitempty"`
	VehicleID   string            `json:"vehicle_id,omitempty"`
	Metadata    map[string]any    `json:"metadata,omitempty"`
}

// UpdateJobInput defines the fields for updating an existing job.
type UpdateJobInput struct {
	Title       *string            `json:"title,omitempty"`
	Description *string            `json:"description,omitempty"`
	Priority    *workflow.Priority `json:"priority,omitempty"`
	VehicleID   *string            `json:"vehicle_id,omitempty"`
	BayNumber   *int               `json:"bay_number,omitempty"`
	Technician  *string            `json:"technician,omitempty"`
	Metadata    map[string]any     `json:"metadata,omitempty"`
}

// --- Customer ---

// Customer is a person or fleet account the shop works for.
type Customer struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Company   string    `json:"company,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName joins first and last name.
func (c Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// CreateCustomerInput defines the fields required to create a customer.
type CreateCustomerInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// UpdateCustomerInput defines the fields for updating a customer.
type UpdateCustomerInput struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Company   *string `json:"company,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// --- Vehicle ---

// Vehicle is a customer's car or truck.
type Vehicle struct {
	ID           string    `json:"id"`
	CustomerID   string    `json:"customer_id,omitempty"`
	Year         int       `json:"year,omitempty"`
	Make         string    `json:"make,omitempty"`
	Model        string    `json:"model,omitempty"`
	VIN          string    `json:"vin,omitempty"`
	LicensePlate string    `json:"license_plate,omitempty"`
	Mileage      int       `json:"mileage,omitempty"`
	Title        string    `json:"title,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateVehicleInput defines the fields required to create a vehicle.
type CreateVehicleInput struct {
	CustomerID   string `json:"customer_id"`
	Year         int    `json:"year,omitempty"`
	Make         string `json:"make,omitempty"`
	Model        string `json:"model,omitempty"`
	VIN          string `json:"vin,omitempty"`
	LicensePlate string `json:"license_plate,omitempty"`
	Mileage      int    `json:"mileage,omitempty"`
}

// UpdateVehicleInput defines the fields for updating a vehicle.
type UpdateVehicleInput struct {
	Year         *int    `json:"year,omitempty"`
	Make         *string `json:"make,omitempty"`
	Model        *string `json:"model,omitempty"`
	VIN          *string `json:"vin,omitempty"`
	LicensePlate *string `json:"license_plate,omitempty"`
	Mileage      *int    `json:"mileage,omitempty"`
}

// --- Calls & Appointments ---

// Call is an inbound phone call logged by the front desk.
type Call struct {
	ID          string    `json:"id"`
	CallerName  string    `json:"caller_name,omitempty"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	CustomerID  string    `json:"customer_id,omitempty"`
	Summary     string    `json:"summary,omitempty"`
	ReceivedAt  time.Time `json:"received_at"`
}

// Appointment is a booked slot for a job.
type Appointment struct {
	ID         string    `json:"id"`
	JobID      string    `json:"job_id,omitempty"`
	CustomerID string    `json:"customer_id,omitempty"`
	VehicleID  string    `json:"vehicle_id,omitempty"`
	Title      string    `json:"title,omitempty"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
}

// --- Auth ---

// LoginInput is the body of the first-run login call.
type LoginInput struct {
	Username string `json:"username"`
}

// LoginResponse carries the issued API key.
type LoginResponse struct {
	APIKey   string `json:"api_key"`
	Username string `json:"username"`
}

// QueryParams is a map of URL query parameters.
type QueryParams map[string]string
