package workflow

import (
	"fmt"
	"strings"
)

// Status is the lifecycle stage of a shop job.
type Status string

const (
	StatusIncomingCall Status = "incoming-call"
	StatusScheduled    Status = "scheduled"
	StatusInBay        Status = "in-bay"
	StatusWaitingParts Status = "waiting-parts"
	StatusCompleted    Status = "completed"
)

// Statuses lists every status in workflow order.
var Statuses = []Status{
	StatusIncomingCall,
	StatusScheduled,
	StatusInBay,
	StatusWaitingParts,
	StatusCompleted,
}

// Priority is the urgency of a job.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// StatusMeta describes how a status is presented and where it sits in the workflow.
type StatusMeta struct {
	Label         string
	Description   string
	Color         string
	Icon          string
	IsActive      bool
	IsTerminal    bool
	OccupiesBay   bool
	Progress      int
	EstimatedTime string
}

var statusMeta = map[Status]StatusMeta{
	StatusIncomingCall: {
		Label:         "Incoming Call",
		Description:   "Customer reached out, job not yet scheduled",
		Color:         "#436b77",
		Icon:          "☎",
		Progress:      0,
		EstimatedTime: "15-30 minutes",
	},
	StatusScheduled: {
		Label:         "Scheduled",
		Description:   "Appointment booked, waiting for the vehicle",
		Color:         "#7f57b4",
		Icon:          "◷",
		IsActive:      true,
		Progress:      25,
		EstimatedTime: "1-3 days",
	},
	StatusInBay: {
		Label:         "In Bay",
		Description:   "Vehicle is on a lift and being worked on",
		Color:         "#a7754e",
		Icon:          "⚙",
		IsActive:      true,
		OccupiesBay:   true,
		Progress:      50,
		EstimatedTime: "2-6 hours",
	},
	StatusWaitingParts: {
		Label:         "Waiting on Parts",
		Description:   "Work paused until ordered parts arrive",
		Color:         "#c78854",
		Icon:          "⧗",
		IsActive:      true,
		Progress:      75,
		EstimatedTime: "1-5 days",
	},
	StatusCompleted: {
		Label:         "Completed",
		Description:   "Work finished and vehicle ready for pickup",
		Color:         "#3f866b",
		Icon:          "✓",
		IsTerminal:    true,
		Progress:      100,
		EstimatedTime: "n/a",
	},
}

// Meta returns presentation metadata for a status.
func Meta(s Status) (StatusMeta, bool) {
	m, ok := statusMeta[s]
	return m, ok
}

// Label returns the human label for a status, falling back to the raw value.
func (s Status) Label() string {
	if m, ok := statusMeta[s]; ok {
		return m.Label
	}
	return string(s)
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := statusMeta[s]
	return ok
}

// order is the fixed total order used by GetNextStatus.
func (s Status) order() int {
	for i, candidate := range Statuses {
		if candidate == s {
			return i
		}
	}
	return len(Statuses)
}

// ParseStatus normalizes user input ("In Bay", "in_bay", "in-bay") to a Status.
func ParseStatus(raw string) (Status, error) {
	norm := strings.ToLower(strings.TrimSpace(raw))
	norm = strings.NewReplacer("_", "-", " ", "-").Replace(norm)
	s := Status(norm)
	if !s.Valid() {
		return "", fmt.Errorf("unknown status %q", raw)
	}
	return s, nil
}

// GetWorkflowProgress returns the completion percentage for a status.
func GetWorkflowProgress(s Status) int {
	return statusMeta[s].Progress
}

// GetEstimatedTimeInStatus returns the typical dwell time label for a status.
func GetEstimatedTimeInStatus(s Status) string {
	if m, ok := statusMeta[s]; ok {
		return m.EstimatedTime
	}
	return "unknown"
}
