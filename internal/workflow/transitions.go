package workflow

import (
	"fmt"
	"strings"
)

// Job is the slice of a job record the transition rules look at.
type Job struct {
	ID         string
	Status     Status
	Priority   Priority
	CustomerID string
	VehicleID  string
}

// TransitionContext carries runtime facts the rule table cannot know.
type TransitionContext struct {
	BayCapacity    int
	CurrentBayJobs int
}

// Prerequisite is a precondition for a transition. Check is optional; a
// prerequisite without one is advisory text only.
type Prerequisite struct {
	Description string
	Check       func(job Job, ctx *TransitionContext) bool
}

// StatusTransition is one entry of the static rule table.
type StatusTransition struct {
	From                 Status
	To                   Status
	IsValid              bool
	RequiresConfirmation bool
	WarningMessage       string
	SuccessMessage       string
	Prerequisites        []Prerequisite
	AutoActions          []string
}

// Decision is the outcome of CanTransitionTo. Reason is set when the
// transition is denied, and may also carry an advisory when it is allowed.
type Decision struct {
	Allowed bool
	Reason  string
}

type transitionKey struct {
	from Status
	to   Status
}

var (
	customerOnFile = Prerequisite{
		Description: "Customer contact information on file",
		Check: func(job Job, _ *TransitionContext) bool {
			return strings.TrimSpace(job.CustomerID) != ""
		},
	}
	vehicleIdentified = Prerequisite{
		Description: "Vehicle identified",
		Check: func(job Job, _ *TransitionContext) bool {
			return strings.TrimSpace(job.VehicleID) != ""
		},
	}
	bayAvailable = Prerequisite{
		Description: "Service bay available",
		Check: func(_ Job, ctx *TransitionContext) bool {
			return ctx == nil || ctx.BayCapacity <= 0 || ctx.CurrentBayJobs < ctx.BayCapacity
		},
	}
	partsReceived = Prerequisite{
		Description: "Ordered parts received",
	}
)

// rules is ordered; GetValidTransitions preserves this order.
var rules = []StatusTransition{
	{
		From:           StatusIncomingCall,
		To:             StatusScheduled,
		IsValid:        true,
		SuccessMessage: "Job scheduled",
		Prerequisites:  []Prerequisite{customerOnFile},
		AutoActions:    []string{"Send appointment confirmation to customer"},
	},
	{
		From:                 StatusIncomingCall,
		To:                   StatusInBay,
		IsValid:              true,
		RequiresConfirmation: true,
		WarningMessage:       "This skips scheduling and puts the vehicle straight into a bay.",
		SuccessMessage:       "Vehicle moved into bay",
		Prerequisites:        []Prerequisite{vehicleIdentified, bayAvailable},
		AutoActions:          []string{"Start labor clock", "Notify assigned technician"},
	},
	{
		From:           StatusScheduled,
		To:             StatusInBay,
		IsValid:        true,
		SuccessMessage: "Vehicle checked in and moved into bay",
		Prerequisites:  []Prerequisite{vehicleIdentified, bayAvailable},
		AutoActions:    []string{"Start labor clock", "Notify assigned technician"},
	},
	{
		From:           StatusScheduled,
		To:             StatusCompleted,
		IsValid:        false,
		WarningMessage: "Scheduled jobs must pass through a bay before they can be completed.",
	},
	{
		From:           StatusInBay,
		To:             StatusWaitingParts,
		IsValid:        true,
		SuccessMessage: "Job marked as waiting on parts",
		Prerequisites:  []Prerequisite{{Description: "Required parts identified"}},
		AutoActions:    []string{"Create parts order", "Notify customer of delay", "Release service bay"},
	},
	{
		From:                 StatusInBay,
		To:                   StatusCompleted,
		IsValid:              true,
		RequiresConfirmation: true,
		WarningMessage:       "Completing the job generates the invoice and notifies the customer.",
		SuccessMessage:       "Job completed",
		Prerequisites: []Prerequisite{
			{Description: "All work items finished"},
			{Description: "Quality check passed"},
		},
		AutoActions: []string{"Generate invoice", "Notify customer vehicle is ready", "Release service bay"},
	},
	{
		From:           StatusWaitingParts,
		To:             StatusInBay,
		IsValid:        true,
		SuccessMessage: "Parts arrived, vehicle back in bay",
		Prerequisites:  []Prerequisite{partsReceived, bayAvailable},
		AutoActions:    []string{"Resume labor clock"},
	},
	{
		From:                 StatusWaitingParts,
		To:                   StatusCompleted,
		IsValid:              true,
		RequiresConfirmation: true,
		WarningMessage:       "The job will be closed without returning to a bay.",
		SuccessMessage:       "Job completed",
		AutoActions:          []string{"Cancel outstanding parts orders", "Generate invoice"},
	},
	{
		From:           StatusCompleted,
		To:             StatusInBay,
		IsValid:        false,
		WarningMessage: "Reopening a completed job requires a supervisor override.",
	},
	{
		From:           StatusCompleted,
		To:             StatusScheduled,
		IsValid:        false,
		WarningMessage: "Completed jobs cannot be rescheduled. Create a new job instead.",
	},
}

var ruleIndex = func() map[transitionKey]*StatusTransition {
	idx := make(map[transitionKey]*StatusTransition, len(rules))
	for i := range rules {
		idx[transitionKey{rules[i].From, rules[i].To}] = &rules[i]
	}
	return idx
}()

// ValidateTransition returns the rule for from→to, or nil when no rule
// exists. A returned rule may still have IsValid false. The job argument is
// accepted for callers that have one; the lookup itself is static.
func ValidateTransition(from, to Status, _ *Job) *StatusTransition {
	rule, ok := ruleIndex[transitionKey{from, to}]
	if !ok {
		return nil
	}
	out := *rule
	return &out
}

// GetValidTransitions returns the allowed rules out of from, in table order.
func GetValidTransitions(from Status) []StatusTransition {
	var out []StatusTransition
	for _, rule := range rules {
		if rule.From == from && rule.IsValid {
			out = append(out, rule)
		}
	}
	return out
}

// GetNextStatus picks, among the valid targets of from, the one lowest in
// the workflow order. It is a heuristic default, not a business rule.
func GetNextStatus(from Status) (Status, bool) {
	var (
		best  Status
		found bool
	)
	for _, rule := range GetValidTransitions(from) {
		if !found || rule.To.order() < best.order() {
			best = rule.To
			found = true
		}
	}
	return best, found
}

// CanTransitionTo checks the rule table plus runtime conditions for moving
// job to target.
func CanTransitionTo(job Job, target Status, ctx *TransitionContext) Decision {
	rule := ValidateTransition(job.Status, target, &job)
	if rule == nil {
		return Decision{
			Reason: fmt.Sprintf("No transition from %s to %s", job.Status.Label(), target.Label()),
		}
	}
	if !rule.IsValid {
		reason := rule.WarningMessage
		if reason == "" {
			reason = fmt.Sprintf("Transition from %s to %s is not allowed", job.Status.Label(), target.Label())
		}
		return Decision{Reason: reason}
	}

	if target == StatusInBay && ctx != nil && ctx.BayCapacity > 0 && ctx.CurrentBayJobs >= ctx.BayCapacity {
		return Decision{
			Reason: fmt.Sprintf("All %d bays are occupied", ctx.BayCapacity),
		}
	}

	for _, pre := range rule.Prerequisites {
		if pre.Check != nil && !pre.Check(job, ctx) {
			return Decision{Reason: "Prerequisite not met: " + pre.Description}
		}
	}

	if job.Priority == PriorityHigh && target == StatusWaitingParts {
		return Decision{
			Allowed: true,
			Reason:  "High priority job will be delayed while waiting on parts",
		}
	}
	return Decision{Allowed: true}
}

// GetTransitionMessage returns the text to show after (or instead of) a
// transition from→to.
func GetTransitionMessage(from, to Status) string {
	rule := ValidateTransition(from, to, nil)
	switch {
	case rule == nil:
		return fmt.Sprintf("Cannot move from %s to %s", from.Label(), to.Label())
	case !rule.IsValid:
		return rule.WarningMessage
	case rule.SuccessMessage != "":
		return rule.SuccessMessage
	}
	return fmt.Sprintf("Status changed to %s", to.Label())
}

// PendingPrerequisites lists the descriptions of checks that fail, plus all
// advisory prerequisites, for display next to a confirmation prompt.
func (t StatusTransition) PendingPrerequisites(job Job, ctx *TransitionContext) []string {
	var out []string
	for _, pre := range t.Prerequisites {
		if pre.Check == nil || !pre.Check(job, ctx) {
			out = append(out, pre.Description)
		}
	}
	return out
}
