package realtime

import (
	"github.com/gravitrone/shopos/cli/internal/api"
	"github.com/gravitrone/shopos/cli/internal/workflow"
)

// StatusChange is a job whose status differs from the previous snapshot.
type StatusChange struct {
	JobID string
	Title string
	From  workflow.Status
	To    workflow.Status
}

// StatusTracker remembers the last job snapshot so successive realtime
// updates can be diffed.
type StatusTracker struct {
	prev   map[string]workflow.Status
	primed bool
}

// Observe records jobs and returns the status changes since the previous
// call, in input order. The first call only primes the tracker. Jobs not
// seen before are not reported.
func (t *StatusTracker) Observe(jobs []api.Job) []StatusChange {
	next := make(map[string]workflow.Status, len(jobs))
	var changes []StatusChange
	for _, job := range jobs {
		next[job.ID] = job.Status
		if !t.primed {
			continue
		}
		if before, ok := t.prev[job.ID]; ok && before != job.Status {
			changes = append(changes, StatusChange{
				JobID: job.ID,
				Title: job.Title,
				From:  before,
				To:    job.Status,
			})
		}
	}
	t.prev = next
	t.primed = true
	return changes
}

// Record updates the remembered status of one job, so a change made locally
// is not reported again when the next snapshot arrives. It is a no-op before
// the tracker is primed.
func (t *StatusTracker) Record(job api.Job) {
	if !t.primed {
		return
	}
	t.prev[job.ID] = job.Status
}

// Reset forgets the snapshot.
func (t *StatusTracker) Reset() {
	t.prev = nil
	t.primed = false
}
