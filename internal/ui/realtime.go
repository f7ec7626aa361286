package ui

import (
	"encoding/json"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/gravitrone/shopos/cli/internal/api"
	"github.com/gravitrone/shopos/cli/internal/logging"
	"github.com/gravitrone/shopos/cli/internal/realtime"
)

// --- Live Updates ---

// jobsSnapshotMsg carries the full job list pushed by the realtime feed.
type jobsSnapshotMsg struct{ jobs []api.Job }

// realtimeClosedMsg reports the feed went away.
type realtimeClosedMsg struct{ err error }

const updatesBuffer = 8

// SubscribeJobs subscribes to the jobs feed and returns a channel of UI
// messages plus a release func that unsubscribes. When the UI falls behind,
// the oldest pending snapshot is dropped since each one supersedes it.
func SubscribeJobs(rt *realtime.Client, filter realtime.Filter) (<-chan tea.Msg, func(), error) {
	log := logging.NewLogger("ui.realtime")
	out := make(chan tea.Msg, updatesBuffer)

	push := func(msg tea.Msg) {
		for {
			select {
			case out <- msg:
				return
			default:
			}
			select {
			case <-out:
			default:
			}
		}
	}

	id, err := rt.Subscribe("jobs", filter, func(items []json.RawMessage) {
		jobs, err := realtime.Decode[api.Job](items)
		if err != nil {
			log.WithError(err).Warn("dropping malformed jobs frame")
			return
		}
		push(jobsSnapshotMsg{jobs: jobs})
	})
	if err != nil {
		return nil, nil, err
	}

	go func() {
		<-rt.Done()
		push(realtimeClosedMsg{err: rt.Err()})
	}()

	release := func() {
		if err := rt.Unsubscribe(id); err != nil {
			log.WithFields(logrus.Fields{"id": id}).WithError(err).Debug("unsubscribe failed")
		}
	}
	return out, release, nil
}

// waitForUpdate blocks on the next live update. It returns nil when there
// is no feed, so the app simply stops listening.
func waitForUpdate(updates <-chan tea.Msg) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-updates
		if !ok {
			return realtimeClosedMsg{}
		}
		return msg
	}
}
