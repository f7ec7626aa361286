package ui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/shopos/cli/internal/realtime"
	"github.com/gravitrone/shopos/cli/internal/workflow"
)

// jobsFeedServer answers the first subscribe with one jobs snapshot, then
// hangs up once hangup is closed.
func jobsFeedServer(t *testing.T, hangup <-chan struct{}) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		var sub map[string]any
		if err := conn.ReadJSON(&sub); err != nil {
			return
		}
		_ = conn.WriteJSON(map[string]any{
			"type": "data",
			"id":   sub["id"],
			"items": []map[string]any{
				{"id": "job-1", "title": "Brake pads", "status": "in-bay"},
			},
		})
		<-hangup
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "restarting"))
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func nextUpdate(t *testing.T, updates <-chan tea.Msg) tea.Msg {
	t.Helper()
	got := make(chan tea.Msg, 1)
	go func() { got <- waitForUpdate(updates)() }()
	select {
	case msg := <-got:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for live update")
		return nil
	}
}

func TestSubscribeJobsDeliversSnapshotsThenClose(t *testing.T) {
	hangup := make(chan struct{})
	url := jobsFeedServer(t, hangup)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	rt, err := realtime.Dial(ctx, url, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })

	updates, release, err := SubscribeJobs(rt, nil)
	require.NoError(t, err)
	defer release()

	snap, ok := nextUpdate(t, updates).(jobsSnapshotMsg)
	require.True(t, ok)
	require.Len(t, snap.jobs, 1)
	assert.Equal(t, "job-1", snap.jobs[0].ID)
	assert.Equal(t, workflow.StatusInBay, snap.jobs[0].Status)

	close(hangup)
	closed, ok := nextUpdate(t, updates).(realtimeClosedMsg)
	require.True(t, ok)
	assert.Error(t, closed.err)
}

func TestWaitForUpdateWithoutFeed(t *testing.T) {
	assert.Nil(t, waitForUpdate(nil))

	ch := make(chan tea.Msg)
	close(ch)
	_, ok := waitForUpdate(ch)().(realtimeClosedMsg)
	assert.True(t, ok)
}
