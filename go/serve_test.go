package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rmmh/chunkport/go/task"
)

func get(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestStatusAPI(t *testing.T) {
	reg := task.NewRegistry()
	release := make(chan struct{})
	running := task.New("r.0.0.mca", 1)
	started := make(chan struct{})
	require.NoError(t, running.Submit("block", task.Normal, func(ctx context.Context) error {
		close(started)
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	}))
	running.Close()
	<-started
	done := task.New("r.1.0.mca", 1)
	done.Close()
	require.NoError(t, done.Wait(context.Background()))
	reg.Add(running)
	reg.Add(done)

	h := (&server{tasks: reg, log: slog.Default()}).router()

	w := get(t, h, http.MethodGet, "/tasks")
	require.Equal(t, http.StatusOK, w.Code)
	var list []task.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	require.Equal(t, "r.0.0.mca", list[0].Name)
	require.Equal(t, "running", list[0].State)
	require.Equal(t, "completed", list[1].State)
	require.Equal(t, 1.0, list[1].Progress)

	w = get(t, h, http.MethodGet, "/tasks/"+done.ID.String())
	require.Equal(t, http.StatusOK, w.Code)
	var snap task.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	require.Equal(t, done.ID.String(), snap.ID)

	require.Equal(t, http.StatusNotFound, get(t, h, http.MethodGet, "/tasks/nope").Code)
	require.Equal(t, http.StatusMethodNotAllowed, get(t, h, http.MethodGet, "/tasks/"+running.ID.String()+"/cancel").Code)

	w = get(t, h, http.MethodPost, "/tasks/"+running.ID.String()+"/cancel")
	require.Equal(t, http.StatusAccepted, w.Code)
	require.ErrorIs(t, running.Wait(context.Background()), task.ErrCancelled)
	close(release)
	require.Equal(t, task.Cancelled, running.State())

	w = get(t, h, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, strings.Contains(w.Body.String(), "chunkport_tasks_started_total"))
}
