package http_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
)

type sseEvent struct {
	name string
	data string
}

func readEvent(t *testing.T, r *bufio.Reader) sseEvent {
	t.Helper()
	var ev sseEvent
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\r\n")
		switch {
		case line == "" && ev.name != "":
			return ev
		case strings.HasPrefix(line, "event:"):
			ev.name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			ev.data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		}
	}
}

func TestSyncEvents(t *testing.T) {
	t.Run("Success: Streams change events for the user", func(t *testing.T) {
		h := newHarness(t)
		srv := httptest.NewServer(h.router)
		defer srv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/sync/events", nil)
		require.NoError(t, err)
		req.Header.Set("X-User-ID", "user-1")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

		reader := bufio.NewReader(resp.Body)
		assert.Equal(t, "ready", readEvent(t, reader).name)

		require.NoError(t, h.notifier.Publish(ctx, domain.ChangeEvent{UserID: "user-2", Store: domain.StoreHabitList, Version: 1}))
		require.NoError(t, h.notifier.Publish(ctx, domain.ChangeEvent{UserID: "user-1", Store: domain.StoreActivityLogs, Version: 4, Origin: "node-b"}))

		ev := readEvent(t, reader)
		assert.Equal(t, "change", ev.name)

		var change domain.ChangeEvent
		require.NoError(t, json.Unmarshal([]byte(ev.data), &change))
		assert.Equal(t, "user-1", change.UserID)
		assert.Equal(t, domain.StoreActivityLogs, change.Store)
		assert.Equal(t, int64(4), change.Version)
	})

	t.Run("Fail: 401 Unauthorized (Missing User)", func(t *testing.T) {
		h := newHarness(t)

		w := h.do(http.MethodGet, "/api/v1/sync/events", "", "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
