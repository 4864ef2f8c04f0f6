package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexreminder/flexd/pkg/flexlib"
	"github.com/flexreminder/flexd/pkg/logger"
)

func fastRetry(n int) flexlib.RetryConfig {
	return flexlib.RetryConfig{MaxRetries: n, BaseDelay: time.Millisecond}
}

func newTestGateway(t *testing.T, handler http.Handler, retries int) (*Gateway, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	g := New(srv.Client(), Config{
		BaseURL:    srv.URL,
		Credential: "token",
		Timezone:   "UTC",
		Retry:      fastRetry(retries),
	}, logger.NewNopLogger())
	return g, srv
}

func TestCreateReminder_Success(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody createRequest
	g, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{
			"success":          true,
			"id":               42,
			"title":            "A Deep Dive",
			"nextReminderTime": time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
			"category":         "engineering",
		})
	}), 3)

	res, err := g.CreateReminder(context.Background(), "https://x", flexlib.ImportanceDay)
	require.NoError(t, err)

	assert.Equal(t, "Bearer token", gotAuth)
	assert.Equal(t, "/save-post", gotPath)
	assert.Equal(t, "https://x", gotBody.Url)
	assert.Equal(t, "day", gotBody.Importance)
	assert.Equal(t, ClientTag, gotBody.Api)

	assert.EqualValues(t, 42, res.Id)
	assert.Equal(t, "A Deep Dive", res.Title)
	_, ok := res.DueTime()
	assert.True(t, ok)
	assert.Equal(t, "engineering", res.Metadata().Category)
	assert.True(t, g.IsOnline())
}

func TestRequest_RetriesTransientThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	g, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "reminders": []any{}})
	}), 3)

	list, err := g.ListReminders(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.EqualValues(t, 3, calls.Load())
	assert.True(t, g.IsOnline())
}

func TestRequest_ExhaustedRetriesGoesOffline(t *testing.T) {
	// Scenario: create fails maxRetries times with transient errors.
	var calls atomic.Int32
	g, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}), 3)

	_, err := g.CreateReminder(context.Background(), "https://x", flexlib.ImportanceDay)
	require.Error(t, err)
	assert.True(t, flexlib.IsRemoteUnavailable(err))
	assert.EqualValues(t, 3, calls.Load())
	assert.False(t, g.IsOnline())

	var unavail *flexlib.RemoteUnavailableError
	require.ErrorAs(t, err, &unavail)
	assert.Equal(t, OpCreateReminder, unavail.Op)
	assert.Equal(t, 3, unavail.Attempts)
	require.Error(t, unavail.Err)
}

func TestRequest_TerminalFailureSurfacesImmediately(t *testing.T) {
	var calls atomic.Int32
	g, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad importance", http.StatusBadRequest)
	}), 3)

	_, err := g.CreateReminder(context.Background(), "https://x", "bogus")
	require.Error(t, err)
	assert.True(t, flexlib.IsRemoteRejected(err))
	assert.EqualValues(t, 1, calls.Load(), "terminal errors must not be retried")
}

func TestRequest_SuccessResetsOnlineFlag(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	g, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}), 2)

	require.Error(t, g.CheckConnectivity(context.Background()))
	assert.False(t, g.IsOnline())

	fail.Store(false)
	require.NoError(t, g.CheckConnectivity(context.Background()))
	assert.True(t, g.IsOnline())
}

func TestUpdateDueTime_ServerSaysNo(t *testing.T) {
	g, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "unknown reminder"})
	}), 3)

	err := g.UpdateDueTime(context.Background(), 42, time.Now().Add(time.Hour))
	require.Error(t, err)
	assert.True(t, flexlib.IsRemoteRejected(err))
	assert.Contains(t, err.Error(), "unknown reminder")
}

func TestDeleteReminder_UsesGetPath(t *testing.T) {
	var gotPath string
	g, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}), 3)

	require.NoError(t, g.DeleteReminder(context.Background(), 42))
	assert.Equal(t, "/deleteReminder/42", gotPath)
}

func TestParseRemoteTime(t *testing.T) {
	if _, ok := parseRemoteTime(""); ok {
		t.Fatal("empty string must not parse")
	}
	if _, ok := parseRemoteTime("2026-09-01T10:00:00Z"); !ok {
		t.Fatal("RFC3339 must parse")
	}
	if _, ok := parseRemoteTime("2026-09-01 10:00:00"); !ok {
		t.Fatal("plain datetime must parse")
	}
}
