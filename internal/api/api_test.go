package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexreminder/flexd/common"
	"github.com/flexreminder/flexd/internal/gateway"
	"github.com/flexreminder/flexd/internal/lifecycle"
	"github.com/flexreminder/flexd/internal/scheduler"
	"github.com/flexreminder/flexd/internal/syncer"
	"github.com/flexreminder/flexd/pkg/flexlib"
	"github.com/flexreminder/flexd/pkg/logger"
)

func newTestApi(t *testing.T) (*Api, *flexlib.Store) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/save-post":
			json.NewEncoder(w).Encode(map[string]any{"success": true, "id": 42, "title": "Server Title"})
		case "/reminders":
			json.NewEncoder(w).Encode(map[string]any{"success": true, "reminders": []any{}})
		default:
			json.NewEncoder(w).Encode(map[string]any{"success": true})
		}
	}))
	t.Cleanup(srv.Close)

	store, err := flexlib.InitStore(
		flexlib.NewFileStorage(afero.NewMemMapFs(), "/data/reminders.bin"),
		logger.NewNopLogger(),
	)
	require.NoError(t, err)

	gw := gateway.New(srv.Client(), gateway.Config{
		BaseURL:  srv.URL,
		Timezone: "UTC",
		Retry:    flexlib.RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond},
	}, logger.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	ctrl := lifecycle.New(store, nil, gw, logger.NewNopLogger(), nil)
	sched := scheduler.New(ctx, ctrl.HandleFire)
	ctrl.BindScheduler(sched)
	engine := syncer.New(store, gw, sched, logger.NewNopLogger())

	api := NewApi(logger.NewNopLogger(), store, sched, ctrl, engine, gw, "v-test", true, Notifications{Enabled: true})
	return api, store
}

func TestAdd_DefaultsDueFromImportance(t *testing.T) {
	api, store := newTestApi(t)

	res, err := api.Add(context.Background(), &common.AddParams{
		Url:        "https://example.com/article",
		Importance: "week",
	})
	require.NoError(t, err)

	assert.EqualValues(t, 42, res.RemoteId)
	assert.Equal(t, "Server Title", res.Title)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 7), res.DueTime, time.Minute)
	assert.Equal(t, 1, store.Len())
}

func TestAdd_ExplicitDueTime(t *testing.T) {
	api, _ := newTestApi(t)
	due := time.Now().Add(2 * time.Hour).Truncate(time.Second)

	res, err := api.Add(context.Background(), &common.AddParams{
		Url:     "https://example.com/article",
		DueTime: due.Format(time.RFC3339),
	})
	require.NoError(t, err)
	assert.WithinDuration(t, due, res.DueTime, time.Second)

	_, err = api.Add(context.Background(), &common.AddParams{
		Url:     "https://example.com/other",
		DueTime: "next tuesday",
	})
	assert.Error(t, err, "unparseable due time is rejected")
}

func TestList_FiltersByStatus(t *testing.T) {
	api, store := newTestApi(t)
	now := time.Now()
	for i, status := range []flexlib.Status{flexlib.StatusActive, flexlib.StatusFired, flexlib.StatusCancelled} {
		require.NoError(t, store.Add(&flexlib.Record{
			Id:        flexlib.NewId(),
			Url:       "https://example.com",
			Title:     "t",
			DueTime:   now.Add(time.Hour),
			Status:    status,
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		}))
	}

	all, err := api.List(&common.ListParams{})
	require.NoError(t, err)
	assert.Len(t, all.Reminders, 3, "no filter shows everything")

	active, err := api.List(&common.ListParams{ShowActive: true})
	require.NoError(t, err)
	require.Len(t, active.Reminders, 1)
	assert.Equal(t, flexlib.StatusActive, active.Reminders[0].Status)

	firedOrCancelled, err := api.List(&common.ListParams{ShowFired: true, ShowCancelled: true})
	require.NoError(t, err)
	assert.Len(t, firedOrCancelled.Reminders, 2)
}

func TestStats(t *testing.T) {
	api, store := newTestApi(t)
	now := time.Now()
	for _, status := range []flexlib.Status{flexlib.StatusActive, flexlib.StatusActive, flexlib.StatusFired} {
		require.NoError(t, store.Add(&flexlib.Record{
			Id:        flexlib.NewId(),
			Url:       "https://example.com",
			DueTime:   now.Add(time.Hour),
			Status:    status,
			CreatedAt: now,
		}))
	}

	res, err := api.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Active)
	assert.Equal(t, 1, res.Fired)
	assert.Equal(t, 0, res.Cancelled)
}

func TestSearch(t *testing.T) {
	api, store := newTestApi(t)
	now := time.Now()
	require.NoError(t, store.Add(&flexlib.Record{
		Id: "a", Url: "https://go.dev/blog/slices", Title: "Go slices deep dive",
		DueTime: now.Add(time.Hour), Status: flexlib.StatusActive, CreatedAt: now,
	}))
	require.NoError(t, store.Add(&flexlib.Record{
		Id: "b", Url: "https://example.com/cooking", Title: "Pasta recipe",
		Meta:    flexlib.Metadata{Category: "food"},
		DueTime: now.Add(time.Hour), Status: flexlib.StatusActive, CreatedAt: now,
	}))

	res, err := api.Search("slices")
	require.NoError(t, err)
	require.Len(t, res.Reminders, 1)
	assert.Equal(t, "a", res.Reminders[0].Id)

	res, err = api.Search("FOOD")
	require.NoError(t, err)
	require.Len(t, res.Reminders, 1)
	assert.Equal(t, "b", res.Reminders[0].Id)

	res, err = api.Search("")
	require.NoError(t, err)
	assert.Len(t, res.Reminders, 2, "empty query matches everything")
}

func TestStatus(t *testing.T) {
	api, _ := newTestApi(t)
	res, err := api.Status()
	require.NoError(t, err)
	assert.Equal(t, "v-test", res.Version)
	assert.True(t, res.AutoSync)
	assert.Equal(t, 0, res.Reminders)
}

func TestSync_ReturnsOnlineState(t *testing.T) {
	api, _ := newTestApi(t)
	res, err := api.Sync(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Online)
	assert.False(t, res.LastSync.IsZero())
}
