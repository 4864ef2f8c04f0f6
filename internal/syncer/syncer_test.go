package syncer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexreminder/flexd/internal/gateway"
	"github.com/flexreminder/flexd/internal/scheduler"
	"github.com/flexreminder/flexd/pkg/flexlib"
	"github.com/flexreminder/flexd/pkg/logger"
)

// fakeRemote serves a mutable reminder list on GET /reminders.
type fakeRemote struct {
	mu        sync.Mutex
	reminders []map[string]any
	failing   atomic.Bool
	calls     atomic.Int32
}

func (f *fakeRemote) set(reminders ...map[string]any) {
	f.mu.Lock()
	f.reminders = reminders
	f.mu.Unlock()
}

func (f *fakeRemote) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)
	if f.failing.Load() {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	f.mu.Lock()
	reminders := f.reminders
	f.mu.Unlock()
	if reminders == nil {
		reminders = []map[string]any{}
	}
	json.NewEncoder(w).Encode(map[string]any{"success": true, "reminders": reminders})
}

func remoteReminder(id int64, due time.Time, title string) map[string]any {
	return map[string]any{
		"id":                 id,
		"url":                "https://example.com/post",
		"title":              title,
		"next_reminder_time": due.UTC().Format(time.RFC3339),
		"category":           "reading",
	}
}

type testEnv struct {
	engine *Engine
	store  *flexlib.Store
	sched  *scheduler.Scheduler
	remote *fakeRemote
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	remote := &fakeRemote{}
	srv := httptest.NewServer(remote)
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
	sched := scheduler.New(ctx, func(string) {})

	return &testEnv{
		engine: New(store, gw, sched, logger.NewNopLogger()),
		store:  store,
		sched:  sched,
		remote: remote,
	}
}

func (env *testEnv) addLocal(t *testing.T, id string, remoteId int64, due time.Time) {
	t.Helper()
	require.NoError(t, env.store.Add(&flexlib.Record{
		Id:        id,
		RemoteId:  remoteId,
		Url:       "https://example.com/post",
		Title:     "local title",
		DueTime:   due,
		Status:    flexlib.StatusActive,
		CreatedAt: time.Now(),
	}))
}

func pendingIds(s *scheduler.Scheduler) map[string]time.Time {
	out := make(map[string]time.Time)
	for _, e := range s.Pending() {
		out[e.RecordId] = e.DueAt
	}
	return out
}

func TestSyncNow_PullsUnknownRemoteReminder(t *testing.T) {
	env := newTestEnv(t)
	due := time.Now().Add(time.Hour).Truncate(time.Second)
	env.remote.set(remoteReminder(42, due, "new from server"))

	require.NoError(t, env.engine.SyncNow(context.Background()))

	rec, err := env.store.GetByRemoteId(42)
	require.NoError(t, err)
	assert.Equal(t, flexlib.StatusActive, rec.Status)
	assert.Equal(t, "new from server", rec.Title)
	assert.Equal(t, "reading", rec.Meta.Category)
	assert.False(t, rec.LastSynced.IsZero())

	time.Sleep(50 * time.Millisecond)
	armed := pendingIds(env.sched)
	require.Len(t, armed, 1)
	assert.WithinDuration(t, due, armed[rec.Id], time.Second)
}

func TestSyncNow_RemoteWinsOnPull(t *testing.T) {
	// Scenario: the server moved remoteId=42 from T to T2.
	env := newTestEnv(t)
	oldDue := time.Now().Add(time.Hour)
	env.addLocal(t, "local-1", 42, oldDue)
	env.sched.ScheduleOne(mustGet(t, env.store, "local-1"))

	newDue := time.Now().Add(3 * time.Hour).Truncate(time.Second)
	env.remote.set(remoteReminder(42, newDue, "server title"))

	require.NoError(t, env.engine.SyncNow(context.Background()))

	rec := mustGet(t, env.store, "local-1")
	assert.WithinDuration(t, newDue, rec.DueTime, time.Second)
	assert.Equal(t, "server title", rec.Title)
	assert.Equal(t, "local-1", rec.Id, "local id is preserved")

	time.Sleep(50 * time.Millisecond)
	armed := pendingIds(env.sched)
	require.Len(t, armed, 1, "exactly one timer, the old one is gone")
	assert.WithinDuration(t, newDue, armed["local-1"], time.Second)
}

func TestSyncNow_RemovesRecordsDeletedRemotely(t *testing.T) {
	// Scenario: server returns an empty list while we hold remoteId=42.
	env := newTestEnv(t)
	env.addLocal(t, "local-1", 42, time.Now().Add(time.Hour))
	env.sched.ScheduleOne(mustGet(t, env.store, "local-1"))
	env.remote.set()

	require.NoError(t, env.engine.SyncNow(context.Background()))

	_, err := env.store.Get("local-1")
	assert.ErrorIs(t, err, flexlib.ErrRecordNotFound)

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, env.sched.Pending())
}

func TestSyncNow_LeavesPendingLocalCreationsAlone(t *testing.T) {
	env := newTestEnv(t)
	// No remote id: a creation the server has not acknowledged.
	env.addLocal(t, "pending-1", 0, time.Now().Add(time.Hour))
	env.remote.set()

	require.NoError(t, env.engine.SyncNow(context.Background()))

	rec := mustGet(t, env.store, "pending-1")
	assert.Equal(t, flexlib.StatusActive, rec.Status)
	assert.Equal(t, "local title", rec.Title)
}

func TestSyncNow_MergeIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	due := time.Now().Add(time.Hour)
	env.remote.set(remoteReminder(42, due, "title"))

	require.NoError(t, env.engine.SyncNow(context.Background()))
	first := env.store.GetAll()
	require.Len(t, first, 1)

	require.NoError(t, env.engine.SyncNow(context.Background()))
	second := env.store.GetAll()
	require.Len(t, second, 1)

	assert.Equal(t, first[0].Id, second[0].Id)
	assert.Equal(t, first[0].RemoteId, second[0].RemoteId)
	assert.True(t, first[0].DueTime.Equal(second[0].DueTime))
}

func TestSyncNow_PullFailureLeavesStoreUntouched(t *testing.T) {
	env := newTestEnv(t)
	env.addLocal(t, "local-1", 42, time.Now().Add(time.Hour))
	env.remote.failing.Store(true)

	err := env.engine.SyncNow(context.Background())
	assert.NoError(t, err, "pull failures are non-fatal")

	rec := mustGet(t, env.store, "local-1")
	assert.Equal(t, flexlib.StatusActive, rec.Status)
	assert.Equal(t, 1, env.store.Len())
}

func TestSyncNow_SerializedByInProgressGuard(t *testing.T) {
	env := newTestEnv(t)
	env.engine.inProgress.Store(true)

	err := env.engine.SyncNow(context.Background())
	assert.ErrorIs(t, err, flexlib.ErrSyncInProgress)
	assert.EqualValues(t, 0, env.remote.calls.Load(), "guarded call must not hit the network")

	env.engine.inProgress.Store(false)
	require.NoError(t, env.engine.SyncNow(context.Background()))
}

func TestPeriodic_TicksAndStops(t *testing.T) {
	env := newTestEnv(t)
	env.remote.set()

	env.engine.StartPeriodic(50 * time.Millisecond)
	time.Sleep(180 * time.Millisecond)
	env.engine.StopPeriodic()

	ticked := env.remote.calls.Load()
	assert.GreaterOrEqual(t, ticked, int32(2), "expected at least two periodic pulls")

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, ticked, env.remote.calls.Load(), "no pulls after StopPeriodic")

	// Stopping again is a no-op.
	env.engine.StopPeriodic()
}

func TestStartPeriodic_ReplacesExistingLoop(t *testing.T) {
	env := newTestEnv(t)
	env.remote.set()

	env.engine.StartPeriodic(time.Hour)
	env.engine.StartPeriodic(50 * time.Millisecond)
	defer env.engine.StopPeriodic()

	time.Sleep(150 * time.Millisecond)
	assert.GreaterOrEqual(t, env.remote.calls.Load(), int32(1))
}

func mustGet(t *testing.T, store *flexlib.Store, id string) *flexlib.Record {
	t.Helper()
	rec, err := store.Get(id)
	require.NoError(t, err)
	return rec
}
