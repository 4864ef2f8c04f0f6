// Package syncer reconciles the local reminder store against the remote
// server. Reconciliation is pull-based: the remote list is authoritative
// for every record it knows about, local-only records are left for the
// lifecycle controller to push, and the scheduler is rebuilt after every
// merge.
package syncer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/flexreminder/flexd/internal/gateway"
	"github.com/flexreminder/flexd/internal/scheduler"
	"github.com/flexreminder/flexd/pkg/flexlib"
	"github.com/flexreminder/flexd/pkg/logger"
)

// Summary reports what a reconciliation changed.
type Summary struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Removed int `json:"removed"`
}

// Engine is the sync engine. SyncNow is serialized: a call while a
// reconciliation is in flight is a no-op.
type Engine struct {
	store *flexlib.Store
	gw    *gateway.Gateway
	sched *scheduler.Scheduler
	log   logger.Logger

	inProgress atomic.Bool

	mu          sync.Mutex
	lastSync    time.Time
	lastSummary Summary
	stopCh      chan struct{}
}

// New creates a sync engine over the given store, gateway and scheduler.
func New(store *flexlib.Store, gw *gateway.Gateway, sched *scheduler.Scheduler, log logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Engine{
		store: store,
		gw:    gw,
		sched: sched,
		log:   log,
	}
}

// SyncNow pulls the remote reminder list and merges it into the store.
// A pull failure leaves the store untouched and is not an error: the
// online flag and the log carry the information, and the next periodic
// tick retries. The only error returned is ErrSyncInProgress.
func (e *Engine) SyncNow(ctx context.Context) error {
	if !e.inProgress.CompareAndSwap(false, true) {
		return flexlib.ErrSyncInProgress
	}
	defer e.inProgress.Store(false)

	remote, err := e.gw.ListReminders(ctx)
	if err != nil {
		e.log.Warning("sync: pull failed, keeping local state: %v", err)
		return nil
	}

	sum := e.reconcile(remote)

	// Reconciliation may have changed due times, statuses, or removed
	// records entirely; re-derive every timer from scratch.
	e.sched.ScheduleAll(e.store.GetAll())

	e.mu.Lock()
	e.lastSync = time.Now()
	e.lastSummary = sum
	e.mu.Unlock()

	e.log.Info("sync: %d created, %d updated, %d removed", sum.Created, sum.Updated, sum.Removed)
	return nil
}

// reconcile merges the remote list into the store. Remote values win for
// every field both sides carry; local-only fields (id, createdAt) are
// preserved.
func (e *Engine) reconcile(remote []gateway.RemoteReminder) Summary {
	var sum Summary
	now := time.Now()
	seen := make(map[int64]bool, len(remote))

	for i := range remote {
		r := &remote[i]
		if r.Id == 0 || seen[r.Id] {
			// The server should never report duplicates; if it does,
			// the first entry wins.
			continue
		}
		seen[r.Id] = true

		due, ok := r.DueTime()
		local, err := e.store.GetByRemoteId(r.Id)
		if err == nil {
			uerr := e.store.Update(local.Id, func(rec *flexlib.Record) {
				if ok {
					rec.DueTime = due
				}
				if r.Title != "" {
					rec.Title = r.Title
				}
				if r.Importance != "" {
					rec.Importance = flexlib.Importance(r.Importance)
				}
				rec.Meta = r.Metadata()
				rec.LastSynced = now
			})
			if uerr != nil {
				e.log.Error("sync: update %s: %v", local.Id, uerr)
				continue
			}
			sum.Updated++
			continue
		}

		if !ok {
			e.log.Warning("sync: remote reminder %d has unusable due time %q, skipping", r.Id, r.NextReminderTime)
			continue
		}
		rec := &flexlib.Record{
			Id:         flexlib.NewId(),
			RemoteId:   r.Id,
			Url:        r.Url,
			Title:      r.Title,
			DueTime:    due,
			Status:     flexlib.StatusActive,
			Importance: flexlib.Importance(r.Importance),
			Meta:       r.Metadata(),
			CreatedAt:  now,
			LastSynced: now,
		}
		if aerr := e.store.Add(rec); aerr != nil {
			e.log.Error("sync: add remote reminder %d: %v", r.Id, aerr)
			continue
		}
		sum.Created++
	}

	// A server-acknowledged record the server no longer reports was
	// deleted remotely; drop it. Local-only records (no remote id) are
	// pending creations and stay untouched.
	for _, rec := range e.store.GetAll() {
		if rec.RemoteId == 0 || seen[rec.RemoteId] {
			continue
		}
		e.sched.Cancel(rec.Id)
		if rerr := e.store.Remove(rec.Id); rerr != nil {
			e.log.Error("sync: remove %s: %v", rec.Id, rerr)
			continue
		}
		sum.Removed++
	}
	return sum
}

// StartPeriodic begins background reconciliation at the given interval.
// If a periodic loop is already running it is stopped first, so a
// settings change is an explicit stop/reconfigure/start cycle.
func (e *Engine) StartPeriodic(interval time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()

	stop := make(chan struct{})
	e.stopCh = stop
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				// Overlap with an ad-hoc sync is resolved by the
				// in-progress guard.
				_ = e.SyncNow(context.Background())
			}
		}
	}()
}

// StopPeriodic halts background reconciliation. Safe to call when no
// loop is running.
func (e *Engine) StopPeriodic() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

func (e *Engine) stopLocked() {
	if e.stopCh != nil {
		close(e.stopCh)
		e.stopCh = nil
	}
}

// LastSync returns the completion time of the most recent successful
// reconciliation, zero if none has completed yet.
func (e *Engine) LastSync() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastSync
}

// LastSummary returns what the most recent successful reconciliation
// changed.
func (e *Engine) LastSummary() Summary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastSummary
}

// InProgress reports whether a reconciliation is currently running.
func (e *Engine) InProgress() bool {
	return e.inProgress.Load()
}
