// Package lifecycle implements the reminder state machine: create, fire,
// cancel and snooze. Every status transition in the system goes through
// this controller; no other component writes Status.
//
// Ordering rules: creation and snooze call the server first and mutate
// local state only on success (the server is authoritative for remote id
// and due time assignment); cancellation flips local state
// unconditionally and treats the remote delete as best-effort, because
// the obligation to notify must be removable even while offline.
package lifecycle

import (
	"context"
	"time"

	"github.com/flexreminder/flexd/internal/gateway"
	"github.com/flexreminder/flexd/internal/scheduler"
	"github.com/flexreminder/flexd/pkg/flexlib"
	"github.com/flexreminder/flexd/pkg/logger"
)

// NotifyFunc receives the fired record. The host decides presentation;
// the engine only reports the event.
type NotifyFunc func(rec *flexlib.Record)

// Controller drives reminder state transitions.
type Controller struct {
	store  *flexlib.Store
	sched  *scheduler.Scheduler
	gw     *gateway.Gateway
	log    logger.Logger
	notify NotifyFunc
}

// New creates a Controller. notify may be nil when the host does not
// consume fire events.
func New(store *flexlib.Store, sched *scheduler.Scheduler, gw *gateway.Gateway, log logger.Logger, notify NotifyFunc) *Controller {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if notify == nil {
		notify = func(*flexlib.Record) {}
	}
	return &Controller{
		store:  store,
		sched:  sched,
		gw:     gw,
		log:    log,
		notify: notify,
	}
}

// BindScheduler attaches the scheduler after construction. The
// controller is the scheduler's fire callback, so the two reference
// each other; the scheduler is built second and bound here.
func (c *Controller) BindScheduler(sched *scheduler.Scheduler) {
	c.sched = sched
}

// Create registers a reminder with the server and, only on success, adds
// it to the store and arms its timer. The server's title and due time
// win over the caller-supplied values when present.
func (c *Controller) Create(ctx context.Context, url, title string, due time.Time, importance flexlib.Importance) (*flexlib.Record, error) {
	if importance == "" {
		importance = flexlib.ImportanceDay
	}
	res, err := c.gw.CreateReminder(ctx, url, importance)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	rec := &flexlib.Record{
		Id:         flexlib.NewId(),
		RemoteId:   res.Id,
		Url:        url,
		Title:      title,
		DueTime:    due,
		Status:     flexlib.StatusActive,
		Importance: importance,
		Meta:       res.Metadata(),
		CreatedAt:  now,
		LastSynced: now,
	}
	if res.Title != "" {
		rec.Title = res.Title
	}
	if serverDue, ok := res.DueTime(); ok {
		rec.DueTime = serverDue
	}

	if err := c.store.Add(rec); err != nil {
		return nil, err
	}
	c.sched.ScheduleOne(rec)
	c.log.Info("created reminder %s (remote %d) due %s", rec.Id, rec.RemoteId, rec.DueTime.Format(time.RFC3339))
	return rec.Clone(), nil
}

// HandleFire is the scheduler's fire callback. It marks the record fired
// and emits the notification event. The record stays in the store as
// history; its due time is never touched by firing.
func (c *Controller) HandleFire(recordId string) {
	rec, err := c.store.Get(recordId)
	if err != nil {
		c.log.Warning("fire for unknown record %s", recordId)
		return
	}
	if rec.Status != flexlib.StatusActive {
		// Stale timer, e.g. the record was reconciled away between
		// arming and firing.
		return
	}
	if err := c.store.Update(recordId, func(r *flexlib.Record) {
		r.Status = flexlib.StatusFired
	}); err != nil {
		c.log.Error("mark fired %s: %v", recordId, err)
		return
	}
	rec.Status = flexlib.StatusFired
	c.log.Info("reminder fired: %s (%s)", rec.Title, rec.Url)
	c.notify(rec)
}

// Cancel dismisses an active reminder. The timer is disarmed and the
// remote delete attempted, but local truth changes regardless of the
// remote outcome.
func (c *Controller) Cancel(ctx context.Context, recordId string) error {
	rec, err := c.store.Get(recordId)
	if err != nil {
		return err
	}
	if rec.Status != flexlib.StatusActive {
		return flexlib.ErrNotActive
	}

	c.sched.Cancel(recordId)

	if rec.RemoteId != 0 {
		if derr := c.gw.DeleteReminder(ctx, rec.RemoteId); derr != nil {
			c.log.Warning("remote delete of %d failed, cancelling locally anyway: %v", rec.RemoteId, derr)
		}
	}

	return c.store.Update(recordId, func(r *flexlib.Record) {
		r.Status = flexlib.StatusCancelled
	})
}

// Snooze reschedules a fired reminder minutes into the future as a NEW
// record; the fired record keeps its status and due time so every firing
// stays in history. When the reminder is server-tracked the remote
// update must succeed first, otherwise the snooze is aborted — a
// local-only schedule must not diverge from a server-tracked reminder.
func (c *Controller) Snooze(ctx context.Context, recordId string, minutes int) (*flexlib.Record, error) {
	rec, err := c.store.Get(recordId)
	if err != nil {
		return nil, err
	}
	if rec.Status != flexlib.StatusFired {
		return nil, flexlib.ErrNotFired
	}

	newDue := time.Now().Add(time.Duration(minutes) * time.Minute)

	if rec.RemoteId != 0 {
		if uerr := c.gw.UpdateDueTime(ctx, rec.RemoteId, newDue); uerr != nil {
			return nil, uerr
		}
	}

	now := time.Now()
	snoozed := &flexlib.Record{
		Id:         flexlib.NewId(),
		RemoteId:   rec.RemoteId,
		Url:        rec.Url,
		Title:      rec.Title,
		DueTime:    newDue,
		Status:     flexlib.StatusActive,
		Importance: rec.Importance,
		Meta:       rec.Meta,
		CreatedAt:  now,
		LastSynced: now,
	}

	// The remote id now correlates with the snoozed instance; the fired
	// record becomes plain history so the uniqueness invariant holds.
	if rec.RemoteId != 0 {
		if uerr := c.store.Update(recordId, func(r *flexlib.Record) {
			r.RemoteId = 0
		}); uerr != nil {
			return nil, uerr
		}
	}
	if err := c.store.Add(snoozed); err != nil {
		return nil, err
	}
	c.sched.ScheduleOne(snoozed)
	c.log.Info("snoozed %s for %d minutes as %s", recordId, minutes, snoozed.Id)
	return snoozed.Clone(), nil
}
