package scheduler

import (
	"container/heap"
	"context"
	"time"

	"github.com/flexreminder/flexd/pkg/flexlib"
)

const maxSleepCap = 60 * time.Second

// FireFunc is invoked with the record id when a timer elapses. It runs
// on the scheduler goroutine; the callback owns the status transition,
// the scheduler never mutates records.
type FireFunc func(recordId string)

// Scheduler owns every pending reminder timer. At most one timer exists
// per record id, and it exists only while the record is active with a
// future due time.
type Scheduler struct {
	addChan     chan Event
	removeChan  chan string
	replaceChan chan []Event
	pendingChan chan chan []Event
	ctx         context.Context
}

// New creates and starts a Scheduler. The onFire callback is invoked
// when a timer elapses. The scheduler goroutine exits when ctx is
// cancelled.
func New(ctx context.Context, onFire FireFunc) *Scheduler {
	s := &Scheduler{
		addChan:     make(chan Event, 64),
		removeChan:  make(chan string, 64),
		replaceChan: make(chan []Event, 8),
		pendingChan: make(chan chan []Event),
		ctx:         ctx,
	}
	go s.run(onFire)
	return s
}

// ScheduleOne arms a timer for the record if it is active. A record that
// is already due fires on the next loop iteration instead of being
// dropped, which is how reminders that elapsed while the process was
// down get delivered. Any existing timer for the same id is replaced.
func (s *Scheduler) ScheduleOne(r *flexlib.Record) {
	if r.Status != flexlib.StatusActive {
		return
	}
	s.send(Event{RecordId: r.Id, DueAt: r.DueTime})
}

// ScheduleAll drops every armed timer and re-arms from the given record
// set. This is the recovery procedure on startup and after every sync
// reconciliation.
func (s *Scheduler) ScheduleAll(records []*flexlib.Record) {
	events := make([]Event, 0, len(records))
	for _, r := range records {
		if r.Status != flexlib.StatusActive {
			continue
		}
		events = append(events, Event{RecordId: r.Id, DueAt: r.DueTime})
	}
	select {
	case s.replaceChan <- events:
	case <-s.ctx.Done():
	}
}

// Cancel disarms the timer for the given record id. Cancelling an
// unknown or already-cancelled id is a no-op.
func (s *Scheduler) Cancel(recordId string) {
	select {
	case s.removeChan <- recordId:
	case <-s.ctx.Done():
	}
}

// CancelAll disarms every timer.
func (s *Scheduler) CancelAll() {
	select {
	case s.replaceChan <- nil:
	case <-s.ctx.Done():
	}
}

// Pending returns a snapshot of the currently armed timers. Intended for
// status reporting and tests.
func (s *Scheduler) Pending() []Event {
	reply := make(chan []Event, 1)
	select {
	case s.pendingChan <- reply:
		return <-reply
	case <-s.ctx.Done():
		return nil
	}
}

func (s *Scheduler) send(e Event) {
	select {
	case s.addChan <- e:
	case <-s.ctx.Done():
	}
}

// run is the scheduler goroutine. It sleeps until the earliest event is
// due (capped at 60s), fires everything that has elapsed, and reshapes
// the heap on add/remove/replace messages.
func (s *Scheduler) run(onFire FireFunc) {
	h := &eventHeap{}
	heap.Init(h)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	resetTimer := func() <-chan time.Time {
		if timer != nil {
			timer.Stop()
		}
		if h.Len() == 0 {
			return nil
		}
		dur := time.Until((*h)[0].DueAt)
		if dur > maxSleepCap {
			dur = maxSleepCap
		}
		if dur < 0 {
			dur = 0
		}
		timer = time.NewTimer(dur)
		return timer.C
	}

	timerCh := resetTimer()

	for {
		select {
		case <-s.ctx.Done():
			return

		case event := <-s.addChan:
			// One timer per id: a re-schedule replaces the old timer.
			heapRemoveById(h, event.RecordId)
			heapPush(h, event)
			timerCh = resetTimer()

		case recordId := <-s.removeChan:
			heapRemoveById(h, recordId)
			timerCh = resetTimer()

		case events := <-s.replaceChan:
			*h = (*h)[:0]
			for _, e := range events {
				heapRemoveById(h, e.RecordId)
				heapPush(h, e)
			}
			timerCh = resetTimer()

		case reply := <-s.pendingChan:
			snapshot := make([]Event, h.Len())
			copy(snapshot, *h)
			reply <- snapshot

		case <-timerCh:
			now := time.Now()
			for h.Len() > 0 && !(*h)[0].DueAt.After(now) {
				event := heapPop(h)
				onFire(event.RecordId)
			}
			timerCh = resetTimer()
		}
	}
}
