package scheduler

import "time"

// Event represents a pending reminder timer in the scheduler heap.
// It is an in-memory only type; the heap is rebuilt from store records
// on daemon restart.
type Event struct {
	// RecordId is the local id of the reminder to fire.
	RecordId string
	// DueAt is the wall-clock time the reminder should fire.
	DueAt time.Time
}
