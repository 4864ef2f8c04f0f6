// Package flexlib provides the core reminder model and local state
// management for flexd: the reminder record, the persistent store,
// retry/backoff policy and the error taxonomy shared by the daemon
// components.
package flexlib

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a reminder record. It is a closed set;
// transitions happen only through the lifecycle controller (create, fire,
// cancel, snooze), never by assigning the field directly.
type Status string

const (
	// StatusActive means the reminder is pending and owns a scheduler timer
	// as long as its due time is in the future.
	StatusActive Status = "active"
	// StatusFired means the reminder notification has been delivered.
	// Fired records stay in the store as history.
	StatusFired Status = "fired"
	// StatusCancelled means the user dismissed the reminder before it fired.
	// Cancelled records stay in the store; only the server can remove them.
	StatusCancelled Status = "cancelled"
)

// Importance is the cadence hint sent to the server at creation time.
type Importance string

const (
	ImportanceDay   Importance = "day"
	ImportanceWeek  Importance = "week"
	ImportanceMonth Importance = "month"
)

// Metadata holds the server-enriched fields of a reminder. All of it is
// advisory: nothing in the engine depends on these values being present.
type Metadata struct {
	// Category is the server-assigned topic of the link.
	Category string `json:"category,omitempty"`
	// Domain is the host part of the link as classified by the server.
	Domain string `json:"domain,omitempty"`
	// Complexity is the server's estimate of how involved the content is.
	Complexity string `json:"complexity,omitempty"`
	// Content is a short descriptive summary of the link.
	Content string `json:"content,omitempty"`
	// ImageURL is a preview image reference.
	ImageURL string `json:"image_url,omitempty"`
	// PreferredTimes is the server's preferred-time hint.
	PreferredTimes string `json:"preferred_times,omitempty"`
}

// Record represents a single reminder: a link the user wants to be
// notified about at DueTime.
type Record struct {
	// Id is the locally generated identifier. Stable for the life of the
	// record and never reused; snoozing produces a fresh id.
	Id string `json:"id"`
	// RemoteId is the correlation key assigned by the server once a
	// creation request succeeds. Zero means the server has not
	// acknowledged this record.
	RemoteId int64 `json:"remote_id,omitempty"`
	// Url is the subject link.
	Url string `json:"url"`
	// Title is the display text, user-supplied or returned by the server.
	Title string `json:"title"`
	// DueTime is the absolute time at which the reminder should fire.
	DueTime time.Time `json:"due_time"`
	// Status is the lifecycle state of the record.
	Status Status `json:"status"`
	// Importance is the cadence hint used at creation.
	Importance Importance `json:"importance,omitempty"`
	// Meta holds the server-enriched advisory fields.
	Meta Metadata `json:"meta,omitempty"`
	// CreatedAt is the local creation time.
	CreatedAt time.Time `json:"created_at"`
	// LastSynced is the time of the last successful reconciliation that
	// touched this record.
	LastSynced time.Time `json:"last_synced,omitempty"`
}

// RecordsMap indexes reminder records by their local id.
type RecordsMap map[string]*Record

// NewId returns a fresh local record identifier.
func NewId() string {
	return uuid.NewString()
}

// IsDue reports whether the record should fire at or before now.
func (r *Record) IsDue(now time.Time) bool {
	return r.Status == StatusActive && !r.DueTime.After(now)
}

// Schedulable reports whether the record should own a pending timer:
// active with a due time in the future.
func (r *Record) Schedulable(now time.Time) bool {
	return r.Status == StatusActive && r.DueTime.After(now)
}

// Clone returns a deep copy of the record. Callers receive clones from the
// store so readers never observe in-place mutation.
func (r *Record) Clone() *Record {
	c := *r
	return &c
}

// Matches reports whether the record matches a free-text query. The
// match is a case-insensitive substring test over title, url, category
// and content summary.
func (r *Record) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, field := range []string{r.Title, r.Url, r.Meta.Category, r.Meta.Content} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
