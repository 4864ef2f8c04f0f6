package common

import (
	"time"

	"github.com/flexreminder/flexd/pkg/flexlib"
)

type InputReminderId struct {
	ReminderId string `json:"reminder_id"`
}

type AddParams struct {
	Url        string `json:"url"`
	Title      string `json:"title,omitempty"`
	DueTime    string `json:"due_time,omitempty"`
	Importance string `json:"importance,omitempty"`
}

type AddResponse struct {
	ReminderId string    `json:"reminder_id"`
	RemoteId   int64     `json:"remote_id,omitempty"`
	Title      string    `json:"title"`
	DueTime    time.Time `json:"due_time"`
}

type ListParams struct {
	ShowActive    bool `json:"show_active"`
	ShowFired     bool `json:"show_fired"`
	ShowCancelled bool `json:"show_cancelled"`
}

type ListResponse struct {
	Reminders []*flexlib.Record `json:"reminders"`
}

type CancelParams struct {
	ReminderId string `json:"reminder_id"`
}

type CancelResponse struct {
	ReminderId string `json:"reminder_id"`
}

type SnoozeParams struct {
	ReminderId string `json:"reminder_id"`
	Minutes    int    `json:"minutes"`
}

type SnoozeResponse struct {
	ReminderId string    `json:"reminder_id"`
	DueTime    time.Time `json:"due_time"`
}

type SyncParams struct{}

type SyncResponse struct {
	Online   bool      `json:"online"`
	LastSync time.Time `json:"last_sync"`
}

type StatsParams struct{}

type StatsResponse struct {
	Total     int       `json:"total"`
	Active    int       `json:"active"`
	Fired     int       `json:"fired"`
	Cancelled int       `json:"cancelled"`
	Armed     int       `json:"armed"`
	Online    bool      `json:"online"`
	LastSync  time.Time `json:"last_sync"`
}

type SearchParams struct {
	Query string `json:"query"`
}

type SearchResponse struct {
	Reminders []*flexlib.Record `json:"reminders"`
}

type StatusParams struct{}

type StatusResponse struct {
	Version   string    `json:"version"`
	Online    bool      `json:"online"`
	Syncing   bool      `json:"syncing"`
	AutoSync  bool      `json:"auto_sync"`
	LastSync  time.Time `json:"last_sync"`
	Reminders int       `json:"reminders"`
	Armed     int       `json:"armed"`
}

type AttachParams struct{}

// FiredResponse is the event pushed to attached clients when a reminder
// fires or the schedule changes.
type FiredResponse struct {
	Action     FiredAction `json:"action"`
	ReminderId string      `json:"reminder_id,omitempty"`
	Title      string      `json:"title,omitempty"`
	Url        string      `json:"url,omitempty"`
	Sound      bool        `json:"sound,omitempty"`
}
