package gateway

import (
	"time"

	"github.com/flexreminder/flexd/pkg/flexlib"
)

// Operation names used in errors and logs.
const (
	OpCreateReminder    = "createReminder"
	OpUpdateDueTime     = "updateDueTime"
	OpDeleteReminder    = "deleteReminder"
	OpListReminders     = "listReminders"
	OpCheckConnectivity = "checkConnectivity"
)

type createRequest struct {
	Url            string `json:"url"`
	Importance     string `json:"importance_en"`
	TimezoneOffset string `json:"timezone_offset"`
	TimezoneName   string `json:"timezone_name"`
	Api            string `json:"api"`
}

type updateRequest struct {
	Id               int64  `json:"id"`
	NextReminderTime string `json:"next_reminder_time"`
	TimezoneOffset   string `json:"timezone_offset"`
	TimezoneName     string `json:"timezone_name"`
}

// apiResponse is the common envelope of the remote API.
type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// CreateResult is what the server returns for a successful creation.
// The server is authoritative for the remote id and due time; the
// remaining fields are advisory enrichment.
type CreateResult struct {
	apiResponse
	Id               int64  `json:"id"`
	Title            string `json:"title,omitempty"`
	NextReminderTime string `json:"nextReminderTime,omitempty"`
	Category         string `json:"category,omitempty"`
	Complexity       string `json:"complexity,omitempty"`
	Domain           string `json:"domain,omitempty"`
	Content          string `json:"content,omitempty"`
	ImageURL         string `json:"image_url,omitempty"`
	PreferredTimes   string `json:"preferred_times,omitempty"`
}

// DueTime parses the server-assigned due time, if any.
func (r *CreateResult) DueTime() (time.Time, bool) {
	return parseRemoteTime(r.NextReminderTime)
}

// Metadata converts the enrichment fields to the record form.
func (r *CreateResult) Metadata() flexlib.Metadata {
	return flexlib.Metadata{
		Category:       r.Category,
		Complexity:     r.Complexity,
		Domain:         r.Domain,
		Content:        r.Content,
		ImageURL:       r.ImageURL,
		PreferredTimes: r.PreferredTimes,
	}
}

// RemoteReminder is one entry of the server's reminder list.
type RemoteReminder struct {
	Id               int64  `json:"id"`
	Url              string `json:"url"`
	Title            string `json:"title"`
	NextReminderTime string `json:"next_reminder_time"`
	Importance       string `json:"importance,omitempty"`
	Category         string `json:"category,omitempty"`
	Complexity       string `json:"complexity,omitempty"`
	Domain           string `json:"domain,omitempty"`
	Content          string `json:"content,omitempty"`
	ImageURL         string `json:"image_url,omitempty"`
	PreferredTimes   string `json:"preferred_times,omitempty"`
}

// DueTime parses the reminder's next firing time.
func (r *RemoteReminder) DueTime() (time.Time, bool) {
	return parseRemoteTime(r.NextReminderTime)
}

// Metadata converts the enrichment fields to the record form.
func (r *RemoteReminder) Metadata() flexlib.Metadata {
	return flexlib.Metadata{
		Category:       r.Category,
		Complexity:     r.Complexity,
		Domain:         r.Domain,
		Content:        r.Content,
		ImageURL:       r.ImageURL,
		PreferredTimes: r.PreferredTimes,
	}
}

type listResponse struct {
	apiResponse
	Reminders []RemoteReminder `json:"reminders"`
}

// parseRemoteTime accepts the formats the server has been observed to
// emit: RFC3339 and a plain datetime without zone (interpreted as local).
func parseRemoteTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.Local); err == nil {
		return t, true
	}
	return time.Time{}, false
}
