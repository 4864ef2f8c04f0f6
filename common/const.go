package common

// UpdateType names the message kinds exchanged between the daemon and
// its clients.
type UpdateType string

const (
	UPDATE_ADD    UpdateType = "add"
	UPDATE_LIST   UpdateType = "list"
	UPDATE_CANCEL UpdateType = "cancel"
	UPDATE_SNOOZE UpdateType = "snooze"
	UPDATE_SYNC   UpdateType = "sync"
	UPDATE_STATS  UpdateType = "stats"
	UPDATE_SEARCH UpdateType = "search"
	UPDATE_STATUS UpdateType = "status"
	UPDATE_ATTACH UpdateType = "attach"
	UPDATE_FIRED  UpdateType = "fired"
)

// FiredAction distinguishes the events pushed to attached clients.
type FiredAction string

const (
	ReminderFired   FiredAction = "reminder_fired"
	ReminderSnoozed FiredAction = "reminder_snoozed"
	ReminderRemoved FiredAction = "reminder_removed"
	SyncCompleted   FiredAction = "sync_completed"
)
