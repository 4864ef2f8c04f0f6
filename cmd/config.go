package cmd

// DEF_PORT is the TCP fallback port of the daemon socket; the JSON-RPC
// bridge listens on DEF_PORT+1.
const DEF_PORT = 4422

const DESCRIPTION = `
Flexd is a link reminder daemon. It schedules local notifications
for saved links, keeps them in sync with your remote reminder
account, and lets you snooze or dismiss them from the command line
or any connected client.
`

const (
	AddDescription = `The add command saves a link reminder. The reminder is
registered with the remote service first and armed locally once the
server acknowledges it.

Example:
        flex add https://example.com/article --importance week

`
	ListDescription = `The list command displays reminders. By default only
active reminders are shown; use flags to include fired and
cancelled history.

Example:
        flex list --all

`
	CancelDescription = `The cancel command dismisses an active reminder. The
local timer is disarmed immediately; the remote copy is removed on
a best-effort basis.

Example:
        flex cancel <reminder id>

`
	SnoozeDescription = `The snooze command reschedules a fired reminder a
number of minutes into the future. Snoozing creates a new reminder
and keeps the fired one as history.

Example:
        flex snooze <reminder id> --minutes 30

`
	SyncDescription = `The sync command triggers an immediate reconciliation
with the remote service. Remote state wins for every reminder the
server knows about.

Example:
        flex sync

`
	SearchDescription = `The search command finds reminders by free text. The
query matches title, url, category and content summary.

Example:
        flex search golang

`
	AttachDescription = `The attach command subscribes to live fire events and
prints each reminder as it fires. It blocks until interrupted.

Example:
        flex attach

`
)
