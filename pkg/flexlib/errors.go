package flexlib

import (
	"errors"
	"fmt"
)

var (
	// ErrRecordNotFound is returned when a record id is not in the store.
	ErrRecordNotFound = errors.New("reminder you are trying to access is not found")

	// ErrRecordExists is returned when adding a record whose id is taken.
	ErrRecordExists = errors.New("reminder with this id already exists")

	// ErrSyncInProgress is returned by an explicit sync request while a
	// reconciliation is already running.
	ErrSyncInProgress = errors.New("a sync is already in progress")

	// ErrNotFired is returned when snoozing a record that has not fired.
	ErrNotFired = errors.New("only a fired reminder can be snoozed")

	// ErrNotActive is returned when cancelling a record that is not
	// active.
	ErrNotActive = errors.New("only an active reminder can be cancelled")
)

// RemoteUnavailableError is raised after the gateway exhausts its retries
// against the remote API. It carries the last underlying error.
type RemoteUnavailableError struct {
	Op       string
	Attempts int
	Err      error
}

func (e *RemoteUnavailableError) Error() string {
	return fmt.Sprintf("remote unavailable: %s failed after %d attempts: %v", e.Op, e.Attempts, e.Err)
}

func (e *RemoteUnavailableError) Unwrap() error {
	return e.Err
}

// RemoteRejectedError is a terminal failure: the server will never accept
// the request unmodified (malformed input, auth failure). It is surfaced
// immediately without exhausting retries.
type RemoteRejectedError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *RemoteRejectedError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote rejected %s (status %d): %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("remote rejected %s (status %d)", e.Op, e.StatusCode)
}

// IsRemoteUnavailable reports whether err wraps a RemoteUnavailableError.
func IsRemoteUnavailable(err error) bool {
	var target *RemoteUnavailableError
	return errors.As(err, &target)
}

// IsRemoteRejected reports whether err wraps a RemoteRejectedError.
func IsRemoteRejected(err error) bool {
	var target *RemoteRejectedError
	return errors.As(err, &target)
}
