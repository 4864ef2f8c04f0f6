// Package types defines the data structures shared across the credman
// package.
package types

import (
	"time"
)

// Credential is a named secret, typically the bearer token of a remote
// reminder account. The Value field is stored encrypted when persisted
// by the Manager.
type Credential struct {
	// Name is the credential's unique identifier, e.g. "api_token".
	Name string
	// Value is the secret itself, encrypted at rest.
	Value string
	// Server is the base URL of the service the credential belongs to.
	Server string
	// UpdatedAt is the time of the last Set or Update.
	UpdatedAt time.Time
}
