// Package common defines shared utilities and sentinel errors used across
// the medguide client core. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Credential errors: expected, user-facing conditions. The UI maps
	// these to localized messages, so they must stay matchable with
	// errors.Is rather than by message text.
	ErrEmailExists   = errors.New("email already registered")
	ErrUserNotFound  = errors.New("user not found")
	ErrWrongPassword = errors.New("wrong password")

	// ErrRegistrationReadback indicates the row inserted by registration
	// could not be read back. Store inconsistency, treated as fatal.
	ErrRegistrationReadback = errors.New("failed to read back registered user")

	// Storage adapter errors.
	ErrStoreUnavailable  = errors.New("store unavailable")
	ErrUnsupportedDriver = errors.New("unsupported driver")
)
