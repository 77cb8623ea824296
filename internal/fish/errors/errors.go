package errors

import "errors"

var (
	ErrNotFound = errors.New("fish not found")

	ErrAlreadyExists = errors.New("fish already exists")

	// ErrStoreUnavailable is returned when the store root itself cannot be
	// reached, as opposed to a single record being missing or unreadable.
	ErrStoreUnavailable = errors.New("fish store unavailable")

	ErrInvalidID = errors.New("invalid fish identifier")
)
