package repository

import "errors"

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate")
	// ErrStatusConflict is returned by conditional status updates when the
	// row exists but is not in the expected state.
	ErrStatusConflict = errors.New("status conflict")
)
