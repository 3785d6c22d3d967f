package storage

import "errors"

// Storage errors shared by all backends.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSyncLocked is returned when an advisory sync lock is already held
	// for the account.
	ErrSyncLocked = errors.New("sync already in progress for account")
)
