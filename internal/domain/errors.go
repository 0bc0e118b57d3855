package domain

import "errors"

var (
	// ErrNotFound means the requested record does not exist in the store.
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable means the store cannot be reached; no further
	// computation is meaningful and the error is surfaced to the caller.
	ErrStoreUnavailable = errors.New("store unavailable")
)
