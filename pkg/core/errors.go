package core

import "errors"

// Common errors.
var (
	// ErrMalformedField marks a record under a known prefix whose payload could not be decoded.
	ErrMalformedField = errors.New("malformed field")
	// ErrPersistence marks a failed upsert against the remote store.
	ErrPersistence = errors.New("persistence failed")
	// ErrNotFound is returned when an entity id is unknown to the board.
	ErrNotFound = errors.New("not found")
	// ErrInvalidStatus is returned for status values outside the known set.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrInvalidKind is returned for item kinds outside the known set.
	ErrInvalidKind = errors.New("invalid kind")
	// ErrNotActivated is returned by mutations that need groups before the board has any.
	ErrNotActivated = errors.New("board not activated")
	// ErrUnknownAdapter is returned when a store adapter name is not registered.
	ErrUnknownAdapter = errors.New("unknown adapter")
)
