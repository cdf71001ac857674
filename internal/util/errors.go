package util

import "errors"

// Sentinel errors for common failure modes
var (
	// ErrPermission indicates a file or directory is no longer accessible.
	// Surfaced to the user for an explicit re-grant, never retried.
	ErrPermission = errors.New("permission denied")

	// ErrNotFound indicates a required resource was not found
	ErrNotFound = errors.New("not found")

	// ErrCancelled indicates the user dismissed a folder/file selection.
	// Treated as a no-op by callers, not a failure.
	ErrCancelled = errors.New("cancelled")

	// ErrMigration indicates a schema migration could not complete.
	// Fatal to store open; the store stays at its pre-migration version.
	ErrMigration = errors.New("migration failed")

	// ErrOutOfRange indicates an index outside a format list's bounds
	ErrOutOfRange = errors.New("index out of range")

	// ErrConflict indicates a uniqueness violation (tag name, tag link)
	ErrConflict = errors.New("already exists")
)
