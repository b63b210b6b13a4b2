package objdb

import "errors"

// Sentinel error kinds, matching the taxonomy spec.md §7 defines for query
// and request failures. Wrapped with fmt.Errorf("...: %w", ErrX) at the
// point of failure so callers can classify with errors.Is, the way the
// teacher's internal/daemon/errors.go classifies connection failures.
var (
	// ErrNotFound is returned when a named database, table, record, or
	// endpoint does not exist.
	ErrNotFound = errors.New("objdb: not found")

	// ErrParse is returned when a request body, condition list, or column
	// value fails to parse.
	ErrParse = errors.New("objdb: parse error")

	// ErrSchema is returned when a request violates a table's schema: a
	// missing required column, a not-null violation, a duplicate unique
	// value, or a type mismatch against a column's declared kind.
	ErrSchema = errors.New("objdb: schema violation")

	// ErrIO is returned when a filesystem operation against the data
	// directory fails.
	ErrIO = errors.New("objdb: io error")

	// ErrLock is returned when a non-blocking lock acquisition fails
	// because the lock is already held (spec.md §5, "try" lock mode).
	ErrLock = errors.New("objdb: locked")

	// ErrNotImplemented is returned by query kinds the original declares
	// but never implements (update_table, update_record), matching
	// spec.md §4.7's explicit stub behavior.
	ErrNotImplemented = errors.New("objdb: not implemented")
)
