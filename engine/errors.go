package engine

import "errors"

var (
	// ErrInvalidPage is returned when a query names a page below 1.
	// No state is mutated; the caller may retry with a corrected page.
	ErrInvalidPage = errors.New("page number must be at least 1")

	// ErrNotFound is returned when a sequence-number lookup fails.
	//
	// Through normal engine use this is unreachable: every group index entry
	// refers to a sequence number the store has assigned. Seeing it from a
	// query means the maintenance invariants are already broken, so callers
	// should treat it as fatal rather than retry.
	ErrNotFound = errors.New("not found")
)
