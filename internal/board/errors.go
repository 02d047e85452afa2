package board

import "errors"

// Sentinel errors for stable mapping to HTTP status codes at the handler
// layer. Anything not matching one of these is treated as a storage
// failure: logged in full, surfaced to the caller as a generic error.
var (
	// ErrValidation covers missing or malformed input, unknown commands,
	// and delete commands with no valid targets.
	ErrValidation = errors.New("invalid input")

	// ErrPermission indicates the actor's rank is below what the
	// operation requires.
	ErrPermission = errors.New("insufficient permission")

	// ErrRateLimited indicates a resubmission from the same seed inside
	// the minimum inter-post interval.
	ErrRateLimited = errors.New("rate limited")

	// ErrNotFound indicates delete targets resolved to nothing.
	ErrNotFound = errors.New("not found")
)
