package engine

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrMalformedEvent marks an event whose payload is missing for its
	// tagged kind. It indicates a normalizer contract violation, so the run
	// aborts rather than skipping the event.
	ErrMalformedEvent = errors.New("malformed event")

	// ErrAlreadyInitialized is returned by Init after the first call.
	ErrAlreadyInitialized = errors.New("engine already initialized")

	// ErrNotRunning is returned by Update outside the RUNNING state.
	ErrNotRunning = errors.New("engine not running")
)
