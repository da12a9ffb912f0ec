package scheduler

import "errors"

var (
	// ErrInvalidRequest marks a request rejected before any state transition.
	ErrInvalidRequest = errors.New("invalid schedule request")

	// ErrPermissionDenied means the precheck refused the capability; the
	// run never started. The wrapped message carries the diagnostic.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrAlreadyRunning enforces single-flight: at most one active run per
	// scheduler instance.
	ErrAlreadyRunning = errors.New("a run is already active")
)
