// Package inhibit owns the long-lived "prevent sleep" lifecycle: starting a
// tagged platform inhibitor, watching it until cancellation or self-exit,
// terminating it with a bounded grace period, and cleaning up orphans left
// by prior crashed runs.
package inhibit

import (
	"errors"
	"os/exec"
	"time"
)

var (
	// ErrNotFound means no sleep-prevention backend exists on this OS.
	ErrNotFound = errors.New("sleep-prevention backend not available")

	// ErrExited means the inhibitor process ended on its own while being
	// watched.
	ErrExited = errors.New("inhibitor process exited")
)

// Default lifecycle timings.
const (
	defaultPoll  = 250 * time.Millisecond
	defaultGrace = 2 * time.Second
)

// Handle identifies one live inhibitor.
type Handle struct {
	PID       int
	Reason    string
	StartedAt time.Time

	cmd  *exec.Cmd // nil for in-process backends
	done chan struct{}
	stop func(grace time.Duration) error
}

// Done is closed when the inhibitor ends, whether stopped or on its own.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Manager starts, watches, stops and cleans up inhibitors. One inhibitor is
// owned by one Manager at a time.
type Manager struct {
	// Tag identifies this application's inhibitors to the OS. Cleanup only
	// ever touches processes carrying it.
	Tag string

	// Poll is the watch granularity of Wait.
	Poll time.Duration

	// Grace bounds graceful termination before escalating to a kill.
	Grace time.Duration

	execCommand func(name string, arg ...string) *exec.Cmd
	procs       lister
}

// NewManager returns a Manager with production defaults.
func NewManager() *Manager {
	return &Manager{
		Tag:         "sleepctl",
		Poll:        defaultPoll,
		Grace:       defaultGrace,
		execCommand: exec.Command,
		procs:       gopsutilLister{},
	}
}

// Start launches the platform inhibitor with the given reason and reports
// it active. Returns ErrNotFound (wrapped) when the backend is absent.
func (m *Manager) Start(reason string) (*Handle, error) {
	return m.platformStart(reason)
}

// Wait blocks until cancellation is requested or the inhibitor exits on its
// own, whichever comes first. Returns nil on cancellation and ErrExited if
// the process ended by itself.
func (m *Manager) Wait(h *Handle, cancelled func() bool) error {
	poll := m.Poll
	if poll <= 0 {
		poll = defaultPoll
	}
	for {
		if cancelled() {
			return nil
		}
		select {
		case <-h.done:
			return ErrExited
		case <-time.After(poll):
		}
	}
}

// Stop terminates the inhibitor, escalating to a forceful kill if graceful
// termination does not complete within the grace period. Idempotent.
func (m *Manager) Stop(h *Handle) error {
	if h == nil || h.stop == nil {
		return nil
	}
	grace := m.Grace
	if grace <= 0 {
		grace = defaultGrace
	}
	return h.stop(grace)
}
