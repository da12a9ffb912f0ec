package scheduler

import (
	"fmt"
	"time"

	"github.com/systemsleep/sleepctl/internal/power"
)

// Default request values, matching the shipped configuration defaults.
const (
	DefaultActionTimeout = 15 * time.Second
	DefaultWakeDelay     = 5 * time.Minute
)

// Request describes one scheduled run. It is immutable for the run's
// duration; the scheduler only reads it.
type Request struct {
	// Capability is the one-shot action to perform each cycle.
	Capability power.Capability

	// InitialDelay is the countdown before the first action. Zero means
	// immediate sleep on the first cycle.
	InitialDelay time.Duration

	// Cycle re-arms the countdown with WakeDelay after each successful
	// action, modeling the machine resuming its sleep cycle after an
	// unintended wake.
	Cycle bool

	// WakeDelay seeds the countdown of every cycle after the first.
	// Must be at least one second when Cycle is set.
	WakeDelay time.Duration

	// ActionTimeout bounds each platform invocation.
	ActionTimeout time.Duration
}

// Validate rejects malformed requests before any state transition.
func (r Request) Validate() error {
	if r.Capability == power.PreventSleep {
		return fmt.Errorf("%w: prevent is driven by the inhibitor manager, not the cycle scheduler", ErrInvalidRequest)
	}
	if r.InitialDelay < 0 {
		return fmt.Errorf("%w: initial delay must not be negative", ErrInvalidRequest)
	}
	if r.Cycle && r.WakeDelay < time.Second {
		return fmt.Errorf("%w: wake delay must be at least 1 second when cycling is enabled", ErrInvalidRequest)
	}
	if r.ActionTimeout <= 0 {
		return fmt.Errorf("%w: action timeout must be positive", ErrInvalidRequest)
	}
	return nil
}
