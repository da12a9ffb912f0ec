package power

import (
	"fmt"
	"time"
)

// Status classifies the result of invoking a capability.
type Status int

const (
	// Success means the platform accepted and executed the command.
	Success Status = iota
	// Failure means the command ran and reported an error.
	Failure
	// TimedOut means the command did not return within the configured
	// timeout and was killed.
	TimedOut
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case Failure:
		return "failure"
	case TimedOut:
		return "timed-out"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Outcome is the result of one capability invocation.
type Outcome struct {
	Status  Status
	Message string
}

// Succeeded returns a Success outcome.
func Succeeded() Outcome {
	return Outcome{Status: Success}
}

// Failed returns a Failure outcome with the given message.
func Failed(format string, a ...any) Outcome {
	return Outcome{Status: Failure, Message: fmt.Sprintf(format, a...)}
}

// TimedOutAfter returns a TimedOut outcome naming the timeout that expired.
func TimedOutAfter(d time.Duration) Outcome {
	return Outcome{
		Status:  TimedOut,
		Message: fmt.Sprintf("sleep command timed out after %d seconds", int(d.Seconds())),
	}
}
