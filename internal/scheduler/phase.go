package scheduler

import "fmt"

// Phase is the scheduler's current state. Completed, Failed and Cancelled
// are terminal.
type Phase int

const (
	Counting Phase = iota
	Acting
	Waiting
	Completed
	Failed
	Cancelled
)

func (p Phase) String() string {
	switch p {
	case Counting:
		return "counting"
	case Acting:
		return "acting"
	case Waiting:
		return "waiting"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Terminal reports whether p ends a run.
func (p Phase) Terminal() bool {
	return p == Completed || p == Failed || p == Cancelled
}
