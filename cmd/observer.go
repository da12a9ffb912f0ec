package cmd

import (
	"time"

	"github.com/systemsleep/sleepctl/internal/scheduler"
	"github.com/systemsleep/sleepctl/internal/ui"
)

// consoleObserver renders scheduler progress on the terminal. It is only
// ever called from the run goroutine, in order, so it needs no locking.
type consoleObserver struct {
	ticking bool
}

func (o *consoleObserver) OnTick(cycle int, remaining time.Duration, percent float64) {
	o.ticking = true
	ui.Countdown(cycle, remaining, percent)
}

func (o *consoleObserver) OnPhaseChange(phase scheduler.Phase, message string) {
	o.endCountdownLine()
	ui.Info("%s", message)
}

func (o *consoleObserver) OnTerminal(phase scheduler.Phase, message string) {
	o.endCountdownLine()
	switch phase {
	case scheduler.Completed:
		ui.Success("%s", message)
	case scheduler.Cancelled:
		ui.Warn("%s", message)
	default:
		ui.Error("%s", message)
	}
}

func (o *consoleObserver) endCountdownLine() {
	if o.ticking {
		ui.EndCountdown()
		o.ticking = false
	}
}
