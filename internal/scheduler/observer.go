package scheduler

import "time"

// Observer receives scheduler notifications, pushed from the run goroutine.
// Progress is strictly ordered and monotonic within a cycle; a terminal
// notification is always the last call for a run. Implementations that feed
// a UI must marshal onto their own event loop rather than mutate shared
// state directly.
type Observer interface {
	OnTick(cycle int, remaining time.Duration, percent float64)
	OnPhaseChange(phase Phase, message string)
	OnTerminal(phase Phase, message string)
}

// MultiObserver fans notifications out to several observers in order.
type MultiObserver []Observer

func (m MultiObserver) OnTick(cycle int, remaining time.Duration, percent float64) {
	for _, o := range m {
		o.OnTick(cycle, remaining, percent)
	}
}

func (m MultiObserver) OnPhaseChange(phase Phase, message string) {
	for _, o := range m {
		o.OnPhaseChange(phase, message)
	}
}

func (m MultiObserver) OnTerminal(phase Phase, message string) {
	for _, o := range m {
		o.OnTerminal(phase, message)
	}
}

// NopObserver discards all notifications.
type NopObserver struct{}

func (NopObserver) OnTick(int, time.Duration, float64) {}
func (NopObserver) OnPhaseChange(Phase, string)        {}
func (NopObserver) OnTerminal(Phase, string)           {}
