package monitor

import (
	"time"

	"github.com/systemsleep/sleepctl/internal/protocol"
	"github.com/systemsleep/sleepctl/internal/scheduler"
)

// Broadcaster adapts the scheduler's Observer interface onto a Server,
// converting notifications into protocol events. The scheduler goroutine
// never touches a websocket directly; Publish hands off through each
// client's channel.
type Broadcaster struct {
	runID string
	srv   *Server
}

// NewBroadcaster creates a Broadcaster for one run.
func NewBroadcaster(runID string, srv *Server) *Broadcaster {
	return &Broadcaster{runID: runID, srv: srv}
}

func (b *Broadcaster) OnTick(cycle int, remaining time.Duration, percent float64) {
	b.srv.Publish(protocol.Event{
		Type:             protocol.EventTick,
		RunID:            b.runID,
		At:               time.Now(),
		Cycle:            cycle,
		RemainingSeconds: int(remaining / time.Second),
		Percent:          percent,
	})
}

// Status broadcasts a lifecycle message for runs without a countdown, such
// as prevent mode holding an inhibitor.
func (b *Broadcaster) Status(message string) {
	b.srv.Publish(protocol.Event{
		Type:    protocol.EventPhase,
		RunID:   b.runID,
		At:      time.Now(),
		Phase:   scheduler.Waiting.String(),
		Message: message,
	})
}

func (b *Broadcaster) OnPhaseChange(phase scheduler.Phase, message string) {
	b.srv.Publish(protocol.Event{
		Type:    protocol.EventPhase,
		RunID:   b.runID,
		At:      time.Now(),
		Phase:   phase.String(),
		Message: message,
	})
}

func (b *Broadcaster) OnTerminal(phase scheduler.Phase, message string) {
	b.srv.Publish(protocol.Event{
		Type:    protocol.EventTerminal,
		RunID:   b.runID,
		At:      time.Now(),
		Phase:   phase.String(),
		Message: message,
	})
}
