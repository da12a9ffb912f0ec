package protocol

import "time"

// EventType discriminates messages on the watch stream.
type EventType string

const (
	// EventTick is emitted once per countdown second.
	EventTick EventType = "tick"
	// EventPhase marks a scheduler phase transition.
	EventPhase EventType = "phase"
	// EventTerminal is the final message of a run.
	EventTerminal EventType = "terminal"
)

// Event is a single scheduler notification, serialized as JSON on the
// websocket watch stream.
type Event struct {
	Type  EventType `json:"type"`
	RunID string    `json:"run_id"`
	At    time.Time `json:"at"`

	// Tick fields.
	Cycle            int     `json:"cycle,omitempty"`
	RemainingSeconds int     `json:"remaining_seconds,omitempty"`
	Percent          float64 `json:"percent,omitempty"`

	// Phase / terminal fields.
	Phase   string `json:"phase,omitempty"`
	Message string `json:"message,omitempty"`
}
