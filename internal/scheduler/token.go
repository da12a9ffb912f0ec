package scheduler

import "sync/atomic"

// Token is a level-triggered cancellation flag shared between the run
// goroutine and its caller. It is the only scheduler state written from
// outside the run goroutine. Cancellation is cooperative: the flag is
// polled at tick boundaries and around Acting, never preemptively.
type Token struct {
	cancelled atomic.Bool
}

// NewToken returns an unset Token.
func NewToken() *Token {
	return &Token{}
}

// Cancel requests cancellation. Safe to call from any goroutine, and
// idempotent.
func (t *Token) Cancel() {
	t.cancelled.Store(true)
}

// Cancelled reports whether cancellation has been requested.
func (t *Token) Cancelled() bool {
	return t.cancelled.Load()
}
