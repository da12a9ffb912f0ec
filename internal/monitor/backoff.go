package monitor

import (
	"math/rand"
	"time"
)

// backoff produces the watcher's reconnect delays: exponential growth from
// min to max, spread by up to ±25% so watchers that lost the same server
// don't redial in lockstep.
type backoff struct {
	min, max time.Duration
	attempt  int
}

func newBackoff() *backoff {
	return &backoff{min: time.Second, max: 30 * time.Second}
}

// Wait blocks for the next delay and returns false if stopped.
func (b *backoff) Wait(stop <-chan struct{}) bool {
	select {
	case <-time.After(b.nextDelay()):
		return true
	case <-stop:
		return false
	}
}

// Reset restarts the sequence after a successful connection.
func (b *backoff) Reset() {
	b.attempt = 0
}

func (b *backoff) nextDelay() time.Duration {
	d := b.min << b.attempt
	if d >= b.max || d <= 0 {
		d = b.max
	} else {
		b.attempt++
	}

	d += time.Duration(rand.Int63n(int64(d)/2)) - d/4
	if d < b.min {
		d = b.min
	}
	if d > b.max {
		d = b.max
	}
	return d
}
