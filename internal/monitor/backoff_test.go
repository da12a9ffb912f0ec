package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBackoffGrowsAndClamps(t *testing.T) {
	b := newBackoff()
	for i := 0; i < 10; i++ {
		d := b.nextDelay()
		assert.GreaterOrEqual(t, d, b.min)
		assert.LessOrEqual(t, d, b.max)
		if i >= 6 {
			// Deep into the sequence every delay sits at the cap, jitter aside.
			assert.Greater(t, d, b.max/2)
		}
	}
}

func TestBackoffReset(t *testing.T) {
	b := newBackoff()
	for i := 0; i < 6; i++ {
		b.nextDelay()
	}
	b.Reset()
	d := b.nextDelay()
	assert.Less(t, d, 2*b.min)
}

func TestBackoffWaitStops(t *testing.T) {
	b := newBackoff()
	stop := make(chan struct{})
	close(stop)
	assert.False(t, b.Wait(stop))
}
