package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// steppedClock returns the given offsets from a fixed origin, one per call.
func steppedClock(offsets ...time.Duration) func() time.Time {
	origin := time.Unix(1000, 0)
	i := 0
	return func() time.Time {
		t := origin.Add(offsets[i])
		i++
		return t
	}
}

func TestFrameClockExcludesAcquireWait(t *testing.T) {
	ms := time.Millisecond
	c := newFrameClock(steppedClock(0, 2*ms, 18*ms, 20*ms, 25*ms))

	c.pause()  // 2ms: uploads done, acquire starts
	c.resume() // 18ms: vsync released the surface texture
	c.submit() // 20ms
	timing := c.drained()

	assert.Equal(t, 4*ms, timing.CPU)
	assert.Equal(t, 5*ms, timing.GPU)
}

func TestFrameClockWithoutPause(t *testing.T) {
	ms := time.Millisecond
	c := newFrameClock(steppedClock(0, 3*ms, 3*ms))
	c.submit()
	timing := c.drained()
	assert.Equal(t, 3*ms, timing.CPU)
	assert.Equal(t, time.Duration(0), timing.GPU)
}
