package app

import (
	"time"

	"github.com/gekko3d/snowman/snowrt/core"
)

// frameClock splits a frame into CPU work and the GPU drain that follows
// submission. Time spent between pause and resume is not counted.
type frameClock struct {
	now       func() time.Time
	mark      time.Time
	cpu       time.Duration
	submitted time.Time
}

func newFrameClock(now func() time.Time) *frameClock {
	return &frameClock{now: now, mark: now()}
}

func (c *frameClock) pause() {
	c.cpu += c.now().Sub(c.mark)
}

func (c *frameClock) resume() {
	c.mark = c.now()
}

// submit closes the CPU span. Call it right before Queue.Submit.
func (c *frameClock) submit() {
	c.submitted = c.now()
	c.cpu += c.submitted.Sub(c.mark)
}

// drained is called once the queue has been polled empty.
func (c *frameClock) drained() core.FrameTiming {
	return core.FrameTiming{CPU: c.cpu, GPU: c.now().Sub(c.submitted)}
}
