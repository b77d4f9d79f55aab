package backend

import (
	"sync"
	"time"
)

// coalescer bounds the refresh rate: one scheduled trigger at a time, any
// request arriving while one is pending is dropped rather than
// re-scheduled. A burst of change events therefore costs one refresh.
type coalescer struct {
	delay time.Duration
	fire  func()

	mu      sync.Mutex
	pending bool
	stopped bool
	timer   *time.Timer
}

func newCoalescer(delay time.Duration, fire func()) *coalescer {
	return &coalescer{delay: delay, fire: fire}
}

// trigger schedules fire after the delay unless a trigger is already
// pending. Returns whether this call scheduled anything.
func (c *coalescer) trigger() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped || c.pending {
		return false
	}
	c.pending = true
	c.timer = time.AfterFunc(c.delay, func() {
		c.mu.Lock()
		c.pending = false
		stopped := c.stopped
		c.mu.Unlock()
		if !stopped {
			c.fire()
		}
	})
	return true
}

func (c *coalescer) stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	if c.timer != nil {
		c.timer.Stop()
	}
	c.pending = false
}
