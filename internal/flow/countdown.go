package flow

import "time"

// startCountdownLocked shows seconds, then decrements once per second,
// presenting every value down to 0. At 0 it hides the countdown and calls
// onComplete once, without the lock held. Any earlier countdown is cancelled.
func (c *Controller) startCountdownLocked(seconds int, onComplete func()) {
	c.state.countdown.Cancel()
	h := &Handle{}
	c.state.countdown = h
	remaining := seconds
	c.screen.CountdownVisible = true
	c.screen.CountdownValue = remaining
	c.presentLocked()

	var step func()
	step = func() {
		c.mu.Lock()
		if c.state.countdown != h {
			c.mu.Unlock()
			return
		}
		remaining--
		c.screen.CountdownValue = remaining
		c.presentLocked()
		if remaining > 0 {
			h.timer = c.clock.AfterFunc(time.Second, step)
			c.mu.Unlock()
			return
		}
		c.state.countdown = nil
		c.screen.CountdownVisible = false
		c.presentLocked()
		c.mu.Unlock()
		onComplete()
	}
	h.timer = c.clock.AfterFunc(time.Second, step)
}
