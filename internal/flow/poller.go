package flow

import (
	"go.uber.org/zap"

	"facekiosk/internal/logging"
)

// startPollingLocked replaces any poll loop with a new one. The first check
// runs one interval from now.
func (c *Controller) startPollingLocked() {
	c.state.poll.Cancel()
	h := &Handle{}
	c.state.poll = h
	c.schedulePollLocked(h)
}

// schedulePollLocked arms the next tick of the loop owned by h.
func (c *Controller) schedulePollLocked(h *Handle) {
	h.timer = c.clock.AfterFunc(c.cfg.PollInterval, func() {
		c.pollTick(h)
	})
}

// pollTick checks the result once. The next tick is armed only after this
// request settles, so checks never overlap.
func (c *Controller) pollTick(h *Handle) {
	c.mu.Lock()
	if c.state.poll != h {
		c.mu.Unlock()
		return
	}
	ctx := c.ctx
	flowID := c.flowID
	c.mu.Unlock()

	result, err := c.service.CheckResult(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.poll != h {
		return
	}
	logger := logging.WithOperation(c.logger, "flow.check_result", flowID)
	if err != nil {
		c.metrics.pollTick("failed")
		c.state.poll = nil
		logger.Error("check result failed", zap.Error(logging.NewOperationError("flow.check_result", flowID, err)))
		c.renderPollFailureLocked(err)
		return
	}
	if result.Pending() {
		c.metrics.pollTick("pending")
		c.schedulePollLocked(h)
		return
	}
	c.metrics.pollTick("terminal")
	c.state.poll = nil
	logger.Info("recognition finished", zap.String("status", string(result.Status)))
	c.screen.ProcessingVisible = false
	c.renderLocked(result)
}
