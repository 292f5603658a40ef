package flow

import (
	"fmt"

	"go.uber.org/zap"

	"facekiosk/internal/logging"
)

// attemptStart shows the processing overlay and asks the service to start.
// It runs without the lock and does nothing if the flow epoch has moved on.
func (c *Controller) attemptStart(epoch uint64) {
	c.mu.Lock()
	if epoch != c.epoch {
		c.mu.Unlock()
		return
	}
	c.state.IsProcessing = true
	c.screen.Phase = PhaseProcessing
	c.screen.ProcessingVisible = true
	c.presentLocked()
	ctx := c.ctx
	flowID := c.flowID
	attempt := c.state.RetryCount + 1
	c.mu.Unlock()

	logger := logging.WithOperation(c.logger, "flow.start_recognition", flowID)
	logger.Debug("starting recognition", zap.Int("attempt", attempt))
	_, err := c.service.StartRecognition(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch {
		logger.Debug("dropping start reply for ended flow")
		return
	}
	if err != nil {
		c.handleStartFailureLocked(logging.NewOperationError("flow.start_recognition", flowID, err))
		return
	}
	logger.Debug("recognition processing, polling for result")
	c.startPollingLocked()
}

// handleStartFailureLocked retries a failed start with a fixed delay until
// MaxRetries is spent, then surfaces the failure.
func (c *Controller) handleStartFailureLocked(err error) {
	logger := logging.WithOperation(c.logger, "flow.start_recognition", c.flowID)
	if c.state.RetryCount < c.cfg.MaxRetries {
		c.state.RetryCount++
		logger.Warn("start recognition failed, retrying",
			zap.Error(err),
			zap.Int("retry", c.state.RetryCount),
			zap.Int("max_retries", c.cfg.MaxRetries),
		)
		c.metrics.startRetried()
		c.screen.StatusMessage = fmt.Sprintf(MessageRetrying, c.state.RetryCount, c.cfg.MaxRetries)
		c.screen.StatusTone = ToneError
		c.presentLocked()

		epoch := c.epoch
		h := &Handle{}
		c.state.retry.Cancel()
		c.state.retry = h
		h.timer = c.clock.AfterFunc(c.cfg.RetryDelay, func() {
			c.mu.Lock()
			if c.state.retry != h {
				c.mu.Unlock()
				return
			}
			c.state.retry = nil
			c.mu.Unlock()
			c.attemptStart(epoch)
		})
		return
	}

	logger.Error("start recognition failed", zap.Error(err), zap.Int("retries", c.state.RetryCount))
	c.state.IsProcessing = false
	c.state.RetryCount = 0
	c.screen.Phase = PhaseResult
	c.screen.ProcessingVisible = false
	c.screen.StatusMessage = startFailureMessage(err)
	c.screen.StatusTone = ToneError
	c.screen.StartVisible = true
	c.screen.ResetVisible = true
	c.presentLocked()
	c.finishFlowLocked(OutcomeStartFailed)
}
