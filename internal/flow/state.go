package flow

import "facekiosk/internal/clock"

// Handle owns one scheduled controller timer.
type Handle struct {
	timer clock.Timer
}

// Cancel stops the timer. It is safe on nil and repeated calls.
func (h *Handle) Cancel() {
	if h == nil || h.timer == nil {
		return
	}
	h.timer.Stop()
}

// FlowState is the mutable record of one controller.
type FlowState struct {
	IsProcessing bool
	RetryCount   int

	poll      *Handle
	countdown *Handle
	retry     *Handle
	redirect  *Handle
}

// PollActive reports whether a poll loop is live.
func (s FlowState) PollActive() bool {
	return s.poll != nil
}

// CountdownActive reports whether a countdown is live.
func (s FlowState) CountdownActive() bool {
	return s.countdown != nil
}

// RetryPending reports whether a start retry is waiting for its delay.
func (s FlowState) RetryPending() bool {
	return s.retry != nil
}

// RedirectPending reports whether a navigation is scheduled.
func (s FlowState) RedirectPending() bool {
	return s.redirect != nil
}

// cancelTimers releases every live handle.
func (s *FlowState) cancelTimers() {
	s.poll.Cancel()
	s.countdown.Cancel()
	s.retry.Cancel()
	s.redirect.Cancel()
	s.poll = nil
	s.countdown = nil
	s.retry = nil
	s.redirect = nil
}
