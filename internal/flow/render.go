package flow

import (
	"encoding/base64"
	"strings"

	"go.uber.org/zap"

	"facekiosk/pkg/recognition"
)

// layout is where a terminal result is shown.
type layout int

const (
	// layoutResult shows the face panel and hides the live capture.
	layoutResult layout = iota
	// layoutStatus shows the message in the status line.
	layoutStatus
)

// outcome describes how one terminal status is rendered.
type outcome struct {
	label    string
	layout   layout
	tone     Tone
	redirect bool
	fallback string
}

var outcomes = map[recognition.Status]outcome{
	recognition.StatusSuccess: {label: OutcomeSuccess, layout: layoutResult, tone: ToneSuccess, redirect: true, fallback: MessageRecognized},
	recognition.StatusUnknown: {label: OutcomeUnknown, layout: layoutResult, tone: ToneWarning, fallback: MessageNotRecognized},
	recognition.StatusError:   {label: OutcomeError, layout: layoutStatus, tone: ToneError, fallback: MessageRecognitionErr},
	recognition.StatusTimeout: {label: OutcomeError, layout: layoutStatus, tone: ToneError, fallback: MessageTimedOut},
}

// unexpectedOutcome renders any other non-null status.
var unexpectedOutcome = outcome{label: OutcomeError, layout: layoutStatus, tone: ToneError, fallback: MessageRecognitionErr}

func outcomeFor(status recognition.Status) outcome {
	if o, ok := outcomes[status]; ok {
		return o
	}
	return unexpectedOutcome
}

// renderLocked maps a terminal result to exactly one screen arrangement.
func (c *Controller) renderLocked(result recognition.Result) {
	o := outcomeFor(result.Status)
	message := strings.TrimSpace(result.Message)
	if message == "" {
		message = o.fallback
	}
	switch o.layout {
	case layoutResult:
		c.screen.ResultVisible = true
		c.screen.ResultTone = o.tone
		c.screen.ResultMessage = message
		c.screen.FaceImage = c.decodeFace(result.FaceData)
		c.screen.CaptureVisible = false
		c.screen.StartVisible = false
		c.screen.ResetVisible = true
		c.screen.StatusMessage = ""
		c.screen.StatusTone = ToneNeutral
	case layoutStatus:
		c.showErrorLocked(message)
	}
	c.screen.Phase = PhaseResult
	c.screen.ProcessingVisible = false
	c.state.IsProcessing = false
	c.state.RetryCount = 0
	if o.redirect && strings.TrimSpace(result.RedirectURL) != "" {
		c.scheduleRedirectLocked(strings.TrimSpace(result.RedirectURL))
	}
	c.presentLocked()
	c.finishFlowLocked(o.label)
}

// renderPollFailureLocked surfaces a failed poll immediately.
func (c *Controller) renderPollFailureLocked(err error) {
	c.showErrorLocked(pollFailureMessage(err))
	c.screen.Phase = PhaseResult
	c.screen.ProcessingVisible = false
	c.state.IsProcessing = false
	c.state.RetryCount = 0
	c.presentLocked()
	c.finishFlowLocked(OutcomePollFailed)
}

func (c *Controller) showErrorLocked(message string) {
	c.screen.StatusMessage = message
	c.screen.StatusTone = ToneError
	c.screen.StartVisible = true
	c.screen.ResetVisible = true
}

// scheduleRedirectLocked navigates to target after the display delay.
func (c *Controller) scheduleRedirectLocked(target string) {
	c.state.redirect.Cancel()
	h := &Handle{}
	c.state.redirect = h
	c.screen.RedirectURL = target
	h.timer = c.clock.AfterFunc(c.cfg.RedirectDelay, func() {
		c.mu.Lock()
		if c.state.redirect != h {
			c.mu.Unlock()
			return
		}
		c.state.redirect = nil
		c.mu.Unlock()
		c.logger.Info("navigating", zap.String("target", target))
		c.nav.Navigate(target)
	})
}

func (c *Controller) decodeFace(data string) []byte {
	data = strings.TrimSpace(data)
	if data == "" {
		return nil
	}
	if idx := strings.Index(data, ";base64,"); idx >= 0 {
		data = data[idx+len(";base64,"):]
	}
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		c.logger.Warn("discarding undecodable face image", zap.Error(err))
		return nil
	}
	return decoded
}
