package flow

import (
	"errors"

	"facekiosk/pkg/recognition"
)

var (
	// ErrBusy is returned by Start while a countdown or recognition is running.
	ErrBusy = errors.New("flow: recognition already in progress")
	// ErrNotReady is returned by Start while a result is shown; Reset first.
	ErrNotReady = errors.New("flow: reset required before starting again")
)

// User-facing messages.
const (
	MessageRetrying       = "Retrying (%d/%d)..."
	MessageStartFailed    = "Could not start face recognition"
	MessageUnreachable    = "Could not reach the server"
	MessagePollFailed     = "Could not reach the server. Please try again."
	MessageMalformed      = "Unexpected response from the server"
	MessageRecognized     = "Face recognized"
	MessageNotRecognized  = "Face not recognized"
	MessageRecognitionErr = "Recognition failed"
	MessageTimedOut       = "No face captured in time"
)

// startFailureMessage picks the terminal message for an exhausted start.
func startFailureMessage(err error) string {
	var statusErr *recognition.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Message != "" {
			return statusErr.Message
		}
		return MessageStartFailed
	}
	if errors.Is(err, recognition.ErrMalformed) {
		return MessageStartFailed
	}
	return MessageUnreachable
}

// pollFailureMessage picks the terminal message for a failed poll tick.
func pollFailureMessage(err error) string {
	if errors.Is(err, recognition.ErrMalformed) {
		return MessageMalformed
	}
	return MessagePollFailed
}
