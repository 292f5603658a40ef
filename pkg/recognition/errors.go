package recognition

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport marks failures to reach the service or non-2xx replies.
	ErrTransport = errors.New("recognition: transport failure")
	// ErrMalformed marks reply bodies that could not be decoded.
	ErrMalformed = errors.New("recognition: malformed response")
)

// TransportError wraps a network, timeout or HTTP status failure.
type TransportError struct {
	Path       string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		if e.Err != nil {
			return fmt.Sprintf("%s: http %d: %v", e.Path, e.StatusCode, e.Err)
		}
		return fmt.Sprintf("%s: http %d", e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is matches ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// MalformedError wraps a body decode failure.
type MalformedError struct {
	Path string
	Err  error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Path, e.Err)
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}

// Is matches ErrMalformed.
func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformed
}

// StatusError is an application-level refusal reported by the service.
type StatusError struct {
	Status  Status
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("recognition: unexpected status %q: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("recognition: unexpected status %q", e.Status)
}
