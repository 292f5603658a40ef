package kiosk

import (
	"time"

	"facekiosk/internal/flow"
	"facekiosk/pkg/recognition"
)

// EventKind identifies the type of kiosk UI event.
type EventKind int

const (
	// EventScreen delivers a new screen arrangement from the flow.
	EventScreen EventKind = iota
	// EventHealthRequested marks a health check as in flight.
	EventHealthRequested
	// EventHealth delivers a health check reply or failure.
	EventHealth
	// EventNavigate signals that the flow is leaving the kiosk.
	EventNavigate
	// EventActionRejected carries an error from a start or reset key.
	EventActionRejected
)

// Event carries a UI update payload.
type Event struct {
	Kind   EventKind
	Screen flow.Screen
	Health recognition.Health
	Err    error
	Target string
	At     time.Time
}
