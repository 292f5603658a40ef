package kiosk

import (
	"time"

	"facekiosk/internal/flow"
	"facekiosk/pkg/recognition"
)

// HealthPanel holds the diagnostics panel toggled by the health key.
type HealthPanel struct {
	Visible   bool
	Loading   bool
	Health    recognition.Health
	Error     string
	CheckedAt time.Time
}

// State captures everything the kiosk view renders.
type State struct {
	Screen    flow.Screen
	Health    HealthPanel
	Hint      string
	Navigated string
}
