package kiosk

import (
	"errors"

	"facekiosk/internal/flow"
	"facekiosk/pkg/recognition"
)

// Reduce applies a UI event to state.
func Reduce(state State, event Event) State {
	switch event.Kind {
	case EventScreen:
		state.Screen = event.Screen
		if event.Screen.Phase != flow.PhaseIdle {
			state.Hint = ""
		}
	case EventHealthRequested:
		state.Health.Visible = true
		state.Health.Loading = true
		state.Health.Error = ""
	case EventHealth:
		state.Health.Visible = true
		state.Health.Loading = false
		state.Health.CheckedAt = event.At
		if event.Err != nil {
			state.Health.Error = event.Err.Error()
			state.Health.Health = recognition.Health{}
			break
		}
		state.Health.Error = ""
		state.Health.Health = event.Health
	case EventNavigate:
		state.Navigated = event.Target
	case EventActionRejected:
		state.Hint = hintFor(event.Err)
	}
	return state
}

// hintFor turns a rejected action into a footer hint.
func hintFor(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, flow.ErrBusy):
		return "Recognition already in progress"
	case errors.Is(err, flow.ErrNotReady):
		return "Press r to reset before starting again"
	default:
		return err.Error()
	}
}
