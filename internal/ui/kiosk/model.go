package kiosk

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"facekiosk/internal/flow"
	"facekiosk/pkg/recognition"
)

// Actions are the flow operations bound to keys.
type Actions interface {
	Start() error
	Reset()
	Screen() flow.Screen
}

// HealthFunc queries the recognition service health.
type HealthFunc func(ctx context.Context) (recognition.Health, error)

// Options configures the kiosk UI model.
type Options struct {
	NoColor bool
	Title   string
	BaseURL string
	Health  HealthFunc
	// FaceWidth is the preview width in cells.
	FaceWidth int
	Now       func() time.Time
}

// Model renders the kiosk using Bubble Tea.
type Model struct {
	state   State
	actions Actions
	opts    Options
	screens <-chan flow.Screen
	events  <-chan Event
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	face    string
	faceSrc []byte
}

// NewModel constructs a kiosk model fed by screens and events.
func NewModel(actions Actions, screens <-chan flow.Screen, events <-chan Event, opts Options) Model {
	if opts.Title == "" {
		opts.Title = "Face recognition kiosk"
	}
	if opts.FaceWidth <= 0 {
		opts.FaceWidth = defaultFaceWidth
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	m := Model{
		actions: actions,
		opts:    opts,
		screens: screens,
		events:  events,
		keys:    defaultKeyMap(),
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	screen := flow.InitialScreen()
	if actions != nil {
		screen = actions.Screen()
	}
	return m.applyEvent(Event{Kind: EventScreen, Screen: screen})
}

// Init starts the spinner and waits for the first updates.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForScreen(m.screens), waitForEvent(m.events), m.spinner.Tick)
}

// Update consumes key presses, flow screens and UI events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = typed.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(typed)
	case ScreenMsg:
		m = m.applyEvent(Event{Kind: EventScreen, Screen: typed.Screen})
		return m, waitForScreen(m.screens)
	case EventMsg:
		m = m.applyEvent(typed.Event)
		if typed.Event.Kind == EventNavigate {
			return m, tea.Quit
		}
		if typed.fromChannel {
			return m, waitForEvent(m.events)
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(typed)
		return m, cmd
	}
	return m, nil
}

// View renders the kiosk.
func (m Model) View() string {
	noColor := m.opts.NoColor
	screen := m.state.Screen
	return joinNonEmpty(
		renderHeader(m.opts.Title, m.opts.BaseURL, noColor),
		renderCapture(screen, m.spinner.View(), noColor),
		renderResult(screen, m.face, noColor),
		renderStatus(screen, noColor),
		renderHealth(m.state.Health, noColor),
		renderHint(m.state.Hint, noColor),
		m.help.View(m.keys),
	)
}

// State returns the current UI state.
func (m Model) State() State {
	return m.state
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Start):
		return m, startCmd(m.actions)
	case key.Matches(msg, m.keys.Reset):
		return m, resetCmd(m.actions)
	case key.Matches(msg, m.keys.Health):
		if m.opts.Health == nil {
			return m, nil
		}
		m = m.applyEvent(Event{Kind: EventHealthRequested})
		return m, healthCmd(m.opts.Health, m.opts.Now)
	}
	return m, nil
}

// applyEvent reduces an event and refreshes derived view state.
func (m Model) applyEvent(event Event) Model {
	m.state = Reduce(m.state, event)
	if event.Kind != EventScreen {
		return m
	}
	m.keys = m.keys.forScreen(m.state.Screen)
	face := m.state.Screen.FaceImage
	if len(face) == 0 {
		m.face, m.faceSrc = "", nil
		return m
	}
	if sameBytes(face, m.faceSrc) {
		return m
	}
	rendered, err := renderFace(face, m.opts.FaceWidth, m.opts.NoColor)
	if err != nil {
		rendered = ""
	}
	m.face, m.faceSrc = rendered, face
	return m
}

// ScreenMsg wraps a flow screen for Bubble Tea.
type ScreenMsg struct {
	Screen flow.Screen
}

// EventMsg wraps a UI event for Bubble Tea.
type EventMsg struct {
	Event       Event
	fromChannel bool
}

// waitForScreen blocks until the flow presents a screen.
func waitForScreen(screens <-chan flow.Screen) tea.Cmd {
	return func() tea.Msg {
		if screens == nil {
			return nil
		}
		screen, ok := <-screens
		if !ok {
			return tea.Quit()
		}
		return ScreenMsg{Screen: screen}
	}
}

// waitForEvent blocks until a UI event is available.
func waitForEvent(events <-chan Event) tea.Cmd {
	return func() tea.Msg {
		if events == nil {
			return nil
		}
		event, ok := <-events
		if !ok {
			return tea.Quit()
		}
		return EventMsg{Event: event, fromChannel: true}
	}
}

// startCmd runs Start off the update loop; the resulting screen arrives
// through the presenter.
func startCmd(actions Actions) tea.Cmd {
	return func() tea.Msg {
		if actions == nil {
			return nil
		}
		if err := actions.Start(); err != nil {
			return EventMsg{Event: Event{Kind: EventActionRejected, Err: err}}
		}
		return nil
	}
}

func resetCmd(actions Actions) tea.Cmd {
	return func() tea.Msg {
		if actions != nil {
			actions.Reset()
		}
		return nil
	}
}

func healthCmd(check HealthFunc, now func() time.Time) tea.Cmd {
	return func() tea.Msg {
		health, err := check(context.Background())
		return EventMsg{Event: Event{Kind: EventHealth, Health: health, Err: err, At: now()}}
	}
}

// sameBytes reports whether a and b share the same backing array and length.
// Published face images are never mutated, so identity is enough.
func sameBytes(a, b []byte) bool {
	return len(a) == len(b) && len(a) > 0 && &a[0] == &b[0]
}
