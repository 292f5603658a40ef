package kiosk

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"facekiosk/internal/flow"
)

// Program hosts the kiosk UI and implements flow.Presenter and flow.Navigator.
type Program struct {
	opts    Options
	screens chan flow.Screen
	events  chan Event

	mu     sync.Mutex
	target string
}

// NewProgram prepares a kiosk UI. Screens presented before Run are kept,
// latest first.
func NewProgram(opts Options) *Program {
	return &Program{
		opts:    opts,
		screens: make(chan flow.Screen, 1),
		events:  make(chan Event, 16),
	}
}

// Run shows the kiosk until the user quits, the flow navigates away or ctx
// ends. It returns the navigation target, if any.
func (p *Program) Run(ctx context.Context, actions Actions, stdout io.Writer, stdin io.Reader) (string, error) {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stdin == nil {
		stdin = os.Stdin
	}
	model := NewModel(actions, p.screens, p.events, p.opts)
	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithOutput(stdout),
		tea.WithInput(stdin),
		tea.WithAltScreen(),
	)
	_, err := program.Run()
	if err != nil && !(errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil) {
		return p.Target(), err
	}
	return p.Target(), nil
}

// Present replaces any undelivered screen with screen without blocking.
func (p *Program) Present(screen flow.Screen) {
	for {
		select {
		case p.screens <- screen:
			return
		default:
		}
		select {
		case <-p.screens:
		default:
		}
	}
}

// Navigate records the redirect target and closes the UI.
func (p *Program) Navigate(target string) {
	p.mu.Lock()
	p.target = target
	p.mu.Unlock()
	p.send(Event{Kind: EventNavigate, Target: target})
}

// Target returns the navigation target, if the flow navigated.
func (p *Program) Target() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.target
}

// send enqueues an event without blocking the caller.
func (p *Program) send(event Event) {
	select {
	case p.events <- event:
	default:
	}
}
