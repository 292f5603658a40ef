package kiosk

import (
	"context"
	"errors"
	"image/color"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"facekiosk/internal/flow"
	"facekiosk/pkg/recognition"
)

type stubActions struct {
	mu       sync.Mutex
	screen   flow.Screen
	startErr error
	starts   int
	resets   int
}

func (s *stubActions) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.starts++
	return s.startErr
}

func (s *stubActions) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resets++
}

func (s *stubActions) Screen() flow.Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screen
}

func runes(value string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(value)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return model, cmd
}

func TestStartKeyRunsStart(t *testing.T) {
	actions := &stubActions{screen: flow.InitialScreen()}
	m := NewModel(actions, nil, nil, Options{NoColor: true})

	_, cmd := update(t, m, runes("s"))
	if cmd == nil {
		t.Fatalf("expected start command")
	}
	if msg := cmd(); msg != nil {
		t.Fatalf("expected no message for accepted start, got %#v", msg)
	}
	if actions.starts != 1 {
		t.Fatalf("expected one start, got %d", actions.starts)
	}

	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected enter to start")
	}
}

func TestStartKeyDisabledWhenHidden(t *testing.T) {
	screen := flow.InitialScreen()
	screen.StartVisible = false
	screen.ResetVisible = true
	actions := &stubActions{screen: screen}
	m := NewModel(actions, nil, nil, Options{NoColor: true})

	if _, cmd := update(t, m, runes("s")); cmd != nil {
		t.Fatalf("start should be disabled while hidden")
	}
	_, cmd := update(t, m, runes("r"))
	if cmd == nil {
		t.Fatalf("expected reset command")
	}
	cmd()
	if actions.resets != 1 {
		t.Fatalf("expected one reset, got %d", actions.resets)
	}
}

func TestRejectedStartShowsHint(t *testing.T) {
	actions := &stubActions{screen: flow.InitialScreen(), startErr: flow.ErrBusy}
	m := NewModel(actions, nil, nil, Options{NoColor: true})

	_, cmd := update(t, m, runes("s"))
	msg := cmd()
	m, _ = update(t, m, msg)
	if m.State().Hint != "Recognition already in progress" {
		t.Fatalf("hint = %q", m.State().Hint)
	}
	if !strings.Contains(m.View(), "Recognition already in progress") {
		t.Fatalf("expected hint in view")
	}
}

func TestScreenMsgUpdatesView(t *testing.T) {
	m := NewModel(&stubActions{screen: flow.InitialScreen()}, nil, nil, Options{NoColor: true})
	if !strings.Contains(m.View(), "camera live") {
		t.Fatalf("expected capture view initially")
	}

	countdown := flow.InitialScreen()
	countdown.Phase = flow.PhaseCountdown
	countdown.StartVisible = false
	countdown.ResetVisible = true
	countdown.CountdownVisible = true
	countdown.CountdownValue = 2
	m, _ = update(t, m, ScreenMsg{Screen: countdown})
	view := m.View()
	if !strings.Contains(view, "Get ready: 2") {
		t.Fatalf("expected countdown in view:\n%s", view)
	}
	if strings.Contains(view, "s/enter") {
		t.Fatalf("start help should be hidden during countdown:\n%s", view)
	}

	result := flow.Screen{
		Phase:         flow.PhaseResult,
		ResultVisible: true,
		ResultTone:    flow.ToneWarning,
		ResultMessage: "Wajah tidak dikenali",
		ResetVisible:  true,
	}
	m, _ = update(t, m, ScreenMsg{Screen: result})
	view = m.View()
	if !strings.Contains(view, "Wajah tidak dikenali") {
		t.Fatalf("expected result message:\n%s", view)
	}
	if strings.Contains(view, "camera live") {
		t.Fatalf("capture view should be hidden:\n%s", view)
	}
}

func TestScreenMsgRendersFace(t *testing.T) {
	m := NewModel(&stubActions{screen: flow.InitialScreen()}, nil, nil, Options{NoColor: true, FaceWidth: 8})
	face := encodePNG(t, 8, 8, color.White)
	screen := flow.Screen{
		Phase:         flow.PhaseResult,
		ResultVisible: true,
		ResultTone:    flow.ToneSuccess,
		ResultMessage: "Welcome",
		FaceImage:     face,
	}
	m, _ = update(t, m, ScreenMsg{Screen: screen})
	if m.face == "" {
		t.Fatalf("expected rendered face")
	}
	if !strings.Contains(m.View(), "@@@@@@@@") {
		t.Fatalf("expected face preview in view:\n%s", m.View())
	}

	m, _ = update(t, m, ScreenMsg{Screen: flow.InitialScreen()})
	if m.face != "" {
		t.Fatalf("expected face cleared")
	}
}

func TestHealthKeyQueriesService(t *testing.T) {
	at := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	health := func(ctx context.Context) (recognition.Health, error) {
		return recognition.Health{CameraConnected: true, KnownFacesCount: 3, Status: "healthy"}, nil
	}
	m := NewModel(&stubActions{screen: flow.InitialScreen()}, nil, nil, Options{
		NoColor: true,
		Health:  health,
		Now:     func() time.Time { return at },
	})

	m, cmd := update(t, m, runes("h"))
	if !m.State().Health.Loading {
		t.Fatalf("expected loading health panel")
	}
	if !strings.Contains(m.View(), "checking") {
		t.Fatalf("expected checking indicator")
	}
	m, _ = update(t, m, cmd())
	view := m.View()
	if !strings.Contains(view, "Health: healthy | camera connected | known faces 3 | 08:00:00") {
		t.Fatalf("unexpected health line:\n%s", view)
	}
}

func TestHealthKeyFailure(t *testing.T) {
	health := func(ctx context.Context) (recognition.Health, error) {
		return recognition.Health{}, errors.New("connection refused")
	}
	m := NewModel(&stubActions{screen: flow.InitialScreen()}, nil, nil, Options{NoColor: true, Health: health})
	m, cmd := update(t, m, runes("h"))
	m, _ = update(t, m, cmd())
	if !strings.Contains(m.View(), "Health: connection refused") {
		t.Fatalf("expected failure in health panel:\n%s", m.View())
	}
}

func TestNavigateQuits(t *testing.T) {
	m := NewModel(&stubActions{screen: flow.InitialScreen()}, nil, nil, Options{NoColor: true})
	m, cmd := update(t, m, EventMsg{Event: Event{Kind: EventNavigate, Target: "/loan"}})
	if m.State().Navigated != "/loan" {
		t.Fatalf("navigated = %q", m.State().Navigated)
	}
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message")
	}
}

func TestQuitKey(t *testing.T) {
	m := NewModel(&stubActions{screen: flow.InitialScreen()}, nil, nil, Options{NoColor: true})
	_, cmd := update(t, m, runes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message")
	}
}
