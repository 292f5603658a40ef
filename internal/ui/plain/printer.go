package plain

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"facekiosk/internal/flow"
)

// Outcome is how a flow left the kiosk: a terminal screen, plus the
// navigation target when it redirected.
type Outcome struct {
	Screen flow.Screen
	Target string
}

// Succeeded reports whether the flow recognized a face.
func (o Outcome) Succeeded() bool {
	return o.Screen.ResultVisible && o.Screen.ResultTone == flow.ToneSuccess
}

// Printer writes screen changes as lines and implements flow.Presenter and
// flow.Navigator.
type Printer struct {
	mu       sync.Mutex
	out      io.Writer
	last     flow.Screen
	outcomes chan Outcome
}

// NewPrinter writes to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{
		out:      out,
		last:     flow.InitialScreen(),
		outcomes: make(chan Outcome, 4),
	}
}

// Outcomes delivers finished flows.
func (p *Printer) Outcomes() <-chan Outcome {
	return p.outcomes
}

// Present prints what changed since the previous screen.
func (p *Printer) Present(screen flow.Screen) {
	p.mu.Lock()
	defer p.mu.Unlock()
	prev := p.last
	p.last = screen
	for _, line := range diffLines(prev, screen) {
		fmt.Fprintln(p.out, line)
	}
	if screen.Phase == flow.PhaseResult && prev.Phase != flow.PhaseResult && screen.RedirectURL == "" {
		p.emit(Outcome{Screen: screen})
	}
}

// Navigate prints the redirect target and ends the flow.
func (p *Printer) Navigate(target string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "redirect: %s\n", target)
	p.emit(Outcome{Screen: p.last, Target: target})
}

// Println writes a free-form line.
func (p *Printer) Println(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, line)
}

// emit delivers an outcome without blocking the presenting goroutine.
func (p *Printer) emit(outcome Outcome) {
	select {
	case p.outcomes <- outcome:
	default:
	}
}

// diffLines renders the transitions between two screens.
func diffLines(prev, next flow.Screen) []string {
	var lines []string
	if next.IsInitial() {
		if !prev.IsInitial() {
			lines = append(lines, "ready")
		}
		return lines
	}
	if next.CountdownVisible && (!prev.CountdownVisible || prev.CountdownValue != next.CountdownValue) {
		lines = append(lines, fmt.Sprintf("countdown: %d", next.CountdownValue))
	}
	if next.ProcessingVisible && !prev.ProcessingVisible {
		lines = append(lines, "recognizing...")
	}
	if next.StatusMessage != "" && next.StatusMessage != prev.StatusMessage {
		lines = append(lines, fmt.Sprintf("%s: %s", toneLabel(next.StatusTone, "status"), next.StatusMessage))
	}
	if next.ResultVisible && (!prev.ResultVisible || next.ResultMessage != prev.ResultMessage) {
		lines = append(lines, fmt.Sprintf("result: %s: %s", toneLabel(next.ResultTone, "result"), next.ResultMessage))
		if len(next.FaceImage) > 0 {
			lines = append(lines, fmt.Sprintf("face: %d bytes", len(next.FaceImage)))
		}
	}
	if next.RedirectURL != "" && next.RedirectURL != prev.RedirectURL {
		lines = append(lines, "redirecting to "+next.RedirectURL)
	}
	return lines
}

// toneLabel names a tone for line output.
func toneLabel(tone flow.Tone, fallback string) string {
	switch tone {
	case flow.ToneSuccess:
		return "success"
	case flow.ToneWarning:
		return "warning"
	case flow.ToneError:
		return "error"
	}
	return strings.ToLower(fallback)
}
