package plain

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"facekiosk/pkg/recognition"
)

// Actions are the flow operations driven from line input.
type Actions interface {
	Start() error
	Reset()
}

// HealthFunc queries the recognition service health.
type HealthFunc func(ctx context.Context) (recognition.Health, error)

// RunOnce starts one flow and waits for its terminal screen or redirect.
// Cancelling ctx resets the flow.
func RunOnce(ctx context.Context, actions Actions, printer *Printer) (Outcome, error) {
	if err := actions.Start(); err != nil {
		return Outcome{}, fmt.Errorf("start flow: %w", err)
	}
	select {
	case outcome := <-printer.Outcomes():
		return outcome, nil
	case <-ctx.Done():
		actions.Reset()
		return Outcome{}, ctx.Err()
	}
}

// RunInteractive reads commands from in until quit, EOF, a redirect or the
// end of ctx. Commands: start (s), reset (r), health (h), quit (q).
func RunInteractive(ctx context.Context, actions Actions, health HealthFunc, printer *Printer, in io.Reader) (Outcome, error) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	printer.Println("commands: start (s), reset (r), health (h), quit (q)")
	for {
		select {
		case <-ctx.Done():
			actions.Reset()
			return Outcome{}, ctx.Err()
		case outcome := <-printer.Outcomes():
			if outcome.Target != "" {
				return outcome, nil
			}
		case line, ok := <-lines:
			if !ok {
				actions.Reset()
				return Outcome{}, nil
			}
			if quit := handleCommand(ctx, strings.TrimSpace(line), actions, health, printer); quit {
				actions.Reset()
				return Outcome{}, nil
			}
		}
	}
}

// handleCommand runs one input line and reports whether to quit.
func handleCommand(ctx context.Context, command string, actions Actions, health HealthFunc, printer *Printer) bool {
	switch strings.ToLower(command) {
	case "":
		return false
	case "s", "start":
		if err := actions.Start(); err != nil {
			printer.Println("rejected: " + err.Error())
		}
	case "r", "reset":
		actions.Reset()
	case "h", "health":
		if health == nil {
			printer.Println("health: unavailable")
			return false
		}
		printer.Println(FormatHealth(health(ctx)))
	case "q", "quit", "exit":
		return true
	default:
		printer.Println(fmt.Sprintf("unknown command %q", command))
	}
	return false
}

// FormatHealth renders a health reply as one line.
func FormatHealth(h recognition.Health, err error) string {
	if err != nil {
		return "health: " + err.Error()
	}
	camera := "disconnected"
	if h.CameraConnected {
		camera = "connected"
	}
	return fmt.Sprintf("health: %s camera=%s known_faces=%d", h.Status, camera, h.KnownFacesCount)
}
