package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"facekiosk/internal/config"
)

// uiModeDecision says which presenter a run uses and what to tell the
// operator when the requested one is unavailable.
type uiModeDecision struct {
	useLive bool
	warning string
}

var (
	isTerminal = fileIsTerminal
	lookupEnv  = os.LookupEnv
)

// resolveUIMode picks the presenter for a run. Single-shot runs print plain
// lines so their output can be captured.
func resolveUIMode(mode string, once bool, stdout io.Writer) (uiModeDecision, error) {
	requested := strings.ToLower(strings.TrimSpace(mode))
	if requested == "" {
		requested = config.UIModeAuto
	}
	if requested != config.UIModeAuto && requested != config.UIModeLive && requested != config.UIModePlain {
		return uiModeDecision{}, fmt.Errorf("invalid ui mode %q (expected auto|live|plain)", mode)
	}
	if once || requested == config.UIModePlain {
		return uiModeDecision{}, nil
	}
	reason := liveUnavailable(stdout)
	switch {
	case reason == "":
		return uiModeDecision{useLive: true}, nil
	case requested == config.UIModeLive:
		return uiModeDecision{warning: "Live kiosk requested but " + reason + "; falling back to plain output."}, nil
	default:
		return uiModeDecision{}, nil
	}
}

// liveUnavailable explains why the live kiosk cannot draw on stdout, or
// returns "" when it can.
func liveUnavailable(stdout io.Writer) string {
	if !isTerminal(stdout) {
		return "stdout is not a TTY"
	}
	if value, ok := lookupEnv("TERM"); ok && value == "dumb" {
		return "TERM=dumb cannot draw the kiosk"
	}
	return ""
}

func fileIsTerminal(w io.Writer) bool {
	fd, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(fd.Fd()))
}
