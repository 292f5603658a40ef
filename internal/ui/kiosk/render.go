package kiosk

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"facekiosk/internal/flow"
)

var panelStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	Padding(0, 2)

// renderHeader renders the title line.
func renderHeader(title, baseURL string, noColor bool) string {
	line := title
	if baseURL != "" {
		line += " | " + baseURL
	}
	return stylize(line, noColor, lipgloss.Color("33"))
}

// renderCapture renders the live capture placeholder and any overlay on it.
func renderCapture(screen flow.Screen, spin string, noColor bool) string {
	if !screen.CaptureVisible && !screen.CountdownVisible && !screen.ProcessingVisible {
		return ""
	}
	var lines []string
	if screen.CaptureVisible {
		lines = append(lines, stylize("● camera live", noColor, lipgloss.Color("196"))+"  look at the camera")
	}
	if screen.CountdownVisible {
		lines = append(lines, renderCountdown(screen.CountdownValue, noColor))
	}
	if screen.ProcessingVisible {
		lines = append(lines, spin+" Recognizing face...")
	}
	return panel(strings.Join(lines, "\n"), noColor)
}

// renderCountdown renders the countdown banner.
func renderCountdown(value int, noColor bool) string {
	text := "Get ready: " + strconv.Itoa(value)
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")).Render(text)
}

// renderResult renders the face preview and result message.
func renderResult(screen flow.Screen, face string, noColor bool) string {
	if !screen.ResultVisible {
		return ""
	}
	message := stylizeTone(screen.ResultMessage, screen.ResultTone, noColor)
	if face == "" {
		return panel(message, noColor)
	}
	return panel(lipgloss.JoinVertical(lipgloss.Center, face, "", message), noColor)
}

// renderStatus renders the status line and any scheduled redirect.
func renderStatus(screen flow.Screen, noColor bool) string {
	var lines []string
	if screen.StatusMessage != "" {
		lines = append(lines, stylizeTone(screen.StatusMessage, screen.StatusTone, noColor))
	}
	if screen.RedirectURL != "" {
		lines = append(lines, stylize("Redirecting to "+screen.RedirectURL+"...", noColor, lipgloss.Color("244")))
	}
	return strings.Join(lines, "\n")
}

// renderHealth renders the diagnostics panel.
func renderHealth(panelState HealthPanel, noColor bool) string {
	if !panelState.Visible {
		return ""
	}
	if panelState.Loading {
		return stylize("Health: checking...", noColor, lipgloss.Color("244"))
	}
	if panelState.Error != "" {
		return stylizeTone("Health: "+panelState.Error, flow.ToneError, noColor)
	}
	h := panelState.Health
	camera := "disconnected"
	if h.CameraConnected {
		camera = "connected"
	}
	line := "Health: " + h.Status +
		" | camera " + camera +
		" | known faces " + strconv.Itoa(h.KnownFacesCount)
	if !panelState.CheckedAt.IsZero() {
		line += " | " + panelState.CheckedAt.Format("15:04:05")
	}
	tone := flow.ToneSuccess
	if !h.Healthy() {
		tone = flow.ToneWarning
	}
	return stylizeTone(line, tone, noColor)
}

// renderHint renders a rejected action hint.
func renderHint(hint string, noColor bool) string {
	if hint == "" {
		return ""
	}
	return stylize(hint, noColor, lipgloss.Color("244"))
}

func panel(content string, noColor bool) string {
	style := panelStyle
	if !noColor {
		style = style.BorderForeground(lipgloss.Color("240"))
	}
	return style.Render(content)
}

// stylizeTone applies tone coloring when enabled.
func stylizeTone(text string, tone flow.Tone, noColor bool) string {
	if noColor {
		return text
	}
	return toneStyle(tone).Render(text)
}

// toneStyle selects a style for a given tone.
func toneStyle(tone flow.Tone) lipgloss.Style {
	color := lipgloss.Color("252")
	switch tone {
	case flow.ToneSuccess:
		color = lipgloss.Color("42")
	case flow.ToneWarning:
		color = lipgloss.Color("220")
	case flow.ToneError:
		color = lipgloss.Color("196")
	}
	return lipgloss.NewStyle().Foreground(color).Bold(tone != flow.ToneNeutral)
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

// joinNonEmpty stacks the non-empty sections vertically.
func joinNonEmpty(sections ...string) string {
	kept := sections[:0]
	for _, section := range sections {
		if section != "" {
			kept = append(kept, section)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, kept...)
}
