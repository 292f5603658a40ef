package config

import (
	"fmt"
	"net/url"
	"strings"

	"facekiosk/internal/logging"
)

// Issue captures a validation problem with a config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates config validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error renders validation errors as a multi-line string.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

// Validate checks a normalized config.
func Validate(cfg *Config) error {
	var issues []Issue
	add := func(field, message string) {
		issues = append(issues, Issue{Field: field, Message: message})
	}

	if parsed, err := url.Parse(cfg.Service.BaseURL); err != nil || parsed.Host == "" {
		add("service.base_url", fmt.Sprintf("invalid url %q", cfg.Service.BaseURL))
	} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
		add("service.base_url", fmt.Sprintf("unsupported scheme %q", parsed.Scheme))
	}
	if prefix := cfg.Service.RoutePrefix; prefix != "" && !strings.HasPrefix(prefix, "/") {
		add("service.route_prefix", "must start with /")
	}
	if cfg.Service.StartTimeout < 0 {
		add("service.start_timeout", "must be > 0")
	}
	if cfg.Service.PollTimeout < 0 {
		add("service.poll_timeout", "must be > 0")
	}

	if cfg.Flow.CountdownSeconds < 0 {
		add("flow.countdown_seconds", "must be > 0")
	}
	if cfg.Flow.PollInterval < 0 {
		add("flow.poll_interval", "must be > 0")
	}
	if cfg.Flow.MaxRetries != nil && *cfg.Flow.MaxRetries < 0 {
		add("flow.max_retries", "must be >= 0")
	}
	if cfg.Flow.RetryDelay < 0 {
		add("flow.retry_delay", "must be > 0")
	}
	if cfg.Flow.RedirectDelay < 0 {
		add("flow.redirect_delay", "must be > 0")
	}

	switch cfg.UI.Mode {
	case UIModeAuto, UIModeLive, UIModePlain:
	default:
		add("ui.mode", fmt.Sprintf("unsupported mode %q", cfg.UI.Mode))
	}
	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		add("log.level", fmt.Sprintf("unsupported level %q", cfg.Log.Level))
	}

	if len(issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: issues}
}
