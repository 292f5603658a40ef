package config

import (
	"strings"

	"facekiosk/internal/flow"
	"facekiosk/pkg/recognition"
)

// Default values applied by Normalize.
const (
	DefaultBaseURL  = "http://localhost:5000"
	DefaultLogLevel = "info"
	DefaultLogFile  = "facekiosk.log"
)

// Normalize trims values and fills unset fields with defaults.
func Normalize(cfg *Config) {
	cfg.Service.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Service.BaseURL), "/")
	if cfg.Service.BaseURL == "" {
		cfg.Service.BaseURL = DefaultBaseURL
	}
	cfg.Service.RoutePrefix = strings.TrimSpace(cfg.Service.RoutePrefix)
	if cfg.Service.StartTimeout == 0 {
		cfg.Service.StartTimeout = Duration(recognition.DefaultStartTimeout)
	}
	if cfg.Service.PollTimeout == 0 {
		cfg.Service.PollTimeout = Duration(recognition.DefaultPollTimeout)
	}

	if cfg.Flow.CountdownSeconds == 0 {
		cfg.Flow.CountdownSeconds = flow.DefaultCountdownSeconds
	}
	if cfg.Flow.PollInterval == 0 {
		cfg.Flow.PollInterval = Duration(flow.DefaultPollInterval)
	}
	if cfg.Flow.MaxRetries == nil {
		maxRetries := flow.DefaultMaxRetries
		cfg.Flow.MaxRetries = &maxRetries
	}
	if cfg.Flow.RetryDelay == 0 {
		cfg.Flow.RetryDelay = Duration(flow.DefaultRetryDelay)
	}
	if cfg.Flow.RedirectDelay == 0 {
		cfg.Flow.RedirectDelay = Duration(flow.DefaultRedirectDelay)
	}

	cfg.UI.Mode = strings.ToLower(strings.TrimSpace(cfg.UI.Mode))
	if cfg.UI.Mode == "" {
		cfg.UI.Mode = UIModeAuto
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	cfg.Log.File = strings.TrimSpace(cfg.Log.File)
	if cfg.Log.File == "" {
		cfg.Log.File = DefaultLogFile
	}
	cfg.Diagnostics.ListenAddr = strings.TrimSpace(cfg.Diagnostics.ListenAddr)
}
