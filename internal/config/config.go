package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"facekiosk/internal/flow"
	"facekiosk/pkg/recognition"
)

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = "facekiosk.yml"

// UI modes accepted by ui.mode.
const (
	UIModeAuto  = "auto"
	UIModeLive  = "live"
	UIModePlain = "plain"
)

// Config describes the facekiosk YAML configuration.
type Config struct {
	Service     ServiceConfig     `yaml:"service"`
	Flow        FlowConfig        `yaml:"flow"`
	UI          UIConfig          `yaml:"ui"`
	Log         LogConfig         `yaml:"log"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`
}

// ServiceConfig locates the recognition service.
type ServiceConfig struct {
	BaseURL      string   `yaml:"base_url"`
	RoutePrefix  string   `yaml:"route_prefix"`
	StartTimeout Duration `yaml:"start_timeout"`
	PollTimeout  Duration `yaml:"poll_timeout"`
}

// FlowConfig holds the countdown, polling and retry timings.
type FlowConfig struct {
	CountdownSeconds int      `yaml:"countdown_seconds"`
	PollInterval     Duration `yaml:"poll_interval"`
	MaxRetries       *int     `yaml:"max_retries"`
	RetryDelay       Duration `yaml:"retry_delay"`
	RedirectDelay    Duration `yaml:"redirect_delay"`
}

// UIConfig selects the presentation.
type UIConfig struct {
	Mode    string `yaml:"mode"`
	NoColor bool   `yaml:"no_color"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DiagnosticsConfig enables the metrics and state endpoint.
type DiagnosticsConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// Default returns a normalized config with every default applied.
func Default() Config {
	var cfg Config
	Normalize(&cfg)
	return cfg
}

// FlowOptions converts the flow section for the controller.
func (c Config) FlowOptions() flow.Config {
	maxRetries := flow.DefaultMaxRetries
	if c.Flow.MaxRetries != nil {
		maxRetries = *c.Flow.MaxRetries
	}
	return flow.Config{
		CountdownSeconds: c.Flow.CountdownSeconds,
		PollInterval:     c.Flow.PollInterval.Std(),
		MaxRetries:       maxRetries,
		RetryDelay:       c.Flow.RetryDelay.Std(),
		RedirectDelay:    c.Flow.RedirectDelay.Std(),
	}
}

// ClientOptions converts the service section for the recognition client.
func (c Config) ClientOptions() recognition.Options {
	return recognition.Options{
		RoutePrefix:  c.Service.RoutePrefix,
		StartTimeout: c.Service.StartTimeout.Std(),
		PollTimeout:  c.Service.PollTimeout.Std(),
	}
}

// Duration is a time.Duration read from a Go duration string such as
// "1.5s". A bare number is taken as seconds.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// String renders the duration in Go syntax.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", value.Line)
	}
	parsed, err := ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

// ParseDuration accepts Go duration strings and bare seconds.
func ParseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	if seconds, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Duration(seconds * float64(time.Second)), nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", raw)
	}
	return parsed, nil
}
