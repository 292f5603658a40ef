package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FACEKIOSK_"

// Load reads the YAML file at path, applies .env and environment overrides,
// then normalizes and validates. A missing file is an error only when
// required is set; otherwise defaults are used.
func Load(path string, required bool) (Config, error) {
	var cfg Config
	if path == "" {
		path = DefaultFileName
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !required:
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	_ = godotenv.Load()
	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	Normalize(&cfg)
	if err := Validate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg from FACEKIOSK_* variables found by lookup.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	var issues []Issue
	get := func(name string) (string, bool) {
		value, ok := lookup(EnvPrefix + name)
		if !ok {
			return "", false
		}
		return strings.TrimSpace(value), true
	}
	duration := func(name string, target *Duration) {
		raw, ok := get(name)
		if !ok {
			return
		}
		parsed, err := ParseDuration(raw)
		if err != nil {
			issues = append(issues, Issue{Field: EnvPrefix + name, Message: err.Error()})
			return
		}
		*target = Duration(parsed)
	}
	integer := func(name string, target func(int)) {
		raw, ok := get(name)
		if !ok {
			return
		}
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			issues = append(issues, Issue{Field: EnvPrefix + name, Message: fmt.Sprintf("invalid integer %q", raw)})
			return
		}
		target(parsed)
	}

	if value, ok := get("BASE_URL"); ok {
		cfg.Service.BaseURL = value
	}
	if value, ok := get("ROUTE_PREFIX"); ok {
		cfg.Service.RoutePrefix = value
	}
	duration("START_TIMEOUT", &cfg.Service.StartTimeout)
	duration("POLL_TIMEOUT", &cfg.Service.PollTimeout)
	integer("COUNTDOWN_SECONDS", func(v int) { cfg.Flow.CountdownSeconds = v })
	duration("POLL_INTERVAL", &cfg.Flow.PollInterval)
	integer("MAX_RETRIES", func(v int) { cfg.Flow.MaxRetries = &v })
	duration("RETRY_DELAY", &cfg.Flow.RetryDelay)
	duration("REDIRECT_DELAY", &cfg.Flow.RedirectDelay)
	if value, ok := get("UI_MODE"); ok {
		cfg.UI.Mode = value
	}
	if value, ok := get("NO_COLOR"); ok {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			issues = append(issues, Issue{Field: EnvPrefix + "NO_COLOR", Message: fmt.Sprintf("invalid boolean %q", value)})
		} else {
			cfg.UI.NoColor = parsed
		}
	}
	if value, ok := get("LOG_LEVEL"); ok {
		cfg.Log.Level = value
	}
	if value, ok := get("LOG_FILE"); ok {
		cfg.Log.File = value
	}
	if value, ok := get("METRICS_ADDR"); ok {
		cfg.Diagnostics.ListenAddr = value
	}

	if len(issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: issues}
}
