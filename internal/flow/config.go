package flow

import "time"

const (
	DefaultCountdownSeconds = 3
	DefaultPollInterval     = time.Second
	DefaultMaxRetries       = 3
	DefaultRetryDelay       = time.Second
	DefaultRedirectDelay    = 1500 * time.Millisecond
)

// Config holds the timing and retry constants of a flow.
type Config struct {
	CountdownSeconds int
	PollInterval     time.Duration
	MaxRetries       int
	RetryDelay       time.Duration
	RedirectDelay    time.Duration
}

// DefaultConfig returns the stock kiosk timings.
func DefaultConfig() Config {
	return Config{
		CountdownSeconds: DefaultCountdownSeconds,
		PollInterval:     DefaultPollInterval,
		MaxRetries:       DefaultMaxRetries,
		RetryDelay:       DefaultRetryDelay,
		RedirectDelay:    DefaultRedirectDelay,
	}
}

// normalized fills unset values. MaxRetries of zero disables retries.
func (c Config) normalized() Config {
	if c.CountdownSeconds <= 0 {
		c.CountdownSeconds = DefaultCountdownSeconds
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.RedirectDelay <= 0 {
		c.RedirectDelay = DefaultRedirectDelay
	}
	return c
}
