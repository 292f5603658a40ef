package recognition

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultStartTimeout bounds POST /start_recognition.
	DefaultStartTimeout = 10 * time.Second
	// DefaultPollTimeout bounds each GET /check_result.
	DefaultPollTimeout = 5 * time.Second
	// DefaultHealthTimeout bounds GET /health.
	DefaultHealthTimeout = 5 * time.Second
)

// Options configures a Client.
type Options struct {
	// RoutePrefix is prepended to the recognition routes, e.g. "/api".
	// The health route is never prefixed.
	RoutePrefix   string
	StartTimeout  time.Duration
	PollTimeout   time.Duration
	HealthTimeout time.Duration
	HTTPClient    *http.Client
}

// Client talks to the recognition service over HTTP.
type Client struct {
	baseURL       string
	prefix        string
	client        *http.Client
	startTimeout  time.Duration
	pollTimeout   time.Duration
	healthTimeout time.Duration
}

// New constructs a client for the given base URL.
func New(baseURL string, opts Options) *Client {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	prefix := strings.TrimRight(strings.TrimSpace(opts.RoutePrefix), "/")
	if prefix != "" && !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		prefix:        prefix,
		client:        client,
		startTimeout:  orDefault(opts.StartTimeout, DefaultStartTimeout),
		pollTimeout:   orDefault(opts.PollTimeout, DefaultPollTimeout),
		healthTimeout: orDefault(opts.HealthTimeout, DefaultHealthTimeout),
	}
}

// BaseURL returns the service base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// StartRecognition asks the service to capture and recognize a face.
// A reply other than "processing" is returned as a *StatusError.
func (c *Client) StartRecognition(ctx context.Context) (StartResponse, error) {
	var res StartResponse
	path := c.prefix + "/start_recognition"
	if err := c.do(ctx, http.MethodPost, path, c.startTimeout, &res); err != nil {
		return StartResponse{}, err
	}
	if res.Status != StatusProcessing {
		return res, &StatusError{Status: res.Status, Message: res.Message}
	}
	return res, nil
}

// CheckResult fetches the current recognition result.
func (c *Client) CheckResult(ctx context.Context) (Result, error) {
	var res Result
	if err := c.do(ctx, http.MethodGet, c.prefix+"/check_result", c.pollTimeout, &res); err != nil {
		return Result{}, err
	}
	return res, nil
}

// Health fetches the service diagnostics.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var res Health
	if err := c.do(ctx, http.MethodGet, "/health", c.healthTimeout, &res); err != nil {
		return Health{}, err
	}
	return res, nil
}

// ResolveURL resolves a redirect reference against the base URL.
func (c *Client) ResolveURL(ref string) (string, error) {
	base, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	target, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parse redirect url: %w", err)
	}
	return base.ResolveReference(target).String(), nil
}

func (c *Client) do(ctx context.Context, method, path string, timeout time.Duration, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return &TransportError{Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return &TransportError{Path: path, Err: err}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Path: path, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TransportError{Path: path, StatusCode: resp.StatusCode, Err: decodeHTTPError(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &MalformedError{Path: path, Err: err}
	}
	return nil
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func decodeHTTPError(body []byte) error {
	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err == nil {
		if resp.Error != "" {
			return errors.New(resp.Error)
		}
		if resp.Message != "" {
			return errors.New(resp.Message)
		}
	}
	return nil
}

func orDefault(value, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return value
}
