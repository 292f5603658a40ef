package flow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"facekiosk/internal/testutil"
	"facekiosk/pkg/recognition"
)

var errNetwork = &recognition.TransportError{Path: "/start_recognition", Err: errors.New("connection refused")}

// stubService replays scripted replies. Once a script is exhausted the last
// entry repeats; an empty result script answers pending.
type stubService struct {
	mu         sync.Mutex
	startErrs  []error
	results    []stubResult
	startCalls int
	checkCalls int
	onStart    func()
	onCheck    func()
}

type stubResult struct {
	result recognition.Result
	err    error
}

func (s *stubService) StartRecognition(ctx context.Context) (recognition.StartResponse, error) {
	s.mu.Lock()
	s.startCalls++
	var err error
	if len(s.startErrs) > 0 {
		err = s.startErrs[0]
		if len(s.startErrs) > 1 {
			s.startErrs = s.startErrs[1:]
		}
	}
	hook := s.onStart
	s.mu.Unlock()
	if hook != nil {
		hook()
	}
	if err != nil {
		return recognition.StartResponse{}, err
	}
	return recognition.StartResponse{Status: recognition.StatusProcessing}, nil
}

func (s *stubService) CheckResult(ctx context.Context) (recognition.Result, error) {
	s.mu.Lock()
	s.checkCalls++
	var next stubResult
	if len(s.results) > 0 {
		next = s.results[0]
		if len(s.results) > 1 {
			s.results = s.results[1:]
		}
	}
	hook := s.onCheck
	s.mu.Unlock()
	if hook != nil {
		hook()
	}
	return next.result, next.err
}

func (s *stubService) calls() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startCalls, s.checkCalls
}

// recorder collects presented screens and navigations.
type recorder struct {
	mu          sync.Mutex
	screens     []Screen
	navigations []string
}

func (r *recorder) Present(screen Screen) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.screens = append(r.screens, screen)
}

func (r *recorder) Navigate(target string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.navigations = append(r.navigations, target)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.screens)
}

func (r *recorder) last() Screen {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.screens) == 0 {
		return Screen{}
	}
	return r.screens[len(r.screens)-1]
}

func (r *recorder) navigated() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.navigations...)
}

func (r *recorder) countdownValues() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var values []int
	for _, screen := range r.screens {
		if !screen.CountdownVisible {
			continue
		}
		if len(values) > 0 && values[len(values)-1] == screen.CountdownValue {
			continue
		}
		values = append(values, screen.CountdownValue)
	}
	return values
}

type harness struct {
	ctrl    *Controller
	clock   *testutil.FakeClock
	service *stubService
	view    *recorder
	metrics *Metrics
}

func testConfig() Config {
	return Config{
		CountdownSeconds: 3,
		PollInterval:     time.Second,
		MaxRetries:       3,
		RetryDelay:       time.Second,
		RedirectDelay:    1500 * time.Millisecond,
	}
}

func newHarness(t *testing.T, service *stubService, cfg Config) *harness {
	t.Helper()
	clk := testutil.NewFakeClock(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC))
	view := &recorder{}
	metrics := NewMetrics(nil)
	ctrl := New(service, Options{
		Config:    cfg,
		Clock:     clk,
		Presenter: view,
		Navigator: view,
		Logger:    zap.NewNop(),
		Metrics:   metrics,
		NewFlowID: func() string { return "flow-test" },
	})
	return &harness{ctrl: ctrl, clock: clk, service: service, view: view, metrics: metrics}
}

// startAndAcknowledge runs the countdown so the start request has been sent.
func (h *harness) startAndAcknowledge(t *testing.T) {
	t.Helper()
	if err := h.ctrl.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	h.clock.Advance(3 * time.Second)
}

func success(message, face, redirect string) stubResult {
	return stubResult{result: recognition.Result{
		Status:      recognition.StatusSuccess,
		Message:     message,
		FaceData:    face,
		RedirectURL: redirect,
	}}
}

func pending() stubResult {
	return stubResult{}
}
