package flow

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"facekiosk/internal/clock"
	"facekiosk/pkg/recognition"
)

// Service is the subset of the recognition client used by a flow.
type Service interface {
	StartRecognition(ctx context.Context) (recognition.StartResponse, error)
	CheckResult(ctx context.Context) (recognition.Result, error)
}

// Options wires a Controller's collaborators.
type Options struct {
	Config    Config
	Clock     clock.Clock
	Presenter Presenter
	Navigator Navigator
	Logger    *zap.Logger
	Metrics   *Metrics
	// NewFlowID overrides flow id generation.
	NewFlowID func() string
}

// Controller drives the countdown, start, poll and render cycle.
// All state changes are serialized by mu; network calls run unlocked and
// their completions are dropped when the flow they belong to has ended.
type Controller struct {
	cfg       Config
	service   Service
	clock     clock.Clock
	view      Presenter
	nav       Navigator
	logger    *zap.Logger
	metrics   *Metrics
	newFlowID func() string

	mu        sync.Mutex
	state     FlowState
	screen    Screen
	epoch     uint64
	flowID    string
	startedAt time.Time
	ctx       context.Context
	cancel    context.CancelFunc
}

// New constructs a controller showing the initial screen.
func New(service Service, opts Options) *Controller {
	c := &Controller{
		cfg:       opts.Config.normalized(),
		service:   service,
		clock:     opts.Clock,
		view:      opts.Presenter,
		nav:       opts.Navigator,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		newFlowID: opts.NewFlowID,
		screen:    InitialScreen(),
		ctx:       context.Background(),
	}
	if c.clock == nil {
		c.clock = clock.Real()
	}
	if c.view == nil {
		c.view = nopPresenter{}
	}
	if c.nav == nil {
		c.nav = nopNavigator{}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	c.logger = c.logger.Named("flow")
	if c.newFlowID == nil {
		c.newFlowID = uuid.NewString
	}
	return c
}

// Start begins a flow with the countdown.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busyLocked() {
		return ErrBusy
	}
	if !c.screen.StartVisible {
		return ErrNotReady
	}
	c.beginFlowLocked()

	c.screen.Phase = PhaseCountdown
	c.screen.StartVisible = false
	c.screen.ResetVisible = true
	c.screen.CaptureVisible = true
	c.screen.ResultVisible = false
	c.screen.ResultMessage = ""
	c.screen.ResultTone = ToneNeutral
	c.screen.FaceImage = nil
	c.screen.StatusMessage = ""
	c.screen.StatusTone = ToneNeutral
	c.screen.RedirectURL = ""

	epoch := c.epoch
	c.startCountdownLocked(c.cfg.CountdownSeconds, func() {
		c.attemptStart(epoch)
	})
	return nil
}

// Reset cancels every live timer and request and restores the initial screen.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	wasActive := c.busyLocked()
	c.state.cancelTimers()
	c.state = FlowState{}
	c.epoch++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if wasActive {
		c.finishFlowLocked(OutcomeReset)
	}
	c.flowID = ""
	if c.screen.IsInitial() {
		return
	}
	c.logger.Debug("flow reset")
	c.screen = InitialScreen()
	c.presentLocked()
}

// Screen returns the current visual arrangement.
func (c *Controller) Screen() Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.screen
}

// State returns a copy of the flow state.
func (c *Controller) State() FlowState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// FlowID returns the id of the current or last flow, if any.
func (c *Controller) FlowID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flowID
}

func (c *Controller) busyLocked() bool {
	return c.state.IsProcessing ||
		c.state.countdown != nil ||
		c.state.retry != nil ||
		c.screen.Phase == PhaseCountdown ||
		c.screen.Phase == PhaseProcessing
}

// beginFlowLocked opens a new flow epoch with its own request context.
func (c *Controller) beginFlowLocked() {
	c.state.cancelTimers()
	c.state = FlowState{}
	c.epoch++
	if c.cancel != nil {
		c.cancel()
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.flowID = c.newFlowID()
	c.startedAt = c.clock.Now()
	c.metrics.flowStarted()
	c.logger.Info("flow started", zap.String("flow_id", c.flowID))
}

// finishFlowLocked records the outcome and releases the request context.
// Timers owned by the finished flow (a pending redirect) stay live.
func (c *Controller) finishFlowLocked(outcome string) {
	elapsed := c.clock.Now().Sub(c.startedAt)
	c.metrics.flowFinished(outcome, elapsed)
	c.logger.Info("flow finished",
		zap.String("flow_id", c.flowID),
		zap.String("outcome", outcome),
		zap.Duration("elapsed", elapsed),
	)
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.ctx = context.Background()
}

func (c *Controller) presentLocked() {
	c.view.Present(c.screen)
}
