package diagnostics

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"facekiosk/internal/flow"
)

// StateSource exposes the live controller state.
type StateSource interface {
	Screen() flow.Screen
	State() flow.FlowState
	FlowID() string
}

// Config captures the settings for the diagnostics endpoint.
type Config struct {
	Addr     string
	Gatherer prometheus.Gatherer
	Source   StateSource
	Logger   *zap.Logger
}

// StateResponse is the body of GET /state.
type StateResponse struct {
	FlowID          string     `json:"flow_id,omitempty"`
	Phase           flow.Phase `json:"phase"`
	IsProcessing    bool       `json:"is_processing"`
	RetryCount      int        `json:"retry_count"`
	PollActive      bool       `json:"poll_active"`
	CountdownActive bool       `json:"countdown_active"`
	RetryPending    bool       `json:"retry_pending"`
	RedirectPending bool       `json:"redirect_pending"`
	CountdownValue  *int       `json:"countdown_value,omitempty"`
	StatusMessage   string     `json:"status_message,omitempty"`
	ResultMessage   string     `json:"result_message,omitempty"`
	ResultTone      flow.Tone  `json:"result_tone,omitempty"`
	RedirectURL     string     `json:"redirect_url,omitempty"`
}

// NewHandler builds the router for /healthz, /state and /metrics.
func NewHandler(cfg Config) (http.Handler, error) {
	if cfg.Source == nil {
		return nil, errors.New("diagnostics: state source is required")
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(10 * time.Second))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, logger, map[string]string{"status": "ok"})
	})
	r.Get("/state", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, logger, snapshot(cfg.Source))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	return r, nil
}

// snapshot reads the controller into a StateResponse.
func snapshot(source StateSource) StateResponse {
	screen := source.Screen()
	state := source.State()
	resp := StateResponse{
		FlowID:          source.FlowID(),
		Phase:           screen.Phase,
		IsProcessing:    state.IsProcessing,
		RetryCount:      state.RetryCount,
		PollActive:      state.PollActive(),
		CountdownActive: state.CountdownActive(),
		RetryPending:    state.RetryPending(),
		RedirectPending: state.RedirectPending(),
		StatusMessage:   screen.StatusMessage,
		RedirectURL:     screen.RedirectURL,
	}
	if screen.CountdownVisible {
		value := screen.CountdownValue
		resp.CountdownValue = &value
	}
	if screen.ResultVisible {
		resp.ResultMessage = screen.ResultMessage
		resp.ResultTone = screen.ResultTone
	}
	return resp
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, body any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("diagnostics response encode failed", zap.Error(err))
	}
}
