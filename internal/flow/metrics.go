package flow

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels recorded for finished flows.
const (
	OutcomeSuccess     = "success"
	OutcomeUnknown     = "unknown"
	OutcomeError       = "error"
	OutcomeStartFailed = "start_failed"
	OutcomePollFailed  = "poll_failed"
	OutcomeReset       = "reset"
)

// Metrics records flow activity. A nil *Metrics records nothing.
type Metrics struct {
	FlowsStarted prometheus.Counter
	Outcomes     *prometheus.CounterVec
	StartRetries prometheus.Counter
	PollTicks    *prometheus.CounterVec
	FlowDuration prometheus.Histogram
}

// NewMetrics builds flow metrics and registers them when reg is non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FlowsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "facekiosk_flows_started_total",
			Help: "Recognition flows started by the user.",
		}),
		Outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "facekiosk_flow_outcomes_total",
			Help: "Finished recognition flows by outcome.",
		}, []string{"outcome"}),
		StartRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "facekiosk_start_retries_total",
			Help: "Start-recognition attempts repeated after a failure.",
		}),
		PollTicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "facekiosk_poll_ticks_total",
			Help: "Result polls by reply kind.",
		}, []string{"result"}),
		FlowDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "facekiosk_flow_duration_seconds",
			Help:    "Time from start to terminal render.",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34, 60},
		}),
	}
	if reg != nil {
		reg.MustRegister(m.FlowsStarted, m.Outcomes, m.StartRetries, m.PollTicks, m.FlowDuration)
	}
	return m
}

func (m *Metrics) flowStarted() {
	if m == nil {
		return
	}
	m.FlowsStarted.Inc()
}

func (m *Metrics) flowFinished(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Outcomes.WithLabelValues(outcome).Inc()
	if outcome != OutcomeReset {
		m.FlowDuration.Observe(elapsed.Seconds())
	}
}

func (m *Metrics) startRetried() {
	if m == nil {
		return
	}
	m.StartRetries.Inc()
}

func (m *Metrics) pollTick(result string) {
	if m == nil {
		return
	}
	m.PollTicks.WithLabelValues(result).Inc()
}
