package observability

import (
	"context"
	"net/http"
	"time"

	"github.com/aretw0/pulsegraph/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors fed by the lifecycle hooks.
type Metrics struct {
	Triggers        prometheus.Counter
	Pulses          *prometheus.CounterVec
	Periods         prometheus.Counter
	FirstFiring     *prometheus.GaugeVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		Triggers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pulsegraph_triggers_total",
			Help: "Total number of button presses simulated",
		}),
		Pulses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pulsegraph_pulses_total",
				Help: "Total number of pulses delivered, by type",
			},
			[]string{"type"},
		),
		Periods: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pulsegraph_periods_detected_total",
			Help: "Number of bounded queries that found a repeated state",
		}),
		FirstFiring: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pulsegraph_signal_first_firing",
				Help: "Press at which a choke point input first sent a high pulse",
			},
			[]string{"source"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pulsegraph_http_request_duration_seconds",
				Help:    "Duration of HTTP API requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}
	for _, c := range []prometheus.Collector{m.Triggers, m.Pulses, m.Periods, m.FirstFiring, m.RequestDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTrigger: func(_ context.Context, e *domain.TriggerEvent) {
			m.Triggers.Inc()
			m.Pulses.WithLabelValues(domain.Low.String()).Add(float64(e.Counts.Low))
			m.Pulses.WithLabelValues(domain.High.String()).Add(float64(e.Counts.High))
		},
		OnPeriod: func(_ context.Context, _ *domain.PeriodEvent) {
			m.Periods.Inc()
		},
		OnSignal: func(_ context.Context, e *domain.SignalEvent) {
			m.FirstFiring.WithLabelValues(e.Source).Set(float64(e.Press))
		},
	}
}

// Middleware times every request, labelled with its chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		m.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
