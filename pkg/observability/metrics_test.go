package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/pulsegraph/pkg/domain"
	"github.com/aretw0/pulsegraph/pkg/observability"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	hooks := m.Hooks()
	ctx := context.Background()
	hooks.OnTrigger(ctx, &domain.TriggerEvent{Press: 1, Counts: domain.Counts{Low: 4, High: 4}})
	hooks.OnTrigger(ctx, &domain.TriggerEvent{Press: 2, Counts: domain.Counts{Low: 4, High: 2}})
	hooks.OnPeriod(ctx, &domain.PeriodEvent{Press: 4, Period: domain.Period{Length: 4}})
	hooks.OnSignal(ctx, &domain.SignalEvent{Source: "ia", Press: 3})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Triggers))
	assert.Equal(t, 8.0, testutil.ToFloat64(m.Pulses.WithLabelValues("low")))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.Pulses.WithLabelValues("high")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Periods))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.FirstFiring.WithLabelValues("ia")))
}

func TestMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)
}

func TestMetrics_Middleware(t *testing.T) {
	m, err := observability.NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/graph/{format}", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graph/mermaid", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestDuration))
}

func TestCombine(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{
		OnTrigger: func(context.Context, *domain.TriggerEvent) { calls = append(calls, "a") },
	}
	b := domain.LifecycleHooks{
		OnTrigger: func(context.Context, *domain.TriggerEvent) { calls = append(calls, "b") },
		OnSignal:  func(context.Context, *domain.SignalEvent) { calls = append(calls, "b-signal") },
	}

	hooks := observability.Combine(a, domain.LifecycleHooks{}, b)
	hooks.OnTrigger(context.Background(), &domain.TriggerEvent{})
	hooks.OnSignal(context.Background(), &domain.SignalEvent{})
	assert.Nil(t, hooks.OnPeriod)
	assert.Equal(t, []string{"a", "b", "b-signal"}, calls)
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	hooks := observability.LoggingHooks(logger)
	hooks.OnPeriod(context.Background(), &domain.PeriodEvent{Press: 4, Period: domain.Period{Start: 0, Length: 4}})
	hooks.OnSignal(context.Background(), &domain.SignalEvent{Source: "ia", Press: 3})

	assert.Contains(t, buf.String(), "msg=period")
	assert.Contains(t, buf.String(), "length=4")
	assert.Contains(t, buf.String(), "source=ia")
}
