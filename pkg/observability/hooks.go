package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/pulsegraph/pkg/domain"
)

// LoggingHooks logs every lifecycle event. Triggers are frequent and go to
// Debug; periods and signals go to Info.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTrigger: func(ctx context.Context, e *domain.TriggerEvent) {
			logger.DebugContext(ctx, "trigger", "press", e.Press, "low", e.Counts.Low, "high", e.Counts.High)
		},
		OnPeriod: func(ctx context.Context, e *domain.PeriodEvent) {
			logger.InfoContext(ctx, "period", "press", e.Press, "start", e.Period.Start, "length", e.Period.Length)
		},
		OnSignal: func(ctx context.Context, e *domain.SignalEvent) {
			logger.InfoContext(ctx, "signal", "source", e.Source, "press", e.Press)
		},
	}
}

// Combine fans every event out to all hooks, in order.
func Combine(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range hooks {
		if h.OnTrigger != nil {
			prev, next := out.OnTrigger, h.OnTrigger
			out.OnTrigger = func(ctx context.Context, e *domain.TriggerEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				next(ctx, e)
			}
		}
		if h.OnPeriod != nil {
			prev, next := out.OnPeriod, h.OnPeriod
			out.OnPeriod = func(ctx context.Context, e *domain.PeriodEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				next(ctx, e)
			}
		}
		if h.OnSignal != nil {
			prev, next := out.OnSignal, h.OnSignal
			out.OnSignal = func(ctx context.Context, e *domain.SignalEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				next(ctx, e)
			}
		}
	}
	return out
}
