package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/pulsegraph/pkg/domain"
)

type checkpoint struct {
	press  int64
	counts domain.Counts
}

// RunBounded returns the pulses sent over the given number of presses,
// starting from the initial state.
//
// The state after every press is fingerprinted. Once a state repeats, the run
// is periodic: whole periods are added arithmetically and only the remainder
// is simulated. If no state repeats before presses is reached the counts come
// from direct simulation. If presses exceeds the safety bound and no state
// repeats within it, ErrBoundExceeded is returned.
func (e *Engine) RunBounded(ctx context.Context, presses int64) (*domain.BoundedResult, error) {
	if presses < 0 {
		return nil, fmt.Errorf("press count must not be negative, got %d", presses)
	}
	e.Reset()

	seen := map[Fingerprint]checkpoint{e.graph.Fingerprint(): {}}
	var total domain.Counts

	for i := int64(1); i <= presses; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c, err := e.press(ctx)
		if err != nil {
			return nil, err
		}
		total = total.Add(c)

		fp := e.graph.Fingerprint()
		prev, ok := seen[fp]
		if !ok {
			if i >= e.maxTriggers && i < presses {
				return nil, fmt.Errorf("no repeated state within %d presses: %w", e.maxTriggers, domain.ErrBoundExceeded)
			}
			seen[fp] = checkpoint{press: i, counts: total}
			continue
		}

		period := domain.Period{Start: prev.press, Length: i - prev.press}
		e.logger.Debug("period detected", "start", period.Start, "length", period.Length, "press", i)
		if e.hooks.OnPeriod != nil {
			e.hooks.OnPeriod(ctx, &domain.PeriodEvent{Type: domain.EventPeriod, Press: i, Period: period})
		}

		remaining := presses - i
		total, ok = scaleAdd(total, total.Sub(prev.counts), remaining/period.Length)
		if !ok {
			return nil, fmt.Errorf("pulse counts after %d presses overflow int64: %w", presses, domain.ErrBoundExceeded)
		}
		rest, err := e.Press(ctx, remaining%period.Length)
		if err != nil {
			return nil, err
		}
		total, ok = scaleAdd(total, rest, 1)
		if !ok {
			return nil, fmt.Errorf("pulse counts after %d presses overflow int64: %w", presses, domain.ErrBoundExceeded)
		}
		return &domain.BoundedResult{
			Presses:   presses,
			Counts:    total,
			Period:    &period,
			Simulated: e.presses,
		}, nil
	}

	return &domain.BoundedResult{
		Presses:   presses,
		Counts:    total,
		Simulated: e.presses,
	}, nil
}
