package tui_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/pulsegraph/internal/presentation/tui"
	"github.com/aretw0/pulsegraph/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestReports_Bounded(t *testing.T) {
	r := tui.NewReports(language.English)

	got := r.Bounded(&domain.BoundedResult{
		Presses:   1000,
		Counts:    domain.Counts{Low: 4250, High: 2750},
		Period:    &domain.Period{Start: 0, Length: 4},
		Simulated: 4,
	})
	assert.Contains(t, got, "# Pulses after 1,000 presses")
	assert.Contains(t, got, "| low | 4,250 |")
	assert.Contains(t, got, "| high | 2,750 |")
	assert.Contains(t, got, "**11,687,500**")
	assert.Contains(t, got, "every 4 presses from press 0")

	huge := r.Bounded(&domain.BoundedResult{Counts: domain.Counts{Low: 1 << 40, High: 1 << 40}})
	assert.Contains(t, huge, "**1208925819614629174706176**")
	assert.NotContains(t, huge, "State repeats")
}

func TestReports_Target(t *testing.T) {
	r := tui.NewReports(language.English)

	got := r.Target(&domain.TargetResult{
		Target:  "rx",
		Choke:   "gate",
		Signals: []domain.SignalFiring{{Source: "ia", First: 3733}, {Source: "ib", First: 3797}},
		Presses: 14173801,
	})
	assert.Contains(t, got, "`rx`")
	assert.Contains(t, got, "**14,173,801**")
	assert.Contains(t, got, "| ia | 3,733 |")
	assert.NotContains(t, got, "observed directly")

	direct := r.Target(&domain.TargetResult{Target: "rx", Presses: 1, Direct: true})
	assert.Contains(t, direct, "observed directly")
	assert.NotContains(t, direct, "Inputs of")
}

func TestReports_Presses(t *testing.T) {
	r := tui.NewReports(language.English)
	got := r.Presses([]tui.PressRow{
		{Press: 1, Counts: domain.Counts{Low: 4, High: 4}, Fingerprint: "0a"},
		{Press: 2, Counts: domain.Counts{Low: 4, High: 2}, Fingerprint: "05"},
	})
	assert.Contains(t, got, "| 1 | 4 | 4 | `0a` |")
	assert.Contains(t, got, "| 2 | 4 | 2 | `05` |")
}

func TestRenderer(t *testing.T) {
	render, err := tui.NewRenderer(80)
	require.NoError(t, err)
	out, err := render("# Title\n\nbody")
	require.NoError(t, err)
	assert.Contains(t, out, "body")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "1.2.3")
	assert.Contains(t, buf.String(), "┌─┐┬ ┬┬")
	assert.Contains(t, buf.String(), "1.2.3")
}
