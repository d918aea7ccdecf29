package tui

import (
	"math/big"
	"strings"

	"github.com/aretw0/pulsegraph/pkg/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PressRow is one line of the press table.
type PressRow struct {
	Press       int64
	Counts      domain.Counts
	Fingerprint string
}

// Reports builds Markdown documents with grouped numbers.
type Reports struct {
	p *message.Printer
}

// NewReports formats numbers for tag, e.g. language.English.
func NewReports(tag language.Tag) *Reports {
	return &Reports{p: message.NewPrinter(tag)}
}

func (r *Reports) big(n *big.Int) string {
	if n.IsInt64() {
		return r.p.Sprintf("%d", n.Int64())
	}
	return n.String()
}

// Bounded renders a RunBounded answer.
func (r *Reports) Bounded(res *domain.BoundedResult) string {
	var sb strings.Builder
	sb.WriteString(r.p.Sprintf("# Pulses after %d presses\n\n", res.Presses))
	sb.WriteString("| pulse | count |\n|---|---:|\n")
	sb.WriteString(r.p.Sprintf("| low | %d |\n", res.Counts.Low))
	sb.WriteString(r.p.Sprintf("| high | %d |\n", res.Counts.High))
	sb.WriteString("| **product** | **" + r.big(res.Counts.BigProduct()) + "** |\n")
	if res.Period != nil {
		sb.WriteString(r.p.Sprintf("\nState repeats every %d presses from press %d; %d presses simulated.\n",
			res.Period.Length, res.Period.Start, res.Simulated))
	}
	return sb.String()
}

// Target renders a RunUntilTarget answer.
func (r *Reports) Target(res *domain.TargetResult) string {
	var sb strings.Builder
	sb.WriteString("# Presses until `" + res.Target + "` receives a low pulse\n\n")
	sb.WriteString(r.p.Sprintf("**%d**", res.Presses))
	if res.Direct {
		sb.WriteString(" (observed directly)")
	}
	sb.WriteString("\n")
	if len(res.Signals) > 0 {
		sb.WriteString("\nInputs of `" + res.Choke + "`:\n\n| input | period |\n|---|---:|\n")
		for _, s := range res.Signals {
			sb.WriteString(r.p.Sprintf("| %s | %d |\n", s.Source, s.First))
		}
	}
	return sb.String()
}

// Presses renders the press table.
func (r *Reports) Presses(rows []PressRow) string {
	var sb strings.Builder
	sb.WriteString("| press | low | high | fingerprint |\n|---:|---:|---:|---|\n")
	for _, row := range rows {
		sb.WriteString(r.p.Sprintf("| %d | %d | %d | `%s` |\n", row.Press, row.Counts.Low, row.Counts.High, row.Fingerprint))
	}
	return sb.String()
}
