package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/pulsegraph/internal/presentation/tui"
	"github.com/aretw0/pulsegraph/internal/validator"
	"github.com/aretw0/pulsegraph/pkg/domain"
	"golang.org/x/term"
	"golang.org/x/text/language"
)

const defaultWidth = 80

// Output prints answers either as rendered Markdown for a terminal or as
// plain key: value lines for scripts. Plain numbers are never grouped.
type Output struct {
	w       io.Writer
	rich    bool
	width   int
	reports *tui.Reports
}

// NewOutput writes to w. rich selects the Markdown rendering.
func NewOutput(w io.Writer, rich bool) *Output {
	o := &Output{w: w, rich: rich, width: defaultWidth, reports: tui.NewReports(language.English)}
	if f, ok := w.(*os.File); ok && rich {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			o.width = width
		}
	}
	return o
}

// Writer returns the underlying writer.
func (o *Output) Writer() io.Writer { return o.w }

// Rich reports whether Markdown rendering is on.
func (o *Output) Rich() bool { return o.rich }

func (o *Output) markdown(md string) error {
	render, err := tui.NewRenderer(o.width)
	if err != nil {
		return err
	}
	out, err := render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(o.w, out)
	return err
}

// Bounded prints a RunBounded answer.
func (o *Output) Bounded(res *domain.BoundedResult) error {
	if o.rich {
		return o.markdown(o.reports.Bounded(res))
	}
	fmt.Fprintf(o.w, "low: %d\nhigh: %d\nproduct: %s\n", res.Counts.Low, res.Counts.High, res.Counts.BigProduct())
	if res.Period != nil {
		fmt.Fprintf(o.w, "period: %d from press %d\n", res.Period.Length, res.Period.Start)
	}
	return nil
}

// Target prints a RunUntilTarget answer.
func (o *Output) Target(res *domain.TargetResult) error {
	if o.rich {
		return o.markdown(o.reports.Target(res))
	}
	fmt.Fprintf(o.w, "target: %s\n", res.Target)
	if res.Choke != "" {
		fmt.Fprintf(o.w, "choke: %s\n", res.Choke)
	}
	for _, s := range res.Signals {
		fmt.Fprintf(o.w, "input %s: %d\n", s.Source, s.First)
	}
	fmt.Fprintf(o.w, "presses: %d\n", res.Presses)
	return nil
}

// Presses prints one row per press.
func (o *Output) Presses(rows []tui.PressRow) error {
	if o.rich {
		return o.markdown(o.reports.Presses(rows))
	}
	for _, r := range rows {
		fmt.Fprintf(o.w, "%d low=%d high=%d fingerprint=%s\n", r.Press, r.Counts.Low, r.Counts.High, r.Fingerprint)
	}
	return nil
}

// Validation prints a graph report. Warnings are always plain lines.
func (o *Output) Validation(r *validator.Report) {
	fmt.Fprintf(o.w, "✓ %d modules: %d flip-flops, %d conjunctions, %d sinks\n",
		r.Modules, r.FlipFlops, r.Conjunctions, len(r.Sinks))
	for _, w := range r.Warnings() {
		fmt.Fprintf(o.w, "warning: %s\n", w)
	}
	if r.Target != "" && r.TargetErr == nil {
		fmt.Fprintf(o.w, "✓ target %s is answerable through %s\n", r.Target, r.Choke)
	}
}
