package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text, color string
}{
	{"  ┌─┐┬ ┬┬  ┌─┐┌─┐┌─┐┬─┐┌─┐┌─┐┬ ┬", "#818cf8"},
	{"  ├─┘│ ││  └─┐├┤ │ ┬├┬┘├─┤├─┘├─┤", "#c084fc"},
	{"  ┴  └─┘┴─┘└─┘└─┘└─┘┴└─┴ ┴┴  ┴ ┴", "#f472b6"},
}

// PrintBanner writes the pulsegraph banner to w, coloured when w is a terminal.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  pulse propagation simulator "+version).Faint())
	fmt.Fprintln(w)
}
