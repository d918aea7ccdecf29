// Package cli wires configuration, adapters and presentation for the
// pulsegraph command.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/pulsegraph/internal/config"
	"github.com/aretw0/pulsegraph/internal/logging"
	"github.com/aretw0/pulsegraph/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/term"
)

// App carries what every command needs once flags and config are resolved.
type App struct {
	Input  string
	Config *config.Config
	Logger *slog.Logger
	Out    *Output

	// Metrics and Registry are nil when metrics are disabled.
	Metrics  *observability.Metrics
	Registry *prometheus.Registry
}

// Options are the persistent flags of the root command.
type Options struct {
	Input      string
	ConfigPath string
	// LogLevel overrides log.level from the config when not empty.
	LogLevel string
}

// NewApp loads the config and prepares logging and metrics. Answers go to
// out, logs to stderr.
func NewApp(opts Options, out io.Writer) (*App, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	levelName := cfg.Log.Level
	if opts.LogLevel != "" {
		levelName = opts.LogLevel
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}

	app := &App{
		Input:  opts.Input,
		Config: cfg,
		Logger: logging.NewWithWriter(os.Stderr, level, cfg.Log.JSON),
		Out:    NewOutput(out, IsTerminal(out)),
	}

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m, err := observability.NewMetrics(reg)
		if err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		app.Metrics, app.Registry = m, reg
	}
	return app, nil
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
