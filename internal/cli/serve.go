package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/pulsegraph"
	api "github.com/aretw0/pulsegraph/pkg/adapters/http"
	"github.com/aretw0/pulsegraph/pkg/adapters/mcp"
)

const shutdownTimeout = 5 * time.Second

// Handler builds the HTTP API for sim with this app's logging and metrics.
func (a *App) Handler(sim *pulsegraph.Simulator) *api.Server {
	opts := []api.Option{api.WithLogger(a.Logger)}
	if a.Metrics != nil {
		opts = append(opts, api.WithMetrics(a.Metrics, a.Registry))
	}
	return api.NewServer(sim, opts...)
}

// Serve runs the HTTP API until ctx is done. An empty addr uses server.addr
// from the config. With watch set, edits to the input reload the graph.
func (a *App) Serve(ctx context.Context, addr string, watch bool) error {
	if addr == "" {
		addr = a.Config.Server.Addr
	}
	return a.withSimulator(func(sim *pulsegraph.Simulator) error {
		apiServer := a.Handler(sim)
		if watch {
			events, err := sim.Watch(ctx)
			if err != nil {
				return err
			}
			go reloadOnChange(ctx, sim, events, a.Logger, func() { apiServer.Notify("reload") })
		}

		srv := &http.Server{Addr: addr, Handler: apiServer.Routes()}
		serverErrors := make(chan error, 1)
		go func() {
			a.Logger.Info("serving pulsegraph", "addr", addr, "graph", sim.Name, "watch", watch)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.Logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
			return srv.Close()
		}
		a.Logger.Info("server stopped")
		return nil
	})
}

// ServeMCP runs the MCP server over stdio or SSE until ctx is done.
func (a *App) ServeMCP(ctx context.Context, transport string, port int) error {
	return a.withSimulator(func(sim *pulsegraph.Simulator) error {
		srv := mcp.NewServer(sim, a.Logger)
		switch transport {
		case "stdio":
			a.Logger.Info("starting MCP server", "transport", transport)
			return srv.ServeStdio()
		case "sse":
			a.Logger.Info("starting MCP server", "transport", transport, "port", port)
			if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
		return fmt.Errorf("unknown transport %q, supported: stdio, sse", transport)
	})
}

// settleDelay lets an editor finish writing before the graph is read again.
var settleDelay = 100 * time.Millisecond

// reloadOnChange reloads sim for every change event until ctx is done or
// events closes. A failed reload keeps the previous graph.
func reloadOnChange(ctx context.Context, sim *pulsegraph.Simulator, events <-chan string, logger *slog.Logger, onReload func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case changed, ok := <-events:
			if !ok {
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(settleDelay):
			}
			if err := sim.Reload(ctx); err != nil {
				logger.Error("reload failed, keeping previous graph", "changed", changed, "error", err)
				continue
			}
			logger.Info("graph reloaded", "changed", changed, "modules", len(sim.Inspect()))
			if onReload != nil {
				onReload()
			}
		}
	}
}
