package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/pulsegraph"
	"github.com/aretw0/pulsegraph/internal/presentation/graph"
	"github.com/aretw0/pulsegraph/pkg/domain"
	"github.com/aretw0/pulsegraph/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	// GraphURI exposes the module definitions as JSON.
	GraphURI = "pulsegraph://graph"
	// MermaidURI exposes the live graph as a Mermaid flowchart.
	MermaidURI = "pulsegraph://graph/mermaid"
)

// BoundedArgs are the arguments of the run_bounded tool.
type BoundedArgs struct {
	Presses int64 `json:"presses"`
}

// TargetArgs are the arguments of the run_until_target tool.
type TargetArgs struct {
	Target string `json:"target"`
}

// TriggerArgs are the arguments of the trigger tool.
type TriggerArgs struct {
	Count int64 `json:"count"`
}

// BoundedResponse is the structured result of run_bounded.
type BoundedResponse struct {
	Presses   int64          `json:"presses" jsonschema_description:"Number of button presses requested"`
	Low       int64          `json:"low" jsonschema_description:"Low pulses sent"`
	High      int64          `json:"high" jsonschema_description:"High pulses sent"`
	Product   string         `json:"product" jsonschema_description:"Low times high, in decimal"`
	Period    *domain.Period `json:"period,omitempty" jsonschema_description:"Repeated state used to skip ahead, if any"`
	Simulated int64          `json:"simulated" jsonschema_description:"Presses actually simulated"`
}

// LiveResponse is the structured result of trigger, reset and fingerprint.
type LiveResponse struct {
	Presses     int64         `json:"presses" jsonschema_description:"Presses applied to the live graph since the last reset"`
	Counts      domain.Counts `json:"counts" jsonschema_description:"Pulses sent by this call"`
	Fingerprint string        `json:"fingerprint" jsonschema_description:"Hex encoded state of the live graph"`
}

// Server wraps a Simulator and exposes it as an MCP Server.
type Server struct {
	sim       ports.Simulator
	logger    *slog.Logger
	mcpServer *server.MCPServer
	tools     []string
}

// NewServer creates a new MCP Server instance.
func NewServer(sim ports.Simulator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		sim:       sim,
		logger:    logger,
		mcpServer: server.NewMCPServer("pulsegraph-mcp", strings.TrimSpace(pulsegraph.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// Tools returns the names of the registered tools.
func (s *Server) Tools() []string {
	return append([]string(nil), s.tools...)
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) addTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.mcpServer.AddTool(tool, handler)
	s.tools = append(s.tools, tool.Name)
}

func (s *Server) registerTools() {
	s.addTool(mcp.NewTool("run_bounded",
		mcp.WithDescription("Count the low and high pulses sent over a number of button presses, starting from the initial state."),
		mcp.WithNumber("presses", mcp.Required(), mcp.Min(0), mcp.Description("Number of button presses")),
		mcp.WithOutputSchema[BoundedResponse](),
	), mcp.NewStructuredToolHandler(s.handleRunBounded))

	s.addTool(mcp.NewTool("run_until_target",
		mcp.WithDescription("Find the fewest button presses after which the target module receives a low pulse."),
		mcp.WithString("target", mcp.Description("Target module name (defaults to rx)")),
		mcp.WithOutputSchema[domain.TargetResult](),
	), mcp.NewStructuredToolHandler(s.handleRunUntilTarget))

	s.addTool(mcp.NewTool("trigger",
		mcp.WithDescription("Press the button on the live graph."),
		mcp.WithNumber("count", mcp.Min(1), mcp.Description("Number of presses (defaults to 1)")),
		mcp.WithOutputSchema[LiveResponse](),
	), mcp.NewStructuredToolHandler(s.handleTrigger))

	s.addTool(mcp.NewTool("reset",
		mcp.WithDescription("Restore the live graph to its initial state."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.sim.Reset()
		return mcp.NewToolResultText(s.sim.Fingerprint()), nil
	})

	s.addTool(mcp.NewTool("fingerprint",
		mcp.WithDescription("Get the hex encoded state of the live graph."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(s.sim.Fingerprint()), nil
	})

	s.addTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the full graph definition for introspection."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, err := json.Marshal(s.sim.Inspect())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("inspect failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) handleRunBounded(ctx context.Context, _ mcp.CallToolRequest, args BoundedArgs) (BoundedResponse, error) {
	res, err := s.sim.RunBounded(ctx, args.Presses)
	if err != nil {
		s.logger.Warn("MCP run_bounded failed", "presses", args.Presses, "error", err)
		return BoundedResponse{}, fmt.Errorf("run_bounded failed: %w", err)
	}
	return BoundedResponse{
		Presses:   res.Presses,
		Low:       res.Counts.Low,
		High:      res.Counts.High,
		Product:   res.Counts.BigProduct().String(),
		Period:    res.Period,
		Simulated: res.Simulated,
	}, nil
}

func (s *Server) handleRunUntilTarget(ctx context.Context, _ mcp.CallToolRequest, args TargetArgs) (domain.TargetResult, error) {
	target := args.Target
	if target == "" {
		target = domain.DefaultTarget
	}
	res, err := s.sim.RunUntilTarget(ctx, target)
	if err != nil {
		s.logger.Warn("MCP run_until_target failed", "target", target, "error", err)
		return domain.TargetResult{}, fmt.Errorf("run_until_target failed: %w", err)
	}
	return *res, nil
}

func (s *Server) handleTrigger(ctx context.Context, _ mcp.CallToolRequest, args TriggerArgs) (LiveResponse, error) {
	count := args.Count
	if count == 0 {
		count = 1
	}
	if count < 0 {
		return LiveResponse{}, fmt.Errorf("count must be positive, got %d", count)
	}

	var total domain.Counts
	for i := int64(0); i < count; i++ {
		c, err := s.sim.Trigger(ctx)
		if err != nil {
			return LiveResponse{}, fmt.Errorf("trigger failed: %w", err)
		}
		total = total.Add(c)
	}
	return LiveResponse{
		Presses:     s.sim.Presses(),
		Counts:      total,
		Fingerprint: s.sim.Fingerprint(),
	}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(GraphURI, "Current Graph Definition",
		mcp.WithMIMEType("application/json"),
	), s.readGraph)

	s.mcpServer.AddResource(mcp.NewResource(MermaidURI, "Live Graph Flowchart",
		mcp.WithMIMEType("text/plain"),
	), s.readMermaid)
}

func (s *Server) readGraph(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(s.sim.Inspect())
	if err != nil {
		return nil, fmt.Errorf("failed to inspect graph: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      GraphURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

func (s *Server) readMermaid(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	overlay := &graph.Overlay{FlipFlops: s.sim.FlipFlops()}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      MermaidURI,
			MIMEType: "text/plain",
			Text:     graph.GenerateMermaid(s.sim.Inspect(), overlay),
		},
	}, nil
}
