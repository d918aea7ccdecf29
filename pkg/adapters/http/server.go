package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/pulsegraph"
	"github.com/aretw0/pulsegraph/internal/presentation/graph"
	"github.com/aretw0/pulsegraph/pkg/domain"
	"github.com/aretw0/pulsegraph/pkg/observability"
	"github.com/aretw0/pulsegraph/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MaxTriggerBatch caps the presses a single POST /trigger may request.
const MaxTriggerBatch = 10000

// Server exposes a Simulator over HTTP.
type Server struct {
	Sim     ports.Simulator
	Streams *StreamManager

	logger   *slog.Logger
	metrics  *observability.Metrics
	gatherer prometheus.Gatherer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger used for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics times every request into m and serves g on GET /metrics.
func WithMetrics(m *observability.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

// NewHandler creates a new HTTP handler for the simulator.
func NewHandler(sim ports.Simulator, opts ...Option) http.Handler {
	return NewServer(sim, opts...).Routes()
}

// NewServer creates a Server without mounting its routes.
func NewServer(sim ports.Simulator, opts ...Option) *Server {
	s := &Server{Sim: sim}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.Streams = NewStreamManager(s.logger)
	return s
}

// Routes mounts every endpoint on a chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
	}
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/graph", s.GetGraph)
	r.Get("/graph/mermaid", s.GetMermaid)
	r.Get("/fingerprint", s.GetFingerprint)
	r.Get("/events", s.SubscribeEvents)
	r.Post("/trigger", s.Trigger)
	r.Post("/reset", s.Reset)
	r.Post("/reload", s.Reload)
	r.Route("/run", func(r chi.Router) {
		r.Post("/bounded", s.RunBounded)
		r.Post("/target", s.RunUntilTarget)
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// TriggerRequest is the optional body of POST /trigger.
type TriggerRequest struct {
	Count int64 `json:"count"`
}

// BoundedRequest is the body of POST /run/bounded.
type BoundedRequest struct {
	Presses *int64 `json:"presses"`
}

// TargetRequest is the body of POST /run/target.
type TargetRequest struct {
	Target string `json:"target"`
}

// LiveState describes the live graph after a trigger or a reset.
type LiveState struct {
	Event       string          `json:"event,omitempty"`
	Presses     int64           `json:"presses"`
	Counts      *domain.Counts  `json:"counts,omitempty"`
	Fingerprint string          `json:"fingerprint"`
	FlipFlops   map[string]bool `json:"flipflops,omitempty"`
}

// BoundedResponse adds the exact product to a bounded answer.
type BoundedResponse struct {
	*domain.BoundedResult
	Product string `json:"product"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "pulsegraph-http",
		"version": strings.TrimSpace(pulsegraph.Version),
	})
}

// GetGraph handles the GET /graph request.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Sim.Inspect())
}

// GetMermaid handles the GET /graph/mermaid request. The optional target
// query parameter highlights a module.
func (s *Server) GetMermaid(w http.ResponseWriter, r *http.Request) {
	overlay := &graph.Overlay{
		FlipFlops: s.Sim.FlipFlops(),
		Target:    r.URL.Query().Get("target"),
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := io.WriteString(w, graph.GenerateMermaid(s.Sim.Inspect(), overlay)); err != nil {
		s.logger.Error("GetMermaid response write failed", "error", err)
	}
}

// GetFingerprint handles the GET /fingerprint request.
func (s *Server) GetFingerprint(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.liveState("", nil))
}

// Trigger handles the POST /trigger request.
func (s *Server) Trigger(w http.ResponseWriter, r *http.Request) {
	body := TriggerRequest{Count: 1}
	if err := decodeBody(r, &body, true); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if body.Count < 1 || body.Count > MaxTriggerBatch {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("count must be between 1 and %d", MaxTriggerBatch))
		return
	}

	var total domain.Counts
	for i := int64(0); i < body.Count; i++ {
		c, err := s.Sim.Trigger(r.Context())
		if err != nil {
			s.writeError(w, statusFor(err), err)
			return
		}
		total = total.Add(c)
	}

	state := s.liveState("trigger", &total)
	s.broadcast(state)
	s.writeJSON(w, http.StatusOK, state)
}

// Reset handles the POST /reset request.
func (s *Server) Reset(w http.ResponseWriter, r *http.Request) {
	s.Sim.Reset()
	state := s.liveState("reset", nil)
	s.broadcast(state)
	s.writeJSON(w, http.StatusOK, state)
}

// Reload handles the POST /reload request.
func (s *Server) Reload(w http.ResponseWriter, r *http.Request) {
	if err := s.Sim.Reload(r.Context()); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	state := s.liveState("reload", nil)
	s.broadcast(state)
	s.writeJSON(w, http.StatusOK, state)
}

// RunBounded handles the POST /run/bounded request.
func (s *Server) RunBounded(w http.ResponseWriter, r *http.Request) {
	var body BoundedRequest
	if err := decodeBody(r, &body, false); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if body.Presses == nil {
		s.writeError(w, http.StatusBadRequest, errors.New("presses is required"))
		return
	}
	if *body.Presses < 0 {
		s.writeError(w, http.StatusBadRequest, errors.New("presses must not be negative"))
		return
	}

	res, err := s.Sim.RunBounded(r.Context(), *body.Presses)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, BoundedResponse{
		BoundedResult: res,
		Product:       res.Counts.BigProduct().String(),
	})
}

// RunUntilTarget handles the POST /run/target request.
func (s *Server) RunUntilTarget(w http.ResponseWriter, r *http.Request) {
	body := TargetRequest{Target: domain.DefaultTarget}
	if err := decodeBody(r, &body, true); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if body.Target == "" {
		body.Target = domain.DefaultTarget
	}

	res, err := s.Sim.RunUntilTarget(r.Context(), body.Target)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// SubscribeEvents handles the GET /events request (SSE). Every trigger, reset
// and reload of the live graph is pushed to the client.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, errors.New("streaming not supported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) liveState(event string, counts *domain.Counts) LiveState {
	return LiveState{
		Event:       event,
		Presses:     s.Sim.Presses(),
		Counts:      counts,
		Fingerprint: s.Sim.Fingerprint(),
		FlipFlops:   s.Sim.FlipFlops(),
	}
}

// Notify pushes the live state to every /events subscriber. Used when the
// graph changes outside a request, e.g. a file watcher reload.
func (s *Server) Notify(event string) {
	s.broadcast(s.liveState(event, nil))
}

func (s *Server) broadcast(state LiveState) {
	data, err := json.Marshal(state)
	if err != nil {
		s.logger.Error("failed to encode live event", "error", err)
		return
	}
	s.Streams.Broadcast(string(data))
}

// decodeBody reads a JSON body into v. An empty body is accepted when optional is set.
func decodeBody(r *http.Request, v any, optional bool) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) && optional {
			return nil
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownModule):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnsupportedTopology),
		errors.Is(err, domain.ErrBoundExceeded),
		errors.Is(err, domain.ErrSyntax),
		errors.Is(err, domain.ErrInvalidReference),
		errors.Is(err, domain.ErrDuplicateModule),
		errors.Is(err, domain.ErrMissingBroadcaster):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "error", err)
	} else {
		s.logger.Warn("request rejected", "status", status, "error", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
