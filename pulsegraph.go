package pulsegraph

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/pulsegraph/internal/runtime"
	"github.com/aretw0/pulsegraph/pkg/adapters/file"
	loamAdapter "github.com/aretw0/pulsegraph/pkg/adapters/loam"
	"github.com/aretw0/pulsegraph/pkg/domain"
	"github.com/aretw0/pulsegraph/pkg/ports"
)

// DefaultLockTTL bounds how long a replica may hold the compute lock of one query.
const DefaultLockTTL = time.Minute

// Simulator is the high-level entry point of the library.
//
// It holds one live graph, driven step by step with Trigger, and answers
// RunBounded and RunUntilTarget on fresh graphs built from the same
// definitions, so queries never disturb the live state nor each other.
type Simulator struct {
	Name string

	loader      ports.GraphLoader
	cache       ports.ResultCache
	locker      ports.DistributedLocker
	lockTTL     time.Duration
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	maxTriggers int64

	mu     sync.Mutex
	specs  []domain.ModuleSpec
	digest string
	live   *runtime.Engine
}

var _ ports.Simulator = (*Simulator)(nil)

// Option defines a functional option for configuring the Simulator.
type Option func(*Simulator)

// WithLoader injects a custom GraphLoader; source is then only used as a label.
func WithLoader(l ports.GraphLoader) Option {
	return func(s *Simulator) {
		s.loader = l
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulator) {
		s.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Simulator) {
		s.hooks = hooks
	}
}

// WithCache memoises query answers.
func WithCache(c ports.ResultCache) Option {
	return func(s *Simulator) {
		s.cache = c
	}
}

// WithLocker makes replicas sharing a cache compute each missing answer once.
// It has no effect without WithCache. A ttl <= 0 uses DefaultLockTTL.
func WithLocker(l ports.DistributedLocker, ttl time.Duration) Option {
	return func(s *Simulator) {
		s.locker = l
		s.lockTTL = ttl
	}
}

// WithMaxTriggers bounds every query. Values <= 0 keep runtime.DefaultMaxTriggers.
func WithMaxTriggers(n int64) Option {
	return func(s *Simulator) {
		s.maxTriggers = n
	}
}

// New loads a graph and prepares a Simulator.
//
// By default source is a path: a directory is read as a Loam repository of
// module documents, a file as YAML/JSON or the line grammar depending on its
// extension. If WithLoader is provided, source may be empty.
func New(source string, opts ...Option) (*Simulator, error) {
	s := &Simulator{}
	for _, opt := range opts {
		opt(s)
	}

	if s.loader == nil {
		if source == "" {
			return nil, fmt.Errorf("source is required when no custom loader is provided")
		}
		l, name, err := openSource(source)
		if err != nil {
			return nil, err
		}
		s.loader, s.Name = l, name
	} else if source != "" {
		s.Name = filepath.Base(source)
	}

	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.Name != "" {
		s.logger = s.logger.With("graph", s.Name)
	}
	if s.lockTTL <= 0 {
		s.lockTTL = DefaultLockTTL
	}

	if err := s.Reload(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func openSource(source string) (ports.GraphLoader, string, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, "", fmt.Errorf("invalid source: %w", err)
	}
	if info.IsDir() {
		l, err := loamAdapter.Open(source)
		if err != nil {
			return nil, "", err
		}
		abs, _ := filepath.Abs(source)
		return l, filepath.Base(abs), nil
	}
	l := file.NewLoader(source)
	return l, l.Name(), nil
}

// Reload reads the definitions again and replaces the live graph. The live
// state is lost; cached answers stay valid because keys are content hashes.
func (s *Simulator) Reload(ctx context.Context) error {
	specs, err := s.loader.LoadModules(ctx)
	if err != nil {
		return fmt.Errorf("failed to load modules: %w", err)
	}
	g, err := runtime.Build(specs)
	if err != nil {
		return err
	}
	canonical, err := json.Marshal(specs)
	if err != nil {
		return fmt.Errorf("failed to hash modules: %w", err)
	}
	sum := sha256.Sum256(canonical)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.specs = specs
	s.digest = hex.EncodeToString(sum[:])
	s.live = s.newEngine(g)
	s.logger.Debug("graph loaded", "modules", g.Len(), "digest", s.digest[:12])
	return nil
}

func (s *Simulator) newEngine(g *runtime.Graph) *runtime.Engine {
	return runtime.NewEngine(g,
		runtime.WithLifecycleHooks(s.hooks),
		runtime.WithLogger(s.logger),
		runtime.WithMaxTriggers(s.maxTriggers),
	)
}

// snapshot returns the current definitions and their digest.
func (s *Simulator) snapshot() ([]domain.ModuleSpec, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.specs, s.digest
}

// Trigger presses the button once on the live graph. A press that does not
// settle returns ErrBoundExceeded and leaves the live graph reset.
func (s *Simulator) Trigger(ctx context.Context) (domain.Counts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.live.Press(ctx, 1)
	if errors.Is(err, domain.ErrBoundExceeded) {
		s.logger.Warn("press abandoned, resetting live graph", "error", err)
		s.live.Reset()
	}
	return c, err
}

// Presses returns the number of presses applied to the live graph.
func (s *Simulator) Presses() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live.Presses()
}

// Fingerprint returns the hex encoded state of the live graph.
func (s *Simulator) Fingerprint() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live.Graph().Fingerprint().String()
}

// FlipFlops returns the on bit of every flip-flop of the live graph.
func (s *Simulator) FlipFlops() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live.Graph().FlipFlopStates()
}

// Reset restores the live graph to its initial state.
func (s *Simulator) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live.Reset()
}

// Inspect returns the resolved definitions, materialised sinks included.
func (s *Simulator) Inspect() []domain.ModuleSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live.Graph().Specs()
}

// Digest identifies the loaded definitions.
func (s *Simulator) Digest() string {
	_, d := s.snapshot()
	return d
}

// Watch returns a channel that signals when the underlying definitions change.
// Returns an error if the loader does not support watching.
func (s *Simulator) Watch(ctx context.Context) (<-chan string, error) {
	if w, ok := s.loader.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("loader %T does not support watching", s.loader)
}

// Loader returns the underlying GraphLoader.
func (s *Simulator) Loader() ports.GraphLoader {
	return s.loader
}

// RunBounded returns the pulses sent over presses button presses, starting
// from the initial state.
func (s *Simulator) RunBounded(ctx context.Context, presses int64) (*domain.BoundedResult, error) {
	r, err := s.query(ctx, domain.ResultBounded, strconv.FormatInt(presses, 10), func(e *runtime.Engine) (*domain.Result, error) {
		b, err := e.RunBounded(ctx, presses)
		if err != nil {
			return nil, err
		}
		return &domain.Result{Kind: domain.ResultBounded, Bounded: b}, nil
	})
	if err != nil {
		return nil, err
	}
	return r.Bounded, nil
}

// RunUntilTarget returns the fewest presses, starting from the initial state,
// after which target receives a low pulse.
func (s *Simulator) RunUntilTarget(ctx context.Context, target string) (*domain.TargetResult, error) {
	r, err := s.query(ctx, domain.ResultTarget, target, func(e *runtime.Engine) (*domain.Result, error) {
		t, err := e.RunUntilTarget(ctx, target)
		if err != nil {
			return nil, err
		}
		return &domain.Result{Kind: domain.ResultTarget, Target: t}, nil
	})
	if err != nil {
		return nil, err
	}
	return r.Target, nil
}

// CacheKey is the key under which a query answer is cached: a hash over the
// definitions and the query.
func CacheKey(digest string, kind domain.ResultKind, arg string) string {
	sum := sha256.Sum256([]byte(strings.Join([]string{digest, string(kind), arg}, "\x00")))
	return hex.EncodeToString(sum[:])
}

func (s *Simulator) query(ctx context.Context, kind domain.ResultKind, arg string, run func(*runtime.Engine) (*domain.Result, error)) (*domain.Result, error) {
	specs, digest := s.snapshot()
	compute := func() (*domain.Result, error) {
		g, err := runtime.Build(specs)
		if err != nil {
			return nil, err
		}
		start := time.Now()
		r, err := run(s.newEngine(g))
		if err != nil {
			return nil, err
		}
		s.logger.Debug("query answered", "kind", kind, "arg", arg, "duration", time.Since(start))
		return r, nil
	}

	if s.cache == nil {
		return compute()
	}

	key := CacheKey(digest, kind, arg)
	if r, ok := s.lookup(ctx, key, kind); ok {
		return r, nil
	}

	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, key, s.lockTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to lock query: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn("failed to release query lock", "key", key, "error", err)
			}
		}()
		// Another replica may have answered while we waited.
		if r, ok := s.lookup(ctx, key, kind); ok {
			return r, nil
		}
	}

	r, err := compute()
	if err != nil {
		return nil, err
	}
	if err := s.cache.Put(ctx, key, r); err != nil {
		s.logger.Warn("failed to cache result", "key", key, "error", err)
	}
	return r, nil
}

// lookup treats cache failures as misses: the answer can always be recomputed.
func (s *Simulator) lookup(ctx context.Context, key string, kind domain.ResultKind) (*domain.Result, bool) {
	r, err := s.cache.Get(ctx, key)
	switch {
	case err == nil && hasPayload(r, kind):
		s.logger.Debug("cache hit", "kind", kind, "key", key)
		return r, true
	case err == nil:
		s.logger.Warn("ignoring malformed cached result", "key", key, "kind", r.Kind)
	case !errors.Is(err, domain.ErrResultNotFound):
		s.logger.Warn("cache lookup failed", "key", key, "error", err)
	}
	return nil, false
}

// hasPayload reports whether r answers a query of the given kind.
func hasPayload(r *domain.Result, kind domain.ResultKind) bool {
	if r.Kind != kind {
		return false
	}
	switch kind {
	case domain.ResultBounded:
		return r.Bounded != nil
	case domain.ResultTarget:
		return r.Target != nil
	}
	return false
}
