package cli

import (
	"fmt"

	"github.com/aretw0/pulsegraph"
	"github.com/aretw0/pulsegraph/internal/config"
	"github.com/aretw0/pulsegraph/pkg/adapters/file"
	"github.com/aretw0/pulsegraph/pkg/adapters/memory"
	"github.com/aretw0/pulsegraph/pkg/adapters/redis"
	"github.com/aretw0/pulsegraph/pkg/observability"
)

// NewSimulator builds the Simulator for the configured input. The returned
// func releases backend connections and is never nil.
func (a *App) NewSimulator() (*pulsegraph.Simulator, func(), error) {
	if a.Input == "" {
		return nil, nil, fmt.Errorf("no input: pass --input with a graph file or directory")
	}

	hooks := observability.LoggingHooks(a.Logger)
	if a.Metrics != nil {
		hooks = observability.Combine(hooks, a.Metrics.Hooks())
	}
	opts := []pulsegraph.Option{
		pulsegraph.WithLogger(a.Logger),
		pulsegraph.WithLifecycleHooks(hooks),
		pulsegraph.WithMaxTriggers(a.Config.MaxTriggers),
	}

	cacheOpts, closer, err := cacheOptions(a.Config.Cache)
	if err != nil {
		return nil, nil, err
	}
	opts = append(opts, cacheOpts...)

	sim, err := pulsegraph.New(a.Input, opts...)
	if err != nil {
		closer()
		return nil, nil, err
	}
	a.Logger.Debug("graph loaded", "modules", len(sim.Inspect()), "cache", a.Config.Cache.Backend)
	return sim, closer, nil
}

func cacheOptions(cfg config.CacheConfig) ([]pulsegraph.Option, func(), error) {
	noop := func() {}
	switch cfg.Backend {
	case "", config.CacheNone:
		return nil, noop, nil
	case config.CacheMemory:
		return []pulsegraph.Option{pulsegraph.WithCache(memory.NewCache())}, noop, nil
	case config.CacheFile:
		return []pulsegraph.Option{pulsegraph.WithCache(file.NewCache(cfg.Dir))}, noop, nil
	case config.CacheRedis:
		rc := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithTTL(cfg.Redis.TTL),
		)
		opts := []pulsegraph.Option{pulsegraph.WithCache(rc)}
		if cfg.Redis.Lock {
			opts = append(opts, pulsegraph.WithLocker(redis.NewLocker(rc.Client(), cfg.Redis.Prefix), cfg.Redis.LockTTL))
		}
		return opts, func() { _ = rc.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
}
