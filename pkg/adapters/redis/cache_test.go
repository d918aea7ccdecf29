package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/pulsegraph/pkg/adapters/redis"
	"github.com/aretw0/pulsegraph/pkg/domain"
	"github.com/aretw0/pulsegraph/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCache_Contract(t *testing.T) {
	// Setup miniredis
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	ports.RunResultCacheContract(t, redis.NewFromClient(client))
}

func TestRedisCache_TTL(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cache := redis.New(mr.Addr(), "", 0, redis.WithTTL(time.Minute), redis.WithPrefix("test:"))
	defer cache.Close()
	ctx := context.Background()

	require.NoError(t, cache.Ping(ctx))
	require.NoError(t, cache.Put(ctx, "k", &domain.Result{Kind: domain.ResultTarget, Target: &domain.TargetResult{Target: "rx", Presses: 84}}))
	assert.True(t, mr.Exists("test:result:k"))
	assert.Equal(t, time.Minute, mr.TTL("test:result:k"))

	mr.FastForward(2 * time.Minute)

	_, err = cache.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrResultNotFound)
}

func TestRedisCache_CorruptEntry(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cache := redis.NewFromClient(backend.NewClient(&backend.Options{Addr: mr.Addr()}))
	require.NoError(t, mr.Set(redis.DefaultPrefix+"result:bad", "{not json"))

	_, err = cache.Get(context.Background(), "bad")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrResultNotFound)
}
