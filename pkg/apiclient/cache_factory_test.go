package apiclient_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/vendorapi/pkg/apiclient"
)

func TestCacheFactory_MemoryCache(t *testing.T) {
	t.Parallel()

	cache, err := apiclient.NewCacheFromConfig(context.Background(), &apiclient.CacheConfig{
		Type:   apiclient.CacheTypeMemory,
		Memory: &apiclient.MemoryCacheConfig{MaxSize: 5},
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "key", freshEntry("data")))
	assert.True(t, cache.Has(ctx, "key"))
}

func TestCacheFactory_NoOpCache(t *testing.T) {
	t.Parallel()

	cache, err := apiclient.NewCacheFromConfig(context.Background(), &apiclient.CacheConfig{Type: apiclient.CacheTypeNone})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "key", freshEntry("data")))
	assert.False(t, cache.Has(ctx, "key"))

	_, err = cache.Get(ctx, "key")
	require.ErrorIs(t, err, apiclient.ErrCacheDisabled)
}

func TestCacheFactory_NilConfig(t *testing.T) {
	t.Parallel()

	cache, err := apiclient.NewCacheFromConfig(context.Background(), nil)
	require.NoError(t, err)
	assert.IsType(t, &apiclient.MemoryCache{}, cache)
}

func TestCacheFactory_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	_, err := apiclient.NewCacheFromConfig(ctx, &apiclient.CacheConfig{Type: "memcached"})
	require.ErrorIs(t, err, apiclient.ErrUnsupportedCacheType)

	_, err = apiclient.NewCacheFromConfig(ctx, &apiclient.CacheConfig{Type: apiclient.CacheTypeNATS})
	require.ErrorIs(t, err, apiclient.ErrNATSConfigRequired)

	_, err = apiclient.NewCacheFromConfig(ctx, &apiclient.CacheConfig{Type: apiclient.CacheTypeRedis})
	require.ErrorIs(t, err, apiclient.ErrRedisConfigRequired)
}

func TestCacheChain(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l1 := apiclient.NewMemoryCache(10)
	l2 := apiclient.NewMemoryCache(10)
	chain := apiclient.NewCacheChain(l1, l2)

	require.NoError(t, l2.Set(ctx, "key", freshEntry("from l2")))
	assert.False(t, l1.Has(ctx, "key"))

	entry, err := chain.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("from l2"), entry.Data)
	assert.True(t, l1.Has(ctx, "key"), "hit should be promoted to L1")

	require.NoError(t, chain.Delete(ctx, "key"))
	assert.False(t, chain.Has(ctx, "key"))

	_, err = chain.Get(ctx, "key")
	require.ErrorIs(t, err, apiclient.ErrKeyNotFoundInAnyCache)

	require.NoError(t, chain.Close())
}
