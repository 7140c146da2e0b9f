package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillworks/quill-api/internal/domain/model"
	"github.com/quillworks/quill-api/internal/testutil"
)

func TestRedisStatsCache_RoundTrip(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	cache := NewRedisStatsCache(client)
	ctx := context.Background()

	stats := model.AccountStats{Total: 42, LastMonth: 7}
	require.NoError(t, cache.Set(ctx, "stats:accounts", stats, time.Minute))

	var got model.AccountStats
	found, err := cache.Get(ctx, "stats:accounts", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, stats, got)
}

func TestRedisStatsCache_MissIsNotError(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	cache := NewRedisStatsCache(client)

	var got model.AccountStats
	found, err := cache.Get(context.Background(), "stats:absent", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisStatsCache_Invalidate(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	cache := NewRedisStatsCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "stats:posts", model.PostStats{Total: 1}, time.Minute))
	require.NoError(t, cache.Invalidate(ctx, "stats:posts", "stats:absent"))

	var got model.PostStats
	found, err := cache.Get(ctx, "stats:posts", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisStatsCache_EmptyKeyRejected(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	cache := NewRedisStatsCache(client)

	assert.Error(t, cache.Set(context.Background(), "", 1, time.Minute))
	_, err := cache.Get(context.Background(), "", nil)
	assert.Error(t, err)
}
