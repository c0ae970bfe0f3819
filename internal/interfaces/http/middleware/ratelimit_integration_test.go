//go:build integration

package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/ever-co/invoicing/internal/infrastructure/auth"
	"github.com/ever-co/invoicing/internal/infrastructure/config"
	"github.com/ever-co/invoicing/tests/integration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLimiter(t *testing.T) {
	host, port := integration.NewRedis(t)
	ctx := context.Background()

	client, err := auth.NewRedisClient(ctx, config.RedisConfig{Host: host, Port: port})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	rl := NewRedisLimiter(client, 2, time.Second)

	ok, remaining, err := rl.Allow(ctx, "tenant:a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)

	ok, _, _ = rl.Allow(ctx, "tenant:a")
	assert.True(t, ok)
	ok, _, _ = rl.Allow(ctx, "tenant:a")
	assert.False(t, ok)

	ttl, err := client.PTTL(ctx, "invoicing:ratelimit:tenant:a").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
