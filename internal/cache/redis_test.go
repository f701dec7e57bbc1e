package cache

import (
	"context"
	"testing"

	"agora/internal/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_AcceptsURLAndAddr(t *testing.T) {
	mr := miniredis.RunT(t)

	for _, addr := range []string{mr.Addr(), "redis://" + mr.Addr() + "/0"} {
		c, err := NewClient(addr)
		require.NoError(t, err)
		assert.NoError(t, c.Ping(context.Background()).Err(), addr)
		_ = c.Close()
	}

	_, err := NewClient("redis://%zz")
	assert.Error(t, err)
}

func TestMetricsHook_CountsErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := NewClient(mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()
	before := testutil.ToFloat64(middleware.RedisErrors.WithLabelValues("incr"))
	beforeGet := testutil.ToFloat64(middleware.RedisErrors.WithLabelValues("get"))

	// A miss is not an error.
	_ = c.Get(ctx, "absent").Err()
	assert.Equal(t, beforeGet, testutil.ToFloat64(middleware.RedisErrors.WithLabelValues("get")))

	require.NoError(t, c.Set(ctx, "text", "abc", 0).Err())
	assert.Error(t, c.Incr(ctx, "text").Err())
	assert.Equal(t, before+1, testutil.ToFloat64(middleware.RedisErrors.WithLabelValues("incr")))
}

func TestInitRedis(t *testing.T) {
	t.Cleanup(func() { client = nil })

	mr := miniredis.RunT(t)
	InitRedis(mr.Addr())
	require.NotNil(t, GetClient())

	InitRedis("127.0.0.1:1")
	assert.Nil(t, GetClient())
}
