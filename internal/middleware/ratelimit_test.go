package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRateLimiter_Allow(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled environments bypass redis", func(t *testing.T) {
		for _, env := range []string{"", "development", "test", "stress"} {
			l := NewRateLimiter(nil, env)
			allowed, err := l.Allow(ctx, "create_topic", "ip:1", 1, time.Minute)
			assert.NoError(t, err)
			assert.True(t, allowed, env)
		}
	})

	t.Run("nil redis errors in production", func(t *testing.T) {
		l := NewRateLimiter(nil, "production")
		allowed, err := l.Allow(ctx, "create_topic", "ip:1", 1, time.Minute)
		assert.Error(t, err)
		assert.False(t, allowed)
	})

	t.Run("counts within window", func(t *testing.T) {
		mr, rdb := newTestRedis(t)
		l := NewRateLimiter(rdb, "production")

		for i := 0; i < 2; i++ {
			allowed, err := l.Allow(ctx, "create_post", "user:7", 2, time.Minute)
			require.NoError(t, err)
			assert.True(t, allowed)
		}
		allowed, err := l.Allow(ctx, "create_post", "user:7", 2, time.Minute)
		require.NoError(t, err)
		assert.False(t, allowed)

		assert.True(t, mr.TTL("rl:create_post:user:7") > 0)

		mr.FastForward(2 * time.Minute)
		allowed, err = l.Allow(ctx, "create_post", "user:7", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}

func TestRateLimiter_Limit(t *testing.T) {
	_, rdb := newTestRedis(t)
	l := NewRateLimiter(rdb, "production")

	app := fiber.New()
	app.Post("/comments", l.Limit("create_comment", 1, time.Minute), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	first, err := app.Test(httptest.NewRequest(http.MethodPost, "/comments", nil))
	require.NoError(t, err)
	defer func() { _ = first.Body.Close() }()
	assert.Equal(t, http.StatusOK, first.StatusCode)

	second, err := app.Test(httptest.NewRequest(http.MethodPost, "/comments", nil))
	require.NoError(t, err)
	defer func() { _ = second.Body.Close() }()
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
}

func TestRateLimiter_StoreUnavailablePasses(t *testing.T) {
	l := NewRateLimiter(nil, "production")

	app := fiber.New()
	app.Post("/topics", l.Limit("create_topic", 1, time.Minute), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/topics", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// failingExpireHook rejects every EXPIRE command.
type failingExpireHook struct{}

func (failingExpireHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (failingExpireHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if cmd.Name() == "expire" {
			err := errors.New("expire unavailable")
			cmd.SetErr(err)
			return err
		}
		return next(ctx, cmd)
	}
}

func (failingExpireHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestRateLimiter_ExpireFailureDropsCounter(t *testing.T) {
	mr, rdb := newTestRedis(t)
	rdb.AddHook(failingExpireHook{})
	l := NewRateLimiter(rdb, "production")

	allowed, err := l.Allow(context.Background(), "create_comment", "user:9", 1, time.Minute)
	assert.Error(t, err)
	assert.False(t, allowed)
	assert.False(t, mr.Exists("rl:create_comment:user:9"))
}
