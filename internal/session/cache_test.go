package session

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_GetPut(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	_, found, err := cache.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Put(ctx, "u-1", Profile{Email: "a@farm.test", DisplayName: "A"}))
	p, found, err := cache.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "A", p.DisplayName)
}

// nothing listens on port 1, so every command fails fast
func unreachableRedis(t *testing.T) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client, time.Minute)
}

func TestRedisCache_SurfacesConnectionErrors(t *testing.T) {
	cache := unreachableRedis(t)
	ctx := context.Background()

	_, found, err := cache.Get(ctx, "u-1")
	assert.Error(t, err)
	assert.False(t, found)
	assert.Error(t, cache.Put(ctx, "u-1", Profile{Email: "a@farm.test"}))
}

func TestMiddleware_CacheFailureKeepsSession(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"user_id": "u-9"}})
		return c.Next()
	})
	app.Use(Middleware(unreachableRedis(t), log))
	app.Get("/me", func(c *fiber.Ctx) error {
		s, err := FromCtx(c)
		if err != nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.JSON(s)
	})

	res, err := app.Test(httptest.NewRequest("GET", "/me", nil), 5000)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	b, _ := io.ReadAll(res.Body)
	assert.Contains(t, string(b), `"userId":"u-9"`)
}
