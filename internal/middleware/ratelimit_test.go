package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newLimitedApp(rl *RateLimiter) *fiber.App {
	app := fiber.New(fiber.Config{ProxyHeader: fiber.HeaderXForwardedFor})
	app.Use(rl.Handler())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app
}

func requestFrom(t *testing.T, app *fiber.App, ip string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderXForwardedFor, ip)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestRateLimiter_PerClientBuckets(t *testing.T) {
	rl := NewRateLimiter(0.001, 3, time.Hour, discardLogger())
	defer rl.Close()
	app := newLimitedApp(rl)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, requestFrom(t, app, "10.0.0.1"))
	}
	assert.Equal(t, http.StatusTooManyRequests, requestFrom(t, app, "10.0.0.1"))
	assert.Equal(t, http.StatusOK, requestFrom(t, app, "10.0.0.2"), "other clients keep their own budget")
}

func TestRateLimiter_RefillsOverTime(t *testing.T) {
	rl := NewRateLimiter(50, 1, time.Hour, discardLogger())
	defer rl.Close()
	app := newLimitedApp(rl)

	assert.Equal(t, http.StatusOK, requestFrom(t, app, "10.0.0.3"))
	assert.Equal(t, http.StatusTooManyRequests, requestFrom(t, app, "10.0.0.3"))

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, http.StatusOK, requestFrom(t, app, "10.0.0.3"))
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1000, 1, 10*time.Millisecond, discardLogger())
	defer rl.Close()

	rl.getLimiter("10.0.0.4").Allow()

	assert.Eventually(t, func() bool {
		_, ok := rl.limiters.Load("10.0.0.4")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestRateLimiter_CloseIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(1, 1, time.Hour, discardLogger())
	rl.Close()
	assert.NotPanics(t, rl.Close)
}
