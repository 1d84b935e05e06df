package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customerapi/internal/config"
	"customerapi/internal/middleware"
	"customerapi/internal/repositories"
)

func newTestDeps() appDeps {
	return appDeps{
		Repo:   repositories.NewMemoryCustomerRepository(),
		Ping:   func(context.Context) error { return nil },
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func send(t *testing.T, app *fiber.App, req *http.Request) *http.Response {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthCheck(t *testing.T) {
	app := NewApp(newTestDeps())

	resp := send(t, app, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"status":"healthy"`)
}

func TestHealthCheckReportsDatabaseFailure(t *testing.T) {
	deps := newTestDeps()
	deps.Ping = func(context.Context) error { return errors.New("connection reset") }
	app := NewApp(deps)

	resp := send(t, app, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestBothSurfacesShareOneStore(t *testing.T) {
	app := NewApp(newTestDeps())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers", bytes.NewBufferString(`{"name":"Ethan","age":999}`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusOK, send(t, app, req).StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/api/v2/customers", bytes.NewBufferString(`{"name":"Ethan","age":30}`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusCreated, send(t, app, req).StatusCode)

	resp := send(t, app, httptest.NewRequest(http.MethodGet, "/api/v2/customers?name=Ethan", nil))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"id":1,"name":"Ethan","favoriteProduct":null,"age":999},
		{"id":2,"name":"Ethan","favoriteProduct":null,"age":30}
	]`, string(body))

	resp = send(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/ethan", nil))
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"age":999`)
}

func TestCORSPreflight(t *testing.T) {
	app := NewApp(newTestDeps())

	req := httptest.NewRequest(http.MethodOptions, "/api/v2/customers", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	resp := send(t, app, req)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET,POST", resp.Header.Get("Access-Control-Allow-Methods"))
}

func TestRequestIDHeader(t *testing.T) {
	app := NewApp(newTestDeps())

	resp := send(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/test", nil))
	_, err := uuid.Parse(resp.Header.Get(fiber.HeaderXRequestID))
	assert.NoError(t, err)
}

func TestMetricsEndpoint(t *testing.T) {
	app := NewApp(newTestDeps())

	send(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/test", nil))

	resp := send(t, app, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `http_requests_total{method="GET",path="/api/v1/test",status_code="200"}`)
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	app := NewApp(newTestDeps())

	resp := send(t, app, httptest.NewRequest(http.MethodGet, "/api/v3/customers", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON)
}

func TestRateLimit(t *testing.T) {
	deps := newTestDeps()
	deps.RateLimiter = middleware.NewRateLimiter(0.001, 2, time.Hour, deps.Logger)
	t.Cleanup(deps.RateLimiter.Close)
	app := NewApp(deps)

	for i := 0; i < 2; i++ {
		resp := send(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/test", nil))
		require.Equal(t, http.StatusOK, resp.StatusCode, "request %d", i)
	}
	resp := send(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/test", nil))
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestOpenStore(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		repo, ping, closeStore, err := openStore(&config.Config{DatabaseDriver: "memory"})
		require.NoError(t, err)
		assert.IsType(t, &repositories.MemoryCustomerRepository{}, repo)
		assert.NoError(t, ping(context.Background()))
		assert.NoError(t, closeStore())
	})

	t.Run("sqlite", func(t *testing.T) {
		dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
		repo, ping, closeStore, err := openStore(&config.Config{DatabaseDriver: "sqlite", DatabaseDSN: dsn})
		require.NoError(t, err)
		assert.IsType(t, &repositories.GORMCustomerRepository{}, repo)
		assert.NoError(t, ping(context.Background()))
		assert.NoError(t, closeStore())
	})

	t.Run("unsupported driver", func(t *testing.T) {
		_, _, _, err := openStore(&config.Config{DatabaseDriver: "oracle", DatabaseDSN: "x"})
		assert.Error(t, err)
	})
}
