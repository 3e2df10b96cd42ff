package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bundl/internal/adapters/metrics"
	"go.trai.ch/bundl/internal/core/domain"
	"go.trai.ch/bundl/internal/core/ports"
)

var _ ports.Metrics = (*metrics.Recorder)(nil)

func TestRecorder_Counters(t *testing.T) {
	rec := metrics.New()

	rec.ObserveCompile(true, 10*time.Millisecond)
	rec.ObserveCompile(false, 5*time.Millisecond)
	rec.ObserveCompile(true, time.Millisecond)
	rec.ObserveLoad(domain.LoadSourceNetwork)
	rec.ObserveLoad(domain.LoadSourceCache)
	rec.ObserveLoad(domain.LoadSourceCache)
	rec.ObserveFetch("200", time.Millisecond)
	rec.ObserveFetch("503", time.Millisecond)
	rec.ObserveExecute(false, time.Second)

	reg := rec.Registry()
	count, err := testutil.GatherAndCount(reg, "bundl_compiles_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per result label")

	count, err = testutil.GatherAndCount(reg, "bundl_module_loads_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = testutil.GatherAndCount(reg, "bundl_registry_fetches_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = testutil.GatherAndCount(reg, "bundl_executions_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecorder_IndependentRegistries(t *testing.T) {
	a := metrics.New()
	b := metrics.New()

	a.ObserveLoad(domain.LoadSourceShared)

	count, err := testutil.GatherAndCount(b.Registry(), "bundl_module_loads_total")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRecorder_HTTPEndpoint(t *testing.T) {
	rec := metrics.New()
	rec.ObserveCompile(true, time.Millisecond)

	app := fiber.New()
	app.Use(rec.Middleware())
	app.Get("/metrics", rec.Handler())
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `bundl_compiles_total{result="success"} 1`)
	assert.Contains(t, string(body), `bundl_http_requests_total{method="GET",path="/ping",status="200"} 1`)
}
