package log

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteTemplateMetricLabel(t *testing.T) {
	f := fiber.New(fiber.Config{DisableStartupMessage: true})
	f.Use(NewFiberLogger(&LoggerConfig{Name: "test", DoMetrics: true}))
	f.Get("/unit/:uid", func(c *fiber.Ctx) error { return c.SendString("ok") })

	for _, uid := range []string{"u1", "u2"} {
		res, err := f.Test(httptest.NewRequest("GET", "/unit/"+uid, nil), 3000)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)
	}

	// both requests land on one route-template series
	c := httpRequestsCount.WithLabelValues("test", "/unit/:uid", "GET", "200")
	assert.Equal(t, float64(2), testutil.ToFloat64(c))
}

func TestNilConfig(t *testing.T) {
	f := fiber.New(fiber.Config{DisableStartupMessage: true})
	f.Use(NewFiberLogger(nil))
	f.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	res, err := f.Test(httptest.NewRequest("GET", "/", nil), 3000)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}
