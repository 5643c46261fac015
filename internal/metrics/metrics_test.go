package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.MenuFetch(true)
		m.MenuCache(false)
		m.CartPersistFailed()
		m.OrderCreated()
		m.StatusChanged("delivered")
		m.WSConnected(1)
	})
}

func TestCounters(t *testing.T) {
	m := New()

	m.MenuFetch(false)
	m.MenuFetch(false)
	m.MenuFetch(true)
	m.CartPersistFailed()
	m.StatusChanged("preparing")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.menuFetches.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.menuFetches.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cartPersistErrors))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.statusChanges.WithLabelValues("preparing")))
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := New()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/menu", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/menu", nil))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues(http.MethodGet, "/api/menu", "200")))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "pizzeria_http_requests_total"))
}
