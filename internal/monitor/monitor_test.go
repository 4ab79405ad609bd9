package monitor

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pairplay/backend/internal/game"
)

func TestRecorder(t *testing.T) {
	m := NewMetrics("test", prometheus.NewRegistry())

	m.GameCreated()
	m.GameCreated()
	m.MoveApplied(game.StatusOK)
	m.MoveApplied(game.StatusWin)
	m.MoveApplied(game.StatusOK)
	m.MoveRejected("NOT_YOUR_TURN")
	m.GameRestarted()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.GamesCreated))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Moves.WithLabelValues("OK")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Moves.WithLabelValues("WIN")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Moves.WithLabelValues("DRAW")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MoveRejections.WithLabelValues("NOT_YOUR_TURN")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GamesRestarted))
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics("test", prometheus.NewRegistry())

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", m.Handler())

	// Given: one served request
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	// When: scraping the registry
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	// Then: the latency of the request is exposed
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `test_http_request_duration_seconds_count{method="GET",route="/ping",status="200"} 1`)
	assert.Contains(t, w.Body.String(), "test_games_created_total 0")
}
