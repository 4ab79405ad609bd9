package monitor

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pairplay/backend/internal/game"
)

// Metrics collects game and HTTP metrics. It satisfies game.Recorder.
type Metrics struct {
	GamesCreated    prometheus.Counter
	GamesRestarted  prometheus.Counter
	Moves           *prometheus.CounterVec
	MoveRejections  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

var _ game.Recorder = (*Metrics)(nil)

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(namespace string, reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		GamesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_created_total",
			Help:      "Number of games created",
		}),
		GamesRestarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_restarted_total",
			Help:      "Number of games restarted",
		}),
		Moves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moves_total",
			Help:      "Number of accepted moves by outcome",
		}, []string{"outcome"}),
		MoveRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "move_rejections_total",
			Help:      "Number of rejected moves by reason",
		}, []string{"reason"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"method", "route", "status"}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.GamesCreated,
		m.GamesRestarted,
		m.Moves,
		m.MoveRejections,
		m.RequestDuration,
	)

	return m
}

func (m *Metrics) GameCreated() {
	m.GamesCreated.Inc()
}

func (m *Metrics) MoveApplied(status game.Status) {
	m.Moves.WithLabelValues(string(status)).Inc()
}

func (m *Metrics) MoveRejected(code string) {
	m.MoveRejections.WithLabelValues(code).Inc()
}

func (m *Metrics) GameRestarted() {
	m.GamesRestarted.Inc()
}

// Middleware observes the latency of every routed request.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
}
