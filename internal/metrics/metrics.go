// Package metrics exposes Prometheus counters for routed commands and the
// HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	commandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jarvis_commands_total",
			Help: "Routed commands by intent and language",
		},
		[]string{"intent", "language"},
	)

	commandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jarvis_command_duration_seconds",
			Help:    "Time to produce a reply",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"intent"},
	)

	fileOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jarvis_file_operations_total",
			Help: "File operations by operation and outcome kind",
		},
		[]string{"op", "kind"},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jarvis_http_requests_total",
			Help: "HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jarvis_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	wsConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jarvis_ws_connections_active",
			Help: "Open websocket sessions",
		},
	)

	utterancesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jarvis_utterances_total",
			Help: "Speech attempts by result",
		},
		[]string{"result"},
	)
)

func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordCommand(intent, language string, d time.Duration) {
	commandsTotal.WithLabelValues(intent, language).Inc()
	commandDuration.WithLabelValues(intent).Observe(d.Seconds())
}

func RecordFileOp(op, kind string) {
	fileOpsTotal.WithLabelValues(op, kind).Inc()
}

func RecordHTTPRequest(method, path string, status int, d time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

func WSConnected()    { wsConnections.Inc() }
func WSDisconnected() { wsConnections.Dec() }

// RecordUtterance counts finished speech. Cancelled utterances count as
// "interrupted".
func RecordUtterance(err error, interrupted bool) {
	result := "ok"
	switch {
	case interrupted:
		result = "interrupted"
	case err != nil:
		result = "error"
	}
	utterancesTotal.WithLabelValues(result).Inc()
}
