package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Login counters
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "clyrai_login_total",
			Help: "Total number of login attempts",
		},
	)

	// Registration counters
	RegisterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "clyrai_register_total",
			Help: "Total number of user registrations",
		},
	)

	// Chat run counter by outcome
	ChatRunCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clyrai_chat_runs_total",
			Help: "Total number of assistant runs by outcome",
		},
		[]string{"outcome"}, // "completed", "failed", "timeout", "no_reply", "unavailable"
	)

	// Fallback read counter by store operation
	FallbackReadCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clyrai_fallback_reads_total",
			Help: "Total number of reads served from the fallback data set",
		},
		[]string{"operation"},
	)

	// Access check counter by result
	AccessCheckCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clyrai_access_checks_total",
			Help: "Total number of subscription access checks by result",
		},
		[]string{"result"}, // "granted", "denied", "fail_open", "fail_closed"
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clyrai_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Error counters
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clyrai_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // type can be "login_failure", "invalid_token", "db_error" etc.
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clyrai_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Assistant run duration, from run creation to terminal status
	RunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "clyrai_run_duration_seconds",
			Help:    "Duration of assistant runs in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clyrai_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // operation can be "query", "insert", "update", "delete"
	)
)

// Gauge metrics
var (
	// Runs currently awaiting a terminal status
	ActiveRunsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "clyrai_active_runs",
			Help: "Number of assistant runs currently in flight",
		},
	)

	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "clyrai_info",
			Help: "Information about the Clyrai platform service",
		},
		[]string{"version"},
	)
)

func init() {
	// Register counters
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(RegisterCounter)
	prometheus.MustRegister(ChatRunCounter)
	prometheus.MustRegister(FallbackReadCounter)
	prometheus.MustRegister(AccessCheckCounter)
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(AuthErrorCounter)

	// Register histograms
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(RunDuration)
	prometheus.MustRegister(DBOperationDuration)

	// Register gauges
	prometheus.MustRegister(ActiveRunsGauge)
	prometheus.MustRegister(InfoGauge)

	// Set initial service info
	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// RecordFallbackRead counts a read served from the fallback data set
func RecordFallbackRead(operation string) {
	FallbackReadCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordAccessCheck counts an access-check result
func RecordAccessCheck(result string) {
	AccessCheckCounter.With(prometheus.Labels{"result": result}).Inc()
}

// RecordAuthError counts an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordChatRun counts an assistant run by outcome
func RecordChatRun(outcome string) {
	ChatRunCounter.With(prometheus.Labels{"outcome": outcome}).Inc()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Execute the request handler
			err := next(c)

			// Record request duration
			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}
