package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Akas679/Inventory-web/src/config"
)

var (
	// Domain metrics
	StockMovementCounter   *prometheus.CounterVec
	BalanceConflictCounter prometheus.Counter
	AlertsRaisedCounter    *prometheus.CounterVec
	AlertsResolvedCounter  prometheus.Counter
	PlansCreatedCounter    prometheus.Counter

	// Request metrics
	RequestDurationHistogram *prometheus.HistogramVec
	APIRequestCounter        *prometheus.CounterVec
	APIErrorCounter          *prometheus.CounterVec

	namespace string
)

// InitMetrics initializes all Prometheus metrics
func InitMetrics(cfg *config.Config) {
	namespace = cfg.Metrics.Prefix

	StockMovementCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_movements_total",
			Help:      "Total number of committed stock movements",
		},
		[]string{"type"},
	)

	BalanceConflictCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "balance_conflicts_total",
		Help:      "Total number of lost compare-and-swap balance writes",
	})

	AlertsRaisedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_raised_total",
			Help:      "Total number of low stock alerts raised",
		},
		[]string{"level"},
	)

	AlertsResolvedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_resolved_total",
		Help:      "Total number of low stock alerts resolved",
	})

	PlansCreatedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "weekly_plans_created_total",
		Help:      "Total number of weekly stock plans created",
	})

	RequestDurationHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	APIRequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Total number of API requests",
		},
		[]string{"method", "path"},
	)

	APIErrorCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_errors_total",
			Help:      "Total number of API errors",
		},
		[]string{"method", "path", "status"},
	)
}

// Middleware tracks request metrics
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		APIRequestCounter.With(prometheus.Labels{
			"method": c.Request.Method,
			"path":   path,
		}).Inc()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		RequestDurationHistogram.With(prometheus.Labels{
			"method": c.Request.Method,
			"path":   path,
			"status": status,
		}).Observe(duration)

		if c.Writer.Status() >= 400 {
			APIErrorCounter.With(prometheus.Labels{
				"method": c.Request.Method,
				"path":   path,
				"status": status,
			}).Inc()
		}
	}
}

// Handler returns the HTTP handler for the metrics endpoint
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// Record helpers are nil-safe so code paths exercised before InitMetrics
// (unit tests, mostly) do not panic.

// RecordStockMovement increments the movement counter for a transaction type
func RecordStockMovement(txnType string) {
	if StockMovementCounter != nil {
		StockMovementCounter.With(prometheus.Labels{"type": txnType}).Inc()
	}
}

// RecordBalanceConflict counts one lost compare-and-swap write
func RecordBalanceConflict() {
	if BalanceConflictCounter != nil {
		BalanceConflictCounter.Inc()
	}
}

// RecordAlertRaised increments the raised counter for an alert level
func RecordAlertRaised(level string) {
	if AlertsRaisedCounter != nil {
		AlertsRaisedCounter.With(prometheus.Labels{"level": level}).Inc()
	}
}

// RecordAlertResolved counts one resolved alert
func RecordAlertResolved() {
	if AlertsResolvedCounter != nil {
		AlertsResolvedCounter.Inc()
	}
}

// RecordPlansCreated counts created weekly stock plans
func RecordPlansCreated(count int) {
	if PlansCreatedCounter != nil {
		PlansCreatedCounter.Add(float64(count))
	}
}
