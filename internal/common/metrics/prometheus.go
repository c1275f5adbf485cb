// Package metrics 提供 Prometheus 指标收集
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 指标收集器
type Metrics struct {
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge
	dbQueriesTotal       *prometheus.CounterVec
	dbQueryDuration      *prometheus.HistogramVec
	cacheHitsTotal       *prometheus.CounterVec
	cacheMissesTotal     *prometheus.CounterVec
	reservationsTotal    *prometheus.CounterVec
	bookingConflicts     prometheus.Counter
	paymentsTotal        *prometheus.CounterVec
	refundsTotal         prometheus.Counter
	stalePendingPayments prometheus.Gauge
	gatewayCallbacks     *prometheus.CounterVec
}

var defaultMetrics *Metrics

// Init 初始化指标收集器
func Init(namespace string) *Metrics {
	if namespace == "" {
		namespace = "quantum_saas"
	}

	m := &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		httpRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),
		dbQueriesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "db_queries_total",
				Help:      "Total number of database queries",
			},
			[]string{"operation", "table"},
		),
		dbQueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "db_query_duration_seconds",
				Help:      "Database query duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation", "table"},
		),
		cacheHitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Total number of cache hits",
			},
			[]string{"cache"},
		),
		cacheMissesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Total number of cache misses",
			},
			[]string{"cache"},
		),
		reservationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reservations_total",
				Help:      "Total number of reservation state changes",
			},
			[]string{"status"},
		),
		bookingConflicts: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "booking_conflicts_total",
				Help:      "Total number of rejected overlapping booking attempts",
			},
		),
		paymentsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "payments_total",
				Help:      "Total number of payment state changes",
			},
			[]string{"method", "status"},
		),
		refundsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "refunds_total",
				Help:      "Total number of completed refunds",
			},
		),
		stalePendingPayments: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "stale_pending_payments",
				Help:      "Number of pending payments older than the staleness threshold",
			},
		),
		gatewayCallbacks: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "gateway_callbacks_total",
				Help:      "Total number of payment gateway confirmation callbacks",
			},
			[]string{"result"},
		),
	}

	defaultMetrics = m
	return m
}

// GetMetrics 获取默认指标收集器
func GetMetrics() *Metrics {
	if defaultMetrics == nil {
		return Init("")
	}
	return defaultMetrics
}

// Middleware 返回 Gin 中间件
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 跳过 metrics 端点本身
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		m.httpRequestsInFlight.Inc()

		c.Next()

		m.httpRequestsInFlight.Dec()
		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}

		m.httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(duration)
	}
}

// Handler 返回 Prometheus HTTP 处理器
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// RecordDBQuery 记录数据库查询
func (m *Metrics) RecordDBQuery(operation, table string, duration time.Duration) {
	m.dbQueriesTotal.WithLabelValues(operation, table).Inc()
	m.dbQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// RecordCacheHit 记录缓存命中
func (m *Metrics) RecordCacheHit(cache string) {
	m.cacheHitsTotal.WithLabelValues(cache).Inc()
}

// RecordCacheMiss 记录缓存未命中
func (m *Metrics) RecordCacheMiss(cache string) {
	m.cacheMissesTotal.WithLabelValues(cache).Inc()
}

// RecordReservation 记录预订状态变更
func (m *Metrics) RecordReservation(status string) {
	m.reservationsTotal.WithLabelValues(status).Inc()
}

// RecordBookingConflict 记录被拒绝的冲突预订
func (m *Metrics) RecordBookingConflict() {
	m.bookingConflicts.Inc()
}

// RecordPayment 记录支付状态变更
func (m *Metrics) RecordPayment(method, status string) {
	m.paymentsTotal.WithLabelValues(method, status).Inc()
}

// RecordRefund 记录退款
func (m *Metrics) RecordRefund() {
	m.refundsTotal.Inc()
}

// SetStalePendingPayments 设置滞留待支付数量
func (m *Metrics) SetStalePendingPayments(count float64) {
	m.stalePendingPayments.Set(count)
}

// RecordGatewayCallback 记录支付网关回调结果
func (m *Metrics) RecordGatewayCallback(result string) {
	m.gatewayCallbacks.WithLabelValues(result).Inc()
}

// RecordHTTPRequest 手动记录 HTTP 请求（用于非中间件场景）
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m := GetMetrics()
	m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordDBQueryGlobal 全局记录数据库查询
func RecordDBQueryGlobal(operation, table string, duration time.Duration) {
	GetMetrics().RecordDBQuery(operation, table, duration)
}

// RecordCacheHitGlobal 全局记录缓存命中
func RecordCacheHitGlobal(cache string) {
	GetMetrics().RecordCacheHit(cache)
}

// RecordCacheMissGlobal 全局记录缓存未命中
func RecordCacheMissGlobal(cache string) {
	GetMetrics().RecordCacheMiss(cache)
}
