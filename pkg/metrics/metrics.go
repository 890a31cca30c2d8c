// Package metrics 提供基于Prometheus的指标收集
//
// 指标分两类:
// 1. HTTP指标: 请求总数、耗时分布、处理中请求数
// 2. 持久化指标: 按后端(MONGO/POSTGRES/MEMORY)和操作(create/update/delete)
//    维度统计的调用次数与耗时,用于观察双后端写入是否出现单边失败
//
// 命名规范:
// - Counter以_total结尾
// - Histogram以单位结尾(_seconds)
// - 标签只用低基数维度(method/path/status/backend/operation/result)
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// initialized 标记是否已初始化(防止重复注册)
	initialized bool

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数(Counter)
	// 标签:method(GET/POST)、path(/book)、status(200/409)
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时(Histogram)
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数(Gauge)
	HTTPRequestsInProgress prometheus.Gauge

	// 持久化相关指标

	// PersistenceOpsTotal 持久化操作总数(Counter)
	// 标签:backend(MONGO/POSTGRES/MEMORY)、operation(create/update/delete)、result(success/failure)
	PersistenceOpsTotal *prometheus.CounterVec

	// PersistenceOpDuration 持久化操作耗时(Histogram)
	// 标签:backend、operation
	PersistenceOpDuration *prometheus.HistogramVec

	// 业务指标

	// BooksCreatedTotal 创建成功的图书总数(Counter)
	BooksCreatedTotal prometheus.Counter

	// BooksDeletedTotal 删除成功的图书总数(Counter)
	BooksDeletedTotal prometheus.Counter
)

// InitMetrics 初始化所有Prometheus指标
//
// 必须在程序启动时调用一次,注册所有指标到默认Registry。
// 未调用时RecordPersistenceOp等辅助函数是空操作,
// 这样单元测试可以在不初始化指标的情况下使用上层组件。
func InitMetrics() {
	// 防止重复初始化
	if initialized {
		return
	}
	initialized = true

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时(秒)",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	PersistenceOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persistence_operations_total",
			Help: "持久化操作总数",
		},
		[]string{"backend", "operation", "result"},
	)

	PersistenceOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "persistence_operation_duration_seconds",
			Help:    "持久化操作耗时(秒)",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"backend", "operation"},
	)

	BooksCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "books_created_total",
			Help: "创建成功的图书总数",
		},
	)

	BooksDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "books_deleted_total",
			Help: "删除成功的图书总数",
		},
	)
}

// RecordPersistenceOp 记录一次持久化操作
// 未初始化时为空操作。
func RecordPersistenceOp(backend, operation, result string, duration time.Duration) {
	if !initialized {
		return
	}
	PersistenceOpsTotal.With(prometheus.Labels{
		"backend":   backend,
		"operation": operation,
		"result":    result,
	}).Inc()
	if duration > 0 {
		PersistenceOpDuration.With(prometheus.Labels{
			"backend":   backend,
			"operation": operation,
		}).Observe(duration.Seconds())
	}
}

// IncCounter 递增Counter(便捷函数)
func IncCounter(counter prometheus.Counter) {
	if counter == nil {
		return
	}
	counter.Inc()
}

// IncCounterVec 递增CounterVec(带标签)
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	if counter == nil {
		return
	}
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	if gauge == nil {
		return
	}
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	if gauge == nil {
		return
	}
	gauge.Dec()
}

// ObserveHistogramVec 记录HistogramVec观测值(带标签)
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	if histogram == nil {
		return
	}
	histogram.With(labels).Observe(value)
}
