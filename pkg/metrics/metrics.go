// Package metrics 提供基于Prometheus的指标收集框架
//
// Metrics是可观测性三支柱之一（Tracing、Metrics、Logging）：
// - **Tracing（追踪）**: 回答"为什么慢？"（pkg/tracing）
// - **Metrics（指标）**: 回答"有多少？多快？"（本模块）
// - **Logging（日志）**: 回答"发生了什么？"
//
// # 核心概念
//
// **1. Counter（计数器）**：只增不减的累计值
//   - 示例：预约创建总数、准入拒绝总数
//
// **2. Gauge（仪表盘）**：可增可减的瞬时值
//   - 示例：正在处理的HTTP请求数、熔断器状态
//
// **3. Histogram（直方图）**：观测值的分布
//   - 示例：预约创建耗时、准入锁等待耗时（自动计算P50/P90/P99）
//
// # 使用示例
//
//	// 1. 初始化Metrics
//	metrics.InitMetrics()
//
//	// 2. 在HTTP服务中暴露/metrics端点
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	// 3. 在业务代码中记录指标
//	start := time.Now()
//	// ... 预约准入 ...
//	metrics.ObserveHistogram(metrics.BookingCreationDuration, time.Since(start).Seconds())
//	metrics.IncCounter(metrics.BookingsCreatedTotal)
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// initialized 标记是否已初始化（防止重复注册）
	initialized bool

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method（GET/POST）、path（/api/v1/bookings）、status（200/500）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数（Gauge）
	HTTPRequestsInProgress prometheus.Gauge

	// 预约业务指标

	// BookingsCreatedTotal 预约创建成功总数（Counter）
	BookingsCreatedTotal prometheus.Counter

	// BookingsRejectedTotal 预约准入拒绝总数（Counter）
	// 标签：reason（insufficient_inventory/busy/invalid_plan_store/validation）
	BookingsRejectedTotal *prometheus.CounterVec

	// BookingCreationDuration 预约创建耗时（Histogram）
	// 含准入锁等待+事务时间
	BookingCreationDuration prometheus.Histogram

	// AdmissionLockWait 准入锁等待耗时（Histogram）
	// 同一(门店,和服,日期)键上的排队时间，观察热点竞争
	AdmissionLockWait prometheus.Histogram

	// BookingsCancelledTotal 预约取消总数（Counter）
	BookingsCancelledTotal prometheus.Counter

	// 熔断器指标

	// CircuitBreakerState 熔断器状态（Gauge）
	// 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数（Counter）
	// 标签：name（熔断器名称）、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// Saga指标（套餐门店关联的破坏性重建使用saga）

	// SagaExecutionsTotal Saga执行总数（Counter）
	// 标签：result（success/failure）
	SagaExecutionsTotal *prometheus.CounterVec

	// SagaCompensationsTotal Saga补偿执行总数（Counter）
	SagaCompensationsTotal prometheus.Counter

	// 消息队列指标

	// MessagesPublishedTotal 消息发布总数（Counter）
	// 标签：exchange（交换机）、routing_key（路由键）
	MessagesPublishedTotal *prometheus.CounterVec

	// MessagesConsumedTotal 消息消费总数（Counter）
	// 标签：queue（队列名称）、result（success/failure）
	MessagesConsumedTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标
//
// 必须在程序启动时调用一次，用于注册所有指标到全局Registry
//
// 设计要点：
// 1. 使用promauto.New*自动注册到默认Registry
// 2. Counter使用*Vec支持标签（多维度统计）
// 3. Histogram的Buckets根据业务场景定制
func InitMetrics() {
	// 防止重复初始化
	if initialized {
		return
	}
	initialized = true

	// HTTP请求指标
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"}, // 标签：方法、路径、状态码
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP请求耗时（秒）",
			// 桶设置：1ms、10ms、100ms、500ms、1s、5s、10s
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"}, // 标签：方法、路径
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	// 预约业务指标
	BookingsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "预约创建成功总数",
		},
	)

	BookingsRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_rejected_total",
			Help: "预约准入拒绝总数",
		},
		[]string{"reason"}, // 标签：拒绝原因
	)

	BookingCreationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "booking_creation_duration_seconds",
			Help: "预约创建耗时（秒）",
			// 预约创建涉及锁等待+事务，桶设置偏宽
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
	)

	AdmissionLockWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "booking_admission_lock_wait_seconds",
			Help: "预约准入锁等待耗时（秒）",
			// 热点(门店,和服,日期)键上的排队时间
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 3},
		},
	)

	BookingsCancelledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_cancelled_total",
			Help: "预约取消总数",
		},
	)

	// 熔断器指标
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"}, // 标签：熔断器名称
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"}, // 标签：熔断器名称、结果（success/failure/rejected）
	)

	// Saga指标
	SagaExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saga_executions_total",
			Help: "Saga执行总数",
		},
		[]string{"result"}, // 标签：结果（success/failure）
	)

	SagaCompensationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "saga_compensations_total",
			Help: "Saga补偿执行总数",
		},
	)

	// 消息队列指标
	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key"}, // 标签：交换机、路由键
	)

	MessagesConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_consumed_total",
			Help: "消息消费总数",
		},
		[]string{"queue", "result"}, // 标签：队列名称、结果（success/failure）
	)
}

// 便捷函数统一做nil检查:未调用InitMetrics时(单元测试)静默跳过,
// 业务代码不必关心指标是否已初始化

// IncCounter 递增Counter（便捷函数）
func IncCounter(counter prometheus.Counter) {
	if counter != nil {
		counter.Inc()
	}
}

// IncCounterVec 递增带标签的Counter
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	if counter != nil {
		counter.With(labels).Inc()
	}
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	if gauge != nil {
		gauge.Inc()
	}
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	if gauge != nil {
		gauge.Dec()
	}
}

// SetGauge 设置Gauge值
func SetGauge(gauge prometheus.Gauge, value float64) {
	if gauge != nil {
		gauge.Set(value)
	}
}

// SetGaugeVec 设置带标签的Gauge值
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	if gauge != nil {
		gauge.With(labels).Set(value)
	}
}

// ObserveHistogram 记录Histogram观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	if histogram != nil {
		histogram.Observe(value)
	}
}

// ObserveHistogramVec 记录带标签的Histogram观测值
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	if histogram != nil {
		histogram.With(labels).Observe(value)
	}
}
