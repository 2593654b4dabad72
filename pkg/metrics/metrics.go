// Package metrics 提供基于Prometheus的指标收集框架
//
// # 核心概念
//
// **1. Counter（计数器）**：只增不减的累计值
//   - 示例：HTTP请求总数、目录写操作总数、库存扣减被拒总数
//   - 特点：只能调用Inc()递增
//
// **2. Gauge（仪表盘）**：可增可减的瞬时值
//   - 示例：正在处理的HTTP请求数、goroutine数量
//   - 特点：可以调用Inc()、Dec()、Set()
//
// **3. Histogram（直方图）**：观测值的分布
//   - 示例：HTTP请求耗时、分类子树改名耗时
//   - 特点：自动计算分位数（P50、P90、P99）
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
//	err := createVariant.Execute(ctx, input)
//	result := "success"
//	if err != nil {
//	    result = "failure"
//	}
//	metrics.IncCounterVec(metrics.CatalogWritesTotal, map[string]string{
//	    "operation": "create_variant",
//	    "result":    result,
//	})
//	metrics.ObserveHistogramVec(metrics.CatalogWriteDuration,
//	    map[string]string{"operation": "create_variant"},
//	    time.Since(start).Seconds())
//
// # 命名规范
//
// 1. **Counter**: 以`_total`结尾（http_requests_total）
// 2. **Histogram**: 以单位结尾（http_request_duration_seconds）
// 3. **Gauge**: 使用现在时态（http_requests_in_progress）
//
// # 最佳实践
//
// 1. 使用标签（Label）区分维度：operation、result、status
// 2. 避免高基数标签：❌ user_id/product_id ✅ operation/status
// 3. 合理设置Histogram桶：HTTP耗时 0.001~10秒
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
	// 标签：method（GET/POST）、path（/api/products）、status（200/500）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	// 桶设置：1ms、10ms、100ms、500ms、1s、5s、10s
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数（Gauge）
	HTTPRequestsInProgress prometheus.Gauge

	// 目录业务指标

	// CatalogWritesTotal 目录写操作总数（Counter）
	// 标签：operation（create_category/rename_category/create_variant/adjust_stock等）、
	//       result（success/failure）
	CatalogWritesTotal *prometheus.CounterVec

	// CatalogWriteDuration 目录写操作耗时（Histogram）
	// 标签：operation
	CatalogWriteDuration *prometheus.HistogramVec

	// StockRejectionsTotal 因可用库存不足被拒绝的扣减总数（Counter）
	StockRejectionsTotal prometheus.Counter

	// LowStockEventsTotal 触发低库存告警的调整总数（Counter）
	LowStockEventsTotal prometheus.Counter

	// ReviewRecomputesTotal 评分重算总数（Counter）
	// 每次评价增删改都会同步重算商品均分
	ReviewRecomputesTotal prometheus.Counter

	// 消息队列指标

	// MessagesPublishedTotal 消息发布总数（Counter）
	// 标签：exchange（交换机）、routing_key（路由键）
	MessagesPublishedTotal *prometheus.CounterVec

	// MessagesConsumedTotal 消息消费总数（Counter）
	// 标签：queue（队列名称）、result（success/failure）
	MessagesConsumedTotal *prometheus.CounterVec

	// MessageProcessingDuration 消息处理耗时（Histogram）
	MessageProcessingDuration prometheus.Histogram
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
			// 覆盖大部分HTTP请求耗时范围
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

	// 目录业务指标
	CatalogWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_writes_total",
			Help: "目录写操作总数",
		},
		[]string{"operation", "result"}, // 标签：操作、结果（success/failure）
	)

	CatalogWriteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "catalog_write_duration_seconds",
			Help: "目录写操作耗时（秒）",
			// 大部分写操作是单行写；分类改名/级联停用涉及子树UPDATE，可能到秒级
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"operation"},
	)

	StockRejectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stock_rejections_total",
			Help: "因可用库存不足被拒绝的扣减总数",
		},
	)

	LowStockEventsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "low_stock_events_total",
			Help: "触发低库存告警的调整总数",
		},
	)

	ReviewRecomputesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "review_recomputes_total",
			Help: "评分重算总数",
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

	MessageProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "message_processing_duration_seconds",
			Help:    "消息处理耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5},
		},
	)
}

// IncCounter 递增Counter（便捷函数）
func IncCounter(counter prometheus.Counter) {
	counter.Inc()
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// SetGauge 设置Gauge值
func SetGauge(gauge prometheus.Gauge, value float64) {
	gauge.Set(value)
}

// SetGaugeVec 设置GaugeVec值（带标签）
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	gauge.With(labels).Set(value)
}

// ObserveHistogram 记录Histogram观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	histogram.Observe(value)
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
