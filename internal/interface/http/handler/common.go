package handler

import (
	"log"
	"time"

	"github.com/qiwen/vendormall/pkg/circuitbreaker"
	"github.com/qiwen/vendormall/pkg/metrics"
	"github.com/qiwen/vendormall/pkg/mq"
)

// recordCatalogWrite 记录目录写操作指标（次数+耗时）
// operation示例: create_category/rename_category/create_variant/adjust_stock
func recordCatalogWrite(operation string, start time.Time, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	metrics.IncCounterVec(metrics.CatalogWritesTotal, map[string]string{
		"operation": operation,
		"result":    result,
	})
	metrics.ObserveHistogramVec(metrics.CatalogWriteDuration,
		map[string]string{"operation": operation},
		time.Since(start).Seconds())
}

// publishBreaker MQ发布的熔断器
// broker宕机时Publish会阻塞到写超时, 熔断后写请求不再逐个等超时,
// 事件直接丢弃(通知允许丢, 强一致数据不走MQ)
var publishBreaker = circuitbreaker.NewCircuitBreaker("mq-publish", circuitbreaker.Config{
	MaxRequests: 3,
	Interval:    30 * time.Second,
	Timeout:     60 * time.Second,
	ReadyToTrip: func(counts circuitbreaker.Counts) bool {
		return counts.ConsecutiveFailures >= 5
	},
})

// publishEvent 发布领域事件（发布失败只记日志, 不影响已提交的写入）
// publisher为nil表示MQ未启用, 静默跳过
func publishEvent(publisher *mq.Publisher, routingKey string, event interface{}) {
	if publisher == nil {
		return
	}

	err := publishBreaker.Execute(func() error {
		return publisher.Publish(routingKey, event)
	})
	if err != nil {
		log.Printf("❌ 事件发布失败: RoutingKey=%s, err=%v", routingKey, err)
		return
	}

	metrics.IncCounterVec(metrics.MessagesPublishedTotal, map[string]string{
		"exchange":    mq.ExchangeEvents,
		"routing_key": routingKey,
	})
}
