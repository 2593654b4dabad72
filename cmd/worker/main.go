package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/qiwen/vendormall/internal/domain/notification"
	"github.com/qiwen/vendormall/internal/infrastructure/config"
	"github.com/qiwen/vendormall/internal/infrastructure/persistence/mysql"
	"github.com/qiwen/vendormall/pkg/metrics"
	"github.com/qiwen/vendormall/pkg/mq"
	"github.com/qiwen/vendormall/pkg/tracing"
)

// main 通知worker入口
// 消费API进程发布的目录事件, 翻译成站内通知落库。
// 通知允许晚到, 所以走异步消费; 评分/库存这类强一致数据不经过这里
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	if !cfg.MQ.Enabled {
		log.Fatalf("MQ未启用, worker无事可做(检查config的mq.enabled)")
	}

	metrics.InitMetrics()

	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer("vendormall-worker", cfg.Tracing.Endpoint)
		if err != nil {
			log.Fatalf("初始化Tracer失败: %v", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Printf("关闭Tracer失败: %v", err)
			}
		}()
	}

	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}
	notificationRepo := mysql.NewNotificationRepository(db)

	consumer, err := mq.NewConsumer(
		cfg.MQ.URL,
		mq.ExchangeEvents,
		mq.ExchangeTypeTopic,
		mq.QueueNotification,
		[]string{"category.*", "product.*", "review.*", "inventory.*"},
	)
	if err != nil {
		log.Fatalf("创建消费者失败: %v", err)
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("🚀 通知worker已启动, 队列: %s\n", mq.QueueNotification)

	dispatcher := &eventDispatcher{repo: notificationRepo}
	if err := consumer.Consume(ctx, dispatcher.handle); err != nil {
		log.Fatalf("消费失败: %v", err)
	}
}

// eventDispatcher 事件→站内通知的翻译器
type eventDispatcher struct {
	repo notification.Repository
}

// handle 按路由键分发(返回error会让消息重新入队)
func (d *eventDispatcher) handle(routingKey string, body []byte) error {
	start := time.Now()
	err := d.dispatch(routingKey, body)

	result := "success"
	if err != nil {
		result = "failure"
	}
	metrics.IncCounterVec(metrics.MessagesConsumedTotal, map[string]string{
		"queue":  mq.QueueNotification,
		"result": result,
	})
	metrics.ObserveHistogram(metrics.MessageProcessingDuration, time.Since(start).Seconds())

	return err
}

func (d *eventDispatcher) dispatch(routingKey string, body []byte) error {
	ctx := context.Background()

	switch routingKey {
	case mq.KeyCategoryCreated:
		var evt mq.CategoryEvent
		if err := json.Unmarshal(body, &evt); err != nil {
			return err
		}
		return d.repo.Create(ctx, notification.NewBroadcast(
			notification.TypeCatalogChange,
			"新分类上线",
			fmt.Sprintf("分类「%s」已上线", evt.Name),
		))

	case mq.KeyCategoryRenamed:
		var evt mq.CategoryEvent
		if err := json.Unmarshal(body, &evt); err != nil {
			return err
		}
		return d.repo.Create(ctx, notification.NewBroadcast(
			notification.TypeCatalogChange,
			"分类调整",
			fmt.Sprintf("分类「%s」已更名, 链接由 %s 变更为 %s", evt.Name, evt.OldPath, evt.NewPath),
		))

	case mq.KeyCategoryDeactivated, mq.KeyCategoryDeleted:
		var evt mq.CategoryEvent
		if err := json.Unmarshal(body, &evt); err != nil {
			return err
		}
		return d.repo.Create(ctx, notification.NewBroadcast(
			notification.TypeCatalogChange,
			"分类下线",
			fmt.Sprintf("分类「%s」已下线", evt.Name),
		))

	case mq.KeyProductCreated:
		var evt mq.ProductEvent
		if err := json.Unmarshal(body, &evt); err != nil {
			return err
		}
		return d.repo.Create(ctx, notification.NewBroadcast(
			notification.TypeCatalogChange,
			"新品上架",
			fmt.Sprintf("商品「%s」已上架", evt.Title),
		))

	case mq.KeyReviewCreated:
		var evt mq.ReviewEvent
		if err := json.Unmarshal(body, &evt); err != nil {
			return err
		}
		if evt.VendorID == 0 {
			return nil
		}
		return d.repo.Create(ctx, notification.NewUserNotification(
			evt.VendorID,
			notification.TypeNewReview,
			"收到新评价",
			fmt.Sprintf("您的商品收到一条%d星评价", evt.Rating),
		))

	case mq.KeyInventoryLowStock:
		var evt mq.LowStockEvent
		if err := json.Unmarshal(body, &evt); err != nil {
			return err
		}
		return d.repo.Create(ctx, notification.NewUserNotification(
			evt.VendorID,
			notification.TypeLowStock,
			"库存告警",
			fmt.Sprintf("SKU %s 当前库存%d, 已低于阈值%d, 请及时补货", evt.SKU, evt.Stock, evt.Threshold),
		))

	default:
		// 其余事件(product.updated/deleted, review.deleted, inventory.adjusted)
		// 当前不产生通知, 直接ACK
		return nil
	}
}
