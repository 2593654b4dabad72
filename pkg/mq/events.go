package mq

import "time"

// 事件契约：API进程发布、worker进程消费的消息都定义在这里，
// 两端共用同一份结构体，避免字段漂移

// Exchange与队列约定
const (
	ExchangeEvents    = "vendormall.events"
	ExchangeTypeTopic = "topic"
	QueueNotification = "catalog.notification"
)

// 路由键
const (
	KeyCategoryCreated     = "category.created"
	KeyCategoryRenamed     = "category.renamed"
	KeyCategoryDeactivated = "category.deactivated"
	KeyCategoryDeleted     = "category.deleted"

	KeyProductCreated = "product.created"
	KeyProductUpdated = "product.updated"
	KeyProductDeleted = "product.deleted"

	KeyReviewCreated = "review.created"
	KeyReviewDeleted = "review.deleted"

	KeyInventoryAdjusted = "inventory.adjusted"
	KeyInventoryLowStock = "inventory.low_stock"
)

// CategoryEvent 分类事件
// Renamed时OldPath/NewPath均有值；Deactivated/Deleted时只填Path
type CategoryEvent struct {
	CategoryID uint      `json:"category_id"`
	Name       string    `json:"name"`
	Path       string    `json:"path,omitempty"`
	OldPath    string    `json:"old_path,omitempty"`
	NewPath    string    `json:"new_path,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ProductEvent 商品事件
type ProductEvent struct {
	ProductID  uint      `json:"product_id"`
	VendorID   uint      `json:"vendor_id"`
	Title      string    `json:"title"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ReviewEvent 评价事件
// VendorID是被评价商品的归属商家，worker据此生成商家侧通知
type ReviewEvent struct {
	ReviewID   uint      `json:"review_id"`
	ProductID  uint      `json:"product_id"`
	VendorID   uint      `json:"vendor_id"`
	UserID     uint      `json:"user_id"`
	Rating     int       `json:"rating"`
	OccurredAt time.Time `json:"occurred_at"`
}

// StockEvent 库存调整事件
type StockEvent struct {
	VariantID  uint      `json:"variant_id"`
	ProductID  uint      `json:"product_id"`
	VendorID   uint      `json:"vendor_id"`
	Delta      int       `json:"delta"`
	Stock      int       `json:"stock"`
	OccurredAt time.Time `json:"occurred_at"`
}

// LowStockEvent 低库存事件（调整后 stock <= threshold 时发布）
type LowStockEvent struct {
	VariantID  uint      `json:"variant_id"`
	ProductID  uint      `json:"product_id"`
	VendorID   uint      `json:"vendor_id"`
	SKU        string    `json:"sku"`
	Stock      int       `json:"stock"`
	Threshold  int       `json:"threshold"`
	OccurredAt time.Time `json:"occurred_at"`
}
