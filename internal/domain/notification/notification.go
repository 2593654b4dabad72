// Package notification 站内通知(worker进程的落库模型)
//
// 通知由消息队列事件异步生成: API进程发布目录事件,
// worker消费后按事件类型翻译成面向用户/商家的站内通知
package notification

import (
	"context"
	"time"
)

// 通知类型
const (
	TypeLowStock      = "low_stock"      // 低库存提醒(商家)
	TypeNewReview     = "new_review"     // 新评价提醒(商家)
	TypeCatalogChange = "catalog_change" // 分类/商品变更广播
)

// 通知范围
const (
	ScopeUser      = "user"      // 定向到具体用户(UserID必填)
	ScopeBroadcast = "broadcast" // 全站广播(UserID为nil)
)

// Notification 站内通知实体
type Notification struct {
	ID        uint
	Type      string // 通知类型
	Scope     string // user/broadcast
	Title     string
	Message   string
	UserID    *uint // 定向通知的接收者(广播为nil)
	IsRead    bool
	CreatedAt time.Time
}

// NewUserNotification 创建定向通知
func NewUserNotification(userID uint, typ, title, message string) *Notification {
	return &Notification{
		Type:      typ,
		Scope:     ScopeUser,
		Title:     title,
		Message:   message,
		UserID:    &userID,
		CreatedAt: time.Now(),
	}
}

// NewBroadcast 创建广播通知
func NewBroadcast(typ, title, message string) *Notification {
	return &Notification{
		Type:      typ,
		Scope:     ScopeBroadcast,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now(),
	}
}

// Repository 通知仓储接口
type Repository interface {
	// Create 写入通知
	Create(ctx context.Context, n *Notification) error

	// ListByUser 用户的通知分页(含广播, 按创建时间倒序)
	ListByUser(ctx context.Context, userID uint, page, pageSize int) ([]*Notification, int64, error)

	// MarkRead 标记已读
	MarkRead(ctx context.Context, id, userID uint) error
}
