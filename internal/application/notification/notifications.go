package notification

import (
	"context"

	"github.com/qiwen/vendormall/internal/domain/notification"
)

// NotificationsUseCase 站内通知用例(查询+已读)
// 通知的写入在worker进程里(消费目录事件后落库), API侧只读
type NotificationsUseCase struct {
	notificationRepo notification.Repository
}

// NewNotificationsUseCase 创建用例
func NewNotificationsUseCase(notificationRepo notification.Repository) *NotificationsUseCase {
	return &NotificationsUseCase{
		notificationRepo: notificationRepo,
	}
}

// NotificationResponse 通知响应DTO
type NotificationResponse struct {
	ID        uint   `json:"id"`
	Type      string `json:"type"`
	Scope     string `json:"scope"`
	Title     string `json:"title"`
	Message   string `json:"message,omitempty"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

// List 用户的通知分页(含全站广播)
func (uc *NotificationsUseCase) List(ctx context.Context, userID uint, page, pageSize int) ([]*NotificationResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	items, total, err := uc.notificationRepo.ListByUser(ctx, userID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*NotificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, &NotificationResponse{
			ID:        n.ID,
			Type:      n.Type,
			Scope:     n.Scope,
			Title:     n.Title,
			Message:   n.Message,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return out, total, nil
}

// MarkRead 标记已读(只能标记发给自己的通知)
func (uc *NotificationsUseCase) MarkRead(ctx context.Context, id, userID uint) error {
	return uc.notificationRepo.MarkRead(ctx, id, userID)
}
