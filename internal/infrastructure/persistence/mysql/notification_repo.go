package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/qiwen/vendormall/internal/domain/notification"
	apperrors "github.com/qiwen/vendormall/pkg/errors"
)

// notificationRepository 通知仓储实现(MySQL)
// worker进程消费目录事件后经由这里落库
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository 创建通知仓储
func NewNotificationRepository(db *gorm.DB) notification.Repository {
	return &notificationRepository{db: db}
}

// Create 写入通知
func (r *notificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	model := &NotificationModel{
		Type:    n.Type,
		Scope:   n.Scope,
		Title:   n.Title,
		Message: n.Message,
		UserID:  n.UserID,
		IsRead:  n.IsRead,
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "写入通知失败")
	}

	n.ID = model.ID
	n.CreatedAt = model.CreatedAt
	return nil
}

// ListByUser 用户的通知分页(定向 + 广播, 按创建时间倒序)
func (r *notificationRepository) ListByUser(ctx context.Context, userID uint, page, pageSize int) ([]*notification.Notification, int64, error) {
	var models []NotificationModel
	var total int64

	query := getDB(ctx, r.db).Model(&NotificationModel{}).
		Where("user_id = ? OR scope = ?", userID, notification.ScopeBroadcast)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询通知总数失败")
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC, id DESC").Limit(pageSize).Offset(offset).Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询通知列表失败")
	}

	out := make([]*notification.Notification, 0, len(models))
	for i := range models {
		out = append(out, &notification.Notification{
			ID:        models[i].ID,
			Type:      models[i].Type,
			Scope:     models[i].Scope,
			Title:     models[i].Title,
			Message:   models[i].Message,
			UserID:    models[i].UserID,
			IsRead:    models[i].IsRead,
			CreatedAt: models[i].CreatedAt,
		})
	}
	return out, total, nil
}

// MarkRead 标记已读(只能标记自己的定向通知)
func (r *notificationRepository) MarkRead(ctx context.Context, id, userID uint) error {
	result := getDB(ctx, r.db).Model(&NotificationModel{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "标记已读失败")
	}
	return nil
}
