package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/qiwen/vendormall/internal/domain/review"
	apperrors "github.com/qiwen/vendormall/pkg/errors"
)

// reviewRepository 评价仓储实现(MySQL)
// 设计说明:
// 1. (product_id, user_id)复合唯一索引保证一人一评,
//    冲突映射为ErrAlreadyReviewed
// 2. AggregateByProduct在评价事务内被调用, 必须走getDB
//    (事务内聚合才能看到刚写入的评价)
type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建评价仓储
func NewReviewRepository(db *gorm.DB) review.Repository {
	return &reviewRepository{db: db}
}

// Create 创建评价
func (r *reviewRepository) Create(ctx context.Context, rv *review.Review) error {
	model := &ReviewModel{
		ProductID:          rv.ProductID,
		UserID:             rv.UserID,
		Rating:             rv.Rating,
		Comment:            rv.Comment,
		IsVerifiedPurchase: rv.IsVerifiedPurchase,
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return review.ErrAlreadyReviewed
		}
		return apperrors.Wrap(err, "创建评价失败")
	}

	rv.ID = model.ID
	rv.CreatedAt = model.CreatedAt
	rv.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找评价
func (r *reviewRepository) FindByID(ctx context.Context, id uint) (*review.Review, error) {
	var model ReviewModel
	err := getDB(ctx, r.db).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, review.ErrReviewNotFound
		}
		return nil, apperrors.Wrap(err, "查询评价失败")
	}
	return toReviewEntity(&model), nil
}

// FindByProductAndUser 查找用户对商品的评价
func (r *reviewRepository) FindByProductAndUser(ctx context.Context, productID, userID uint) (*review.Review, error) {
	var model ReviewModel
	err := getDB(ctx, r.db).
		Where("product_id = ? AND user_id = ?", productID, userID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, review.ErrReviewNotFound
		}
		return nil, apperrors.Wrap(err, "查询评价失败")
	}
	return toReviewEntity(&model), nil
}

// Update 更新评价
func (r *reviewRepository) Update(ctx context.Context, rv *review.Review) error {
	result := getDB(ctx, r.db).Model(&ReviewModel{}).
		Where("id = ?", rv.ID).
		Updates(map[string]interface{}{
			"rating":  rv.Rating,
			"comment": rv.Comment,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新评价失败")
	}
	return nil
}

// Delete 物理删除评价
func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&ReviewModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除评价失败")
	}
	if result.RowsAffected == 0 {
		return review.ErrReviewNotFound
	}
	return nil
}

// AggregateByProduct 聚合商品评分
// COALESCE处理无评价时AVG为NULL的情况
func (r *reviewRepository) AggregateByProduct(ctx context.Context, productID uint) (review.RatingStats, error) {
	var row struct {
		Avg   float64
		Count int
	}
	err := getDB(ctx, r.db).Model(&ReviewModel{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&row).Error
	if err != nil {
		return review.RatingStats{}, apperrors.Wrap(err, "聚合评分失败")
	}
	return review.RatingStats{Avg: row.Avg, Count: row.Count}, nil
}

// ListByProduct 商品评价分页(按创建时间倒序)
func (r *reviewRepository) ListByProduct(ctx context.Context, productID uint, page, pageSize int) ([]*review.Review, int64, error) {
	return r.list(ctx, "product_id = ?", productID, page, pageSize)
}

// ListByUser 用户自己的评价分页
func (r *reviewRepository) ListByUser(ctx context.Context, userID uint, page, pageSize int) ([]*review.Review, int64, error) {
	return r.list(ctx, "user_id = ?", userID, page, pageSize)
}

func (r *reviewRepository) list(ctx context.Context, cond string, arg uint, page, pageSize int) ([]*review.Review, int64, error) {
	var models []ReviewModel
	var total int64

	query := getDB(ctx, r.db).Model(&ReviewModel{}).Where(cond, arg)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询评价总数失败")
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC, id DESC").Limit(pageSize).Offset(offset).Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询评价列表失败")
	}

	out := make([]*review.Review, 0, len(models))
	for i := range models {
		out = append(out, toReviewEntity(&models[i]))
	}
	return out, total, nil
}

// toReviewEntity GORM模型 → 领域实体
func toReviewEntity(model *ReviewModel) *review.Review {
	return &review.Review{
		ID:                 model.ID,
		ProductID:          model.ProductID,
		UserID:             model.UserID,
		Rating:             model.Rating,
		Comment:            model.Comment,
		IsVerifiedPurchase: model.IsVerifiedPurchase,
		CreatedAt:          model.CreatedAt,
		UpdatedAt:          model.UpdatedAt,
	}
}
