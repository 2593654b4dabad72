package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/qiwen/vendormall/internal/domain/review"
	apperrors "github.com/qiwen/vendormall/pkg/errors"
)

// pinRepository 置顶仓储实现(MySQL)
type pinRepository struct {
	db *gorm.DB
}

// NewPinRepository 创建置顶仓储
func NewPinRepository(db *gorm.DB) review.PinRepository {
	return &pinRepository{db: db}
}

// Create 创建置顶记录
func (r *pinRepository) Create(ctx context.Context, pin *review.PinnedReview) error {
	model := &PinnedReviewModel{
		ReviewID: pin.ReviewID,
		VendorID: pin.VendorID,
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		// (review_id, vendor_id)唯一索引冲突
		if isDuplicateError(err) {
			return review.ErrAlreadyPinned
		}
		return apperrors.Wrap(err, "创建置顶记录失败")
	}

	pin.ID = model.ID
	pin.CreatedAt = model.CreatedAt
	return nil
}

// DeleteByReviewAndVendor 取消置顶(幂等)
func (r *pinRepository) DeleteByReviewAndVendor(ctx context.Context, reviewID, vendorID uint) error {
	err := getDB(ctx, r.db).
		Where("review_id = ? AND vendor_id = ?", reviewID, vendorID).
		Delete(&PinnedReviewModel{}).Error
	if err != nil {
		return apperrors.Wrap(err, "取消置顶失败")
	}
	return nil
}

// DeleteByReview 删除评价的全部置顶记录(评价删除事务内调用)
func (r *pinRepository) DeleteByReview(ctx context.Context, reviewID uint) error {
	err := getDB(ctx, r.db).
		Where("review_id = ?", reviewID).
		Delete(&PinnedReviewModel{}).Error
	if err != nil {
		return apperrors.Wrap(err, "清理置顶记录失败")
	}
	return nil
}

// CountByVendor 统计商家当前置顶数
func (r *pinRepository) CountByVendor(ctx context.Context, vendorID uint) (int64, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&PinnedReviewModel{}).
		Where("vendor_id = ?", vendorID).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "统计置顶数失败")
	}
	return count, nil
}

// FindPinnedReviewIDs 筛出已被该商家置顶的评价ID子集
func (r *pinRepository) FindPinnedReviewIDs(ctx context.Context, vendorID uint, reviewIDs []uint) ([]uint, error) {
	if len(reviewIDs) == 0 {
		return nil, nil
	}

	var ids []uint
	err := getDB(ctx, r.db).Model(&PinnedReviewModel{}).
		Where("vendor_id = ? AND review_id IN ?", vendorID, reviewIDs).
		Pluck("review_id", &ids).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询置顶记录失败")
	}
	return ids, nil
}

// ListByVendor 商家的全部置顶记录
func (r *pinRepository) ListByVendor(ctx context.Context, vendorID uint) ([]*review.PinnedReview, error) {
	var models []PinnedReviewModel
	err := getDB(ctx, r.db).
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询置顶列表失败")
	}

	out := make([]*review.PinnedReview, 0, len(models))
	for i := range models {
		out = append(out, &review.PinnedReview{
			ID:        models[i].ID,
			ReviewID:  models[i].ReviewID,
			VendorID:  models[i].VendorID,
			CreatedAt: models[i].CreatedAt,
		})
	}
	return out, nil
}
