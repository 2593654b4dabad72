package review

import (
	"context"
)

// Repository 评价仓储接口(依赖倒置原则)
type Repository interface {
	// Create 创建评价((product,user)冲突返回ErrAlreadyReviewed)
	Create(ctx context.Context, review *Review) error

	// FindByID 根据ID查找评价
	FindByID(ctx context.Context, id uint) (*Review, error)

	// FindByProductAndUser 查找用户对商品的评价
	FindByProductAndUser(ctx context.Context, productID, userID uint) (*Review, error)

	// Update 更新评价
	Update(ctx context.Context, review *Review) error

	// Delete 物理删除评价
	Delete(ctx context.Context, id uint) error

	// AggregateByProduct 聚合商品评分(AVG未舍入 + COUNT)
	// 无评价时返回 {Avg: 0, Count: 0}
	AggregateByProduct(ctx context.Context, productID uint) (RatingStats, error)

	// ListByProduct 商品评价分页(按创建时间倒序)
	ListByProduct(ctx context.Context, productID uint, page, pageSize int) ([]*Review, int64, error)

	// ListByUser 用户自己的评价分页
	ListByUser(ctx context.Context, userID uint, page, pageSize int) ([]*Review, int64, error)
}

// PinRepository 置顶仓储接口
type PinRepository interface {
	// Create 创建置顶((review,vendor)冲突返回ErrAlreadyPinned)
	Create(ctx context.Context, pin *PinnedReview) error

	// DeleteByReviewAndVendor 取消置顶(幂等, 记录不存在时不报错)
	DeleteByReviewAndVendor(ctx context.Context, reviewID, vendorID uint) error

	// DeleteByReview 删除评价的全部置顶记录(评价删除事务内调用)
	DeleteByReview(ctx context.Context, reviewID uint) error

	// CountByVendor 统计商家当前置顶数(配额校验用)
	CountByVendor(ctx context.Context, vendorID uint) (int64, error)

	// FindPinnedReviewIDs 在给定评价ID集合中筛出已被该商家置顶的子集
	// 评价列表页标注is_pinned用
	FindPinnedReviewIDs(ctx context.Context, vendorID uint, reviewIDs []uint) ([]uint, error)

	// ListByVendor 商家的全部置顶记录
	ListByVendor(ctx context.Context, vendorID uint) ([]*PinnedReview, error)
}
