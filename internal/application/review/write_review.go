package review

import (
	"context"

	"github.com/qiwen/vendormall/internal/domain/product"
	"github.com/qiwen/vendormall/internal/domain/review"
)

// Transactor 事务边界抽象(由infrastructure层的TxManager实现)
type Transactor interface {
	Transaction(ctx context.Context, fn func(txCtx context.Context) error) error
}

// WriteReviewUseCase 评价写入用例(创建/修改/删除)
// 设计说明:
// 评价的每次写入都在同一事务内重算商品评分快照:
// 写评价 → AVG/COUNT聚合 → 回写product.avg_rating/rating_count
// 同步重算保证详情页评分与评价列表永远一致, 不接受最终一致的窗口
type WriteReviewUseCase struct {
	reviewRepo  review.Repository
	pinRepo     review.PinRepository
	productRepo product.Repository
	txManager   Transactor
}

// NewWriteReviewUseCase 创建用例
func NewWriteReviewUseCase(
	reviewRepo review.Repository,
	pinRepo review.PinRepository,
	productRepo product.Repository,
	txManager Transactor,
) *WriteReviewUseCase {
	return &WriteReviewUseCase{
		reviewRepo:  reviewRepo,
		pinRepo:     pinRepo,
		productRepo: productRepo,
		txManager:   txManager,
	}
}

// CreateReviewRequest 创建评价请求DTO
type CreateReviewRequest struct {
	ProductID          uint
	UserID             uint // 来自认证上下文
	Rating             int
	Comment            string
	IsVerifiedPurchase bool
}

// ReviewResponse 评价响应DTO
type ReviewResponse struct {
	ID                 uint   `json:"id"`
	ProductID          uint   `json:"product_id"`
	UserID             uint   `json:"user_id"`
	Rating             int    `json:"rating"`
	Comment            string `json:"comment,omitempty"`
	IsVerifiedPurchase bool   `json:"is_verified_purchase"`
	IsPinned           bool   `json:"is_pinned,omitempty"`
	CreatedAt          string `json:"created_at"`

	// ProductVendorID 被评价商品的归属商家, 不出现在HTTP响应里,
	// 冗余返回给handler发商家侧通知事件时免查
	ProductVendorID uint `json:"-"`
}

// NewReviewResponse 实体→DTO
func NewReviewResponse(r *review.Review) *ReviewResponse {
	return &ReviewResponse{
		ID:                 r.ID,
		ProductID:          r.ProductID,
		UserID:             r.UserID,
		Rating:             r.Rating,
		Comment:            r.Comment,
		IsVerifiedPurchase: r.IsVerifiedPurchase,
		CreatedAt:          r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// Create 创建评价
// 重复评价((product,user)已存在)返回ErrAlreadyReviewed, 不做静默upsert
func (uc *WriteReviewUseCase) Create(ctx context.Context, req CreateReviewRequest) (*ReviewResponse, error) {
	// 商品门禁: 必须存在且上架
	p, err := uc.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, product.ErrProductNotFound
	}

	r, err := review.NewReview(req.ProductID, req.UserID, req.Rating, req.Comment, req.IsVerifiedPurchase)
	if err != nil {
		return nil, err
	}

	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.reviewRepo.Create(txCtx, r); err != nil {
			return err // (product,user)冲突已由仓储映射为ErrAlreadyReviewed
		}
		return uc.recomputeRating(txCtx, req.ProductID)
	})
	if err != nil {
		return nil, err
	}

	resp := NewReviewResponse(r)
	resp.ProductVendorID = p.VendorID
	return resp, nil
}

// UpdateReviewRequest 修改评价请求DTO
type UpdateReviewRequest struct {
	ReviewID uint
	UserID   uint // 来自认证上下文
	Rating   int
	Comment  string
}

// Update 修改评价(仅作者本人)
func (uc *WriteReviewUseCase) Update(ctx context.Context, req UpdateReviewRequest) (*ReviewResponse, error) {
	r, err := uc.reviewRepo.FindByID(ctx, req.ReviewID)
	if err != nil {
		return nil, err
	}
	if !r.IsAuthoredBy(req.UserID) {
		return nil, review.ErrNotAuthor
	}

	if err := r.Revise(req.Rating, req.Comment); err != nil {
		return nil, err
	}

	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.reviewRepo.Update(txCtx, r); err != nil {
			return err
		}
		return uc.recomputeRating(txCtx, r.ProductID)
	})
	if err != nil {
		return nil, err
	}

	return NewReviewResponse(r), nil
}

// Delete 删除评价(仅作者本人)
// 同事务内级联清理该评价的置顶记录, 再重算评分快照
func (uc *WriteReviewUseCase) Delete(ctx context.Context, reviewID, userID uint) (*ReviewResponse, error) {
	r, err := uc.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if !r.IsAuthoredBy(userID) {
		return nil, review.ErrNotAuthor
	}

	// 商家ID在删除前取出, 仅用于事件, 商品查不到时保持0
	var vendorID uint
	if p, err := uc.productRepo.FindByID(ctx, r.ProductID); err == nil {
		vendorID = p.VendorID
	}

	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.pinRepo.DeleteByReview(txCtx, reviewID); err != nil {
			return err
		}
		if err := uc.reviewRepo.Delete(txCtx, reviewID); err != nil {
			return err
		}
		return uc.recomputeRating(txCtx, r.ProductID)
	})
	if err != nil {
		return nil, err
	}

	resp := NewReviewResponse(r)
	resp.ProductVendorID = vendorID
	return resp, nil
}

// recomputeRating 重算商品评分快照(必须在事务上下文内调用)
// 平均分按1位小数四舍五入; 最后一条评价删除后归零(0分/0条)
func (uc *WriteReviewUseCase) recomputeRating(txCtx context.Context, productID uint) error {
	stats, err := uc.reviewRepo.AggregateByProduct(txCtx, productID)
	if err != nil {
		return err
	}
	return uc.productRepo.UpdateRating(txCtx, productID, stats.RoundedAvg(), stats.Count)
}
