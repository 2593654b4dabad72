package review

import (
	"context"

	"github.com/qiwen/vendormall/internal/domain/product"
	"github.com/qiwen/vendormall/internal/domain/review"
)

// PinReviewUseCase 置顶评价用例
// 业务规则:
// 1. 只能置顶自己商品下的评价(评价→商品→商家归属链路校验)
// 2. 每商家最多4条置顶, 超限拒绝并携带limit/current明细
// 3. (review,vendor)唯一, 重复置顶拒绝; 取消置顶幂等
type PinReviewUseCase struct {
	reviewRepo  review.Repository
	pinRepo     review.PinRepository
	productRepo product.Repository
	txManager   Transactor
}

// NewPinReviewUseCase 创建用例
func NewPinReviewUseCase(
	reviewRepo review.Repository,
	pinRepo review.PinRepository,
	productRepo product.Repository,
	txManager Transactor,
) *PinReviewUseCase {
	return &PinReviewUseCase{
		reviewRepo:  reviewRepo,
		pinRepo:     pinRepo,
		productRepo: productRepo,
		txManager:   txManager,
	}
}

// PinnedReviewResponse 置顶记录响应DTO
type PinnedReviewResponse struct {
	ReviewID  uint   `json:"review_id"`
	VendorID  uint   `json:"vendor_id"`
	CreatedAt string `json:"created_at"`
}

// Pin 置顶评价
func (uc *PinReviewUseCase) Pin(ctx context.Context, reviewID, vendorID uint) (*PinnedReviewResponse, error) {
	r, err := uc.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	// 归属校验: 评价所属商品必须是该商家的
	p, err := uc.productRepo.FindByID(ctx, r.ProductID)
	if err != nil {
		return nil, err
	}
	if !p.IsOwnedBy(vendorID) {
		return nil, review.ErrNotProductVendor
	}

	pin := review.NewPinnedReview(reviewID, vendorID)

	// 配额检查与插入同事务, 并发置顶不会突破上限
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		current, err := uc.pinRepo.CountByVendor(txCtx, vendorID)
		if err != nil {
			return err
		}
		if current >= review.MaxPinsPerVendor {
			return review.ErrPinQuotaExceeded.WithDetails(map[string]interface{}{
				"limit":   review.MaxPinsPerVendor,
				"current": current,
			})
		}

		return uc.pinRepo.Create(txCtx, pin) // (review,vendor)冲突已映射为ErrAlreadyPinned
	})
	if err != nil {
		return nil, err
	}

	return &PinnedReviewResponse{
		ReviewID:  pin.ReviewID,
		VendorID:  pin.VendorID,
		CreatedAt: pin.CreatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}

// Unpin 取消置顶(幂等: 未置顶的评价取消也返回成功)
func (uc *PinReviewUseCase) Unpin(ctx context.Context, reviewID, vendorID uint) error {
	return uc.pinRepo.DeleteByReviewAndVendor(ctx, reviewID, vendorID)
}

// ListPinned 商家的置顶列表(含评价内容)
func (uc *PinReviewUseCase) ListPinned(ctx context.Context, vendorID uint) ([]*ReviewResponse, error) {
	pins, err := uc.pinRepo.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	out := make([]*ReviewResponse, 0, len(pins))
	for _, pin := range pins {
		r, err := uc.reviewRepo.FindByID(ctx, pin.ReviewID)
		if err != nil {
			continue // 置顶指向的评价刚被删除, 跳过
		}
		resp := NewReviewResponse(r)
		resp.IsPinned = true
		out = append(out, resp)
	}
	return out, nil
}
