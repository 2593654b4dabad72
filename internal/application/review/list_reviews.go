package review

import (
	"context"

	"github.com/qiwen/vendormall/internal/domain/product"
	"github.com/qiwen/vendormall/internal/domain/review"
)

// ListReviewsUseCase 评价浏览用例(只读)
type ListReviewsUseCase struct {
	reviewRepo  review.Repository
	pinRepo     review.PinRepository
	productRepo product.Repository
}

// NewListReviewsUseCase 创建用例
func NewListReviewsUseCase(
	reviewRepo review.Repository,
	pinRepo review.PinRepository,
	productRepo product.Repository,
) *ListReviewsUseCase {
	return &ListReviewsUseCase{
		reviewRepo:  reviewRepo,
		pinRepo:     pinRepo,
		productRepo: productRepo,
	}
}

// ListByProductResponse 商品评价列表响应DTO
type ListByProductResponse struct {
	Items     []*ReviewResponse `json:"items"`
	Total     int64             `json:"total"`
	AvgRating float64           `json:"avg_rating"`
	Count     int               `json:"rating_count"`
}

// ByProduct 商品评价分页
// is_pinned以商品归属商家的置顶记录为准标注; 评分快照直接取商品冗余字段
func (uc *ListReviewsUseCase) ByProduct(ctx context.Context, productID uint, page, pageSize int) (*ListByProductResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	p, err := uc.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	reviews, total, err := uc.reviewRepo.ListByProduct(ctx, productID, page, pageSize)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, r.ID)
	}

	pinned := make(map[uint]bool)
	if len(ids) > 0 {
		pinnedIDs, err := uc.pinRepo.FindPinnedReviewIDs(ctx, p.VendorID, ids)
		if err != nil {
			return nil, err
		}
		for _, id := range pinnedIDs {
			pinned[id] = true
		}
	}

	items := make([]*ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		resp := NewReviewResponse(r)
		resp.IsPinned = pinned[r.ID]
		items = append(items, resp)
	}

	return &ListByProductResponse{
		Items:     items,
		Total:     total,
		AvgRating: p.AvgRating,
		Count:     p.RatingCount,
	}, nil
}

// ByUser 用户自己的评价分页
func (uc *ListReviewsUseCase) ByUser(ctx context.Context, userID uint, page, pageSize int) ([]*ReviewResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	reviews, total, err := uc.reviewRepo.ListByUser(ctx, userID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, NewReviewResponse(r))
	}
	return out, total, nil
}
