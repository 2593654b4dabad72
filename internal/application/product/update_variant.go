package product

import (
	"context"

	"github.com/qiwen/vendormall/internal/domain/product"
)

// UpdateVariantUseCase 更新规格用例
// 业务规则:
// 1. 归属校验走规格→商品→商家的链路
// 2. 改价时显式折扣优先, 否则由合并后的价格重算
// 3. Attributes/Images整体覆盖, 不做增量合并
type UpdateVariantUseCase struct {
	productRepo product.Repository
	variantRepo product.VariantRepository
}

// NewUpdateVariantUseCase 创建用例
func NewUpdateVariantUseCase(productRepo product.Repository, variantRepo product.VariantRepository) *UpdateVariantUseCase {
	return &UpdateVariantUseCase{
		productRepo: productRepo,
		variantRepo: variantRepo,
	}
}

// UpdateVariantRequest 更新规格请求DTO
type UpdateVariantRequest struct {
	VariantID       uint
	VendorID        uint // 来自认证上下文
	Attributes      map[string]string
	PriceMRP        *int64
	PriceSelling    *int64
	DiscountPercent *int
	WeightValue     *float64
	WeightUnit      *string
	Images          []product.Image
	IsActive        *bool
}

// Execute 执行更新规格用例
func (uc *UpdateVariantUseCase) Execute(ctx context.Context, req UpdateVariantRequest) (*VariantResponse, error) {
	v, err := uc.variantRepo.FindByID(ctx, req.VariantID)
	if err != nil {
		return nil, err
	}

	// 归属校验
	p, err := uc.productRepo.FindByID(ctx, v.ProductID)
	if err != nil {
		return nil, err
	}
	if !p.IsOwnedBy(req.VendorID) {
		return nil, product.ErrNotOwner
	}

	// 改价: 未给出的一侧沿用现值, 合并后整体校验
	if req.PriceMRP != nil || req.PriceSelling != nil || req.DiscountPercent != nil {
		mrp := v.PriceMRP
		selling := v.PriceSelling
		if req.PriceMRP != nil {
			mrp = *req.PriceMRP
		}
		if req.PriceSelling != nil {
			selling = *req.PriceSelling
		}
		if err := v.Reprice(mrp, selling, req.DiscountPercent); err != nil {
			return nil, err
		}
	}

	if req.Attributes != nil {
		v.Attributes = req.Attributes
	}
	if req.WeightValue != nil {
		v.WeightValue = *req.WeightValue
	}
	if req.WeightUnit != nil {
		v.WeightUnit = *req.WeightUnit
	}
	if req.Images != nil {
		v.Images = req.Images
	}
	if req.IsActive != nil {
		v.IsActive = *req.IsActive
	}

	if err := uc.variantRepo.Update(ctx, v); err != nil {
		return nil, err
	}

	return NewVariantResponse(v), nil
}
