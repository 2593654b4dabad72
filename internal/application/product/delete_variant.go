package product

import (
	"context"

	"github.com/qiwen/vendormall/internal/domain/product"
)

// DeleteVariantUseCase 删除规格用例
// 软删除: 规格置为停用, 库存记录保留(恢复上架时库存不丢)
type DeleteVariantUseCase struct {
	productRepo product.Repository
	variantRepo product.VariantRepository
}

// NewDeleteVariantUseCase 创建用例
func NewDeleteVariantUseCase(productRepo product.Repository, variantRepo product.VariantRepository) *DeleteVariantUseCase {
	return &DeleteVariantUseCase{
		productRepo: productRepo,
		variantRepo: variantRepo,
	}
}

// DeleteVariantResponse 删除规格响应DTO
type DeleteVariantResponse struct {
	VariantID uint `json:"variant_id"`
	ProductID uint `json:"product_id"`
}

// Execute 执行删除规格用例
func (uc *DeleteVariantUseCase) Execute(ctx context.Context, variantID, vendorID uint) (*DeleteVariantResponse, error) {
	v, err := uc.variantRepo.FindByID(ctx, variantID)
	if err != nil {
		return nil, err
	}

	// 归属校验走规格→商品→商家的链路
	p, err := uc.productRepo.FindByID(ctx, v.ProductID)
	if err != nil {
		return nil, err
	}
	if !p.IsOwnedBy(vendorID) {
		return nil, product.ErrNotOwner
	}

	if err := uc.variantRepo.SoftDelete(ctx, variantID); err != nil {
		return nil, err
	}

	return &DeleteVariantResponse{
		VariantID: variantID,
		ProductID: v.ProductID,
	}, nil
}
