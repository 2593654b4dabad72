package product

import (
	"context"

	"github.com/qiwen/vendormall/internal/domain/product"
)

// DeleteProductUseCase 删除商品用例
// 商品软删除与规格停用必须在同一事务内:
// 否则下架瞬间公开列表可能查到"无商品的孤儿规格"
type DeleteProductUseCase struct {
	productRepo product.Repository
	variantRepo product.VariantRepository
	txManager   Transactor
}

// NewDeleteProductUseCase 创建用例
func NewDeleteProductUseCase(productRepo product.Repository, variantRepo product.VariantRepository, txManager Transactor) *DeleteProductUseCase {
	return &DeleteProductUseCase{
		productRepo: productRepo,
		variantRepo: variantRepo,
		txManager:   txManager,
	}
}

// DeleteProductResponse 删除响应DTO
type DeleteProductResponse struct {
	ProductID           uint  `json:"product_id"`
	DeactivatedVariants int64 `json:"deactivated_variants"`
}

// Execute 执行删除用例
func (uc *DeleteProductUseCase) Execute(ctx context.Context, productID, vendorID uint) (*DeleteProductResponse, error) {
	p, err := uc.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if !p.IsOwnedBy(vendorID) {
		return nil, product.ErrNotOwner
	}

	// 事务: 商品软删除 + 全部规格停用
	// 库存记录保留不动, 恢复上架时库存不丢
	var deactivated int64
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.productRepo.SoftDelete(txCtx, productID); err != nil {
			return err
		}

		n, err := uc.variantRepo.DeactivateByProduct(txCtx, productID)
		if err != nil {
			return err
		}
		deactivated = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &DeleteProductResponse{
		ProductID:           productID,
		DeactivatedVariants: deactivated,
	}, nil
}
