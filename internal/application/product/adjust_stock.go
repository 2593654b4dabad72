package product

import (
	"context"

	"github.com/qiwen/vendormall/internal/domain/product"
	apperrors "github.com/qiwen/vendormall/pkg/errors"
)

// AdjustStockUseCase 调整库存用例
// 业务规则(先拒后夹):
// 1. 扣减(delta<0)时校验可用量 = stock - reserved:
//    |delta|超过可用量则整笔拒绝, 错误携带available/requested明细
// 2. 补货(delta>=0)直接执行, 结果夹底到0(防御历史脏数据)
// 3. 校验与更新由仓储以单条谓词UPDATE原子完成, 并发扣减不会超卖
type AdjustStockUseCase struct {
	productRepo   product.Repository
	variantRepo   product.VariantRepository
	inventoryRepo product.InventoryRepository
}

// NewAdjustStockUseCase 创建用例
func NewAdjustStockUseCase(
	productRepo product.Repository,
	variantRepo product.VariantRepository,
	inventoryRepo product.InventoryRepository,
) *AdjustStockUseCase {
	return &AdjustStockUseCase{
		productRepo:   productRepo,
		variantRepo:   variantRepo,
		inventoryRepo: inventoryRepo,
	}
}

// AdjustStockRequest 库存调整请求DTO
type AdjustStockRequest struct {
	VariantID uint
	VendorID  uint // 来自认证上下文
	Delta     int  // 正数补货, 负数扣减
}

// AdjustStockResponse 库存调整响应DTO
// ProductID/SKU冗余返回, 供handler发低库存事件时免查
type AdjustStockResponse struct {
	Inventory *InventoryResponse `json:"inventory"`
	LowStock  bool               `json:"low_stock"`
	ProductID uint               `json:"product_id"`
	SKU       string             `json:"sku"`
}

// Execute 执行库存调整
func (uc *AdjustStockUseCase) Execute(ctx context.Context, req AdjustStockRequest) (*AdjustStockResponse, error) {
	if req.Delta == 0 {
		return nil, product.ErrInvalidDelta
	}

	// 归属校验
	v, err := uc.variantRepo.FindByID(ctx, req.VariantID)
	if err != nil {
		return nil, err
	}
	p, err := uc.productRepo.FindByID(ctx, v.ProductID)
	if err != nil {
		return nil, err
	}
	if !p.IsOwnedBy(req.VendorID) {
		return nil, product.ErrNotOwner
	}

	// 原子调整; 拒绝时仓储返回当前快照, 在此补齐明细
	inv, err := uc.inventoryRepo.AdjustStock(ctx, req.VariantID, req.Delta)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrCodeInsufficientStock) && inv != nil {
			return nil, product.ErrInsufficientStock.WithDetails(map[string]interface{}{
				"available": inv.Available(),
				"requested": -req.Delta,
			})
		}
		return nil, err
	}

	return &AdjustStockResponse{
		Inventory: NewInventoryResponse(inv),
		LowStock:  inv.IsLowStock(),
		ProductID: p.ID,
		SKU:       v.SKU,
	}, nil
}
