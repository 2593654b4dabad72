package product

import (
	"context"

	"github.com/qiwen/vendormall/internal/domain/product"
)

// VendorInventoryUseCase 商家库存管理用例(总览 + 阈值维护)
type VendorInventoryUseCase struct {
	productRepo   product.Repository
	variantRepo   product.VariantRepository
	inventoryRepo product.InventoryRepository
}

// NewVendorInventoryUseCase 创建用例
func NewVendorInventoryUseCase(
	productRepo product.Repository,
	variantRepo product.VariantRepository,
	inventoryRepo product.InventoryRepository,
) *VendorInventoryUseCase {
	return &VendorInventoryUseCase{
		productRepo:   productRepo,
		variantRepo:   variantRepo,
		inventoryRepo: inventoryRepo,
	}
}

// Overview 商家全部规格的库存总览
func (uc *VendorInventoryUseCase) Overview(ctx context.Context, vendorID uint) ([]*product.VendorStock, error) {
	return uc.inventoryRepo.ListByVendor(ctx, vendorID)
}

// VariantInventory 单规格库存详情(归属校验后返回)
func (uc *VendorInventoryUseCase) VariantInventory(ctx context.Context, variantID, vendorID uint) (*InventoryResponse, error) {
	v, err := uc.variantRepo.FindByID(ctx, variantID)
	if err != nil {
		return nil, err
	}
	p, err := uc.productRepo.FindByID(ctx, v.ProductID)
	if err != nil {
		return nil, err
	}
	if !p.IsOwnedBy(vendorID) {
		return nil, product.ErrNotOwner
	}

	inv, err := uc.inventoryRepo.FindByVariant(ctx, variantID)
	if err != nil {
		return nil, err
	}
	return NewInventoryResponse(inv), nil
}

// UpdateThreshold 更新低库存阈值
func (uc *VendorInventoryUseCase) UpdateThreshold(ctx context.Context, variantID, vendorID uint, threshold int) (*InventoryResponse, error) {
	if threshold < 0 {
		return nil, product.ErrInvalidDelta.WithMessage("低库存阈值不能为负数")
	}

	v, err := uc.variantRepo.FindByID(ctx, variantID)
	if err != nil {
		return nil, err
	}
	p, err := uc.productRepo.FindByID(ctx, v.ProductID)
	if err != nil {
		return nil, err
	}
	if !p.IsOwnedBy(vendorID) {
		return nil, product.ErrNotOwner
	}

	if err := uc.inventoryRepo.UpdateThreshold(ctx, variantID, threshold); err != nil {
		return nil, err
	}

	inv, err := uc.inventoryRepo.FindByVariant(ctx, variantID)
	if err != nil {
		return nil, err
	}
	return NewInventoryResponse(inv), nil
}
