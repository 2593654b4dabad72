package product

import (
	"context"

	"github.com/qiwen/vendormall/internal/domain/product"
)

// CreateVariantUseCase 创建规格用例
// 设计说明:
// 规格与库存记录一对一, 两行插入必须同事务:
// 规格落库而库存记录缺失会让后续库存调整直接404
type CreateVariantUseCase struct {
	productRepo   product.Repository
	variantRepo   product.VariantRepository
	inventoryRepo product.InventoryRepository
	txManager     Transactor
}

// NewCreateVariantUseCase 创建用例
func NewCreateVariantUseCase(
	productRepo product.Repository,
	variantRepo product.VariantRepository,
	inventoryRepo product.InventoryRepository,
	txManager Transactor,
) *CreateVariantUseCase {
	return &CreateVariantUseCase{
		productRepo:   productRepo,
		variantRepo:   variantRepo,
		inventoryRepo: inventoryRepo,
		txManager:     txManager,
	}
}

// CreateVariantRequest 创建规格请求DTO
type CreateVariantRequest struct {
	ProductID       uint
	VendorID        uint // 来自认证上下文
	SKU             string
	Attributes      map[string]string
	PriceMRP        int64 // 分
	PriceSelling    int64 // 分
	DiscountPercent *int  // nil时由价格推导
	WeightValue     float64
	WeightUnit      string
	Images          []product.Image
}

// VariantResponse 规格响应DTO
type VariantResponse struct {
	ID              uint              `json:"id"`
	ProductID       uint              `json:"product_id"`
	SKU             string            `json:"sku"`
	Attributes      map[string]string `json:"attributes,omitempty"`
	PriceMRP        int64             `json:"price_mrp"`
	PriceSelling    int64             `json:"price_selling"`
	DiscountPercent int               `json:"discount_percent"`
	WeightValue     float64           `json:"weight_value,omitempty"`
	WeightUnit      string            `json:"weight_unit,omitempty"`
	Images          []product.Image   `json:"images,omitempty"`
	IsActive        bool              `json:"is_active"`
	CreatedAt       string            `json:"created_at"`
}

// NewVariantResponse 实体→DTO
func NewVariantResponse(v *product.Variant) *VariantResponse {
	return &VariantResponse{
		ID:              v.ID,
		ProductID:       v.ProductID,
		SKU:             v.SKU,
		Attributes:      v.Attributes,
		PriceMRP:        v.PriceMRP,
		PriceSelling:    v.PriceSelling,
		DiscountPercent: v.DiscountPercent,
		WeightValue:     v.WeightValue,
		WeightUnit:      v.WeightUnit,
		Images:          v.Images,
		IsActive:        v.IsActive,
		CreatedAt:       v.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// InventoryResponse 库存响应DTO
type InventoryResponse struct {
	VariantID         uint `json:"variant_id"`
	Stock             int  `json:"stock"`
	Reserved          int  `json:"reserved"`
	Available         int  `json:"available"`
	LowStockThreshold int  `json:"low_stock_threshold"`
}

// NewInventoryResponse 实体→DTO
func NewInventoryResponse(inv *product.Inventory) *InventoryResponse {
	return &InventoryResponse{
		VariantID:         inv.VariantID,
		Stock:             inv.Stock,
		Reserved:          inv.Reserved,
		Available:         inv.Available(),
		LowStockThreshold: inv.LowStockThreshold,
	}
}

// CreateVariantResponse 创建规格响应DTO
type CreateVariantResponse struct {
	Variant   *VariantResponse   `json:"variant"`
	Inventory *InventoryResponse `json:"inventory"`
}

// Execute 执行创建规格用例
func (uc *CreateVariantUseCase) Execute(ctx context.Context, req CreateVariantRequest) (*CreateVariantResponse, error) {
	// 1. 归属校验
	p, err := uc.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !p.IsOwnedBy(req.VendorID) {
		return nil, product.ErrNotOwner
	}

	// 2. 构造规格实体(价格校验与折扣推导在工厂方法内)
	v, err := product.NewVariant(req.ProductID, req.SKU, req.Attributes, req.PriceMRP, req.PriceSelling, req.DiscountPercent, req.WeightValue, req.WeightUnit, req.Images)
	if err != nil {
		return nil, err
	}

	// 3. 事务: 规格 + 初始库存记录(stock=0, reserved=0, threshold=5)
	var inv *product.Inventory
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.variantRepo.Create(txCtx, v); err != nil {
			return err // SKU冲突已由仓储映射为ErrSKUDuplicate
		}

		inv = product.NewInventory(v.ID)
		return uc.inventoryRepo.Create(txCtx, inv)
	})
	if err != nil {
		return nil, err
	}

	return &CreateVariantResponse{
		Variant:   NewVariantResponse(v),
		Inventory: NewInventoryResponse(inv),
	}, nil
}
