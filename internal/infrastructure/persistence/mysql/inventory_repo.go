package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/qiwen/vendormall/internal/domain/product"
	apperrors "github.com/qiwen/vendormall/pkg/errors"
)

// inventoryRepository 库存仓储实现(MySQL)
// 设计说明:
// 扣减不走"SELECT再UPDATE"(有并发窗口), 也不走SELECT FOR UPDATE(持锁时间长),
// 而是把可用量校验内联进UPDATE谓词, 由行锁保证原子性:
//   UPDATE inventories SET stock = stock + ?
//   WHERE variant_id = ? AND stock - reserved + ? >= 0
// RowsAffected=0即"记录不存在或可用量不足", 回查一次区分
type inventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository 创建库存仓储
func NewInventoryRepository(db *gorm.DB) product.InventoryRepository {
	return &inventoryRepository{db: db}
}

// Create 创建库存记录(规格创建事务内调用)
func (r *inventoryRepository) Create(ctx context.Context, inv *product.Inventory) error {
	model := &InventoryModel{
		VariantID:         inv.VariantID,
		Stock:             inv.Stock,
		Reserved:          inv.Reserved,
		LowStockThreshold: inv.LowStockThreshold,
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.ErrDuplicateEntry
		}
		return apperrors.Wrap(err, "创建库存记录失败")
	}

	inv.ID = model.ID
	inv.CreatedAt = model.CreatedAt
	inv.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByVariant 查询规格的库存记录
func (r *inventoryRepository) FindByVariant(ctx context.Context, variantID uint) (*product.Inventory, error) {
	var model InventoryModel
	err := getDB(ctx, r.db).Where("variant_id = ?", variantID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrInventoryNotFound
		}
		return nil, apperrors.Wrap(err, "查询库存失败")
	}
	return toInventoryEntity(&model), nil
}

// AdjustStock 原子调整库存(先拒后夹)
// - delta<0: 谓词校验可用量, 不足则整笔拒绝并返回当前快照
// - delta>=0: 直接执行, GREATEST夹底到0(防御历史脏数据)
func (r *inventoryRepository) AdjustStock(ctx context.Context, variantID uint, delta int) (*product.Inventory, error) {
	db := getDB(ctx, r.db)

	if delta < 0 {
		result := db.Model(&InventoryModel{}).
			Where("variant_id = ?", variantID).
			Where("stock - reserved + ? >= 0", delta).
			Update("stock", gorm.Expr("stock + ?", delta))
		if result.Error != nil {
			return nil, apperrors.Wrap(result.Error, "扣减库存失败")
		}

		if result.RowsAffected == 0 {
			// 记录不存在 or 可用量不足, 回查区分
			inv, err := r.FindByVariant(ctx, variantID)
			if err != nil {
				return nil, err
			}
			// 快照随错误一起返回, 调用方补available/requested明细
			return inv, product.ErrInsufficientStock
		}
	} else {
		result := db.Model(&InventoryModel{}).
			Where("variant_id = ?", variantID).
			Update("stock", gorm.Expr("GREATEST(stock + ?, 0)", delta))
		if result.Error != nil {
			return nil, apperrors.Wrap(result.Error, "补充库存失败")
		}
		if result.RowsAffected == 0 {
			return nil, product.ErrInventoryNotFound
		}
	}

	// 返回调整后的库存
	return r.FindByVariant(ctx, variantID)
}

// UpdateThreshold 更新低库存阈值
func (r *inventoryRepository) UpdateThreshold(ctx context.Context, variantID uint, threshold int) error {
	result := getDB(ctx, r.db).Model(&InventoryModel{}).
		Where("variant_id = ?", variantID).
		Update("low_stock_threshold", threshold)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新低库存阈值失败")
	}
	if result.RowsAffected == 0 {
		// 阈值未变化时MySQL也报0行, 回查区分存在性
		var count int64
		if err := getDB(ctx, r.db).Model(&InventoryModel{}).Where("variant_id = ?", variantID).Count(&count).Error; err != nil {
			return apperrors.Wrap(err, "查询库存失败")
		}
		if count == 0 {
			return product.ErrInventoryNotFound
		}
	}
	return nil
}

// ListByVendor 商家库存总览(inventory⋈variant⋈product按vendor过滤)
func (r *inventoryRepository) ListByVendor(ctx context.Context, vendorID uint) ([]*product.VendorStock, error) {
	var rows []*product.VendorStock
	err := getDB(ctx, r.db).Table("inventories").
		Select(`inventories.variant_id,
			variants.sku,
			variants.product_id,
			products.title AS product_title,
			inventories.stock,
			inventories.reserved,
			inventories.stock - inventories.reserved AS available,
			inventories.low_stock_threshold`).
		Joins("JOIN variants ON variants.id = inventories.variant_id").
		Joins("JOIN products ON products.id = variants.product_id").
		Where("products.vendor_id = ?", vendorID).
		Order("variants.product_id ASC, variants.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询商家库存总览失败")
	}
	return rows, nil
}

// toInventoryEntity GORM模型 → 领域实体
func toInventoryEntity(model *InventoryModel) *product.Inventory {
	return &product.Inventory{
		ID:                model.ID,
		VariantID:         model.VariantID,
		Stock:             model.Stock,
		Reserved:          model.Reserved,
		LowStockThreshold: model.LowStockThreshold,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}
