package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/qiwen/vendormall/internal/domain/product"
	apperrors "github.com/qiwen/vendormall/pkg/errors"
)

// variantRepository 规格仓储实现(MySQL)
type variantRepository struct {
	db *gorm.DB
}

// NewVariantRepository 创建规格仓储
func NewVariantRepository(db *gorm.DB) product.VariantRepository {
	return &variantRepository{db: db}
}

// Create 创建规格
func (r *variantRepository) Create(ctx context.Context, v *product.Variant) error {
	model, err := toVariantModel(v)
	if err != nil {
		return err
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		// SKU全局唯一索引冲突
		if isDuplicateError(err) {
			return product.ErrSKUDuplicate
		}
		return apperrors.Wrap(err, "创建规格失败")
	}

	v.ID = model.ID
	v.CreatedAt = model.CreatedAt
	v.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找规格
func (r *variantRepository) FindByID(ctx context.Context, id uint) (*product.Variant, error) {
	var model VariantModel
	err := getDB(ctx, r.db).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrVariantNotFound
		}
		return nil, apperrors.Wrap(err, "查询规格失败")
	}
	return toVariantEntity(&model)
}

// FindByProduct 查询商品的规格列表
// activeOnly=true: 只返回启用规格, 按售价升序(详情页从低到高展示)
func (r *variantRepository) FindByProduct(ctx context.Context, productID uint, activeOnly bool) ([]*product.Variant, error) {
	query := getDB(ctx, r.db).Where("product_id = ?", productID)
	if activeOnly {
		query = query.Where("is_active = ?", true).Order("price_selling ASC")
	} else {
		query = query.Order("created_at ASC")
	}

	var models []VariantModel
	if err := query.Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询规格列表失败")
	}

	out := make([]*product.Variant, 0, len(models))
	for i := range models {
		v, err := toVariantEntity(&models[i])
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Update 更新规格
func (r *variantRepository) Update(ctx context.Context, v *product.Variant) error {
	attrs, err := marshalJSON(v.Attributes)
	if err != nil {
		return err
	}
	images, err := marshalJSON(v.Images)
	if err != nil {
		return err
	}

	result := getDB(ctx, r.db).Model(&VariantModel{}).
		Where("id = ?", v.ID).
		Updates(map[string]interface{}{
			"attributes":       attrs,
			"price_mrp":        v.PriceMRP,
			"price_selling":    v.PriceSelling,
			"discount_percent": v.DiscountPercent,
			"weight_value":     v.WeightValue,
			"weight_unit":      v.WeightUnit,
			"images":           images,
			"is_active":        v.IsActive,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新规格失败")
	}
	return nil
}

// SoftDelete 软删除规格(is_active=false, 库存记录保留)
func (r *variantRepository) SoftDelete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Model(&VariantModel{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除规格失败")
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := getDB(ctx, r.db).Model(&VariantModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return apperrors.Wrap(err, "查询规格失败")
		}
		if count == 0 {
			return product.ErrVariantNotFound
		}
	}
	return nil
}

// DeactivateByProduct 停用商品的全部规格(商品软删除事务内调用)
func (r *variantRepository) DeactivateByProduct(ctx context.Context, productID uint) (int64, error) {
	result := getDB(ctx, r.db).Model(&VariantModel{}).
		Where("product_id = ? AND is_active = ?", productID, true).
		Update("is_active", false)
	if result.Error != nil {
		return 0, apperrors.Wrap(result.Error, "停用商品规格失败")
	}
	return result.RowsAffected, nil
}

// PriceRanges 批量统计商品的启用规格售价区间
func (r *variantRepository) PriceRanges(ctx context.Context, productIDs []uint) ([]product.PriceRange, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	var ranges []product.PriceRange
	err := getDB(ctx, r.db).Model(&VariantModel{}).
		Select("product_id, MIN(price_selling) AS min, MAX(price_selling) AS max").
		Where("product_id IN ? AND is_active = ?", productIDs, true).
		Group("product_id").
		Scan(&ranges).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "统计价格区间失败")
	}
	return ranges, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toVariantModel 领域实体 → GORM模型
func toVariantModel(v *product.Variant) (*VariantModel, error) {
	attrs, err := marshalJSON(v.Attributes)
	if err != nil {
		return nil, err
	}
	images, err := marshalJSON(v.Images)
	if err != nil {
		return nil, err
	}
	return &VariantModel{
		ID:              v.ID,
		ProductID:       v.ProductID,
		SKU:             v.SKU,
		Attributes:      attrs,
		PriceMRP:        v.PriceMRP,
		PriceSelling:    v.PriceSelling,
		DiscountPercent: v.DiscountPercent,
		WeightValue:     v.WeightValue,
		WeightUnit:      v.WeightUnit,
		Images:          images,
		IsActive:        v.IsActive,
	}, nil
}

// toVariantEntity GORM模型 → 领域实体
func toVariantEntity(model *VariantModel) (*product.Variant, error) {
	var attrs map[string]string
	if err := unmarshalJSON(model.Attributes, &attrs); err != nil {
		return nil, apperrors.Wrap(err, "解析规格属性失败")
	}
	var images []product.Image
	if err := unmarshalJSON(model.Images, &images); err != nil {
		return nil, apperrors.Wrap(err, "解析规格图片失败")
	}
	return &product.Variant{
		ID:              model.ID,
		ProductID:       model.ProductID,
		SKU:             model.SKU,
		Attributes:      attrs,
		PriceMRP:        model.PriceMRP,
		PriceSelling:    model.PriceSelling,
		DiscountPercent: model.DiscountPercent,
		WeightValue:     model.WeightValue,
		WeightUnit:      model.WeightUnit,
		Images:          images,
		IsActive:        model.IsActive,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}, nil
}
