package mysql

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"github.com/qiwen/vendormall/internal/domain/product"
	apperrors "github.com/qiwen/vendormall/pkg/errors"
)

// productRepository 商品仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/product/repository.go定义的接口
// 2. CountActiveByCategory同时满足category.ProductCounter接口
// 3. 评分快照回写(UpdateRating)走getDB参与评价事务
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) product.Repository {
	return &productRepository{db: db}
}

// Create 创建商品
func (r *productRepository) Create(ctx context.Context, p *product.Product) error {
	model, err := toProductModel(p)
	if err != nil {
		return err
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		// seo_slug毫秒时间戳撞车, 概率极低
		if isDuplicateError(err) {
			return apperrors.ErrDuplicateEntry
		}
		return apperrors.Wrap(err, "创建商品失败")
	}

	p.ID = model.ID
	p.CreatedAt = model.CreatedAt
	p.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找商品
func (r *productRepository) FindByID(ctx context.Context, id uint) (*product.Product, error) {
	var model ProductModel
	err := getDB(ctx, r.db).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound
		}
		return nil, apperrors.Wrap(err, "查询商品失败")
	}
	return toProductEntity(&model)
}

// FindBySeoSlug 根据SEO slug查找商品
func (r *productRepository) FindBySeoSlug(ctx context.Context, seoSlug string) (*product.Product, error) {
	var model ProductModel
	err := getDB(ctx, r.db).Where("seo_slug = ?", seoSlug).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound
		}
		return nil, apperrors.Wrap(err, "查询商品失败")
	}
	return toProductEntity(&model)
}

// Update 更新商品信息
func (r *productRepository) Update(ctx context.Context, p *product.Product) error {
	tags, err := marshalJSON(p.Tags)
	if err != nil {
		return err
	}

	result := getDB(ctx, r.db).Model(&ProductModel{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"title":            p.Title,
			"description":      p.Description,
			"category_id":      p.CategoryID,
			"brand":            p.Brand,
			"tags":             tags,
			"is_active":        p.IsActive,
			"seo_slug":         p.SeoSlug,
			"meta_title":       p.MetaTitle,
			"meta_description": p.MetaDescription,
		})
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return apperrors.ErrDuplicateEntry
		}
		return apperrors.Wrap(result.Error, "更新商品失败")
	}
	return nil
}

// SoftDelete 软删除商品(is_active=false)
func (r *productRepository) SoftDelete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Model(&ProductModel{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除商品失败")
	}

	if result.RowsAffected == 0 {
		// 区分"不存在"与"已下架": 已下架时幂等成功
		var count int64
		if err := getDB(ctx, r.db).Model(&ProductModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return apperrors.Wrap(err, "查询商品失败")
		}
		if count == 0 {
			return product.ErrProductNotFound
		}
	}
	return nil
}

// UpdateRating 写入评分快照(评价事务内调用)
func (r *productRepository) UpdateRating(ctx context.Context, productID uint, avg float64, count int) error {
	result := getDB(ctx, r.db).Model(&ProductModel{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"avg_rating":   avg,
			"rating_count": count,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新评分快照失败")
	}
	if result.RowsAffected == 0 {
		return product.ErrProductNotFound
	}
	return nil
}

// CountActiveByCategory 统计分类下的活跃商品数
func (r *productRepository) CountActiveByCategory(ctx context.Context, categoryID uint) (int64, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&ProductModel{}).
		Where("category_id = ? AND is_active = ?", categoryID, true).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "统计分类商品数失败")
	}
	return count, nil
}

// List 公开商品列表(只含上架商品)
func (r *productRepository) List(ctx context.Context, params product.ListParams) ([]*product.Product, int64, error) {
	var models []ProductModel
	var total int64

	query := getDB(ctx, r.db).Model(&ProductModel{}).Where("is_active = ?", true)

	// 分类过滤
	if params.CategoryID > 0 {
		query = query.Where("category_id = ?", params.CategoryID)
	}

	// 关键词搜索(标题、品牌)
	if params.Keyword != "" {
		keyword := "%" + params.Keyword + "%"
		query = query.Where("title LIKE ? OR brand LIKE ?", keyword, keyword)
	}

	// 查询总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询商品总数失败")
	}

	// 排序
	switch params.SortBy {
	case "rating_desc":
		query = query.Order("avg_rating DESC, rating_count DESC")
	case "created_at_desc":
		query = query.Order("created_at DESC")
	default:
		query = query.Order("created_at DESC")
	}

	// 分页
	offset := (params.Page - 1) * params.PageSize
	if err := query.Limit(params.PageSize).Offset(offset).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询商品列表失败")
	}

	products, err := toProductEntities(models)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ListByVendor 商家自己的商品列表(含下架商品)
func (r *productRepository) ListByVendor(ctx context.Context, vendorID uint, page, pageSize int) ([]*product.Product, int64, error) {
	var models []ProductModel
	var total int64

	query := getDB(ctx, r.db).Model(&ProductModel{}).Where("vendor_id = ?", vendorID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询商品总数失败")
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Limit(pageSize).Offset(offset).Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询商品列表失败")
	}

	products, err := toProductEntities(models)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toProductModel 领域实体 → GORM模型
func toProductModel(p *product.Product) (*ProductModel, error) {
	tags, err := marshalJSON(p.Tags)
	if err != nil {
		return nil, err
	}
	return &ProductModel{
		ID:              p.ID,
		VendorID:        p.VendorID,
		Title:           p.Title,
		Description:     p.Description,
		CategoryID:      p.CategoryID,
		Brand:           p.Brand,
		Tags:            tags,
		IsActive:        p.IsActive,
		AvgRating:       p.AvgRating,
		RatingCount:     p.RatingCount,
		SeoSlug:         p.SeoSlug,
		MetaTitle:       p.MetaTitle,
		MetaDescription: p.MetaDescription,
	}, nil
}

// toProductEntity GORM模型 → 领域实体
func toProductEntity(model *ProductModel) (*product.Product, error) {
	var tags []string
	if err := unmarshalJSON(model.Tags, &tags); err != nil {
		return nil, apperrors.Wrap(err, "解析商品标签失败")
	}
	return &product.Product{
		ID:              model.ID,
		VendorID:        model.VendorID,
		Title:           model.Title,
		Description:     model.Description,
		CategoryID:      model.CategoryID,
		Brand:           model.Brand,
		Tags:            tags,
		IsActive:        model.IsActive,
		AvgRating:       model.AvgRating,
		RatingCount:     model.RatingCount,
		SeoSlug:         model.SeoSlug,
		MetaTitle:       model.MetaTitle,
		MetaDescription: model.MetaDescription,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}, nil
}

func toProductEntities(models []ProductModel) ([]*product.Product, error) {
	out := make([]*product.Product, 0, len(models))
	for i := range models {
		p, err := toProductEntity(&models[i])
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// marshalJSON 任意值 → JSON字符串(nil存"[]"以外的场景由调用方保证)
func marshalJSON(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", apperrors.Wrap(err, "序列化JSON字段失败")
	}
	return string(b), nil
}

// unmarshalJSON JSON字符串 → 目标值("null"与空串按零值处理)
func unmarshalJSON(s string, v interface{}) error {
	if s == "" || s == "null" {
		return nil
	}
	return json.Unmarshal([]byte(s), v)
}
