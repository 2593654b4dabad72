package mysql

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"github.com/qiwen/vendormall/internal/domain/category"
	apperrors "github.com/qiwen/vendormall/pkg/errors"
)

// categoryRepository 分类仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/category/repository.go定义的接口
// 2. 子树操作统一以"/"为边界做前缀匹配:
//    path = ? OR path LIKE ?+"/%"
//    纯LIKE "men%"会把"mens-wear"误当成"men"的后代
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(db *gorm.DB) category.Repository {
	return &categoryRepository{db: db}
}

// Create 创建分类
func (r *categoryRepository) Create(ctx context.Context, c *category.Category) error {
	model, err := toCategoryModel(c)
	if err != nil {
		return err
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		// path唯一索引冲突 → 同级slug重复
		if isDuplicateError(err) {
			return category.ErrPathTaken
		}
		return apperrors.Wrap(err, "创建分类失败")
	}

	c.ID = model.ID
	c.CreatedAt = model.CreatedAt
	c.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找分类
func (r *categoryRepository) FindByID(ctx context.Context, id uint) (*category.Category, error) {
	var model CategoryModel
	err := getDB(ctx, r.db).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, category.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(err, "查询分类失败")
	}
	return toCategoryEntity(&model)
}

// FindByPath 根据物化路径查找分类
func (r *categoryRepository) FindByPath(ctx context.Context, path string) (*category.Category, error) {
	var model CategoryModel
	err := getDB(ctx, r.db).Where("path = ?", path).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, category.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(err, "查询分类失败")
	}
	return toCategoryEntity(&model)
}

// FindByPaths 批量按路径查找(面包屑用)
func (r *categoryRepository) FindByPaths(ctx context.Context, paths []string) ([]*category.Category, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	var models []CategoryModel
	err := getDB(ctx, r.db).Where("path IN ?", paths).Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "批量查询分类失败")
	}
	return toCategoryEntities(models)
}

// PathExists 判断路径是否已被占用
func (r *categoryRepository) PathExists(ctx context.Context, path string) (bool, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&CategoryModel{}).Where("path = ?", path).Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(err, "查询分类路径失败")
	}
	return count > 0, nil
}

// Update 更新分类自身字段
func (r *categoryRepository) Update(ctx context.Context, c *category.Category) error {
	attrs, err := marshalAttributes(c.Attributes)
	if err != nil {
		return err
	}

	// 指定列更新, 避免Save把零值字段也写回
	result := getDB(ctx, r.db).Model(&CategoryModel{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"name":        c.Name,
			"slug":        c.Slug,
			"path":        c.Path,
			"description": c.Description,
			"is_active":   c.IsActive,
			"sort_order":  c.SortOrder,
			"attributes":  attrs,
		})
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return category.ErrPathTaken
		}
		return apperrors.Wrap(result.Error, "更新分类失败")
	}
	return nil
}

// RewriteSubtreePaths 子树路径前缀改写(改名时调用, 必须在事务内)
// UPDATE categories
//   SET path = CONCAT(?, SUBSTRING(path, ?))
//   WHERE path = ? OR path LIKE ?
// SUBSTRING的起始位置是len(oldPath)+1(SQL下标从1开始),
// 即把旧前缀整段替换为新前缀; 自身与全部后代一条语句完成
func (r *categoryRepository) RewriteSubtreePaths(ctx context.Context, oldPath, newPath string) (int64, error) {
	result := getDB(ctx, r.db).Model(&CategoryModel{}).
		Where("path = ? OR path LIKE ?", oldPath, oldPath+"/%").
		Update("path", gorm.Expr("CONCAT(?, SUBSTRING(path, ?))", newPath, len(oldPath)+1))
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return 0, category.ErrPathTaken
		}
		return 0, apperrors.Wrap(result.Error, "改写子树路径失败")
	}
	return result.RowsAffected, nil
}

// DeactivateSubtree 停用path的全部后代(不含自身)
func (r *categoryRepository) DeactivateSubtree(ctx context.Context, path string) (int64, error) {
	result := getDB(ctx, r.db).Model(&CategoryModel{}).
		Where("path LIKE ? AND is_active = ?", path+"/%", true).
		Update("is_active", false)
	if result.Error != nil {
		return 0, apperrors.Wrap(result.Error, "级联停用分类失败")
	}
	return result.RowsAffected, nil
}

// ListActive 查询全部启用分类(组树用)
func (r *categoryRepository) ListActive(ctx context.Context) ([]*category.Category, error) {
	var models []CategoryModel
	err := getDB(ctx, r.db).
		Where("is_active = ?", true).
		Order("level ASC, sort_order ASC, name ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询分类列表失败")
	}
	return toCategoryEntities(models)
}

// ListSubtree 查询path的全部启用后代
func (r *categoryRepository) ListSubtree(ctx context.Context, path string) ([]*category.Category, error) {
	var models []CategoryModel
	err := getDB(ctx, r.db).
		Where("path LIKE ? AND is_active = ?", path+"/%", true).
		Order("sort_order ASC, name ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询子分类失败")
	}
	return toCategoryEntities(models)
}

// CountActiveSubtree 统计path下启用后代数量
func (r *categoryRepository) CountActiveSubtree(ctx context.Context, path string) (int64, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&CategoryModel{}).
		Where("path LIKE ? AND is_active = ?", path+"/%", true).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "统计子分类失败")
	}
	return count, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toCategoryModel 领域实体 → GORM模型
func toCategoryModel(c *category.Category) (*CategoryModel, error) {
	attrs, err := marshalAttributes(c.Attributes)
	if err != nil {
		return nil, err
	}
	return &CategoryModel{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		ParentID:    c.ParentID,
		Level:       c.Level,
		Path:        c.Path,
		Description: c.Description,
		IsActive:    c.IsActive,
		SortOrder:   c.SortOrder,
		Attributes:  attrs,
	}, nil
}

// toCategoryEntity GORM模型 → 领域实体
func toCategoryEntity(model *CategoryModel) (*category.Category, error) {
	var attrs []category.AttributeSpec
	if model.Attributes != "" && model.Attributes != "[]" {
		if err := json.Unmarshal([]byte(model.Attributes), &attrs); err != nil {
			return nil, apperrors.Wrap(err, "解析分类属性模板失败")
		}
	}
	return &category.Category{
		ID:          model.ID,
		Name:        model.Name,
		Slug:        model.Slug,
		ParentID:    model.ParentID,
		Level:       model.Level,
		Path:        model.Path,
		Description: model.Description,
		IsActive:    model.IsActive,
		SortOrder:   model.SortOrder,
		Attributes:  attrs,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}, nil
}

func toCategoryEntities(models []CategoryModel) ([]*category.Category, error) {
	out := make([]*category.Category, 0, len(models))
	for i := range models {
		c, err := toCategoryEntity(&models[i])
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// marshalAttributes 属性模板 → JSON字符串
// 空模板存"[]": MySQL的json列不接受空串
func marshalAttributes(attrs []category.AttributeSpec) (string, error) {
	if len(attrs) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(attrs)
	if err != nil {
		return "", apperrors.Wrap(err, "序列化分类属性模板失败")
	}
	return string(b), nil
}
