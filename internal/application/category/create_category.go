package category

import (
	"context"

	"github.com/qiwen/vendormall/internal/domain/category"
)

// CreateCategoryUseCase 创建分类用例
// 设计说明:
// 1. 应用层负责用例编排,协调领域服务完成业务流程
// 2. 输入输出使用DTO(Data Transfer Object),与HTTP层解耦
// 3. 创建是单行写入,业务门禁(父分类状态、path冲突)都在领域服务里
type CreateCategoryUseCase struct {
	categoryService category.Service
}

// NewCreateCategoryUseCase 创建用例
func NewCreateCategoryUseCase(categoryService category.Service) *CreateCategoryUseCase {
	return &CreateCategoryUseCase{
		categoryService: categoryService,
	}
}

// CreateCategoryRequest 创建请求DTO
type CreateCategoryRequest struct {
	Name        string                   // 分类名称
	Description string                   // 描述
	ParentID    *uint                    // 父分类ID(nil表示根分类)
	SortOrder   int                      // 同级排序权重
	Attributes  []category.AttributeSpec // 属性模板
}

// CategoryResponse 分类响应DTO(创建/查询共用)
type CategoryResponse struct {
	ID          uint                     `json:"id"`
	Name        string                   `json:"name"`
	Slug        string                   `json:"slug"`
	ParentID    *uint                    `json:"parent_id,omitempty"`
	Level       int                      `json:"level"`
	Path        string                   `json:"path"`
	Description string                   `json:"description,omitempty"`
	IsActive    bool                     `json:"is_active"`
	SortOrder   int                      `json:"sort_order"`
	Attributes  []category.AttributeSpec `json:"attributes,omitempty"`
	CreatedAt   string                   `json:"created_at"`
}

// NewCategoryResponse 实体→DTO
func NewCategoryResponse(c *category.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		ParentID:    c.ParentID,
		Level:       c.Level,
		Path:        c.Path,
		Description: c.Description,
		IsActive:    c.IsActive,
		SortOrder:   c.SortOrder,
		Attributes:  c.Attributes,
		CreatedAt:   c.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// Execute 执行创建用例
func (uc *CreateCategoryUseCase) Execute(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	c, err := uc.categoryService.Create(ctx, req.Name, req.Description, req.ParentID, req.SortOrder, req.Attributes)
	if err != nil {
		return nil, err
	}

	return NewCategoryResponse(c), nil
}
