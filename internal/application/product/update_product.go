package product

import (
	"context"

	"github.com/qiwen/vendormall/internal/domain/category"
	"github.com/qiwen/vendormall/internal/domain/product"
	apperrors "github.com/qiwen/vendormall/pkg/errors"
)

// UpdateProductUseCase 更新商品用例
// 业务规则:
// 1. 归属校验: 只有商品归属商家可以修改
// 2. 改标题会重新生成SeoSlug(老链接失效, 由前端301处理, 核心不留别名)
// 3. 换分类时目标分类必须启用
type UpdateProductUseCase struct {
	productRepo  product.Repository
	categoryRepo category.Repository
}

// NewUpdateProductUseCase 创建用例
func NewUpdateProductUseCase(productRepo product.Repository, categoryRepo category.Repository) *UpdateProductUseCase {
	return &UpdateProductUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// UpdateProductRequest 更新请求DTO
// 指针字段nil表示"不修改该字段"
type UpdateProductRequest struct {
	ProductID       uint
	VendorID        uint // 来自认证上下文
	Title           *string
	Description     *string
	CategoryID      *uint
	Brand           *string
	Tags            []string // nil表示不修改
	IsActive        *bool
	MetaTitle       *string
	MetaDescription *string
}

// Execute 执行更新用例
func (uc *UpdateProductUseCase) Execute(ctx context.Context, req UpdateProductRequest) (*ProductResponse, error) {
	p, err := uc.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	// 归属校验
	if !p.IsOwnedBy(req.VendorID) {
		return nil, product.ErrNotOwner
	}

	// 换分类门禁
	if req.CategoryID != nil && *req.CategoryID != p.CategoryID {
		c, err := uc.categoryRepo.FindByID(ctx, *req.CategoryID)
		if err != nil {
			return nil, err
		}
		if !c.IsActive {
			return nil, apperrors.ErrCategoryInactive
		}
		p.CategoryID = *req.CategoryID
	}

	if req.Title != nil && *req.Title != p.Title {
		p.Retitle(*req.Title)
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Brand != nil {
		p.Brand = *req.Brand
	}
	if req.Tags != nil {
		p.Tags = req.Tags
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if req.MetaTitle != nil {
		p.MetaTitle = *req.MetaTitle
	}
	if req.MetaDescription != nil {
		p.MetaDescription = *req.MetaDescription
	}

	if err := uc.productRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	return NewProductResponse(p), nil
}
