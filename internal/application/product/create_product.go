package product

import (
	"context"

	"github.com/qiwen/vendormall/internal/domain/category"
	"github.com/qiwen/vendormall/internal/domain/product"
	apperrors "github.com/qiwen/vendormall/pkg/errors"
)

// Transactor 事务边界抽象(由infrastructure层的TxManager实现)
type Transactor interface {
	Transaction(ctx context.Context, fn func(txCtx context.Context) error) error
}

// CreateProductUseCase 创建商品用例
// 业务规则:
// 1. 目标分类必须存在且处于启用状态(不允许往停用分类下挂商品)
// 2. SeoSlug由标题+毫秒时间戳生成, 调用方不可指定
// 3. 商品归属于当前商家(VendorID来自认证上下文, 不信任请求体)
type CreateProductUseCase struct {
	productRepo  product.Repository
	categoryRepo category.Repository
}

// NewCreateProductUseCase 创建用例
func NewCreateProductUseCase(productRepo product.Repository, categoryRepo category.Repository) *CreateProductUseCase {
	return &CreateProductUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// CreateProductRequest 创建请求DTO
type CreateProductRequest struct {
	VendorID        uint
	Title           string
	Description     string
	CategoryID      uint
	Brand           string
	Tags            []string
	MetaTitle       string
	MetaDescription string
}

// ProductResponse 商品响应DTO(创建/查询共用)
type ProductResponse struct {
	ID              uint     `json:"id"`
	VendorID        uint     `json:"vendor_id"`
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	CategoryID      uint     `json:"category_id"`
	Brand           string   `json:"brand,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	IsActive        bool     `json:"is_active"`
	AvgRating       float64  `json:"avg_rating"`
	RatingCount     int      `json:"rating_count"`
	SeoSlug         string   `json:"seo_slug"`
	MetaTitle       string   `json:"meta_title,omitempty"`
	MetaDescription string   `json:"meta_description,omitempty"`
	CreatedAt       string   `json:"created_at"`
}

// NewProductResponse 实体→DTO
func NewProductResponse(p *product.Product) *ProductResponse {
	return &ProductResponse{
		ID:              p.ID,
		VendorID:        p.VendorID,
		Title:           p.Title,
		Description:     p.Description,
		CategoryID:      p.CategoryID,
		Brand:           p.Brand,
		Tags:            p.Tags,
		IsActive:        p.IsActive,
		AvgRating:       p.AvgRating,
		RatingCount:     p.RatingCount,
		SeoSlug:         p.SeoSlug,
		MetaTitle:       p.MetaTitle,
		MetaDescription: p.MetaDescription,
		CreatedAt:       p.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// Execute 执行创建用例
func (uc *CreateProductUseCase) Execute(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	// 1. 分类门禁
	c, err := uc.categoryRepo.FindByID(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if !c.IsActive {
		return nil, apperrors.ErrCategoryInactive
	}

	// 2. 构造实体并持久化
	p := product.NewProduct(req.VendorID, req.Title, req.Description, req.CategoryID, req.Brand, req.Tags, req.MetaTitle, req.MetaDescription)
	if err := uc.productRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	return NewProductResponse(p), nil
}
