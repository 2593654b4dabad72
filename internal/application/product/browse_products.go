package product

import (
	"context"

	"github.com/qiwen/vendormall/internal/domain/product"
)

// BrowseProductsUseCase 商品浏览用例(只读)
// 公开列表/详情只暴露上架内容; 商家列表含下架商品
type BrowseProductsUseCase struct {
	productRepo   product.Repository
	variantRepo   product.VariantRepository
	inventoryRepo product.InventoryRepository
}

// NewBrowseProductsUseCase 创建用例
func NewBrowseProductsUseCase(
	productRepo product.Repository,
	variantRepo product.VariantRepository,
	inventoryRepo product.InventoryRepository,
) *BrowseProductsUseCase {
	return &BrowseProductsUseCase{
		productRepo:   productRepo,
		variantRepo:   variantRepo,
		inventoryRepo: inventoryRepo,
	}
}

// ListProductsRequest 公开列表请求DTO
type ListProductsRequest struct {
	Page       int
	PageSize   int
	CategoryID uint
	Keyword    string
	SortBy     string
}

// ProductListItem 列表项DTO(商品+价格区间)
type ProductListItem struct {
	*ProductResponse
	PriceMin int64 `json:"price_min,omitempty"`
	PriceMax int64 `json:"price_max,omitempty"`
}

// ListProductsResponse 公开列表响应DTO
type ListProductsResponse struct {
	Items []*ProductListItem `json:"items"`
	Total int64              `json:"total"`
}

// List 公开商品列表
// 价格区间单独一次批量聚合查询, 避免每个商品一条子查询
func (uc *BrowseProductsUseCase) List(ctx context.Context, req ListProductsRequest) (*ListProductsResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 20
	}

	products, total, err := uc.productRepo.List(ctx, product.ListParams{
		Page:       req.Page,
		PageSize:   req.PageSize,
		CategoryID: req.CategoryID,
		Keyword:    req.Keyword,
		SortBy:     req.SortBy,
	})
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}

	rangeByID := make(map[uint]product.PriceRange)
	if len(ids) > 0 {
		ranges, err := uc.variantRepo.PriceRanges(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, r := range ranges {
			rangeByID[r.ProductID] = r
		}
	}

	items := make([]*ProductListItem, 0, len(products))
	for _, p := range products {
		item := &ProductListItem{ProductResponse: NewProductResponse(p)}
		if r, ok := rangeByID[p.ID]; ok {
			item.PriceMin = r.Min
			item.PriceMax = r.Max
		}
		items = append(items, item)
	}

	return &ListProductsResponse{Items: items, Total: total}, nil
}

// VariantWithStock 公开详情页的规格DTO(带可购买量)
type VariantWithStock struct {
	*VariantResponse
	Available int  `json:"available"`
	InStock   bool `json:"in_stock"`
}

// ProductDetailResponse 公开详情响应DTO
type ProductDetailResponse struct {
	Product  *ProductResponse    `json:"product"`
	Variants []*VariantWithStock `json:"variants"`
}

// DetailBySlug 公开商品详情(SEO slug定位)
// 只返回启用规格; 可用量暴露为数值, stock/reserved细节不外泄
func (uc *BrowseProductsUseCase) DetailBySlug(ctx context.Context, seoSlug string) (*ProductDetailResponse, error) {
	p, err := uc.productRepo.FindBySeoSlug(ctx, seoSlug)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, product.ErrProductNotFound
	}

	variants, err := uc.variantRepo.FindByProduct(ctx, p.ID, true)
	if err != nil {
		return nil, err
	}

	out := make([]*VariantWithStock, 0, len(variants))
	for _, v := range variants {
		vs := &VariantWithStock{VariantResponse: NewVariantResponse(v)}
		inv, err := uc.inventoryRepo.FindByVariant(ctx, v.ID)
		if err == nil {
			vs.Available = inv.Available()
			vs.InStock = inv.Available() > 0
		}
		// 库存记录缺失按不可购买处理, 详情页不因此报错
		out = append(out, vs)
	}

	return &ProductDetailResponse{
		Product:  NewProductResponse(p),
		Variants: out,
	}, nil
}

// VendorList 商家自己的商品列表(含下架)
func (uc *BrowseProductsUseCase) VendorList(ctx context.Context, vendorID uint, page, pageSize int) ([]*ProductResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	products, total, err := uc.productRepo.ListByVendor(ctx, vendorID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, NewProductResponse(p))
	}
	return out, total, nil
}

// VendorVariants 商家视角的规格全量列表(含停用)
func (uc *BrowseProductsUseCase) VendorVariants(ctx context.Context, productID, vendorID uint) ([]*VariantResponse, error) {
	p, err := uc.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !p.IsOwnedBy(vendorID) {
		return nil, product.ErrNotOwner
	}

	variants, err := uc.variantRepo.FindByProduct(ctx, productID, false)
	if err != nil {
		return nil, err
	}

	out := make([]*VariantResponse, 0, len(variants))
	for _, v := range variants {
		out = append(out, NewVariantResponse(v))
	}
	return out, nil
}
