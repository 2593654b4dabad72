package category

import (
	"context"

	"github.com/qiwen/vendormall/internal/domain/category"
)

// BrowseCategoriesUseCase 分类浏览用例(只读)
// 树形/面包屑/子分类列表都是纯查询, 无事务
type BrowseCategoriesUseCase struct {
	categoryService category.Service
}

// NewBrowseCategoriesUseCase 创建用例
func NewBrowseCategoriesUseCase(categoryService category.Service) *BrowseCategoriesUseCase {
	return &BrowseCategoriesUseCase{
		categoryService: categoryService,
	}
}

// CategoryDetailResponse 分类详情DTO
type CategoryDetailResponse struct {
	*CategoryResponse
	ActiveProducts int64 `json:"active_products"` // 分类下活跃商品数
}

// TreeNodeResponse 树形节点DTO
type TreeNodeResponse struct {
	*CategoryResponse
	Children []*TreeNodeResponse `json:"children"`
}

// Detail 分类详情(含活跃商品数)
func (uc *BrowseCategoriesUseCase) Detail(ctx context.Context, id uint) (*CategoryDetailResponse, error) {
	c, productCount, err := uc.categoryService.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &CategoryDetailResponse{
		CategoryResponse: NewCategoryResponse(c),
		ActiveProducts:   productCount,
	}, nil
}

// Breadcrumbs 面包屑(根→目标, 缺失环节已被领域服务跳过)
func (uc *BrowseCategoriesUseCase) Breadcrumbs(ctx context.Context, id uint) ([]*CategoryResponse, error) {
	crumbs, err := uc.categoryService.Breadcrumbs(ctx, id)
	if err != nil {
		return nil, err
	}

	out := make([]*CategoryResponse, 0, len(crumbs))
	for _, c := range crumbs {
		out = append(out, NewCategoryResponse(c))
	}
	return out, nil
}

// Subcategories 启用后代平铺列表
func (uc *BrowseCategoriesUseCase) Subcategories(ctx context.Context, id uint) ([]*CategoryResponse, error) {
	subs, err := uc.categoryService.Subcategories(ctx, id)
	if err != nil {
		return nil, err
	}

	out := make([]*CategoryResponse, 0, len(subs))
	for _, c := range subs {
		out = append(out, NewCategoryResponse(c))
	}
	return out, nil
}

// Tree 全部启用分类的嵌套树
func (uc *BrowseCategoriesUseCase) Tree(ctx context.Context) ([]*TreeNodeResponse, error) {
	roots, err := uc.categoryService.Tree(ctx)
	if err != nil {
		return nil, err
	}
	return buildTreeResponse(roots), nil
}

func buildTreeResponse(nodes []*category.TreeNode) []*TreeNodeResponse {
	out := make([]*TreeNodeResponse, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, &TreeNodeResponse{
			CategoryResponse: NewCategoryResponse(n.Category),
			Children:         buildTreeResponse(n.Children),
		})
	}
	return out
}
