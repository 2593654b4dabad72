package category

import (
	"context"

	"github.com/qiwen/vendormall/internal/domain/category"
)

// DeleteCategoryUseCase 删除分类用例
// 删除门禁(活跃商品数、启用子分类数)在领域服务内实现,
// 用例层只做编排与DTO转换
type DeleteCategoryUseCase struct {
	categoryService category.Service
}

// NewDeleteCategoryUseCase 创建用例
func NewDeleteCategoryUseCase(categoryService category.Service) *DeleteCategoryUseCase {
	return &DeleteCategoryUseCase{
		categoryService: categoryService,
	}
}

// Execute 执行删除
func (uc *DeleteCategoryUseCase) Execute(ctx context.Context, categoryID uint) error {
	return uc.categoryService.Delete(ctx, categoryID)
}
