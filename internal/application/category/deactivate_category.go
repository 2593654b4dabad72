package category

import (
	"context"

	"github.com/qiwen/vendormall/internal/domain/category"
)

// SetCategoryStatusUseCase 启用/停用分类用例
// 语义不对称(刻意设计):
// - 停用级联整棵子树: 停用"男装"后其下"衬衫/裤装"不该继续可见
// - 启用只作用于自身: 级联启用可能意外唤醒早已停用的深层后代,
//   子分类需要运营逐个确认后再启用
type SetCategoryStatusUseCase struct {
	categoryRepo category.Repository
	txManager    Transactor
}

// NewSetCategoryStatusUseCase 创建用例
func NewSetCategoryStatusUseCase(categoryRepo category.Repository, txManager Transactor) *SetCategoryStatusUseCase {
	return &SetCategoryStatusUseCase{
		categoryRepo: categoryRepo,
		txManager:    txManager,
	}
}

// SetCategoryStatusRequest 状态变更请求DTO
type SetCategoryStatusRequest struct {
	CategoryID uint
	IsActive   bool
}

// SetCategoryStatusResponse 状态变更响应DTO
type SetCategoryStatusResponse struct {
	Category    *CategoryResponse `json:"category"`
	Deactivated int64             `json:"deactivated,omitempty"` // 停用时被级联停用的后代数
}

// Execute 执行状态变更
func (uc *SetCategoryStatusUseCase) Execute(ctx context.Context, req SetCategoryStatusRequest) (*SetCategoryStatusResponse, error) {
	c, err := uc.categoryRepo.FindByID(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	// 启用: 仅自身, 单行更新
	if req.IsActive {
		c.IsActive = true
		if err := uc.categoryRepo.Update(ctx, c); err != nil {
			return nil, err
		}
		return &SetCategoryStatusResponse{Category: NewCategoryResponse(c)}, nil
	}

	// 停用: 自身+后代级联, 同一事务保证子树状态一致
	var deactivated int64
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		c.Deactivate()
		if err := uc.categoryRepo.Update(txCtx, c); err != nil {
			return err
		}

		n, err := uc.categoryRepo.DeactivateSubtree(txCtx, c.Path)
		if err != nil {
			return err
		}
		deactivated = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &SetCategoryStatusResponse{
		Category:    NewCategoryResponse(c),
		Deactivated: deactivated,
	}, nil
}
