package category

import (
	"context"

	"github.com/qiwen/vendormall/internal/domain/category"
	"github.com/qiwen/vendormall/pkg/slug"
)

// Transactor 事务边界抽象
// 由infrastructure层的TxManager实现; 用例只声明"这段编排需要原子性",
// 不关心事务如何开启与提交, 单元测试可注入直通实现
type Transactor interface {
	Transaction(ctx context.Context, fn func(txCtx context.Context) error) error
}

// UpdateCategoryUseCase 更新分类用例
// 设计说明:
// 1. 改名会派生新slug/新path, 整棵子树的path前缀必须同事务改写,
//    否则子树查询会在改名瞬间丢失后代
// 2. 前缀匹配以"/"为边界: 改名"men"不会误伤"mens-wear"
// 3. 仅改描述/排序/属性模板时不动path, 走普通单行更新
type UpdateCategoryUseCase struct {
	categoryRepo category.Repository
	txManager    Transactor
}

// NewUpdateCategoryUseCase 创建用例
func NewUpdateCategoryUseCase(categoryRepo category.Repository, txManager Transactor) *UpdateCategoryUseCase {
	return &UpdateCategoryUseCase{
		categoryRepo: categoryRepo,
		txManager:    txManager,
	}
}

// UpdateCategoryRequest 更新请求DTO
// 指针字段nil表示"不修改该字段"
type UpdateCategoryRequest struct {
	CategoryID  uint
	Name        *string
	Description *string
	SortOrder   *int
	Attributes  []category.AttributeSpec // nil表示不修改
}

// UpdateCategoryResponse 更新响应DTO
type UpdateCategoryResponse struct {
	Category *CategoryResponse `json:"category"`
	OldPath  string            `json:"old_path,omitempty"` // 改名时返回, 供事件与缓存失效使用
	NewPath  string            `json:"new_path,omitempty"`
	Rewritten int64            `json:"rewritten,omitempty"` // 改名时path被改写的行数(含自身)
}

// Execute 执行更新用例
func (uc *UpdateCategoryUseCase) Execute(ctx context.Context, req UpdateCategoryRequest) (*UpdateCategoryResponse, error) {
	c, err := uc.categoryRepo.FindByID(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	// 普通字段直接改在实体上, 随后续Update一起落库
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.SortOrder != nil {
		c.SortOrder = *req.SortOrder
	}
	if req.Attributes != nil {
		c.Attributes = req.Attributes
	}

	// 未改名(或名称slug化后不变): 单行更新即可
	renamed := req.Name != nil && slug.Slugify(*req.Name) != c.Slug
	if !renamed {
		if req.Name != nil {
			// slug不变时只改展示名, 不触发子树改写
			c.Name = *req.Name
		}
		if err := uc.categoryRepo.Update(ctx, c); err != nil {
			return nil, err
		}
		return &UpdateCategoryResponse{Category: NewCategoryResponse(c)}, nil
	}

	// 改名校验
	if slug.Slugify(*req.Name) == "" {
		return nil, category.ErrInvalidName
	}

	oldPath, newPath := c.Rename(*req.Name)

	// 新path不能与现有分类冲突(并发窗口由唯一索引兜底)
	exists, err := uc.categoryRepo.PathExists(ctx, newPath)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, category.ErrPathTaken
	}

	// 子树path改写与自身更新在同一事务内:
	// RewriteSubtreePaths覆盖自身+全部后代的path前缀,
	// Update落库自身的name/slug(path已被集合UPDATE改过)
	var rewritten int64
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		n, err := uc.categoryRepo.RewriteSubtreePaths(txCtx, oldPath, newPath)
		if err != nil {
			return err
		}
		rewritten = n

		return uc.categoryRepo.Update(txCtx, c)
	})
	if err != nil {
		return nil, err
	}

	return &UpdateCategoryResponse{
		Category:  NewCategoryResponse(c),
		OldPath:   oldPath,
		NewPath:   newPath,
		Rewritten: rewritten,
	}, nil
}
