package category

import (
	"context"

	apperrors "github.com/qiwen/vendormall/pkg/errors"
	"github.com/qiwen/vendormall/pkg/slug"
)

// Service 分类领域服务接口
// 设计说明:
// 1. 封装单聚合内的业务规则(创建门禁、删除门禁、面包屑、树形组装)
// 2. 跨多行写入的操作(改名的子树改写、停用的级联)需要事务,
//    放在application层用例中编排, 不在这里
type Service interface {
	// Create 创建分类
	// 业务规则:
	// - 名称slug化后不能为空
	// - 指定父分类时, 父分类必须存在且处于启用状态
	// - 生成的path不能与现有分类冲突
	Create(ctx context.Context, name, description string, parentID *uint, sortOrder int, attributes []AttributeSpec) (*Category, error)

	// GetByID 获取分类详情, 同时返回该分类下的活跃商品数
	GetByID(ctx context.Context, id uint) (*Category, int64, error)

	// Delete 删除分类(软删除, 只停用目标自身)
	// 业务规则: 分类下存在活跃商品或启用子分类时拒绝, 并在错误中
	// 携带阻塞数量(active_products / active_subcategories)
	Delete(ctx context.Context, id uint) error

	// Breadcrumbs 面包屑: 返回从根到目标的分类链
	// 容错: 中间环节缺失(被删除)时静默跳过, 返回降级面包屑
	Breadcrumbs(ctx context.Context, id uint) ([]*Category, error)

	// Subcategories 返回目标分类的全部启用后代(平铺, 按sort_order, name排序)
	Subcategories(ctx context.Context, id uint) ([]*Category, error)

	// Tree 返回全部启用分类组成的嵌套树
	Tree(ctx context.Context) ([]*TreeNode, error)
}

// TreeNode 树形结构节点
type TreeNode struct {
	*Category
	Children []*TreeNode
}

// service 领域服务实现
type service struct {
	repo    Repository
	counter ProductCounter
}

// NewService 创建分类领域服务
func NewService(repo Repository, counter ProductCounter) Service {
	return &service{repo: repo, counter: counter}
}

// Create 创建分类
func (s *service) Create(ctx context.Context, name, description string, parentID *uint, sortOrder int, attributes []AttributeSpec) (*Category, error) {
	// 1. 名称校验: slug化后为空说明名称全是非法字符
	if slug.Slugify(name) == "" {
		return nil, ErrInvalidName
	}

	// 2. 父分类门禁: 必须存在且启用(不允许往停用子树下挂新分类)
	var parent *Category
	if parentID != nil {
		p, err := s.repo.FindByID(ctx, *parentID)
		if err != nil {
			if apperrors.IsCode(err, apperrors.ErrCodeCategoryNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}
		if !p.IsActive {
			return nil, ErrParentInactive
		}
		parent = p
	}

	// 3. 构造实体并预检path冲突
	// 预检只为给出友好错误; 并发窗口由数据库唯一索引兜底,
	// 仓储会把唯一键冲突映射回ErrPathTaken
	c := NewCategory(name, description, parent, sortOrder, attributes)
	exists, err := s.repo.PathExists(ctx, c.Path)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrPathTaken
	}

	// 4. 持久化
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// GetByID 获取分类详情
func (s *service) GetByID(ctx context.Context, id uint) (*Category, int64, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	count, err := s.counter.CountActiveByCategory(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	return c, count, nil
}

// Delete 删除分类(软删除)
// 与停用不同: 删除不级联, 但有前置门禁; 商品门禁先于子分类门禁检查
func (s *service) Delete(ctx context.Context, id uint) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	// 1. 活跃商品门禁
	productCount, err := s.counter.CountActiveByCategory(ctx, id)
	if err != nil {
		return err
	}
	if productCount > 0 {
		return ErrNotEmpty.
			WithMessage("分类下存在活跃商品，无法删除").
			WithDetails(map[string]interface{}{"active_products": productCount})
	}

	// 2. 启用子分类门禁
	subCount, err := s.repo.CountActiveSubtree(ctx, c.Path)
	if err != nil {
		return err
	}
	if subCount > 0 {
		return ErrNotEmpty.
			WithMessage("分类下存在启用的子分类，无法删除").
			WithDetails(map[string]interface{}{"active_subcategories": subCount})
	}

	// 3. 软删除(只停用自身, 不触碰后代)
	c.Deactivate()
	return s.repo.Update(ctx, c)
}

// Breadcrumbs 面包屑
// 实现: 把path展开为全部累积前缀, 一次批量查询, 再按前缀顺序重排;
// 查不到的前缀(中间分类被物理清理过)直接跳过
func (s *service) Breadcrumbs(ctx context.Context, id uint) ([]*Category, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	prefixes := slug.PrefixPaths(c.Path)
	found, err := s.repo.FindByPaths(ctx, prefixes)
	if err != nil {
		return nil, err
	}

	byPath := make(map[string]*Category, len(found))
	for _, f := range found {
		byPath[f.Path] = f
	}

	crumbs := make([]*Category, 0, len(prefixes))
	for _, p := range prefixes {
		if node, ok := byPath[p]; ok {
			crumbs = append(crumbs, node)
		}
	}
	return crumbs, nil
}

// Subcategories 启用后代平铺列表
func (s *service) Subcategories(ctx context.Context, id uint) ([]*Category, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.repo.ListSubtree(ctx, c.Path)
}

// Tree 嵌套分类树
// 按level升序遍历保证父节点先于子节点被放入索引
func (s *service) Tree(ctx context.Context) ([]*TreeNode, error) {
	all, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]*TreeNode, len(all))
	roots := make([]*TreeNode, 0)

	for _, c := range all {
		node := &TreeNode{Category: c, Children: []*TreeNode{}}
		byID[c.ID] = node

		if c.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := byID[*c.ParentID]; ok {
			parent.Children = append(parent.Children, node)
		}
		// 父节点未启用时, 孤儿子树不进树(与级联停用语义一致)
	}

	return roots, nil
}
