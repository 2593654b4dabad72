package category

import (
	"context"
)

// Repository 分类仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口, infrastructure层实现
// 2. 便于Mock测试, 不依赖具体数据库实现
// 3. 子树级操作(RewriteSubtreePaths/DeactivateSubtree)是集合式UPDATE,
//    必须以"/"为边界做前缀匹配: path = ? OR path LIKE ?+"/%"
type Repository interface {
	// Create 创建分类(path冲突返回ErrPathTaken)
	Create(ctx context.Context, category *Category) error

	// FindByID 根据ID查找分类
	FindByID(ctx context.Context, id uint) (*Category, error)

	// FindByPath 根据物化路径查找分类
	FindByPath(ctx context.Context, path string) (*Category, error)

	// FindByPaths 批量按路径查找(面包屑用, 结果按传入顺序无保证)
	FindByPaths(ctx context.Context, paths []string) ([]*Category, error)

	// PathExists 判断路径是否已被占用
	PathExists(ctx context.Context, path string) (bool, error)

	// Update 更新分类自身字段(name/slug/path/description/sort_order/attributes/is_active)
	Update(ctx context.Context, category *Category) error

	// RewriteSubtreePaths 把oldPath前缀改写为newPath(含目标自身与全部后代)
	// 返回受影响行数; 必须在事务内与目标行的Update一起执行
	RewriteSubtreePaths(ctx context.Context, oldPath, newPath string) (int64, error)

	// DeactivateSubtree 停用path的全部后代(不含目标自身)
	DeactivateSubtree(ctx context.Context, path string) (int64, error)

	// ListActive 查询全部启用分类(按level, sort_order, name排序, 组树用)
	ListActive(ctx context.Context) ([]*Category, error)

	// ListSubtree 查询path的全部启用后代(按sort_order, name排序)
	ListSubtree(ctx context.Context, path string) ([]*Category, error)

	// CountActiveSubtree 统计path下启用后代数量(删除前置校验用)
	CountActiveSubtree(ctx context.Context, path string) (int64, error)
}

// ProductCounter 活跃商品计数接口
// 分类删除前需要统计分类下的活跃商品数, 商品聚合的仓储实现该接口,
// 避免category领域直接依赖product包
type ProductCounter interface {
	CountActiveByCategory(ctx context.Context, categoryID uint) (int64, error)
}
