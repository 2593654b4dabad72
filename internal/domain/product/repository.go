package product

import (
	"context"
)

// Repository 商品仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口, infrastructure层实现
// 2. CountActiveByCategory同时满足category.ProductCounter接口,
//    分类删除门禁通过它统计活跃商品数
type Repository interface {
	// Create 创建商品
	Create(ctx context.Context, product *Product) error

	// FindByID 根据ID查找商品
	FindByID(ctx context.Context, id uint) (*Product, error)

	// FindBySeoSlug 根据SEO slug查找商品(公开详情页)
	FindBySeoSlug(ctx context.Context, seoSlug string) (*Product, error)

	// Update 更新商品信息
	Update(ctx context.Context, product *Product) error

	// SoftDelete 软删除商品(is_active=false), 商品不存在返回ErrProductNotFound
	// 必须与规格的DeactivateByProduct在同一事务内执行
	SoftDelete(ctx context.Context, id uint) error

	// UpdateRating 写入评分快照(评价事务内调用)
	UpdateRating(ctx context.Context, productID uint, avg float64, count int) error

	// CountActiveByCategory 统计分类下的活跃商品数
	CountActiveByCategory(ctx context.Context, categoryID uint) (int64, error)

	// List 公开商品列表(只含上架商品)
	List(ctx context.Context, params ListParams) ([]*Product, int64, error)

	// ListByVendor 商家自己的商品列表(含下架商品)
	ListByVendor(ctx context.Context, vendorID uint, page, pageSize int) ([]*Product, int64, error)
}

// ListParams 公开列表查询参数
type ListParams struct {
	Page       int    // 页码(从1开始)
	PageSize   int    // 每页数量
	CategoryID uint   // 分类过滤(0表示不过滤)
	Keyword    string // 标题/品牌模糊匹配(LIKE, 非全文检索)
	SortBy     string // 排序(created_at_desc, rating_desc)
}

// VariantRepository 规格仓储接口
type VariantRepository interface {
	// Create 创建规格(SKU冲突返回ErrSKUDuplicate)
	Create(ctx context.Context, variant *Variant) error

	// FindByID 根据ID查找规格
	FindByID(ctx context.Context, id uint) (*Variant, error)

	// FindByProduct 查询商品的规格列表
	// activeOnly=true时只返回启用规格, 按售价升序; 否则全量返回
	FindByProduct(ctx context.Context, productID uint, activeOnly bool) ([]*Variant, error)

	// Update 更新规格
	Update(ctx context.Context, variant *Variant) error

	// SoftDelete 软删除规格(is_active=false, 库存记录保留)
	SoftDelete(ctx context.Context, id uint) error

	// DeactivateByProduct 停用商品的全部规格(商品软删除事务内调用)
	DeactivateByProduct(ctx context.Context, productID uint) (int64, error)

	// PriceRanges 批量统计商品的启用规格售价区间(列表页用)
	PriceRanges(ctx context.Context, productIDs []uint) ([]PriceRange, error)
}

// InventoryRepository 库存仓储接口
type InventoryRepository interface {
	// Create 创建库存记录(规格创建事务内调用)
	Create(ctx context.Context, inventory *Inventory) error

	// FindByVariant 查询规格的库存记录
	FindByVariant(ctx context.Context, variantID uint) (*Inventory, error)

	// AdjustStock 原子调整库存
	// 语义(先拒后夹):
	// - delta<0时, 可用量校验内联在UPDATE谓词中(stock - reserved + delta >= 0),
	//   不满足则一行都不改, 返回当前库存快照和ErrInsufficientStock,
	//   调用方用快照补available/requested明细
	// - delta>=0时直接执行, 结果用GREATEST(stock+delta, 0)夹底到0
	// 成功时返回调整后的库存记录
	AdjustStock(ctx context.Context, variantID uint, delta int) (*Inventory, error)

	// UpdateThreshold 更新低库存阈值
	UpdateThreshold(ctx context.Context, variantID uint, threshold int) error

	// ListByVendor 商家库存总览(inventory⋈variant⋈product按vendor过滤)
	ListByVendor(ctx context.Context, vendorID uint) ([]*VendorStock, error)
}
