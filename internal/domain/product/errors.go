package product

import (
	apperrors "github.com/qiwen/vendormall/pkg/errors"
)

// 商品领域错误定义
var (
	// ErrProductNotFound 商品不存在
	ErrProductNotFound = apperrors.New(apperrors.ErrCodeProductNotFound, "商品不存在")

	// ErrVariantNotFound 商品规格不存在
	ErrVariantNotFound = apperrors.New(apperrors.ErrCodeVariantNotFound, "商品规格不存在")

	// ErrInventoryNotFound 库存记录不存在
	ErrInventoryNotFound = apperrors.New(apperrors.ErrCodeInventoryNotFound, "库存记录不存在")

	// ErrSKUDuplicate SKU已存在
	ErrSKUDuplicate = apperrors.New(apperrors.ErrCodeSKUDuplicate, "SKU已存在")

	// ErrInsufficientStock 可用库存不足(扣减量超过 stock - reserved)
	// 使用时通过WithDetails携带 available/requested
	ErrInsufficientStock = apperrors.New(apperrors.ErrCodeInsufficientStock, "可用库存不足")

	// ErrNotOwner 非商品归属商家
	ErrNotOwner = apperrors.New(apperrors.ErrCodeForbidden, "无权操作该商品")

	// ErrInvalidPrice 价格非法(mrp<=0或selling>mrp)
	ErrInvalidPrice = apperrors.New(apperrors.ErrCodeInvalidParams, "价格非法")

	// ErrInvalidDelta 调整量非法
	ErrInvalidDelta = apperrors.New(apperrors.ErrCodeInvalidParams, "库存调整量非法")
)
