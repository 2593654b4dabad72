package category

import (
	apperrors "github.com/qiwen/vendormall/pkg/errors"
)

// 分类领域错误定义
var (
	// ErrCategoryNotFound 分类不存在
	ErrCategoryNotFound = apperrors.New(apperrors.ErrCodeCategoryNotFound, "分类不存在")

	// ErrParentNotFound 父分类不存在
	ErrParentNotFound = apperrors.New(apperrors.ErrCodeCategoryNotFound, "父分类不存在")

	// ErrParentInactive 父分类未启用(不允许挂载新子分类)
	ErrParentInactive = apperrors.New(apperrors.ErrCodeCategoryInactive, "父分类未启用")

	// ErrPathTaken 物化路径已被占用(同级下已有同名slug)
	ErrPathTaken = apperrors.New(apperrors.ErrCodeCategoryPathTaken, "同级分类下已存在同名分类")

	// ErrNotEmpty 分类下仍有活跃商品或子分类, 删除被拒
	// 使用时通过WithDetails携带阻塞数量
	ErrNotEmpty = apperrors.New(apperrors.ErrCodeCategoryNotEmpty, "分类下存在活跃商品或子分类，无法删除")

	// ErrInvalidName 名称非法(为空或slug化后为空)
	ErrInvalidName = apperrors.New(apperrors.ErrCodeInvalidParams, "分类名称非法")
)
