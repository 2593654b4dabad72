package review

import (
	apperrors "github.com/qiwen/vendormall/pkg/errors"
)

// 评价领域错误定义
var (
	// ErrReviewNotFound 评价不存在
	ErrReviewNotFound = apperrors.New(apperrors.ErrCodeReviewNotFound, "评价不存在")

	// ErrAlreadyReviewed 同一用户对同一商品重复评价
	ErrAlreadyReviewed = apperrors.New(apperrors.ErrCodeAlreadyReviewed, "您已评价过该商品")

	// ErrInvalidRating 评分越界(必须1-5)
	ErrInvalidRating = apperrors.New(apperrors.ErrCodeInvalidParams, "评分必须在1-5之间")

	// ErrNotAuthor 非评价作者
	ErrNotAuthor = apperrors.New(apperrors.ErrCodeForbidden, "无权操作该评价")

	// ErrNotProductVendor 置顶者不是评价所属商品的商家
	ErrNotProductVendor = apperrors.New(apperrors.ErrCodeForbidden, "只能置顶自己商品下的评价")

	// ErrPinQuotaExceeded 置顶配额已满(每商家上限4条)
	// 使用时通过WithDetails携带 limit/current
	ErrPinQuotaExceeded = apperrors.New(apperrors.ErrCodePinQuotaExceeded, "置顶评价数量已达上限")

	// ErrAlreadyPinned 该评价已被此商家置顶
	ErrAlreadyPinned = apperrors.New(apperrors.ErrCodeReviewAlreadyPinned, "该评价已被置顶")
)
