package user

import (
	apperrors "github.com/qiwen/vendormall/pkg/errors"
)

// 用户领域错误定义
var (
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = apperrors.New(apperrors.ErrCodeUserNotFound, "用户不存在")

	// ErrAlreadyVendor 账号已开店
	ErrAlreadyVendor = apperrors.New(apperrors.ErrCodeBusinessError, "该账号已开店")

	// ErrNotVendor 账号未开店(商家接口门禁)
	ErrNotVendor = apperrors.New(apperrors.ErrCodeForbidden, "该账号尚未开店")
)
