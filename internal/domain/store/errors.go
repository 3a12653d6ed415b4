package store

import (
	apperrors "github.com/linwan/kimono-rental/pkg/errors"
)

// 门店领域错误定义
var (
	// ErrStoreNotFound 门店不存在
	ErrStoreNotFound = apperrors.ErrStoreNotFound

	// ErrInvalidName 门店名称不合法
	ErrInvalidName = apperrors.New(apperrors.ErrCodeInvalidParams, "门店名称不能为空")
)
