package garment

import (
	apperrors "github.com/linwan/kimono-rental/pkg/errors"
)

// 和服领域错误定义
var (
	// ErrGarmentNotFound 和服不存在
	ErrGarmentNotFound = apperrors.ErrGarmentNotFound

	// ErrInvalidName 款式名称不合法
	ErrInvalidName = apperrors.New(apperrors.ErrCodeInvalidParams, "款式名称不能为空")
)
