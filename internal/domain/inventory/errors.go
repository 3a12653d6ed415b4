package inventory

import (
	apperrors "github.com/linwan/kimono-rental/pkg/errors"
)

// 库存领域错误定义
var (
	// ErrInvalidQuantity 容量不合法
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "库存容量不能为负数")

	// ErrRecordNotFound 库存记录不存在
	// 注意:查询容量时缺失记录按容量0处理,不返回此错误;
	// 此错误仅用于按ID定位记录的管理操作
	ErrRecordNotFound = apperrors.New(apperrors.ErrCodeNotFound, "库存记录不存在")
)
