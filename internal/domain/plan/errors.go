package plan

import (
	apperrors "github.com/linwan/kimono-rental/pkg/errors"
)

// 套餐领域错误定义
var (
	// ErrPlanNotFound 套餐不存在
	ErrPlanNotFound = apperrors.ErrPlanNotFound

	// ErrSlugDuplicate slug已存在
	ErrSlugDuplicate = apperrors.New(apperrors.ErrCodeSlugDuplicate, "套餐slug已存在")

	// ErrInvalidSlug slug格式不正确
	ErrInvalidSlug = apperrors.New(apperrors.ErrCodeInvalidParams, "slug只能包含小写字母、数字和连字符")

	// ErrInvalidPrice 价格不合法
	ErrInvalidPrice = apperrors.New(apperrors.ErrCodeInvalidParams, "价格必须大于0")

	// ErrInvalidDuration 时长不合法
	ErrInvalidDuration = apperrors.New(apperrors.ErrCodeInvalidParams, "租赁时长必须大于0")

	// ErrOwnershipViolation 批量操作包含不属于操作者的套餐
	ErrOwnershipViolation = apperrors.ErrOwnershipViolation

	// ErrThemeNotFound 主题不存在或已停用
	ErrThemeNotFound = apperrors.ErrThemeNotFound

	// ErrEmptyPlanIDs 批量操作的套餐列表为空
	ErrEmptyPlanIDs = apperrors.New(apperrors.ErrCodeInvalidParams, "套餐ID列表不能为空")
)
