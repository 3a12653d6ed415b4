package booking

import (
	apperrors "github.com/linwan/kimono-rental/pkg/errors"
)

// 预约领域错误定义
var (
	// ErrBookingNotFound 预约不存在
	ErrBookingNotFound = apperrors.ErrBookingNotFound

	// ErrInvalidTransition 非法的状态转换
	ErrInvalidTransition = apperrors.ErrInvalidTransition

	// ErrAlreadyTerminal 预约已结束(终态不可取消)
	ErrAlreadyTerminal = apperrors.ErrAlreadyTerminal

	// ErrAlreadyCancelled 预约已取消
	ErrAlreadyCancelled = apperrors.ErrAlreadyCancelled

	// ErrInsufficientInventory 库存不足
	ErrInsufficientInventory = apperrors.ErrInsufficientInventory

	// ErrInvalidPlanStore 该门店不提供此套餐
	ErrInvalidPlanStore = apperrors.ErrInvalidPlanStore

	// ErrEmptyItems 预约明细不能为空
	ErrEmptyItems = apperrors.New(apperrors.ErrCodeInvalidParams, "预约明细不能为空")

	// ErrInvalidQuantity 预约件数不合法
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "预约件数必须大于0")

	// ErrInvalidVisitDate 到店日期不合法
	ErrInvalidVisitDate = apperrors.New(apperrors.ErrCodeInvalidParams, "到店日期不能早于今天")

	// ErrForbidden 无权操作此预约
	ErrForbidden = apperrors.New(apperrors.ErrCodeForbidden, "无权操作此预约")
)
