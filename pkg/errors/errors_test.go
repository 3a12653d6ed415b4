package errors

import (
	"errors"
	"fmt"
	"testing"
)

// TestIsRetryable_WrapDB 持久层用WrapDB包装的错误必须可重试
// 预约准入的重试循环依赖此约定:普通Wrap(50000)不可重试,
// WrapDB/WrapRedis(50001/50002)可重试
func TestIsRetryable_WrapDB(t *testing.T) {
	driverErr := errors.New("Error 1213: Deadlock found when trying to get lock")

	dbErr := WrapDB(driverErr, "创建预约失败")
	if !IsRetryable(dbErr) {
		t.Error("WrapDB包装的数据库错误应可重试")
	}
	if dbErr.Code != ErrCodeDatabaseError {
		t.Errorf("期望错误码%d, 实际%d", ErrCodeDatabaseError, dbErr.Code)
	}

	redisErr := WrapRedis(driverErr, "读取缓存失败")
	if !IsRetryable(redisErr) {
		t.Error("WrapRedis包装的缓存错误应可重试")
	}

	if IsRetryable(Wrap(driverErr, "系统内部错误")) {
		t.Error("通用Wrap(50000)不应被判定为可重试")
	}
}

// TestIsRetryable_BusinessErrors 业务规则错误永不重试
func TestIsRetryable_BusinessErrors(t *testing.T) {
	for _, err := range []error{
		ErrInsufficientInventory,
		ErrInvalidTransition,
		New(ErrCodeSlugDuplicate, "套餐slug已存在"),
		nil,
	} {
		if IsRetryable(err) {
			t.Errorf("错误%v不应可重试", err)
		}
	}
}

// TestIsRetryable_WrappedChain 外层再包一层fmt.Errorf仍能识别
func TestIsRetryable_WrappedChain(t *testing.T) {
	inner := WrapDB(errors.New("connection reset"), "查询预约台账失败")
	outer := fmt.Errorf("准入临界区失败: %w", inner)

	if !IsRetryable(outer) {
		t.Error("errors.As应穿透外层包装识别可重试错误")
	}
	if !IsCode(outer, ErrCodeDatabaseError) {
		t.Error("IsCode应穿透外层包装")
	}
}
