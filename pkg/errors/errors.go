package errors

import (
	"errors"
	"fmt"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型（不要直接暴露HTTP状态码）
// 2. Message是用户友好的提示信息
// 3. Err是内部错误，仅记录到日志，不返回给客户端（防止泄露敏感信息）
type AppError struct {
	Code    int    `json:"code"`    // 业务错误码
	Message string `json:"message"` // 用户友好的错误提示
	Err     error  `json:"-"`       // 内部错误（不序列化）
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf 格式化创建AppError
// 用途：错误信息需要携带上下文（如第几个预约明细库存不足）
func Newf(code int, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// WrapDB 包装数据库错误
// 持久层必须用此函数而非Wrap:错误码为ErrCodeDatabaseError,
// 预约准入临界区据此判定可重试(IsRetryable)
func WrapDB(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeDatabaseError,
		Message: message,
		Err:     err,
	}
}

// WrapRedis 包装Redis错误(同样可重试)
func WrapRedis(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeRedisError,
		Message: message,
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 4xxxx: 客户端错误（参数错误、业务规则校验失败）
// - 5xxxx: 服务端错误（数据库异常、外部服务调用失败）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误
	ErrCodeRedisError    = 50002 // Redis错误
	ErrCodeUnavailable   = 50003 // 服务暂时不可用（内部重试耗尽，调用方可退避重试）

	// 认证授权错误（40100-40199）
	ErrCodeUnauthorized    = 40100 // 未登录
	ErrCodeInvalidToken    = 40101 // Token无效
	ErrCodeTokenExpired    = 40102 // Token过期
	ErrCodeInvalidPassword = 40103 // 邮箱或密码错误
	ErrCodeForbidden       = 40104 // 无权限

	// 资源错误（40400-40499）
	ErrCodeNotFound        = 40400 // 资源不存在(通用)
	ErrCodeStoreNotFound   = 40401 // 门店不存在
	ErrCodeGarmentNotFound = 40402 // 和服不存在
	ErrCodeBookingNotFound = 40403 // 预约不存在
	ErrCodePlanNotFound    = 40404 // 套餐不存在
	ErrCodeThemeNotFound   = 40405 // 主题不存在（批量设置主题时引用了不存在或停用的主题）
	ErrCodeUserNotFound    = 40406 // 用户不存在

	// 业务规则错误（40000-40099）
	ErrCodeBusinessError         = 40000 // 业务错误(通用)
	ErrCodeInsufficientInventory = 40001 // 库存不足（预约准入失败，重试不会改变结果）
	ErrCodeInvalidTransition     = 40002 // 预约状态不允许此操作
	ErrCodeAlreadyTerminal       = 40003 // 预约已结束（终态不可取消）
	ErrCodeAlreadyCancelled      = 40004 // 预约已取消
	ErrCodeInvalidPlanStore      = 40005 // 该门店不提供此套餐
	ErrCodeOwnershipViolation    = 40006 // 套餐归属校验失败（批量操作整体回滚）
	ErrCodeSlugDuplicate         = 40007 // 套餐slug已存在
	ErrCodeDuplicateEntry        = 40009 // 重复记录(通用)
	ErrCodeBusy                  = 40010 // 资源竞争繁忙（获取预约锁超时，调用方可退避重试）
	ErrCodeEmailDuplicate        = 40011 // 邮箱已注册

	// 参数错误（40900-40999）
	ErrCodeInvalidParams = 40900 // 参数错误
	ErrCodeBindError     = 40901 // 参数绑定失败
	ErrCodeWeakPassword  = 40902 // 密码强度不足
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal      = New(ErrCodeInternal, "系统内部错误")
	ErrDatabaseError = New(ErrCodeDatabaseError, "数据库错误")
	ErrRedisError    = New(ErrCodeRedisError, "缓存服务错误")
	ErrUnavailable   = New(ErrCodeUnavailable, "服务暂时不可用，请稍后重试")

	// 认证授权
	ErrUnauthorized    = New(ErrCodeUnauthorized, "请先登录")
	ErrInvalidToken    = New(ErrCodeInvalidToken, "无效的Token")
	ErrTokenExpired    = New(ErrCodeTokenExpired, "Token已过期")
	ErrInvalidPassword = New(ErrCodeInvalidPassword, "邮箱或密码错误")
	ErrForbidden       = New(ErrCodeForbidden, "无权限访问")

	// 资源不存在
	ErrStoreNotFound   = New(ErrCodeStoreNotFound, "门店不存在")
	ErrGarmentNotFound = New(ErrCodeGarmentNotFound, "和服不存在")
	ErrBookingNotFound = New(ErrCodeBookingNotFound, "预约不存在")
	ErrPlanNotFound    = New(ErrCodePlanNotFound, "套餐不存在")
	ErrThemeNotFound   = New(ErrCodeThemeNotFound, "主题不存在或已停用")
	ErrUserNotFound    = New(ErrCodeUserNotFound, "用户不存在")

	// 业务规则
	ErrInsufficientInventory = New(ErrCodeInsufficientInventory, "库存不足")
	ErrInvalidTransition     = New(ErrCodeInvalidTransition, "预约状态不允许此操作")
	ErrAlreadyTerminal       = New(ErrCodeAlreadyTerminal, "预约已结束，不能取消")
	ErrAlreadyCancelled      = New(ErrCodeAlreadyCancelled, "预约已取消")
	ErrInvalidPlanStore      = New(ErrCodeInvalidPlanStore, "该门店不提供此套餐")
	ErrOwnershipViolation    = New(ErrCodeOwnershipViolation, "包含不属于当前商家的套餐，操作已全部回滚")
	ErrBusy                  = New(ErrCodeBusy, "当前预约人数较多，请稍后重试")
	ErrEmailDuplicate        = New(ErrCodeEmailDuplicate, "邮箱已注册")

	// 参数错误
	ErrInvalidParams = New(ErrCodeInvalidParams, "参数错误")
	ErrBindError     = New(ErrCodeBindError, "参数格式错误")
	ErrWeakPassword  = New(ErrCodeWeakPassword, "密码需8-20位且同时包含字母和数字")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}

// IsCode 判断错误是否携带指定业务错误码
// 用途：预约准入的重试逻辑需要区分"可重试的基础设施错误"和"业务规则错误"
func IsCode(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsRetryable 判断是否为可内部重试的基础设施错误
// 业务规则错误（库存不足、状态非法等）永远不重试：重试不会改变结果
func IsRetryable(err error) bool {
	return IsCode(err, ErrCodeDatabaseError) || IsCode(err, ErrCodeRedisError)
}
