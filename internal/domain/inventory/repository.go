package inventory

import (
	"context"
)

// Repository 库存仓储接口(依赖倒置原则)
// 设计说明:
// 1. GetCapacity对缺失记录返回0而非错误:未配置库存等同于容量为0
// 2. LockByKey是预约准入临界区的一部分,必须在事务内调用
//    (SELECT FOR UPDATE锁定容量行,跨进程串行化同一(门店,和服)的准入)
type Repository interface {
	// GetCapacity 查询容量
	// 缺失记录返回(0, nil),读路径在并发读者下安全
	GetCapacity(ctx context.Context, storeID, garmentID uint) (int, error)

	// SetCapacity 设置容量(幂等upsert)
	// quantity < 0 返回ErrInvalidQuantity
	SetCapacity(ctx context.Context, storeID, garmentID uint, quantity int) error

	// LockByKey 悲观锁查询容量记录(用于预约准入)
	// 使用SELECT FOR UPDATE锁定行,防止并发超订
	// 缺失记录返回(nil, nil):无容量配置,调用方按容量0处理
	LockByKey(ctx context.Context, storeID, garmentID uint) (*Record, error)

	// ListByStore 查询门店的全部库存记录(用于利用率统计)
	ListByStore(ctx context.Context, storeID uint) ([]*Record, error)
}
