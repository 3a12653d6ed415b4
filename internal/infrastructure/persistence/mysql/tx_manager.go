package mysql

import (
	"context"

	"gorm.io/gorm"

	apperrors "github.com/linwan/kimono-rental/pkg/errors"
)

// TxManager 事务管理器
// 教学要点:
// 1. 封装GORM的Transaction方法
// 2. 通过context传递事务DB(避免全局变量)
// 3. 支持嵌套事务(GORM自动使用Savepoint)
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 执行事务
// 教学要点:
// 1. fn函数内的所有Repository操作都会在同一事务中执行
// 2. fn返回error时自动ROLLBACK,返回nil时自动COMMIT
// 3. 通过context.WithValue传递事务DB
//
// 使用示例(预约准入临界区):
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    // 1. 锁定容量行
//	    record, err := inventoryRepo.LockByKey(ctx, storeID, garmentID)
//	    if err != nil {
//	        return err
//	    }
//	    // 2. 重算台账,校验可用量
//	    reserved, err := bookingRepo.SumActiveQuantity(ctx, storeID, garmentID, visitDate)
//	    if err != nil {
//	        return err // 自动回滚
//	    }
//	    if record == nil || record.Quantity-reserved < quantity {
//	        return booking.ErrInsufficientInventory
//	    }
//	    // 3. 创建预约
//	    return bookingRepo.Create(ctx, b) // nil则提交,非nil则回滚
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 将事务DB注入到Context中
		// Repository的getDB方法会从context提取事务DB
		txCtx := context.WithValue(ctx, "tx", tx)
		return fn(txCtx)
	})
	// BEGIN/COMMIT自身的失败也是数据库错误,标记为可重试
	if err != nil && !apperrors.IsAppError(err) {
		return apperrors.WrapDB(err, "事务执行失败")
	}
	return err
}
