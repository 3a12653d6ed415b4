package plan

import (
	"context"
)

// Repository 套餐仓储接口(依赖倒置原则)
// 设计说明:
// 1. 批量操作(BatchSetActive/BatchSetTheme)必须在单个事务内完成:
//    归属校验失败时整批回滚,不允许部分生效
// 2. 关联维护区分幂等补链(AddLinks)和破坏式重建(ReplaceLinks)
type Repository interface {
	// Create 创建套餐
	// slug重复返回ErrSlugDuplicate
	Create(ctx context.Context, plan *Plan) error

	// FindByID 根据ID查找套餐
	FindByID(ctx context.Context, id uint) (*Plan, error)

	// FindBySlug 根据slug查找套餐
	FindBySlug(ctx context.Context, slug string) (*Plan, error)

	// ListByIDs 批量查询套餐(用于批量操作前的归属校验)
	ListByIDs(ctx context.Context, ids []uint) ([]*Plan, error)

	// Update 更新套餐
	Update(ctx context.Context, plan *Plan) error

	// AddLinks 幂等补齐套餐-门店关联
	// 已存在的关联保留,只插入缺失的(planID, storeID)对
	AddLinks(ctx context.Context, planID uint, storeIDs []uint) error

	// ReplaceLinks 破坏式重建关联:先删除该套餐全部关联,再插入新集合
	// 必须在事务内执行(调用方通过TxManager保证)
	ReplaceLinks(ctx context.Context, planID uint, storeIDs []uint) error

	// ListLinkedStoreIDs 查询套餐当前关联的门店ID集合
	ListLinkedStoreIDs(ctx context.Context, planID uint) ([]uint, error)

	// BatchSetActive 批量上架/下架(单事务,全部或全不)
	// 返回实际更新的记录数
	BatchSetActive(ctx context.Context, planIDs []uint, isActive bool) (int64, error)

	// BatchSetTheme 批量设置主题(单事务,全部或全不)
	// themeID为nil表示清除主题
	BatchSetTheme(ctx context.Context, planIDs []uint, themeID *uint) (int64, error)

	// FindTheme 查询主题
	FindTheme(ctx context.Context, themeID uint) (*Theme, error)

	// CreateTheme 创建主题
	CreateTheme(ctx context.Context, theme *Theme) error
}
