package store

import (
	"context"
)

// Repository 门店仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 便于Mock测试,不依赖具体数据库实现
type Repository interface {
	// Create 创建门店
	Create(ctx context.Context, store *Store) error

	// FindByID 根据ID查找门店
	FindByID(ctx context.Context, id uint) (*Store, error)

	// ListActive 查询所有营业中的门店
	// 用于Mapper的区域匹配(停业门店不参与关联)
	ListActive(ctx context.Context) ([]*Store, error)

	// List 查询全部门店
	List(ctx context.Context) ([]*Store, error)

	// Update 更新门店信息
	Update(ctx context.Context, store *Store) error
}
