package garment

import (
	"context"
)

// Repository 和服仓储接口(依赖倒置原则)
type Repository interface {
	// Create 创建和服
	Create(ctx context.Context, garment *Garment) error

	// FindByID 根据ID查找和服
	FindByID(ctx context.Context, id uint) (*Garment, error)

	// List 查询全部和服
	List(ctx context.Context) ([]*Garment, error)
}
