package user

import (
	"context"
)

// Repository 用户仓储接口
// 设计说明:
// 1. 接口定义在domain层（依赖倒置原则）,具体实现在infrastructure层
// 2. 邮箱已存在时Create返回ErrEmailDuplicate（数据库唯一索引兜底）
type Repository interface {
	// Create 创建用户
	Create(ctx context.Context, user *User) error

	// FindByID 根据ID查找用户
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByEmail 根据邮箱查找用户
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Update 更新用户信息
	Update(ctx context.Context, user *User) error
}
