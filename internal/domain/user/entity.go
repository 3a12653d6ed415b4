package user

import (
	"time"
)

// 用户角色
// 角色决定预约与套餐操作的权限边界:
// - customer: 创建/取消自己的预约
// - merchant: 管理名下套餐与库存,确认/推进/取消名下预约
// - admin:    全量操作
const (
	RoleCustomer = "customer"
	RoleMerchant = "merchant"
	RoleAdmin    = "admin"
)

// User 用户实体（聚合根）
// DDD设计说明：
// 1. User是用户聚合的根实体,顾客和商家共用一张表,以Role区分
// 2. 密码已加密存储（bcrypt）,不应该有GetPassword()等方法暴露明文
// 3. 领域实体不依赖GORM tag（infrastructure层的Repository实现时会处理映射）
type User struct {
	ID        uint
	Email     string
	Password  string // bcrypt哈希值
	Nickname  string
	Role      string // customer / merchant / admin
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(email, hashedPassword, nickname, role string) *User {
	now := time.Now()
	return &User{
		Email:     email,
		Password:  hashedPassword,
		Nickname:  nickname,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsMerchant 是否为商家
func (u *User) IsMerchant() bool {
	return u.Role == RoleMerchant
}

// UpdateNickname 更新昵称（领域行为）
func (u *User) UpdateNickname(nickname string) {
	u.Nickname = nickname
	u.UpdatedAt = time.Now()
}
