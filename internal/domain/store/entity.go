package store

import (
	"time"
)

// Store 门店实体(聚合根)
// DDD设计说明:
// 1. 门店是库存的物理载体,每个门店对每种和服持有有限库存
// 2. City用于套餐区域匹配(Mapper按城市关键词圈定可履约门店)
// 3. IsActive为false的门店不参与套餐关联和可用量查询
type Store struct {
	ID        uint
	Name      string // 门店名称
	City      string // 所在城市/区域(如"東京都台東区浅草")
	IsActive  bool   // 是否营业中
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewStore 创建新门店(工厂方法)
func NewStore(name, city string) *Store {
	now := time.Now()
	return &Store{
		Name:      name,
		City:      city,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Deactivate 停业(领域行为)
// 停业门店保留历史预约,但不再接受新的套餐关联
func (s *Store) Deactivate() {
	s.IsActive = false
	s.UpdatedAt = time.Now()
}

// Activate 恢复营业
func (s *Store) Activate() {
	s.IsActive = true
	s.UpdatedAt = time.Now()
}
