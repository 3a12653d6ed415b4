package inventory

import (
	"time"
)

// Record 库存记录实体
// 设计说明:
// 1. (GarmentID, StoreID)组合唯一:一个门店对一种和服只有一行容量记录
// 2. Quantity是该门店持有的实物件数上限(容量),非负
// 3. 容量只被商家侧库存管理修改,预约路径只读取,不修改
//    (可用量 = 容量 - 活跃预约占用,由预约台账推导,不在此处存储)
type Record struct {
	ID        uint
	GarmentID uint // 和服ID
	StoreID   uint // 门店ID
	Quantity  int  // 容量(非负)
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewRecord 创建库存记录(工厂方法)
func NewRecord(garmentID, storeID uint, quantity int) (*Record, error) {
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	now := time.Now()
	return &Record{
		GarmentID: garmentID,
		StoreID:   storeID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SetQuantity 设置容量(领域行为)
// 业务规则:容量不能为负数;容量为0合法,表示该门店暂不提供此款式
func (r *Record) SetQuantity(quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	r.Quantity = quantity
	r.UpdatedAt = time.Now()
	return nil
}
