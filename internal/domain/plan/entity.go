package plan

import (
	"time"
)

// Plan 租赁套餐实体(聚合根)
// DDD设计说明:
// 1. 套餐描述"租什么"(GarmentID)而非"在哪租"——套餐本身不持有库存
// 2. Slug是业务唯一标识,发布后不可变(对外URL/分享链接依赖它)
// 3. Region是自由文本的区域提示,可为nil;Mapper据此圈定可履约门店
// 4. Price以"分"为单位的int64存储(避免浮点数精度问题)
type Plan struct {
	ID            uint
	Slug          string  // 业务唯一标识(发布后不可变)
	Name          string  // 套餐名称(如"浅草散策プラン")
	Price         int64   // 价格(单位:分)
	DurationHours int     // 租赁时长(小时)
	Region        *string // 区域提示(自由文本,nil表示不限区域)
	GarmentID     uint    // 套餐对应的和服款式
	MerchantID    uint    // 归属商家(批量操作的归属校验依据)
	IsActive      bool    // 是否上架
	ThemeID       *uint   // 主题标签(可为nil)
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewPlan 创建新套餐(工厂方法)
// 初始为下架状态,由商家显式上架
func NewPlan(slug, name string, price int64, durationHours int, region *string, garmentID, merchantID uint) *Plan {
	now := time.Now()
	return &Plan{
		Slug:          slug,
		Name:          name,
		Price:         price,
		DurationHours: durationHours,
		Region:        region,
		GarmentID:     garmentID,
		MerchantID:    merchantID,
		IsActive:      false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsOwnedBy 检查套餐是否属于指定商家
// 批量操作的归属校验:任一套餐不属于操作者,整批回滚
func (p *Plan) IsOwnedBy(merchantID uint) bool {
	return p.MerchantID == merchantID
}

// SetActive 上架/下架(领域行为)
func (p *Plan) SetActive(active bool) {
	p.IsActive = active
	p.UpdatedAt = time.Now()
}

// SetTheme 设置/清除主题标签
func (p *Plan) SetTheme(themeID *uint) {
	p.ThemeID = themeID
	p.UpdatedAt = time.Now()
}

// Theme 套餐主题标签
// 设计说明:主题是商家组织套餐的分组维度(如"成人式""卒業式")
type Theme struct {
	ID        uint
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTheme 创建主题(工厂方法)
func NewTheme(name string) *Theme {
	now := time.Now()
	return &Theme{
		Name:      name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// StoreLink 套餐-门店关联
// 设计说明:
// 1. (PlanID, StoreID)组合唯一,数据库唯一索引兜底幂等
// 2. 由Mapper派生维护:非破坏式重连只补缺失关联,从不静默删除
type StoreLink struct {
	ID      uint
	PlanID  uint
	StoreID uint
}
