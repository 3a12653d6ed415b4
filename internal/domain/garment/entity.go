package garment

import (
	"strings"
	"time"
)

// Garment 和服实体(聚合根)
// DDD设计说明:
// 1. 和服代表一类可租赁的服装,不是单件实物;实物数量由门店库存记录承载
// 2. 身份不可变:和服一旦创建,其ID永久标识该款式
// 3. Color/Pattern/Season是描述性属性集合,以逗号分隔存储(读多写少,无需关联表)
type Garment struct {
	ID        uint
	Name      string // 款式名称(如"桜柄振袖")
	Color     string // 颜色集合,逗号分隔(如"赤,白")
	Pattern   string // 花纹集合,逗号分隔(如"桜,流水")
	Season    string // 适用季节集合,逗号分隔(如"春,秋")
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewGarment 创建新和服(工厂方法)
func NewGarment(name, color, pattern, season string) *Garment {
	now := time.Now()
	return &Garment{
		Name:      name,
		Color:     color,
		Pattern:   pattern,
		Season:    season,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Seasons 返回适用季节列表
func (g *Garment) Seasons() []string {
	return splitSet(g.Season)
}

// Colors 返回颜色列表
func (g *Garment) Colors() []string {
	return splitSet(g.Color)
}

// splitSet 拆分逗号分隔的属性集合,忽略空项
func splitSet(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
