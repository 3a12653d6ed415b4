package plan

import (
	"strings"

	"github.com/linwan/kimono-rental/internal/domain/store"
)

// Mapper 套餐-门店匹配领域服务
// 设计说明:
// 1. 区域匹配策略:
//    - Region为nil或不含任何已配置关键词 → 套餐不限区域,关联全部营业门店
//    - Region包含某个关键词 → 只关联归属该区域的营业门店
// 2. 门店城市按关键词在城市串中的出现位置归类,位置最靠前者胜出:
//    "東京都台東区浅草"同时含"東京"(位置0)和"京都"(位置3),归属東京,
//    不会被京都套餐误关联
// 3. 套餐区域提示含多个关键词时,按关键词声明顺序取最先声明者
//    (顺序来自配置文件的keyword列表,显式可测,不依赖map遍历顺序)
type Mapper struct {
	keywords []string // 区域关键词,按声明顺序(先声明者优先)
}

// NewMapper 创建匹配服务
// keywords按优先级排列,来自配置(engine.region_keywords)
func NewMapper(keywords []string) *Mapper {
	return &Mapper{keywords: keywords}
}

// MatchKeyword 解析套餐区域提示命中的关键词
// 返回("", false)表示不限区域
func (m *Mapper) MatchKeyword(region *string) (string, bool) {
	if region == nil || *region == "" {
		return "", false
	}
	for _, kw := range m.keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(*region, kw) {
			// 最先声明的关键词优先
			return kw, true
		}
	}
	return "", false
}

// ClassifyCity 判断城市归属的区域关键词
// 取城市串中出现位置最靠前的关键词;位置相同时取更长者
// 返回("", false)表示城市不属于任何已配置区域
func (m *Mapper) ClassifyCity(city string) (string, bool) {
	best := ""
	bestPos := -1
	for _, kw := range m.keywords {
		if kw == "" {
			continue
		}
		pos := strings.Index(city, kw)
		if pos < 0 {
			continue
		}
		if bestPos == -1 || pos < bestPos || (pos == bestPos && len(kw) > len(best)) {
			best, bestPos = kw, pos
		}
	}
	return best, bestPos >= 0
}

// Resolve 计算套餐可履约的门店集合
// 参数:
//   - p: 待匹配的套餐
//   - activeStores: 全部营业中门店(停业门店不参与匹配)
//
// 返回:按入参顺序的门店ID列表(可为空:该区域暂无门店,套餐不可约)
func (m *Mapper) Resolve(p *Plan, activeStores []*store.Store) []uint {
	keyword, matched := m.MatchKeyword(p.Region)

	ids := make([]uint, 0, len(activeStores))
	for _, s := range activeStores {
		if !s.IsActive {
			continue
		}
		if matched {
			cityKeyword, ok := m.ClassifyCity(s.City)
			if !ok || cityKeyword != keyword {
				continue
			}
		}
		ids = append(ids, s.ID)
	}
	return ids
}
