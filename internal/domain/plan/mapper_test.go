package plan

import (
	"testing"

	"github.com/linwan/kimono-rental/internal/domain/store"
)

func strPtr(s string) *string {
	return &s
}

func testStores() []*store.Store {
	return []*store.Store{
		{ID: 1, Name: "浅草本店", City: "東京都台東区浅草", IsActive: true},
		{ID: 2, Name: "祇園店", City: "京都府京都市東山区", IsActive: true},
		{ID: 3, Name: "嵐山店", City: "京都府京都市右京区", IsActive: true},
		{ID: 4, Name: "旧梅田店", City: "大阪府大阪市北区", IsActive: false},
	}
}

// TestMapper_RegionMatch 区域提示命中关键词时,只关联该区域门店
func TestMapper_RegionMatch(t *testing.T) {
	m := NewMapper([]string{"京都", "東京", "大阪"})

	p := &Plan{ID: 1, Slug: "gion-walk", Region: strPtr("京都散策")}
	ids := m.Resolve(p, testStores())

	if len(ids) != 2 {
		t.Fatalf("期望匹配2家门店，实际%d家: %v", len(ids), ids)
	}
	if ids[0] != 2 || ids[1] != 3 {
		t.Errorf("期望匹配京都门店[2 3]，实际%v", ids)
	}
}

// TestMapper_ClassifyCity 城市归类取位置最靠前的关键词
// "東京都台東区浅草"含子串"京都"(東**京都**),但"東京"出现在更前,归属東京
func TestMapper_ClassifyCity(t *testing.T) {
	m := NewMapper([]string{"京都", "東京", "大阪"})

	cases := []struct {
		city    string
		keyword string
		ok      bool
	}{
		{"東京都台東区浅草", "東京", true},
		{"京都府京都市東山区", "京都", true},
		{"大阪府大阪市北区", "大阪", true},
		{"北海道札幌市", "", false},
	}
	for _, tc := range cases {
		kw, ok := m.ClassifyCity(tc.city)
		if ok != tc.ok || kw != tc.keyword {
			t.Errorf("城市%q期望归属(%q,%v), 实际(%q,%v)", tc.city, tc.keyword, tc.ok, kw, ok)
		}
	}
}

// TestMapper_KyotoPlanExcludesTokyoCity 京都套餐不得关联東京都门店
func TestMapper_KyotoPlanExcludesTokyoCity(t *testing.T) {
	m := NewMapper([]string{"京都", "東京"})

	p := &Plan{ID: 9, Slug: "kyoto-only", Region: strPtr("京都")}
	ids := m.Resolve(p, testStores())

	for _, id := range ids {
		if id == 1 {
			t.Fatal("東京都门店不应被京都套餐关联")
		}
	}
	if len(ids) != 2 {
		t.Errorf("期望仅关联京都门店[2 3], 实际%v", ids)
	}
}

// TestMapper_NilRegion 区域为nil时关联全部营业门店
func TestMapper_NilRegion(t *testing.T) {
	m := NewMapper([]string{"京都", "東京"})

	p := &Plan{ID: 2, Slug: "anywhere", Region: nil}
	ids := m.Resolve(p, testStores())

	// 停业门店(ID=4)不参与关联
	if len(ids) != 3 {
		t.Fatalf("期望关联3家营业门店，实际%d家: %v", len(ids), ids)
	}
	for _, id := range ids {
		if id == 4 {
			t.Error("停业门店不应被关联")
		}
	}
}

// TestMapper_UnrecognizedRegion 区域不含任何关键词时视为不限区域
func TestMapper_UnrecognizedRegion(t *testing.T) {
	m := NewMapper([]string{"京都", "東京"})

	p := &Plan{ID: 3, Slug: "hokkaido", Region: strPtr("北海道")}
	ids := m.Resolve(p, testStores())

	if len(ids) != 3 {
		t.Errorf("未识别区域应关联全部营业门店，期望3家，实际%d家", len(ids))
	}
}

// TestMapper_KeywordPrecedence 多个关键词同时命中时,最先声明者优先
func TestMapper_KeywordPrecedence(t *testing.T) {
	// "京都東京ツアー"同时包含"京都"和"東京"
	region := strPtr("京都東京ツアー")

	// 声明顺序:京都在前 → 命中京都
	m1 := NewMapper([]string{"京都", "東京"})
	kw, matched := m1.MatchKeyword(region)
	if !matched || kw != "京都" {
		t.Errorf("期望命中先声明的关键词'京都', 实际'%s'", kw)
	}

	// 声明顺序调换:東京在前 → 命中東京
	m2 := NewMapper([]string{"東京", "京都"})
	kw, matched = m2.MatchKeyword(region)
	if !matched || kw != "東京" {
		t.Errorf("期望命中先声明的关键词'東京', 实际'%s'", kw)
	}
}

// TestMapper_EmptyRegionString 空字符串区域等同于nil
func TestMapper_EmptyRegionString(t *testing.T) {
	m := NewMapper([]string{"京都"})

	kw, matched := m.MatchKeyword(strPtr(""))
	if matched {
		t.Errorf("空区域不应命中关键词，实际命中'%s'", kw)
	}
}

// TestMapper_InactiveStoreExcludedFromMatch 区域命中时停业门店仍被排除
func TestMapper_InactiveStoreExcludedFromMatch(t *testing.T) {
	m := NewMapper([]string{"大阪"})

	p := &Plan{ID: 4, Slug: "osaka", Region: strPtr("大阪観光")}
	ids := m.Resolve(p, testStores())

	// 唯一的大阪门店(ID=4)已停业 → 套餐暂无可履约门店
	if len(ids) != 0 {
		t.Errorf("期望空门店集合，实际%v", ids)
	}
}
