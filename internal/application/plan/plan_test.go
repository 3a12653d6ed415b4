package plan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linwan/kimono-rental/internal/domain/plan"
	"github.com/linwan/kimono-rental/internal/domain/store"
	apperrors "github.com/linwan/kimono-rental/pkg/errors"
)

var regionKeywords = []string{"東京", "京都", "大阪"}

type planFixture struct {
	planRepo  *fakePlanRepo
	storeRepo *fakeStoreRepo
	cache     *recordCache
	relink    *RelinkPlanUseCase
	batch     *BatchOpsUseCase
	publish   *PublishPlanUseCase
}

func newPlanFixture(t *testing.T) *planFixture {
	t.Helper()
	f := &planFixture{
		planRepo:  newFakePlanRepo(),
		storeRepo: newFakeStoreRepo(),
		cache:     &recordCache{},
	}
	f.relink = NewRelinkPlanUseCase(f.planRepo, f.storeRepo, plan.NewMapper(regionKeywords), f.cache)
	f.batch = NewBatchOpsUseCase(f.planRepo, passTxManager{})
	f.publish = NewPublishPlanUseCase(f.planRepo, f.relink)
	return f
}

// seedStores 植入门店:1东京(营业) 2京都(营业) 3京都(营业) 4大阪(停业)
func (f *planFixture) seedStores(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	for _, s := range []struct {
		name, city string
		active     bool
	}{
		{"浅草本店", "東京都台東区", true},
		{"祇園店", "京都府京都市東山区", true},
		{"嵐山店", "京都府京都市右京区", true},
		{"難波店", "大阪府大阪市", false},
	} {
		st := store.NewStore(s.name, s.city)
		if !s.active {
			st.Deactivate()
		}
		require.NoError(t, f.storeRepo.Create(ctx, st))
	}
}

func (f *planFixture) seedPlan(t *testing.T, slug string, region *string, merchantID uint) *plan.Plan {
	t.Helper()
	p := plan.NewPlan(slug, "テスト套餐", 580000, 8, region, 10, merchantID)
	require.NoError(t, f.planRepo.Create(context.Background(), p))
	return p
}

func TestRelink_RegionKeywordMatch(t *testing.T) {
	f := newPlanFixture(t)
	f.seedStores(t)
	p := f.seedPlan(t, "gion-walk", strPtr("京都祇園散策"), 7)

	resp, err := f.relink.Execute(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 3}, resp.StoreIDs, "只关联归属京都的营业门店")
	assert.Equal(t, []uint{p.ID}, f.cache.invalidated, "重连后应失效缓存")
}

func TestRelink_NilRegionLinksAllActive(t *testing.T) {
	f := newPlanFixture(t)
	f.seedStores(t)
	p := f.seedPlan(t, "anywhere", nil, 7)

	resp, err := f.relink.Execute(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 3}, resp.StoreIDs, "不限区域关联全部营业门店(停业的4除外)")
}

func TestRelink_UnrecognizedRegionLinksAllActive(t *testing.T) {
	f := newPlanFixture(t)
	f.seedStores(t)
	p := f.seedPlan(t, "hokkaido-tour", strPtr("北海道"), 7)

	resp, err := f.relink.Execute(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 3}, resp.StoreIDs, "未命中任何关键词视为不限区域")
}

func TestRelink_Idempotent(t *testing.T) {
	f := newPlanFixture(t)
	f.seedStores(t)
	p := f.seedPlan(t, "gion-walk", strPtr("京都"), 7)
	ctx := context.Background()

	first, err := f.relink.Execute(ctx, p.ID)
	require.NoError(t, err)
	second, err := f.relink.Execute(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, first.StoreIDs, second.StoreIDs, "重复重连结果相同")
}

func TestRelink_PreservesManualLinks(t *testing.T) {
	f := newPlanFixture(t)
	f.seedStores(t)
	p := f.seedPlan(t, "gion-walk", strPtr("京都"), 7)
	ctx := context.Background()

	// 运营手动把东京店(规则算不出来)挂到套餐上
	require.NoError(t, f.planRepo.AddLinks(ctx, p.ID, []uint{1}))

	resp, err := f.relink.Execute(ctx, p.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{1, 2, 3}, resp.StoreIDs, "幂等补链保留手动关联")
}

func TestResync_RemovesManualLinks(t *testing.T) {
	f := newPlanFixture(t)
	f.seedStores(t)
	p := f.seedPlan(t, "gion-walk", strPtr("京都"), 7)
	ctx := context.Background()

	require.NoError(t, f.planRepo.AddLinks(ctx, p.ID, []uint{1}))

	resp, err := f.relink.Resync(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 3}, resp.StoreIDs, "破坏式重建只保留规则算出的关联")

	current, _ := f.planRepo.ListLinkedStoreIDs(ctx, p.ID)
	assert.Equal(t, []uint{2, 3}, current)
}

func TestResync_CompensatesOnFailure(t *testing.T) {
	f := newPlanFixture(t)
	f.seedStores(t)
	p := f.seedPlan(t, "gion-walk", strPtr("京都"), 7)
	ctx := context.Background()

	require.NoError(t, f.planRepo.AddLinks(ctx, p.ID, []uint{1, 2}))
	f.planRepo.failAddLinks = 1 // 第二步"写入新关联"失败

	_, err := f.relink.Resync(ctx, p.ID)
	require.Error(t, err)

	// 补偿回补旧关联,不留"删了旧的没写新的"中间态
	current, _ := f.planRepo.ListLinkedStoreIDs(ctx, p.ID)
	assert.ElementsMatch(t, []uint{1, 2}, current, "失败后应回补重建前的关联")
}

func TestBatchSetActive_HappyPath(t *testing.T) {
	f := newPlanFixture(t)
	p1 := f.seedPlan(t, "plan-a", nil, 7)
	p2 := f.seedPlan(t, "plan-b", nil, 7)
	ctx := context.Background()

	resp, err := f.batch.SetActive(ctx, 7, []uint{p1.ID, p2.ID}, true)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Updated)

	got, _ := f.planRepo.FindByID(ctx, p1.ID)
	assert.True(t, got.IsActive)
}

func TestBatchSetActive_OwnershipViolationRollsBack(t *testing.T) {
	f := newPlanFixture(t)
	mine := f.seedPlan(t, "plan-a", nil, 7)
	theirs := f.seedPlan(t, "plan-b", nil, 99) // 别家的套餐
	ctx := context.Background()

	_, err := f.batch.SetActive(ctx, 7, []uint{mine.ID, theirs.ID}, true)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeOwnershipViolation))

	// 全有或全无:自己的套餐也不能被部分更新
	got, _ := f.planRepo.FindByID(ctx, mine.ID)
	assert.False(t, got.IsActive, "越权批次中自己的套餐也不应生效")
}

func TestBatchSetActive_MissingPlan(t *testing.T) {
	f := newPlanFixture(t)
	p := f.seedPlan(t, "plan-a", nil, 7)

	_, err := f.batch.SetActive(context.Background(), 7, []uint{p.ID, 999}, true)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodePlanNotFound))
}

func TestBatchSetActive_EmptyIDs(t *testing.T) {
	f := newPlanFixture(t)

	_, err := f.batch.SetActive(context.Background(), 7, nil, true)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidParams))
}

func TestBatchSetTheme_HappyPath(t *testing.T) {
	f := newPlanFixture(t)
	p := f.seedPlan(t, "plan-a", nil, 7)
	ctx := context.Background()

	theme := &plan.Theme{Name: "成人式", IsActive: true}
	require.NoError(t, f.planRepo.CreateTheme(ctx, theme))

	resp, err := f.batch.SetTheme(ctx, 7, []uint{p.ID}, &theme.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Updated)

	got, _ := f.planRepo.FindByID(ctx, p.ID)
	require.NotNil(t, got.ThemeID)
	assert.Equal(t, theme.ID, *got.ThemeID)
}

func TestBatchSetTheme_ClearWithNil(t *testing.T) {
	f := newPlanFixture(t)
	p := f.seedPlan(t, "plan-a", nil, 7)
	ctx := context.Background()

	theme := &plan.Theme{Name: "成人式", IsActive: true}
	require.NoError(t, f.planRepo.CreateTheme(ctx, theme))
	_, err := f.batch.SetTheme(ctx, 7, []uint{p.ID}, &theme.ID)
	require.NoError(t, err)

	_, err = f.batch.SetTheme(ctx, 7, []uint{p.ID}, nil)
	require.NoError(t, err)

	got, _ := f.planRepo.FindByID(ctx, p.ID)
	assert.Nil(t, got.ThemeID, "nil主题表示清除")
}

func TestBatchSetTheme_ThemeNotFound(t *testing.T) {
	f := newPlanFixture(t)
	p := f.seedPlan(t, "plan-a", nil, 7)

	missing := uint(999)
	_, err := f.batch.SetTheme(context.Background(), 7, []uint{p.ID}, &missing)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeThemeNotFound))
}

func TestBatchSetTheme_InactiveTheme(t *testing.T) {
	f := newPlanFixture(t)
	p := f.seedPlan(t, "plan-a", nil, 7)
	ctx := context.Background()

	theme := &plan.Theme{Name: "旧企画", IsActive: false}
	require.NoError(t, f.planRepo.CreateTheme(ctx, theme))

	_, err := f.batch.SetTheme(ctx, 7, []uint{p.ID}, &theme.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeThemeNotFound), "停用主题与不存在同等对待")

	got, _ := f.planRepo.FindByID(ctx, p.ID)
	assert.Nil(t, got.ThemeID)
}

func TestPublishPlan_HappyPath(t *testing.T) {
	f := newPlanFixture(t)
	f.seedStores(t)

	resp, err := f.publish.Execute(context.Background(), &PublishPlanRequest{
		Slug:          "gion-premium",
		Name:          "祇園プレミアムプラン",
		Price:         980000,
		DurationHours: 8,
		Region:        strPtr("京都"),
		GarmentID:     10,
		MerchantID:    7,
	})
	require.NoError(t, err)
	assert.NotZero(t, resp.PlanID)
	assert.Equal(t, []uint{2, 3}, resp.StoreIDs, "发布即完成首次门店匹配")

	// 新套餐默认下架,由商家显式上架
	got, err := f.planRepo.FindByID(context.Background(), resp.PlanID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestPublishPlan_DuplicateSlug(t *testing.T) {
	f := newPlanFixture(t)
	f.seedStores(t)
	f.seedPlan(t, "gion-premium", nil, 7)

	_, err := f.publish.Execute(context.Background(), &PublishPlanRequest{
		Slug: "gion-premium", Name: "重复", Price: 100, DurationHours: 4,
		GarmentID: 10, MerchantID: 7,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeSlugDuplicate))
}

func TestPublishPlan_Validation(t *testing.T) {
	f := newPlanFixture(t)

	tests := []struct {
		name string
		req  *PublishPlanRequest
	}{
		{"非法slug", &PublishPlanRequest{Slug: "Gion Walk!", Name: "x", Price: 100, DurationHours: 4, GarmentID: 10, MerchantID: 7}},
		{"slug连字符开头", &PublishPlanRequest{Slug: "-gion", Name: "x", Price: 100, DurationHours: 4, GarmentID: 10, MerchantID: 7}},
		{"价格为0", &PublishPlanRequest{Slug: "gion", Name: "x", Price: 0, DurationHours: 4, GarmentID: 10, MerchantID: 7}},
		{"时长为0", &PublishPlanRequest{Slug: "gion", Name: "x", Price: 100, DurationHours: 0, GarmentID: 10, MerchantID: 7}},
		{"缺少款式", &PublishPlanRequest{Slug: "gion", Name: "x", Price: 100, DurationHours: 4, MerchantID: 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.publish.Execute(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidParams))
		})
	}
}
