package plan

import (
	"context"
	"sync"

	"github.com/linwan/kimono-rental/internal/domain/plan"
	"github.com/linwan/kimono-rental/internal/domain/store"
	apperrors "github.com/linwan/kimono-rental/pkg/errors"
)

type fakePlanRepo struct {
	mu     sync.Mutex
	plans  map[uint]*plan.Plan
	themes map[uint]*plan.Theme
	links  map[uint][]uint
	nextID uint
	// failAddLinks > 0 时AddLinks返回错误并递减(测试Saga补偿路径)
	failAddLinks int
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{
		plans:  make(map[uint]*plan.Plan),
		themes: make(map[uint]*plan.Theme),
		links:  make(map[uint][]uint),
		nextID: 1,
	}
}

func (r *fakePlanRepo) Create(ctx context.Context, p *plan.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.plans {
		if existing.Slug == p.Slug {
			return plan.ErrSlugDuplicate
		}
	}
	p.ID = r.nextID
	r.nextID++
	cp := *p
	r.plans[p.ID] = &cp
	return nil
}

func (r *fakePlanRepo) FindByID(ctx context.Context, id uint) (*plan.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	if !ok {
		return nil, plan.ErrPlanNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePlanRepo) FindBySlug(ctx context.Context, slug string) (*plan.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.plans {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, plan.ErrPlanNotFound
}

func (r *fakePlanRepo) ListByIDs(ctx context.Context, ids []uint) ([]*plan.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[uint]bool)
	var result []*plan.Plan
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if p, ok := r.plans[id]; ok {
			cp := *p
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (r *fakePlanRepo) Update(ctx context.Context, p *plan.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[p.ID]; !ok {
		return plan.ErrPlanNotFound
	}
	cp := *p
	r.plans[p.ID] = &cp
	return nil
}

func (r *fakePlanRepo) AddLinks(ctx context.Context, planID uint, storeIDs []uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAddLinks > 0 {
		r.failAddLinks--
		return apperrors.ErrDatabaseError
	}
	existing := make(map[uint]bool)
	for _, id := range r.links[planID] {
		existing[id] = true
	}
	for _, id := range storeIDs {
		if !existing[id] {
			existing[id] = true
			r.links[planID] = append(r.links[planID], id)
		}
	}
	return nil
}

func (r *fakePlanRepo) ReplaceLinks(ctx context.Context, planID uint, storeIDs []uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.links[planID] = nil
	seen := make(map[uint]bool)
	for _, id := range storeIDs {
		if !seen[id] {
			seen[id] = true
			r.links[planID] = append(r.links[planID], id)
		}
	}
	return nil
}

func (r *fakePlanRepo) ListLinkedStoreIDs(ctx context.Context, planID uint) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uint(nil), r.links[planID]...), nil
}

func (r *fakePlanRepo) BatchSetActive(ctx context.Context, planIDs []uint, isActive bool) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var updated int64
	for _, id := range planIDs {
		if p, ok := r.plans[id]; ok {
			p.SetActive(isActive)
			updated++
		}
	}
	return updated, nil
}

func (r *fakePlanRepo) BatchSetTheme(ctx context.Context, planIDs []uint, themeID *uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var updated int64
	for _, id := range planIDs {
		if p, ok := r.plans[id]; ok {
			p.SetTheme(themeID)
			updated++
		}
	}
	return updated, nil
}

func (r *fakePlanRepo) FindTheme(ctx context.Context, themeID uint) (*plan.Theme, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.themes[themeID]
	if !ok {
		return nil, plan.ErrThemeNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakePlanRepo) CreateTheme(ctx context.Context, t *plan.Theme) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == 0 {
		t.ID = r.nextID
		r.nextID++
	}
	cp := *t
	r.themes[t.ID] = &cp
	return nil
}

type fakeStoreRepo struct {
	mu     sync.Mutex
	stores map[uint]*store.Store
	nextID uint
}

func newFakeStoreRepo() *fakeStoreRepo {
	return &fakeStoreRepo{stores: make(map[uint]*store.Store), nextID: 1}
}

func (r *fakeStoreRepo) Create(ctx context.Context, s *store.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = r.nextID
	r.nextID++
	cp := *s
	r.stores[s.ID] = &cp
	return nil
}

func (r *fakeStoreRepo) FindByID(ctx context.Context, id uint) (*store.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stores[id]
	if !ok {
		return nil, store.ErrStoreNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeStoreRepo) ListActive(ctx context.Context) ([]*store.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*store.Store
	// 按ID升序,对齐mysql实现的排序语义
	for id := uint(1); id < r.nextID; id++ {
		if s, ok := r.stores[id]; ok && s.IsActive {
			cp := *s
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (r *fakeStoreRepo) List(ctx context.Context) ([]*store.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*store.Store
	for id := uint(1); id < r.nextID; id++ {
		if s, ok := r.stores[id]; ok {
			cp := *s
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (r *fakeStoreRepo) Update(ctx context.Context, s *store.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.stores[s.ID]; !ok {
		return store.ErrStoreNotFound
	}
	cp := *s
	r.stores[s.ID] = &cp
	return nil
}

// passTxManager 直通事务(fake仓储保证方法级原子性)
type passTxManager struct{}

func (passTxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// recordCache 记录失效调用的缓存桩
type recordCache struct {
	invalidated []uint
}

func (c *recordCache) Invalidate(ctx context.Context, planID uint) error {
	c.invalidated = append(c.invalidated, planID)
	return nil
}

func uintPtr(v uint) *uint { return &v }

func strPtr(s string) *string { return &s }
