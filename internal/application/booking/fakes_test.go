package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/linwan/kimono-rental/internal/domain/booking"
	"github.com/linwan/kimono-rental/internal/domain/inventory"
	"github.com/linwan/kimono-rental/internal/domain/plan"
	"github.com/linwan/kimono-rental/internal/infrastructure/event"
	apperrors "github.com/linwan/kimono-rental/pkg/errors"
)

// errDeadlock 模拟MySQL驱动层的瞬时错误
var errDeadlock = errors.New("Error 1213: Deadlock found when trying to get lock")

// 内存仓储实现,行为对齐mysql实现的语义(含并发安全)
// 准入正确性由键锁+临界区保证,fake只需保证单个方法的原子性

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uint]*booking.Booking
	nextID   uint
	// failCreates > 0 时Create返回可重试的数据库错误并递减(模拟瞬时故障)
	failCreates int
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uint]*booking.Booking), nextID: 1}
}

func (r *fakeBookingRepo) Create(ctx context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreates > 0 {
		r.failCreates--
		// 与mysql仓储的真实错误形态一致(WrapDB包装底层驱动错误)
		return apperrors.WrapDB(errDeadlock, "创建预约失败")
	}
	b.ID = r.nextID
	r.nextID++
	for i := range b.Items {
		b.Items[i].BookingID = b.ID
	}
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) FindByID(ctx context.Context, id uint) (*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) FindByBookingNo(ctx context.Context, bookingNo string) (*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.BookingNo == bookingNo {
			cp := *b
			return &cp, nil
		}
	}
	return nil, booking.ErrBookingNotFound
}

func (r *fakeBookingRepo) Update(ctx context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.bookings[b.ID]
	if !ok {
		return booking.ErrBookingNotFound
	}
	stored.Status = b.Status
	stored.UpdatedAt = b.UpdatedAt
	return nil
}

func (r *fakeBookingRepo) SumActiveQuantity(ctx context.Context, storeID, garmentID uint, visitDate time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	date := booking.TruncateDate(visitDate)
	total := 0
	for _, b := range r.bookings {
		if !b.Status.IsActive() || !b.VisitDate.Equal(date) {
			continue
		}
		for _, item := range b.Items {
			if item.StoreID == storeID && item.GarmentID == garmentID {
				total += item.Quantity
			}
		}
	}
	return total, nil
}

func (r *fakeBookingRepo) PeakActiveQuantity(ctx context.Context, storeID uint, from time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	daily := make(map[time.Time]int)
	for _, b := range r.bookings {
		if !b.Status.IsActive() || b.VisitDate.Before(from) {
			continue
		}
		for _, item := range b.Items {
			if item.StoreID == storeID {
				daily[b.VisitDate] += item.Quantity
			}
		}
	}
	peak := 0
	for _, total := range daily {
		if total > peak {
			peak = total
		}
	}
	return peak, nil
}

func (r *fakeBookingRepo) ListByCustomer(ctx context.Context, customerID uint, page, pageSize int) ([]*booking.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*booking.Booking
	for _, b := range r.bookings {
		if b.CustomerID != nil && *b.CustomerID == customerID {
			cp := *b
			result = append(result, &cp)
		}
	}
	return result, int64(len(result)), nil
}

// count 当前存储的预约总数
func (r *fakeBookingRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bookings)
}

type inventoryKey struct{ storeID, garmentID uint }

type fakeInventoryRepo struct {
	mu         sync.Mutex
	capacities map[inventoryKey]int
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{capacities: make(map[inventoryKey]int)}
}

func (r *fakeInventoryRepo) set(storeID, garmentID uint, quantity int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.capacities[inventoryKey{storeID, garmentID}] = quantity
}

func (r *fakeInventoryRepo) GetCapacity(ctx context.Context, storeID, garmentID uint) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.capacities[inventoryKey{storeID, garmentID}], nil
}

func (r *fakeInventoryRepo) SetCapacity(ctx context.Context, storeID, garmentID uint, quantity int) error {
	if quantity < 0 {
		return inventory.ErrInvalidQuantity
	}
	r.set(storeID, garmentID, quantity)
	return nil
}

func (r *fakeInventoryRepo) LockByKey(ctx context.Context, storeID, garmentID uint) (*inventory.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.capacities[inventoryKey{storeID, garmentID}]
	if !ok {
		return nil, nil
	}
	return &inventory.Record{StoreID: storeID, GarmentID: garmentID, Quantity: q}, nil
}

func (r *fakeInventoryRepo) ListByStore(ctx context.Context, storeID uint) ([]*inventory.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*inventory.Record
	for k, q := range r.capacities {
		if k.storeID == storeID {
			result = append(result, &inventory.Record{StoreID: k.storeID, GarmentID: k.garmentID, Quantity: q})
		}
	}
	return result, nil
}

type fakePlanRepo struct {
	mu     sync.Mutex
	plans  map[uint]*plan.Plan
	themes map[uint]*plan.Theme
	links  map[uint][]uint // planID -> storeIDs
	nextID uint
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

// passTxManager 直通事务:fake仓储自身保证方法级原子性
// 回滚语义由测试断言"失败后仓储无新增记录"覆盖
type passTxManager struct{}

func (passTxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// recordPublisher 记录发布的事件供断言
type recordPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	routingKey string
	evt        event.BookingEvent
}

func (p *recordPublisher) PublishBookingEvent(ctx context.Context, routingKey string, evt event.BookingEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{routingKey: routingKey, evt: evt})
}

func (p *recordPublisher) published() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

func uintPtr(v uint) *uint { return &v }
