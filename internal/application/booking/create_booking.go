package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/linwan/kimono-rental/internal/domain/booking"
	"github.com/linwan/kimono-rental/internal/domain/inventory"
	"github.com/linwan/kimono-rental/internal/domain/plan"
	"github.com/linwan/kimono-rental/internal/infrastructure/event"
	apperrors "github.com/linwan/kimono-rental/pkg/errors"
	"github.com/linwan/kimono-rental/pkg/keylock"
	"github.com/linwan/kimono-rental/pkg/metrics"
	"github.com/linwan/kimono-rental/pkg/tracing"
)

// CreateBookingUseCase 创建预约用例(准入核心路径)
//
// 教学要点:
// 1. 准入按(门店,款式,日期)三元组串行化:先按固定顺序拿进程内键锁,
//    再在数据库事务内对库存行加悲观锁,两层锁共同保证不超卖
// 2. 键锁按排序后的键依次获取,所有并发请求遵循同一顺序,不会死锁
// 3. 临界区内从台账实时重算占用量,而不是读缓存的可用量——
//    查询路径看到的数字永远可能过期,准入只信任锁内重算的结果
// 4. 全有或全无:任何一项不足,整单拒绝并回滚,不留部分占用
// 5. 瞬时存储故障在锁内有限重试,重试耗尽返回Unavailable让客户端重试
type CreateBookingUseCase struct {
	bookingRepo   booking.Repository
	inventoryRepo inventory.Repository
	planRepo      plan.Repository
	txManager     TxManager
	locks         *keylock.KeyLock
	publisher     event.Publisher
	maxRetries    int
}

// NewCreateBookingUseCase 创建预约用例
func NewCreateBookingUseCase(
	bookingRepo booking.Repository,
	inventoryRepo inventory.Repository,
	planRepo plan.Repository,
	txManager TxManager,
	locks *keylock.KeyLock,
	publisher event.Publisher,
	maxRetries int,
) *CreateBookingUseCase {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &CreateBookingUseCase{
		bookingRepo:   bookingRepo,
		inventoryRepo: inventoryRepo,
		planRepo:      planRepo,
		txManager:     txManager,
		locks:         locks,
		publisher:     publisher,
		maxRetries:    maxRetries,
	}
}

// CreateBookingRequest 创建预约请求
type CreateBookingRequest struct {
	CustomerID *uint
	VisitDate  time.Time
	Items      []CreateBookingItemRequest
}

// CreateBookingItemRequest 预约明细请求
// PlanID非空时走套餐路径:款式由套餐决定,门店必须在套餐关联范围内
// PlanID为空时为散租:直接指定款式
type CreateBookingItemRequest struct {
	StoreID   uint
	PlanID    *uint
	GarmentID uint
	Quantity  int
}

// CreateBookingResponse 创建预约响应
type CreateBookingResponse struct {
	BookingID uint   `json:"booking_id"`
	BookingNo string `json:"booking_no"`
	Status    string `json:"status"`
	VisitDate string `json:"visit_date"`
}

// InsufficientInventoryError 库存不足明细
// 指明第几项(从0起)不满足,供接口层返回给客户端定位
type InsufficientInventoryError struct {
	ItemIndex int
	StoreID   uint
	GarmentID uint
	Requested int
	Available int
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("第%d项库存不足: 门店%d 款式%d 需要%d件 剩余%d件",
		e.ItemIndex, e.StoreID, e.GarmentID, e.Requested, e.Available)
}

// admissionKey 准入串行化键(同一预约单内日期相同,键只含门店+款式)
type admissionKey struct {
	storeID   uint
	garmentID uint
}

func (k admissionKey) String() string {
	return fmt.Sprintf("%d:%d", k.storeID, k.garmentID)
}

// Execute 执行创建预约
func (uc *CreateBookingUseCase) Execute(ctx context.Context, req *CreateBookingRequest) (*CreateBookingResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "booking", "CreateBooking")
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.ObserveHistogram(metrics.BookingCreationDuration, time.Since(start).Seconds())
	}()

	// ======== 步骤1:参数校验 ========
	if len(req.Items) == 0 {
		return nil, booking.ErrEmptyItems
	}
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, booking.ErrInvalidQuantity
		}
		if item.StoreID == 0 {
			return nil, apperrors.Newf(apperrors.ErrCodeInvalidParams, "第%d项缺少门店", i)
		}
	}
	visitDate := booking.TruncateDate(req.VisitDate)
	if visitDate.Before(booking.TruncateDate(time.Now())) {
		return nil, booking.ErrInvalidVisitDate
	}

	// ======== 步骤2:解析套餐明细 ========
	// 套餐项换算为(门店,款式)项;同时校验门店在套餐关联范围内
	items, merchantID, err := uc.resolveItems(ctx, req.Items, visitDate)
	if err != nil {
		return nil, err
	}

	// ======== 步骤3:按固定顺序获取准入键锁 ========
	keys := collectKeys(items)
	lockStart := time.Now()
	releases, err := uc.acquireLocks(ctx, keys, visitDate)
	if err != nil {
		metrics.IncCounterVec(metrics.BookingsRejectedTotal, map[string]string{"reason": "busy"})
		return nil, apperrors.ErrBusy
	}
	defer releases()
	metrics.ObserveHistogram(metrics.AdmissionLockWait, time.Since(lockStart).Seconds())

	// ======== 步骤4:临界区内校验库存并落单(瞬时故障重试) ========
	var created *booking.Booking
	for attempt := 1; attempt <= uc.maxRetries; attempt++ {
		created, err = uc.admitAndCreate(ctx, req.CustomerID, merchantID, visitDate, items, keys)
		if err == nil {
			break
		}
		if !apperrors.IsRetryable(err) {
			if invErr, ok := asInsufficientInventory(err); ok {
				metrics.IncCounterVec(metrics.BookingsRejectedTotal, map[string]string{"reason": "insufficient"})
				log.Printf("⚠ 预约被拒: %v", invErr)
			}
			return nil, err
		}
		log.Printf("⚠ 创建预约遇到瞬时故障(第%d/%d次): %v", attempt, uc.maxRetries, err)
	}
	if err != nil {
		metrics.IncCounterVec(metrics.BookingsRejectedTotal, map[string]string{"reason": "unavailable"})
		return nil, apperrors.ErrUnavailable
	}

	// ======== 步骤5:发布事件并返回 ========
	metrics.IncCounter(metrics.BookingsCreatedTotal)
	uc.publisher.PublishBookingEvent(ctx, event.RouteBookingCreated, event.NewBookingEvent(created))
	log.Printf("✓ 预约创建成功: %s (共%d件)", created.BookingNo, created.TotalQuantity())

	return &CreateBookingResponse{
		BookingID: created.ID,
		BookingNo: created.BookingNo,
		Status:    created.Status.String(),
		VisitDate: created.VisitDate.Format("2006-01-02"),
	}, nil
}

// resolveItems 把请求明细解析为领域明细
// 返回明细列表与商户ID(取第一个套餐的归属商户,散租单为空)
func (uc *CreateBookingUseCase) resolveItems(ctx context.Context, reqItems []CreateBookingItemRequest, visitDate time.Time) ([]booking.BookingItem, *uint, error) {
	items := make([]booking.BookingItem, 0, len(reqItems))
	var merchantID *uint

	for i, ri := range reqItems {
		item := booking.BookingItem{
			StoreID:  ri.StoreID,
			Quantity: ri.Quantity,
		}

		if ri.PlanID != nil {
			p, err := uc.planRepo.FindByID(ctx, *ri.PlanID)
			if err != nil {
				return nil, nil, err
			}
			if !p.IsActive {
				return nil, nil, apperrors.Newf(apperrors.ErrCodeInvalidParams, "第%d项套餐已下架", i)
			}

			linked, err := uc.planRepo.ListLinkedStoreIDs(ctx, p.ID)
			if err != nil {
				return nil, nil, err
			}
			if !containsID(linked, ri.StoreID) {
				return nil, nil, apperrors.Newf(apperrors.ErrCodeInvalidPlanStore,
					"第%d项: 套餐%s不支持门店%d", i, p.Slug, ri.StoreID)
			}

			item.PlanID = ri.PlanID
			item.GarmentID = p.GarmentID
			if merchantID == nil {
				id := p.MerchantID
				merchantID = &id
			}
		} else {
			if ri.GarmentID == 0 {
				return nil, nil, apperrors.Newf(apperrors.ErrCodeInvalidParams, "第%d项缺少款式", i)
			}
			item.GarmentID = ri.GarmentID
		}

		items = append(items, item)
	}
	return items, merchantID, nil
}

// collectKeys 汇总去重后的准入键并排序
// 统一顺序是避免并发创建互相持锁等待形成死锁的关键
func collectKeys(items []booking.BookingItem) []admissionKey {
	seen := make(map[admissionKey]bool, len(items))
	keys := make([]admissionKey, 0, len(items))
	for _, item := range items {
		k := admissionKey{storeID: item.StoreID, garmentID: item.GarmentID}
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].storeID != keys[j].storeID {
			return keys[i].storeID < keys[j].storeID
		}
		return keys[i].garmentID < keys[j].garmentID
	})
	return keys
}

// acquireLocks 依次获取全部准入键锁,任何一把超时即释放已持有的并失败
func (uc *CreateBookingUseCase) acquireLocks(ctx context.Context, keys []admissionKey, visitDate time.Time) (func(), error) {
	acquired := make([]func(), 0, len(keys))
	releaseAll := func() {
		for i := len(acquired) - 1; i >= 0; i-- {
			acquired[i]()
		}
	}

	dateKey := visitDate.Format("2006-01-02")
	for _, k := range keys {
		release, err := uc.locks.Acquire(ctx, k.String()+":"+dateKey)
		if err != nil {
			releaseAll()
			return nil, err
		}
		acquired = append(acquired, release)
	}
	return releaseAll, nil
}

// admitAndCreate 准入临界区:锁定库存行、重算台账、整单校验、落库
func (uc *CreateBookingUseCase) admitAndCreate(ctx context.Context, customerID, merchantID *uint, visitDate time.Time, items []booking.BookingItem, keys []admissionKey) (*booking.Booking, error) {
	// 每个键汇总本单需求量(同一键可能分布在多个明细)
	needed := make(map[admissionKey]int, len(keys))
	for _, item := range items {
		needed[admissionKey{storeID: item.StoreID, garmentID: item.GarmentID}] += item.Quantity
	}

	var created *booking.Booking
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		for _, k := range keys {
			// 悲观锁定库存行;没有配置记录视为容量0
			record, err := uc.inventoryRepo.LockByKey(txCtx, k.storeID, k.garmentID)
			if err != nil {
				return err
			}
			capacity := 0
			if record != nil {
				capacity = record.Quantity
			}

			reserved, err := uc.bookingRepo.SumActiveQuantity(txCtx, k.storeID, k.garmentID, visitDate)
			if err != nil {
				return err
			}

			if capacity-reserved < needed[k] {
				idx := firstItemIndex(items, k)
				invErr := &InsufficientInventoryError{
					ItemIndex: idx,
					StoreID:   k.storeID,
					GarmentID: k.garmentID,
					Requested: needed[k],
					Available: capacity - reserved,
				}
				return &apperrors.AppError{
					Code:    apperrors.ErrCodeInsufficientInventory,
					Message: invErr.Error(),
					Err:     invErr,
				}
			}
		}

		b := booking.NewBooking(booking.GenerateBookingNo(), customerID, merchantID, visitDate, items)
		if err := uc.bookingRepo.Create(txCtx, b); err != nil {
			return err
		}
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func firstItemIndex(items []booking.BookingItem, k admissionKey) int {
	for i, item := range items {
		if item.StoreID == k.storeID && item.GarmentID == k.garmentID {
			return i
		}
	}
	return 0
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func asInsufficientInventory(err error) (*InsufficientInventoryError, bool) {
	var invErr *InsufficientInventoryError
	if errors.As(err, &invErr) {
		return invErr, true
	}
	return nil, false
}
