package availability

import (
	"context"
	"time"

	"github.com/linwan/kimono-rental/internal/domain/booking"
	"github.com/linwan/kimono-rental/internal/domain/inventory"
	"github.com/linwan/kimono-rental/internal/domain/plan"
)

// LinkCache 套餐-门店关联缓存端口
// 由redis.PlanLinkCache实现;测试中可用内存实现替代
type LinkCache interface {
	Get(ctx context.Context, planID uint) ([]uint, bool, error)
	Set(ctx context.Context, planID uint, storeIDs []uint) error
}

// QueryUseCase 可用量查询用例
// 教学要点:
// 1. 可用量是推导值:容量 - 台账占用,每次查询实时计算
//    (不维护增量计数器,避免第二个事实来源与台账漂移)
// 2. 查询路径不加锁:读到的是某一瞬间的一致快照,
//    准入时会在临界区内重新校验,查询结果仅供展示
type QueryUseCase struct {
	inventoryRepo inventory.Repository
	bookingRepo   booking.Repository
	planRepo      plan.Repository
	linkCache     LinkCache
}

// NewQueryUseCase 创建可用量查询用例
func NewQueryUseCase(
	inventoryRepo inventory.Repository,
	bookingRepo booking.Repository,
	planRepo plan.Repository,
	linkCache LinkCache,
) *QueryUseCase {
	return &QueryUseCase{
		inventoryRepo: inventoryRepo,
		bookingRepo:   bookingRepo,
		planRepo:      planRepo,
		linkCache:     linkCache,
	}
}

// Available 查询(门店,款式,日期)的可用件数
// 边界语义:
// - 无预约 → 返回全量容量
// - 未配置库存记录 → 容量0 → 可用量0(不可约,但不是错误)
// - 容量0 → 恒为0
func (uc *QueryUseCase) Available(ctx context.Context, storeID, garmentID uint, date time.Time) (int, error) {
	capacity, err := uc.inventoryRepo.GetCapacity(ctx, storeID, garmentID)
	if err != nil {
		return 0, err
	}
	if capacity == 0 {
		return 0, nil
	}

	reserved, err := uc.bookingRepo.SumActiveQuantity(ctx, storeID, garmentID, date)
	if err != nil {
		return 0, err
	}

	available := capacity - reserved
	if available < 0 {
		// 台账不应超过容量(准入保证);防御性收底避免负数外泄
		available = 0
	}
	return available, nil
}

// AvailableForPlan 查询套餐在各关联门店的可用件数
// 返回map[门店ID]可用量,只覆盖套餐关联(PlanStoreLink)的门店
func (uc *QueryUseCase) AvailableForPlan(ctx context.Context, planID uint, date time.Time) (map[uint]int, error) {
	p, err := uc.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	storeIDs, err := uc.linkedStoreIDs(ctx, planID)
	if err != nil {
		return nil, err
	}

	result := make(map[uint]int, len(storeIDs))
	for _, storeID := range storeIDs {
		available, err := uc.Available(ctx, storeID, p.GarmentID, date)
		if err != nil {
			return nil, err
		}
		result[storeID] = available
	}
	return result, nil
}

// Utilization 查询门店利用率(百分比)
// 口径:今天及未来单日活跃占用的峰值 / 门店全部款式的总容量 * 100
// 按日取峰值而非跨日求和:单日占用不超过总容量,结果落在[0,100]
// 总容量为0时返回0(避免除零;无库存的门店无利用率可言)
func (uc *QueryUseCase) Utilization(ctx context.Context, storeID uint) (float64, error) {
	records, err := uc.inventoryRepo.ListByStore(ctx, storeID)
	if err != nil {
		return 0, err
	}

	var totalCapacity int
	for _, r := range records {
		totalCapacity += r.Quantity
	}
	if totalCapacity == 0 {
		return 0, nil
	}

	today := booking.TruncateDate(time.Now())
	peak, err := uc.bookingRepo.PeakActiveQuantity(ctx, storeID, today)
	if err != nil {
		return 0, err
	}

	return float64(peak) / float64(totalCapacity) * 100, nil
}

// linkedStoreIDs 取套餐关联门店ID(旁路缓存)
// 缓存未命中回源数据库并回填;缓存故障降级为直接回源
func (uc *QueryUseCase) linkedStoreIDs(ctx context.Context, planID uint) ([]uint, error) {
	if uc.linkCache != nil {
		if ids, ok, err := uc.linkCache.Get(ctx, planID); err == nil && ok {
			return ids, nil
		}
	}

	ids, err := uc.planRepo.ListLinkedStoreIDs(ctx, planID)
	if err != nil {
		return nil, err
	}

	if uc.linkCache != nil {
		// 回填失败不影响查询结果
		_ = uc.linkCache.Set(ctx, planID, ids)
	}
	return ids, nil
}
