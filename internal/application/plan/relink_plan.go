package plan

import (
	"context"
	"log"
	"time"

	"github.com/linwan/kimono-rental/internal/domain/plan"
	"github.com/linwan/kimono-rental/internal/domain/store"
	"github.com/linwan/kimono-rental/pkg/metrics"
	"github.com/linwan/kimono-rental/pkg/saga"
)

// LinkCache 套餐-门店关联缓存端口(与availability共用同一实现)
type LinkCache interface {
	Invalidate(ctx context.Context, planID uint) error
}

// RelinkPlanUseCase 套餐-门店重连用例
//
// 教学要点:
// 1. 常规重连是幂等补链:按区域规则算出目标门店集合,只补插缺失关联,
//    已有关联(含人工手动加的)一律保留——重复执行结果相同
// 2. resync是破坏式重建:删除全部旧关联后按当前规则重插,
//    用Saga编排删除/重插两步,失败时回补旧关联,不留中间态
// 3. 任何改动后失效缓存,下一次可用量查询回源重建
type RelinkPlanUseCase struct {
	planRepo  plan.Repository
	storeRepo store.Repository
	mapper    *plan.Mapper
	linkCache LinkCache
}

// NewRelinkPlanUseCase 创建重连用例
func NewRelinkPlanUseCase(
	planRepo plan.Repository,
	storeRepo store.Repository,
	mapper *plan.Mapper,
	linkCache LinkCache,
) *RelinkPlanUseCase {
	return &RelinkPlanUseCase{
		planRepo:  planRepo,
		storeRepo: storeRepo,
		mapper:    mapper,
		linkCache: linkCache,
	}
}

// RelinkResponse 重连结果
type RelinkResponse struct {
	PlanID   uint   `json:"plan_id"`
	StoreIDs []uint `json:"store_ids"` // 重连后的实际关联门店
}

// Execute 幂等重连:补齐规则算出的关联,保留已有关联
func (uc *RelinkPlanUseCase) Execute(ctx context.Context, planID uint) (*RelinkResponse, error) {
	p, err := uc.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	targetIDs, err := uc.resolveTargets(ctx, p)
	if err != nil {
		return nil, err
	}

	if err := uc.planRepo.AddLinks(ctx, planID, targetIDs); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, planID)

	// 返回补链后的实际集合(含历史保留的关联)
	current, err := uc.planRepo.ListLinkedStoreIDs(ctx, planID)
	if err != nil {
		return nil, err
	}
	log.Printf("✓ 套餐%s重连完成: 关联%d家门店", p.Slug, len(current))
	return &RelinkResponse{PlanID: planID, StoreIDs: current}, nil
}

// Resync 破坏式重建:删旧插新,人工关联一并清除
// Saga两步编排,第二步失败时回补删除前的快照
func (uc *RelinkPlanUseCase) Resync(ctx context.Context, planID uint) (*RelinkResponse, error) {
	p, err := uc.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	targetIDs, err := uc.resolveTargets(ctx, p)
	if err != nil {
		return nil, err
	}

	// 快照旧关联,补偿时回补
	oldIDs, err := uc.planRepo.ListLinkedStoreIDs(ctx, planID)
	if err != nil {
		return nil, err
	}

	sg := saga.NewSaga(30 * time.Second)
	sg.AddStep("清空旧关联",
		func(ctx context.Context) error {
			return uc.planRepo.ReplaceLinks(ctx, planID, nil)
		},
		func(ctx context.Context) error {
			return uc.planRepo.AddLinks(ctx, planID, oldIDs)
		},
	)
	sg.AddStep("写入新关联",
		func(ctx context.Context) error {
			return uc.planRepo.AddLinks(ctx, planID, targetIDs)
		},
		func(ctx context.Context) error {
			return uc.planRepo.ReplaceLinks(ctx, planID, oldIDs)
		},
	)

	if err := sg.Execute(ctx); err != nil {
		metrics.IncCounterVec(metrics.SagaExecutionsTotal, map[string]string{"result": "failure"})
		return nil, err
	}
	metrics.IncCounterVec(metrics.SagaExecutionsTotal, map[string]string{"result": "success"})
	uc.invalidate(ctx, planID)

	log.Printf("✓ 套餐%s重建关联完成: %d家 -> %d家", p.Slug, len(oldIDs), len(targetIDs))
	return &RelinkResponse{PlanID: planID, StoreIDs: targetIDs}, nil
}

// resolveTargets 按区域规则计算目标门店集合
func (uc *RelinkPlanUseCase) resolveTargets(ctx context.Context, p *plan.Plan) ([]uint, error) {
	activeStores, err := uc.storeRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return uc.mapper.Resolve(p, activeStores), nil
}

func (uc *RelinkPlanUseCase) invalidate(ctx context.Context, planID uint) {
	if uc.linkCache == nil {
		return
	}
	if err := uc.linkCache.Invalidate(ctx, planID); err != nil {
		// 缓存失效失败只记录:TTL会兜底过期
		log.Printf("⚠ 套餐%d关联缓存失效失败: %v", planID, err)
	}
}
