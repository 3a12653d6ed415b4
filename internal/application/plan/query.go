package plan

import (
	"context"

	"github.com/linwan/kimono-rental/internal/domain/plan"
	apperrors "github.com/linwan/kimono-rental/pkg/errors"
)

// QueryUseCase 套餐查询用例
type QueryUseCase struct {
	planRepo plan.Repository
}

// NewQueryUseCase 创建套餐查询用例
func NewQueryUseCase(planRepo plan.Repository) *QueryUseCase {
	return &QueryUseCase{planRepo: planRepo}
}

// PlanDetail 套餐详情(含当前关联门店)
type PlanDetail struct {
	Plan     *plan.Plan
	StoreIDs []uint
}

// Get 查询套餐详情
func (uc *QueryUseCase) Get(ctx context.Context, planID uint) (*PlanDetail, error) {
	p, err := uc.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	storeIDs, err := uc.planRepo.ListLinkedStoreIDs(ctx, planID)
	if err != nil {
		return nil, err
	}
	return &PlanDetail{Plan: p, StoreIDs: storeIDs}, nil
}

// GetBySlug 按slug查询套餐详情(对外链接场景)
func (uc *QueryUseCase) GetBySlug(ctx context.Context, slug string) (*PlanDetail, error) {
	if slug == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "slug不能为空")
	}
	p, err := uc.planRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	storeIDs, err := uc.planRepo.ListLinkedStoreIDs(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return &PlanDetail{Plan: p, StoreIDs: storeIDs}, nil
}
