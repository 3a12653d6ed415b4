package plan

import (
	"context"
	"log"

	"github.com/linwan/kimono-rental/internal/domain/plan"
	apperrors "github.com/linwan/kimono-rental/pkg/errors"
)

// TxManager 事务管理端口,由mysql.TxManager实现
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// BatchOpsUseCase 套餐批量操作用例
//
// 教学要点:
// 1. 全有或全无:归属校验和更新在同一事务内,任一套餐不属于
//    操作者则整批回滚,不存在"更新了一半"的中间态
// 2. 归属校验逐个走领域方法IsOwnedBy,而不是在SQL里过滤——
//    静默跳过不属于自己的套餐会掩盖越权调用,必须显式报错
// 3. 重复ID在IN查询里天然去重,更新计数以实际影响行数为准
type BatchOpsUseCase struct {
	planRepo  plan.Repository
	txManager TxManager
}

// NewBatchOpsUseCase 创建批量操作用例
func NewBatchOpsUseCase(planRepo plan.Repository, txManager TxManager) *BatchOpsUseCase {
	return &BatchOpsUseCase{
		planRepo:  planRepo,
		txManager: txManager,
	}
}

// BatchResponse 批量操作结果
type BatchResponse struct {
	Updated int64 `json:"updated"` // 实际更新的套餐数
}

// SetActive 批量上架/下架
func (uc *BatchOpsUseCase) SetActive(ctx context.Context, merchantID uint, planIDs []uint, isActive bool) (*BatchResponse, error) {
	if len(planIDs) == 0 {
		return nil, plan.ErrEmptyPlanIDs
	}

	var updated int64
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.verifyOwnership(txCtx, merchantID, planIDs); err != nil {
			return err
		}
		var err error
		updated, err = uc.planRepo.BatchSetActive(txCtx, planIDs, isActive)
		return err
	})
	if err != nil {
		return nil, err
	}

	action := "上架"
	if !isActive {
		action = "下架"
	}
	log.Printf("✓ 批量%s完成: 商家%d 更新%d个套餐", action, merchantID, updated)
	return &BatchResponse{Updated: updated}, nil
}

// SetTheme 批量设置主题(themeID为nil表示清除)
// 引用不存在或停用的主题返回ThemeNotFound,整批不生效
func (uc *BatchOpsUseCase) SetTheme(ctx context.Context, merchantID uint, planIDs []uint, themeID *uint) (*BatchResponse, error) {
	if len(planIDs) == 0 {
		return nil, plan.ErrEmptyPlanIDs
	}

	var updated int64
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.verifyOwnership(txCtx, merchantID, planIDs); err != nil {
			return err
		}

		if themeID != nil {
			theme, err := uc.planRepo.FindTheme(txCtx, *themeID)
			if err != nil {
				return err
			}
			if !theme.IsActive {
				return apperrors.ErrThemeNotFound
			}
		}

		var err error
		updated, err = uc.planRepo.BatchSetTheme(txCtx, planIDs, themeID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✓ 批量设置主题完成: 商家%d 更新%d个套餐", merchantID, updated)
	return &BatchResponse{Updated: updated}, nil
}

// CreateTheme 创建主题
// 主题默认启用;停用主题不能再挂到套餐上
func (uc *BatchOpsUseCase) CreateTheme(ctx context.Context, name string) (*plan.Theme, error) {
	if name == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "主题名称不能为空")
	}
	t := plan.NewTheme(name)
	if err := uc.planRepo.CreateTheme(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// verifyOwnership 归属校验:全部套餐存在且属于操作商家
func (uc *BatchOpsUseCase) verifyOwnership(ctx context.Context, merchantID uint, planIDs []uint) error {
	plans, err := uc.planRepo.ListByIDs(ctx, planIDs)
	if err != nil {
		return err
	}

	found := make(map[uint]*plan.Plan, len(plans))
	for _, p := range plans {
		found[p.ID] = p
	}
	for _, id := range planIDs {
		p, ok := found[id]
		if !ok {
			return apperrors.Newf(apperrors.ErrCodePlanNotFound, "套餐%d不存在", id)
		}
		if !p.IsOwnedBy(merchantID) {
			return apperrors.ErrOwnershipViolation
		}
	}
	return nil
}
