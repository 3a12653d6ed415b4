package stock

import (
	"context"
	"log"

	"github.com/linwan/kimono-rental/internal/domain/garment"
	"github.com/linwan/kimono-rental/internal/domain/inventory"
	"github.com/linwan/kimono-rental/internal/domain/store"
	apperrors "github.com/linwan/kimono-rental/pkg/errors"
)

// ManageStockUseCase 库存管理用例(商家侧)
//
// 设计说明:
// 1. SetCapacity是幂等upsert:重复设置同一数值结果相同
// 2. 容量调整不校验已占用量:缩容后已有预约照常履约,
//    只影响后续准入(可用量可能暂时为负,查询侧收底为0)
type ManageStockUseCase struct {
	inventoryRepo inventory.Repository
	storeRepo     store.Repository
	garmentRepo   garment.Repository
}

// NewManageStockUseCase 创建库存管理用例
func NewManageStockUseCase(
	inventoryRepo inventory.Repository,
	storeRepo store.Repository,
	garmentRepo garment.Repository,
) *ManageStockUseCase {
	return &ManageStockUseCase{
		inventoryRepo: inventoryRepo,
		storeRepo:     storeRepo,
		garmentRepo:   garmentRepo,
	}
}

// SetCapacity 设置(门店,款式)的容量
// 门店和款式必须存在;容量0合法(该店暂不提供此款)
func (uc *ManageStockUseCase) SetCapacity(ctx context.Context, storeID, garmentID uint, quantity int) error {
	if quantity < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidParams, "容量不能为负数")
	}
	if _, err := uc.storeRepo.FindByID(ctx, storeID); err != nil {
		return err
	}
	if _, err := uc.garmentRepo.FindByID(ctx, garmentID); err != nil {
		return err
	}

	if err := uc.inventoryRepo.SetCapacity(ctx, storeID, garmentID, quantity); err != nil {
		return err
	}
	log.Printf("✓ 库存已更新: 门店%d 款式%d 容量%d", storeID, garmentID, quantity)
	return nil
}

// GetCapacity 查询(门店,款式)的容量(未配置返回0)
func (uc *ManageStockUseCase) GetCapacity(ctx context.Context, storeID, garmentID uint) (int, error) {
	return uc.inventoryRepo.GetCapacity(ctx, storeID, garmentID)
}

// ListByStore 查询门店的全部库存记录
func (uc *ManageStockUseCase) ListByStore(ctx context.Context, storeID uint) ([]*inventory.Record, error) {
	if _, err := uc.storeRepo.FindByID(ctx, storeID); err != nil {
		return nil, err
	}
	return uc.inventoryRepo.ListByStore(ctx, storeID)
}
