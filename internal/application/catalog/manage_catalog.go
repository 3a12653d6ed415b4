package catalog

import (
	"context"
	"log"

	"github.com/linwan/kimono-rental/internal/domain/garment"
	"github.com/linwan/kimono-rental/internal/domain/store"
	apperrors "github.com/linwan/kimono-rental/pkg/errors"
)

// ManageCatalogUseCase 门店与款式目录管理用例(运营侧)
// 门店停业会影响后续的套餐重连(停业门店不参与区域匹配),
// 但不影响已有关联和已创建的预约
type ManageCatalogUseCase struct {
	storeRepo   store.Repository
	garmentRepo garment.Repository
}

// NewManageCatalogUseCase 创建目录管理用例
func NewManageCatalogUseCase(storeRepo store.Repository, garmentRepo garment.Repository) *ManageCatalogUseCase {
	return &ManageCatalogUseCase{
		storeRepo:   storeRepo,
		garmentRepo: garmentRepo,
	}
}

// CreateStore 创建门店(新店默认营业中)
func (uc *ManageCatalogUseCase) CreateStore(ctx context.Context, name, city string) (*store.Store, error) {
	if name == "" {
		return nil, store.ErrInvalidName
	}
	if city == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "门店城市不能为空")
	}

	s := store.NewStore(name, city)
	if err := uc.storeRepo.Create(ctx, s); err != nil {
		return nil, err
	}
	log.Printf("✓ 门店已创建: %s (%s)", s.Name, s.City)
	return s, nil
}

// SetStoreActive 门店开业/停业
func (uc *ManageCatalogUseCase) SetStoreActive(ctx context.Context, storeID uint, active bool) (*store.Store, error) {
	s, err := uc.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	if active {
		s.Activate()
	} else {
		s.Deactivate()
	}
	if err := uc.storeRepo.Update(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// ListStores 门店列表(activeOnly过滤停业门店)
func (uc *ManageCatalogUseCase) ListStores(ctx context.Context, activeOnly bool) ([]*store.Store, error) {
	if activeOnly {
		return uc.storeRepo.ListActive(ctx)
	}
	return uc.storeRepo.List(ctx)
}

// CreateGarment 创建和服款式
func (uc *ManageCatalogUseCase) CreateGarment(ctx context.Context, name, color, pattern, season string) (*garment.Garment, error) {
	if name == "" {
		return nil, garment.ErrInvalidName
	}

	g := garment.NewGarment(name, color, pattern, season)
	if err := uc.garmentRepo.Create(ctx, g); err != nil {
		return nil, err
	}
	log.Printf("✓ 款式已创建: %s", g.Name)
	return g, nil
}

// ListGarments 款式列表
func (uc *ManageCatalogUseCase) ListGarments(ctx context.Context) ([]*garment.Garment, error) {
	return uc.garmentRepo.List(ctx)
}
