package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/linwan/kimono-rental/internal/domain/store"
	apperrors "github.com/linwan/kimono-rental/pkg/errors"
)

// storeRepository 门店仓储实现(MySQL)
type storeRepository struct {
	db *gorm.DB
}

// NewStoreRepository 创建门店仓储
func NewStoreRepository(db *gorm.DB) store.Repository {
	return &storeRepository{db: db}
}

// Create 创建门店
func (r *storeRepository) Create(ctx context.Context, s *store.Store) error {
	model := toStoreModel(s)

	db := r.getDB(ctx)
	if err := db.Create(model).Error; err != nil {
		return apperrors.WrapDB(err, "创建门店失败")
	}

	s.ID = model.ID
	return nil
}

// FindByID 根据ID查找门店
func (r *storeRepository) FindByID(ctx context.Context, id uint) (*store.Store, error) {
	var model StoreModel
	db := r.getDB(ctx)
	err := db.First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrStoreNotFound
		}
		return nil, apperrors.WrapDB(err, "查询门店失败")
	}

	return toStoreEntity(&model), nil
}

// ListActive 查询所有营业中的门店
// 用于Mapper区域匹配:结果顺序固定(按ID),保证匹配结果可复现
func (r *storeRepository) ListActive(ctx context.Context) ([]*store.Store, error) {
	var models []StoreModel
	db := r.getDB(ctx)
	err := db.Where("is_active = ?", true).Order("id ASC").Find(&models).Error
	if err != nil {
		return nil, apperrors.WrapDB(err, "查询营业门店失败")
	}

	stores := make([]*store.Store, len(models))
	for i, model := range models {
		stores[i] = toStoreEntity(&model)
	}
	return stores, nil
}

// List 查询全部门店
func (r *storeRepository) List(ctx context.Context) ([]*store.Store, error) {
	var models []StoreModel
	db := r.getDB(ctx)
	err := db.Order("id ASC").Find(&models).Error
	if err != nil {
		return nil, apperrors.WrapDB(err, "查询门店列表失败")
	}

	stores := make([]*store.Store, len(models))
	for i, model := range models {
		stores[i] = toStoreEntity(&model)
	}
	return stores, nil
}

// Update 更新门店信息
func (r *storeRepository) Update(ctx context.Context, s *store.Store) error {
	db := r.getDB(ctx)
	result := db.Model(&StoreModel{}).Where("id = ?", s.ID).Updates(map[string]interface{}{
		"name":       s.Name,
		"city":       s.City,
		"is_active":  s.IsActive,
		"updated_at": s.UpdatedAt,
	})

	if result.Error != nil {
		return apperrors.WrapDB(result.Error, "更新门店失败")
	}
	if result.RowsAffected == 0 {
		return store.ErrStoreNotFound
	}
	return nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toStoreModel 领域实体 → GORM模型
func toStoreModel(s *store.Store) *StoreModel {
	return &StoreModel{
		ID:        s.ID,
		Name:      s.Name,
		City:      s.City,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// toStoreEntity GORM模型 → 领域实体
func toStoreEntity(model *StoreModel) *store.Store {
	return &store.Store{
		ID:        model.ID,
		Name:      model.Name,
		City:      model.City,
		IsActive:  model.IsActive,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *storeRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db
}
