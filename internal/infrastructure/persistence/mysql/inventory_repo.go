package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/linwan/kimono-rental/internal/domain/inventory"
	apperrors "github.com/linwan/kimono-rental/pkg/errors"
)

// inventoryRepository 库存仓储实现(MySQL)
// 教学要点:
// 1. 缺失记录按容量0处理,不是错误
// 2. LockByKey是准入临界区的行锁:必须在事务中调用
type inventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository 创建库存仓储
func NewInventoryRepository(db *gorm.DB) inventory.Repository {
	return &inventoryRepository{db: db}
}

// GetCapacity 查询容量
// 缺失记录返回0:未配置库存等同于容量为0(不可约,但不是错误)
func (r *inventoryRepository) GetCapacity(ctx context.Context, storeID, garmentID uint) (int, error) {
	var model InventoryRecordModel
	db := r.getDB(ctx)
	err := db.Where("store_id = ? AND garment_id = ?", storeID, garmentID).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, apperrors.WrapDB(err, "查询库存容量失败")
	}

	return model.Quantity, nil
}

// SetCapacity 设置容量(幂等upsert)
// 教学要点:使用ON DUPLICATE KEY UPDATE,依托(garment_id, store_id)唯一索引
func (r *inventoryRepository) SetCapacity(ctx context.Context, storeID, garmentID uint, quantity int) error {
	if quantity < 0 {
		return inventory.ErrInvalidQuantity
	}

	db := r.getDB(ctx)
	model := InventoryRecordModel{
		GarmentID: garmentID,
		StoreID:   storeID,
		Quantity:  quantity,
	}

	// INSERT ... ON DUPLICATE KEY UPDATE quantity = ?
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "garment_id"}, {Name: "store_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"quantity": quantity}),
	}).Create(&model).Error

	if err != nil {
		return apperrors.WrapDB(err, "设置库存容量失败")
	}
	return nil
}

// LockByKey 悲观锁查询容量记录(用于预约准入)
// 教学要点:
// 1. SELECT FOR UPDATE锁定行,跨进程串行化同一(门店,和服)的准入
// 2. 必须使用getDB(ctx)从context获取事务DB
// 3. 缺失记录返回(nil, nil):无容量配置,调用方按容量0拒绝
func (r *inventoryRepository) LockByKey(ctx context.Context, storeID, garmentID uint) (*inventory.Record, error) {
	var model InventoryRecordModel
	db := r.getDB(ctx)
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("store_id = ? AND garment_id = ?", storeID, garmentID).
		First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.WrapDB(err, "锁定库存记录失败")
	}

	return toInventoryEntity(&model), nil
}

// ListByStore 查询门店的全部库存记录
func (r *inventoryRepository) ListByStore(ctx context.Context, storeID uint) ([]*inventory.Record, error) {
	var models []InventoryRecordModel
	db := r.getDB(ctx)
	err := db.Where("store_id = ?", storeID).Order("garment_id ASC").Find(&models).Error
	if err != nil {
		return nil, apperrors.WrapDB(err, "查询门店库存失败")
	}

	records := make([]*inventory.Record, len(models))
	for i, model := range models {
		records[i] = toInventoryEntity(&model)
	}
	return records, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toInventoryEntity GORM模型 → 领域实体
func toInventoryEntity(model *InventoryRecordModel) *inventory.Record {
	return &inventory.Record{
		ID:        model.ID,
		GarmentID: model.GarmentID,
		StoreID:   model.StoreID,
		Quantity:  model.Quantity,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// getDB 从context获取事务DB,如果没有则使用默认DB
// 教学要点:事务传递机制
func (r *inventoryRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db
}
