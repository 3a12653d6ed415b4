package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/linwan/kimono-rental/internal/domain/garment"
	apperrors "github.com/linwan/kimono-rental/pkg/errors"
)

// garmentRepository 和服仓储实现(MySQL)
type garmentRepository struct {
	db *gorm.DB
}

// NewGarmentRepository 创建和服仓储
func NewGarmentRepository(db *gorm.DB) garment.Repository {
	return &garmentRepository{db: db}
}

// Create 创建和服
func (r *garmentRepository) Create(ctx context.Context, g *garment.Garment) error {
	model := toGarmentModel(g)

	db := r.getDB(ctx)
	if err := db.Create(model).Error; err != nil {
		return apperrors.WrapDB(err, "创建和服失败")
	}

	g.ID = model.ID
	return nil
}

// FindByID 根据ID查找和服
func (r *garmentRepository) FindByID(ctx context.Context, id uint) (*garment.Garment, error) {
	var model GarmentModel
	db := r.getDB(ctx)
	err := db.First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, garment.ErrGarmentNotFound
		}
		return nil, apperrors.WrapDB(err, "查询和服失败")
	}

	return toGarmentEntity(&model), nil
}

// List 查询全部和服
func (r *garmentRepository) List(ctx context.Context) ([]*garment.Garment, error) {
	var models []GarmentModel
	db := r.getDB(ctx)
	err := db.Order("id ASC").Find(&models).Error
	if err != nil {
		return nil, apperrors.WrapDB(err, "查询和服列表失败")
	}

	garments := make([]*garment.Garment, len(models))
	for i, model := range models {
		garments[i] = toGarmentEntity(&model)
	}
	return garments, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toGarmentModel 领域实体 → GORM模型
func toGarmentModel(g *garment.Garment) *GarmentModel {
	return &GarmentModel{
		ID:        g.ID,
		Name:      g.Name,
		Color:     g.Color,
		Pattern:   g.Pattern,
		Season:    g.Season,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

// toGarmentEntity GORM模型 → 领域实体
func toGarmentEntity(model *GarmentModel) *garment.Garment {
	return &garment.Garment{
		ID:        model.ID,
		Name:      model.Name,
		Color:     model.Color,
		Pattern:   model.Pattern,
		Season:    model.Season,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *garmentRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db
}
