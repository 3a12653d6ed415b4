package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/linwan/kimono-rental/internal/domain/plan"
	apperrors "github.com/linwan/kimono-rental/pkg/errors"
)

// planRepository 套餐仓储实现(MySQL)
// 教学要点:
// 1. 批量操作(BatchSetActive/BatchSetTheme)直接发一条UPDATE ... WHERE id IN (?):
//    归属校验在应用层事务内先行,失败则事务回滚,任何行都不落库
// 2. 关联维护区分幂等补链(AddLinks, ON CONFLICT DO NOTHING)
//    和破坏式重建(ReplaceLinks, DELETE后重插)
type planRepository struct {
	db *gorm.DB
}

// NewPlanRepository 创建套餐仓储
func NewPlanRepository(db *gorm.DB) plan.Repository {
	return &planRepository{db: db}
}

// Create 创建套餐
func (r *planRepository) Create(ctx context.Context, p *plan.Plan) error {
	model := toPlanModel(p)

	db := r.getDB(ctx)
	if err := db.Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return plan.ErrSlugDuplicate
		}
		return apperrors.WrapDB(err, "创建套餐失败")
	}

	p.ID = model.ID
	return nil
}

// FindByID 根据ID查找套餐
func (r *planRepository) FindByID(ctx context.Context, id uint) (*plan.Plan, error) {
	var model PlanModel
	db := r.getDB(ctx)
	err := db.First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, plan.ErrPlanNotFound
		}
		return nil, apperrors.WrapDB(err, "查询套餐失败")
	}

	return toPlanEntity(&model), nil
}

// FindBySlug 根据slug查找套餐
func (r *planRepository) FindBySlug(ctx context.Context, slug string) (*plan.Plan, error) {
	var model PlanModel
	db := r.getDB(ctx)
	err := db.Where("slug = ?", slug).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, plan.ErrPlanNotFound
		}
		return nil, apperrors.WrapDB(err, "查询套餐失败")
	}

	return toPlanEntity(&model), nil
}

// ListByIDs 批量查询套餐
// 用于批量操作前的归属校验:返回数量少于入参数量说明有套餐不存在
func (r *planRepository) ListByIDs(ctx context.Context, ids []uint) ([]*plan.Plan, error) {
	var models []PlanModel
	db := r.getDB(ctx)
	err := db.Where("id IN ?", ids).Find(&models).Error
	if err != nil {
		return nil, apperrors.WrapDB(err, "批量查询套餐失败")
	}

	plans := make([]*plan.Plan, len(models))
	for i, model := range models {
		plans[i] = toPlanEntity(&model)
	}
	return plans, nil
}

// Update 更新套餐
func (r *planRepository) Update(ctx context.Context, p *plan.Plan) error {
	db := r.getDB(ctx)
	result := db.Model(&PlanModel{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"name":           p.Name,
		"price":          p.Price,
		"duration_hours": p.DurationHours,
		"region":         p.Region,
		"is_active":      p.IsActive,
		"theme_id":       p.ThemeID,
		"updated_at":     p.UpdatedAt,
	})

	if result.Error != nil {
		return apperrors.WrapDB(result.Error, "更新套餐失败")
	}
	if result.RowsAffected == 0 {
		return plan.ErrPlanNotFound
	}
	return nil
}

// AddLinks 幂等补齐套餐-门店关联
// 教学要点:ON CONFLICT DO NOTHING依托(plan_id, store_id)唯一索引,
// 重复补链不报错也不产生重复行(Mapper重跑天然幂等)
func (r *planRepository) AddLinks(ctx context.Context, planID uint, storeIDs []uint) error {
	if len(storeIDs) == 0 {
		return nil
	}

	models := make([]PlanStoreLinkModel, len(storeIDs))
	for i, storeID := range storeIDs {
		models[i] = PlanStoreLinkModel{PlanID: planID, StoreID: storeID}
	}

	db := r.getDB(ctx)
	err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models).Error
	if err != nil {
		return apperrors.WrapDB(err, "补齐套餐门店关联失败")
	}
	return nil
}

// ReplaceLinks 破坏式重建关联:先删除该套餐全部关联,再插入新集合
// 必须在事务内执行(调用方通过TxManager保证删除和重插的原子性)
func (r *planRepository) ReplaceLinks(ctx context.Context, planID uint, storeIDs []uint) error {
	db := r.getDB(ctx)

	if err := db.Where("plan_id = ?", planID).Delete(&PlanStoreLinkModel{}).Error; err != nil {
		return apperrors.WrapDB(err, "删除套餐门店关联失败")
	}

	return r.AddLinks(ctx, planID, storeIDs)
}

// ListLinkedStoreIDs 查询套餐当前关联的门店ID集合
func (r *planRepository) ListLinkedStoreIDs(ctx context.Context, planID uint) ([]uint, error) {
	var storeIDs []uint
	db := r.getDB(ctx)
	err := db.Model(&PlanStoreLinkModel{}).
		Where("plan_id = ?", planID).
		Order("store_id ASC").
		Pluck("store_id", &storeIDs).Error
	if err != nil {
		return nil, apperrors.WrapDB(err, "查询套餐门店关联失败")
	}
	return storeIDs, nil
}

// BatchSetActive 批量上架/下架
// 教学要点:单条UPDATE保证原子性;归属校验由应用层在同一事务内先行
func (r *planRepository) BatchSetActive(ctx context.Context, planIDs []uint, isActive bool) (int64, error) {
	db := r.getDB(ctx)
	result := db.Model(&PlanModel{}).Where("id IN ?", planIDs).Update("is_active", isActive)
	if result.Error != nil {
		return 0, apperrors.WrapDB(result.Error, "批量更新套餐状态失败")
	}
	return result.RowsAffected, nil
}

// BatchSetTheme 批量设置主题
// themeID为nil表示清除主题(SET theme_id = NULL)
func (r *planRepository) BatchSetTheme(ctx context.Context, planIDs []uint, themeID *uint) (int64, error) {
	db := r.getDB(ctx)
	result := db.Model(&PlanModel{}).Where("id IN ?", planIDs).Update("theme_id", themeID)
	if result.Error != nil {
		return 0, apperrors.WrapDB(result.Error, "批量更新套餐主题失败")
	}
	return result.RowsAffected, nil
}

// FindTheme 查询主题
func (r *planRepository) FindTheme(ctx context.Context, themeID uint) (*plan.Theme, error) {
	var model ThemeModel
	db := r.getDB(ctx)
	err := db.First(&model, themeID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, plan.ErrThemeNotFound
		}
		return nil, apperrors.WrapDB(err, "查询主题失败")
	}

	return &plan.Theme{
		ID:        model.ID,
		Name:      model.Name,
		IsActive:  model.IsActive,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}, nil
}

// CreateTheme 创建主题
func (r *planRepository) CreateTheme(ctx context.Context, t *plan.Theme) error {
	model := &ThemeModel{
		ID:        t.ID,
		Name:      t.Name,
		IsActive:  t.IsActive,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}

	db := r.getDB(ctx)
	if err := db.Create(model).Error; err != nil {
		return apperrors.WrapDB(err, "创建主题失败")
	}

	t.ID = model.ID
	return nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toPlanModel 领域实体 → GORM模型
func toPlanModel(p *plan.Plan) *PlanModel {
	return &PlanModel{
		ID:            p.ID,
		Slug:          p.Slug,
		Name:          p.Name,
		Price:         p.Price,
		DurationHours: p.DurationHours,
		Region:        p.Region,
		GarmentID:     p.GarmentID,
		MerchantID:    p.MerchantID,
		IsActive:      p.IsActive,
		ThemeID:       p.ThemeID,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// toPlanEntity GORM模型 → 领域实体
func toPlanEntity(model *PlanModel) *plan.Plan {
	return &plan.Plan{
		ID:            model.ID,
		Slug:          model.Slug,
		Name:          model.Name,
		Price:         model.Price,
		DurationHours: model.DurationHours,
		Region:        model.Region,
		GarmentID:     model.GarmentID,
		MerchantID:    model.MerchantID,
		IsActive:      model.IsActive,
		ThemeID:       model.ThemeID,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *planRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db
}
