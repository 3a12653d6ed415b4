package dto

import (
	"fmt"

	"github.com/linwan/kimono-rental/internal/domain/plan"
)

// PublishPlanRequest HTTP发布套餐请求
type PublishPlanRequest struct {
	Slug          string  `json:"slug" binding:"required,max=100" example:"asakusa-sansaku"`
	Name          string  `json:"name" binding:"required,max=200" example:"浅草散策プラン"`
	Price         int64   `json:"price" binding:"required,min=1,max=99999999" example:"580000"` // 价格(分)
	DurationHours int     `json:"duration_hours" binding:"required,min=1,max=72" example:"8"`
	Region        *string `json:"region" binding:"omitempty,max=100" example:"東京"`
	GarmentID     uint    `json:"garment_id" binding:"required"`
}

// PlanResponse HTTP套餐响应
type PlanResponse struct {
	ID            uint    `json:"id" example:"1"`
	Slug          string  `json:"slug" example:"asakusa-sansaku"`
	Name          string  `json:"name" example:"浅草散策プラン"`
	Price         int64   `json:"price" example:"580000"`
	PriceYuan     string  `json:"price_yuan" example:"5800.00"` // 价格(元),方便前端显示
	DurationHours int     `json:"duration_hours" example:"8"`
	Region        *string `json:"region,omitempty" example:"東京"`
	GarmentID     uint    `json:"garment_id" example:"10"`
	IsActive      bool    `json:"is_active" example:"true"`
	ThemeID       *uint   `json:"theme_id,omitempty"`
	CreatedAt     string  `json:"created_at" example:"2026-03-15 10:30:00"`
}

// PublishPlanResponse HTTP发布套餐响应
type PublishPlanResponse struct {
	PlanID   uint   `json:"plan_id" example:"1"`
	Slug     string `json:"slug" example:"asakusa-sansaku"`
	StoreIDs []uint `json:"store_ids"` // 首次区域匹配圈定的门店
}

// RelinkPlanResponse HTTP重连响应
type RelinkPlanResponse struct {
	PlanID   uint   `json:"plan_id" example:"1"`
	StoreIDs []uint `json:"store_ids"`
}

// BatchActiveRequest HTTP批量上下架请求
type BatchActiveRequest struct {
	PlanIDs  []uint `json:"plan_ids" binding:"required,min=1"`
	IsActive bool   `json:"is_active"`
}

// BatchThemeRequest HTTP批量设置主题请求
// theme_id为null表示清除主题
type BatchThemeRequest struct {
	PlanIDs []uint `json:"plan_ids" binding:"required,min=1"`
	ThemeID *uint  `json:"theme_id"`
}

// BatchOpResponse HTTP批量操作响应
type BatchOpResponse struct {
	Updated int64 `json:"updated" example:"3"`
}

// CreateThemeRequest HTTP创建主题请求
type CreateThemeRequest struct {
	Name string `json:"name" binding:"required,max=100" example:"桜まつり"`
}

// ThemeResponse HTTP主题响应
type ThemeResponse struct {
	ID       uint   `json:"id" example:"1"`
	Name     string `json:"name" example:"桜まつり"`
	IsActive bool   `json:"is_active" example:"true"`
}

// FormatPriceYuan 格式化价格(分→元)
// 例如:580000分 → "5800.00"
func FormatPriceYuan(priceFen int64) string {
	yuan := float64(priceFen) / 100.0
	return fmt.Sprintf("%.2f", yuan)
}

// ToPlanResponse 领域实体→HTTP响应转换
func ToPlanResponse(p *plan.Plan) PlanResponse {
	return PlanResponse{
		ID:            p.ID,
		Slug:          p.Slug,
		Name:          p.Name,
		Price:         p.Price,
		PriceYuan:     FormatPriceYuan(p.Price),
		DurationHours: p.DurationHours,
		Region:        p.Region,
		GarmentID:     p.GarmentID,
		IsActive:      p.IsActive,
		ThemeID:       p.ThemeID,
		CreatedAt:     p.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
