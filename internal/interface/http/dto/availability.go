package dto

// AvailabilityRequest HTTP可用量查询请求
type AvailabilityRequest struct {
	StoreID   uint   `form:"store_id" binding:"required"`
	GarmentID uint   `form:"garment_id" binding:"required"`
	Date      string `form:"date" binding:"required" example:"2026-04-01"`
}

// AvailabilityResponse HTTP可用量响应
type AvailabilityResponse struct {
	StoreID   uint   `json:"store_id" example:"1"`
	GarmentID uint   `json:"garment_id" example:"10"`
	Date      string `json:"date" example:"2026-04-01"`
	Available int    `json:"available" example:"5"`
}

// PlanAvailabilityRequest HTTP套餐可用量查询请求
type PlanAvailabilityRequest struct {
	Date string `form:"date" binding:"required" example:"2026-04-01"`
}

// PlanAvailabilityResponse HTTP套餐可用量响应
// 按套餐关联的每个门店返回当日可租件数
type PlanAvailabilityResponse struct {
	PlanID uint         `json:"plan_id" example:"1"`
	Date   string       `json:"date" example:"2026-04-01"`
	Stores []StoreSlots `json:"stores"`
}

// StoreSlots 单个门店的可用件数
type StoreSlots struct {
	StoreID   uint `json:"store_id" example:"1"`
	Available int  `json:"available" example:"3"`
}

// UtilizationResponse HTTP门店利用率响应
type UtilizationResponse struct {
	StoreID     uint    `json:"store_id" example:"1"`
	Utilization float64 `json:"utilization" example:"42.5"` // 百分比
}
