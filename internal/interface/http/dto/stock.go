package dto

import "github.com/linwan/kimono-rental/internal/domain/inventory"

// SetCapacityRequest HTTP设置容量请求
// quantity为0表示该门店暂不提供此款式
type SetCapacityRequest struct {
	StoreID   uint `json:"store_id" binding:"required"`
	GarmentID uint `json:"garment_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"min=0,max=9999" example:"5"`
}

// CapacityResponse HTTP容量响应
type CapacityResponse struct {
	StoreID   uint `json:"store_id" example:"1"`
	GarmentID uint `json:"garment_id" example:"10"`
	Quantity  int  `json:"quantity" example:"5"`
}

// ToCapacityResponse 库存记录→HTTP响应转换
func ToCapacityResponse(r *inventory.Record) CapacityResponse {
	return CapacityResponse{
		StoreID:   r.StoreID,
		GarmentID: r.GarmentID,
		Quantity:  r.Quantity,
	}
}

// CreateStoreRequest HTTP创建门店请求
type CreateStoreRequest struct {
	Name string `json:"name" binding:"required,max=100" example:"浅草本店"`
	City string `json:"city" binding:"required,max=100" example:"東京都台東区浅草"`
}

// SetStoreActiveRequest HTTP门店开业/停业请求
type SetStoreActiveRequest struct {
	IsActive bool `json:"is_active"`
}

// StoreResponse HTTP门店响应
type StoreResponse struct {
	ID       uint   `json:"id" example:"1"`
	Name     string `json:"name" example:"浅草本店"`
	City     string `json:"city" example:"東京都台東区浅草"`
	IsActive bool   `json:"is_active" example:"true"`
}

// CreateGarmentRequest HTTP创建款式请求
type CreateGarmentRequest struct {
	Name    string `json:"name" binding:"required,max=100" example:"桜柄振袖"`
	Color   string `json:"color" binding:"omitempty,max=200" example:"赤,白"`
	Pattern string `json:"pattern" binding:"omitempty,max=200" example:"桜,流水"`
	Season  string `json:"season" binding:"omitempty,max=100" example:"春"`
}

// GarmentResponse HTTP款式响应
type GarmentResponse struct {
	ID      uint   `json:"id" example:"10"`
	Name    string `json:"name" example:"桜柄振袖"`
	Color   string `json:"color" example:"赤,白"`
	Pattern string `json:"pattern" example:"桜,流水"`
	Season  string `json:"season" example:"春"`
}
