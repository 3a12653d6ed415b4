package dto

import (
	"time"

	"github.com/linwan/kimono-rental/internal/domain/booking"
)

// CreateBookingRequest HTTP创建预约请求
// 游客可下单(未登录时customer为空),visit_date为到店日期(YYYY-MM-DD)
type CreateBookingRequest struct {
	VisitDate string                     `json:"visit_date" binding:"required" example:"2026-04-01"`
	Items     []CreateBookingItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateBookingItemRequest 预约明细项
// plan_id与garment_id二选一:传plan_id时款式由套餐解析
type CreateBookingItemRequest struct {
	StoreID   uint  `json:"store_id" binding:"required"`
	PlanID    *uint `json:"plan_id" binding:"omitempty"`
	GarmentID uint  `json:"garment_id" binding:"omitempty"`
	Quantity  int   `json:"quantity" binding:"required,min=1,max=99"`
}

// CreateBookingResponse HTTP创建预约响应
type CreateBookingResponse struct {
	BookingID uint   `json:"booking_id" example:"1"`
	BookingNo string `json:"booking_no" example:"BK1769904000123456"`
	Status    string `json:"status" example:"待确认"`
	VisitDate string `json:"visit_date" example:"2026-04-01"`
}

// BookingItemResponse 预约明细响应
type BookingItemResponse struct {
	StoreID   uint  `json:"store_id" example:"1"`
	PlanID    *uint `json:"plan_id,omitempty"`
	GarmentID uint  `json:"garment_id" example:"10"`
	Quantity  int   `json:"quantity" example:"2"`
}

// BookingResponse HTTP预约详情响应
type BookingResponse struct {
	ID         uint                  `json:"id" example:"1"`
	BookingNo  string                `json:"booking_no" example:"BK1769904000123456"`
	CustomerID *uint                 `json:"customer_id,omitempty"`
	MerchantID *uint                 `json:"merchant_id,omitempty"`
	VisitDate  string                `json:"visit_date" example:"2026-04-01"`
	Status     string                `json:"status" example:"已确认"`
	Items      []BookingItemResponse `json:"items"`
	CreatedAt  string                `json:"created_at" example:"2026-03-15 10:30:00"`
}

// ListBookingsRequest HTTP预约列表请求
type ListBookingsRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
}

// ToBookingResponse 领域实体→HTTP响应转换
func ToBookingResponse(b *booking.Booking) BookingResponse {
	items := make([]BookingItemResponse, 0, len(b.Items))
	for _, it := range b.Items {
		items = append(items, BookingItemResponse{
			StoreID:   it.StoreID,
			PlanID:    it.PlanID,
			GarmentID: it.GarmentID,
			Quantity:  it.Quantity,
		})
	}
	return BookingResponse{
		ID:         b.ID,
		BookingNo:  b.BookingNo,
		CustomerID: b.CustomerID,
		MerchantID: b.MerchantID,
		VisitDate:  b.VisitDate.Format("2006-01-02"),
		Status:     b.Status.String(),
		Items:      items,
		CreatedAt:  b.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// ParseVisitDate 解析到店日期(只接受YYYY-MM-DD)
func ParseVisitDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
