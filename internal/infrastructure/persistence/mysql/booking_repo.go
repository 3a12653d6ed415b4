package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/linwan/kimono-rental/internal/domain/booking"
	apperrors "github.com/linwan/kimono-rental/pkg/errors"
)

// bookingRepository 预约仓储实现(MySQL)
// 教学要点:
// 1. Booking和BookingItem是聚合关系,必须一起保存
// 2. 查询时使用Preload预加载明细,避免N+1问题
// 3. SumActiveQuantity是预约台账:按状态实时聚合,
//    必须在准入临界区内(容量行已锁定)调用才有一致性保证
type bookingRepository struct {
	db *gorm.DB
}

// 活跃状态集合:占用库存的预约状态
var activeStatuses = []int{
	int(booking.BookingStatusPending),
	int(booking.BookingStatusConfirmed),
	int(booking.BookingStatusInProgress),
}

// NewBookingRepository 创建预约仓储
func NewBookingRepository(db *gorm.DB) booking.Repository {
	return &bookingRepository{db: db}
}

// Create 创建预约
// 教学要点:
// 1. GORM会自动保存关联的Items(通过foreignKey)
// 2. 必须在事务中调用(通过getDB从context获取事务DB)
func (r *bookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	// 1. 领域实体 → GORM模型
	model := toBookingModel(b)

	// 2. 插入数据库(包含预约明细)
	db := r.getDB(ctx)
	if err := db.Create(model).Error; err != nil {
		return apperrors.WrapDB(err, "创建预约失败")
	}

	// 3. 回填自增ID
	b.ID = model.ID
	for i := range b.Items {
		b.Items[i].ID = model.Items[i].ID
		b.Items[i].BookingID = model.ID
	}

	return nil
}

// FindByID 根据ID查找预约
// 教学要点:使用Preload预加载Items,避免N+1查询
func (r *bookingRepository) FindByID(ctx context.Context, id uint) (*booking.Booking, error) {
	var model BookingModel
	db := r.getDB(ctx)

	// Preload("Items")会执行:
	// 1. SELECT * FROM bookings WHERE id = ?
	// 2. SELECT * FROM booking_items WHERE booking_id IN (?)
	err := db.Preload("Items").First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, apperrors.WrapDB(err, "查询预约失败")
	}

	return toBookingEntity(&model), nil
}

// FindByBookingNo 根据预约号查找预约
func (r *bookingRepository) FindByBookingNo(ctx context.Context, bookingNo string) (*booking.Booking, error) {
	var model BookingModel
	db := r.getDB(ctx)
	err := db.Preload("Items").Where("booking_no = ?", bookingNo).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, apperrors.WrapDB(err, "查询预约失败")
	}

	return toBookingEntity(&model), nil
}

// Update 更新预约
// 教学要点:主要用于状态更新,不更新Items
// 台账按状态推导:状态改为Cancelled的同时占用即释放,无需额外加回操作
func (r *bookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	db := r.getDB(ctx)

	// 只更新Status和UpdatedAt
	result := db.Model(&BookingModel{}).Where("id = ?", b.ID).Updates(map[string]interface{}{
		"status":     int(b.Status),
		"updated_at": b.UpdatedAt,
	})

	if result.Error != nil {
		return apperrors.WrapDB(result.Error, "更新预约失败")
	}

	if result.RowsAffected == 0 {
		return booking.ErrBookingNotFound
	}

	return nil
}

// SumActiveQuantity 预约台账:统计(门店,款式,日期)维度的活跃占用件数
// SQL:
//
//	SELECT COALESCE(SUM(bi.quantity), 0)
//	FROM booking_items bi JOIN bookings b ON b.id = bi.booking_id
//	WHERE bi.store_id = ? AND bi.garment_id = ?
//	  AND b.visit_date = ? AND b.status IN (1,2,3)
func (r *bookingRepository) SumActiveQuantity(ctx context.Context, storeID, garmentID uint, visitDate time.Time) (int, error) {
	var total int64
	db := r.getDB(ctx)

	err := db.Model(&BookingItemModel{}).
		Select("COALESCE(SUM(booking_items.quantity), 0)").
		Joins("JOIN bookings ON bookings.id = booking_items.booking_id").
		Where("booking_items.store_id = ? AND booking_items.garment_id = ?", storeID, garmentID).
		Where("bookings.visit_date = ?", booking.TruncateDate(visitDate)).
		Where("bookings.status IN ?", activeStatuses).
		Scan(&total).Error

	if err != nil {
		return 0, apperrors.WrapDB(err, "查询预约台账失败")
	}
	return int(total), nil
}

// PeakActiveQuantity 统计门店自指定日期起单日活跃占用的峰值件数
// SQL:
//
//	SELECT COALESCE(MAX(day_total), 0) FROM (
//	  SELECT SUM(bi.quantity) AS day_total
//	  FROM booking_items bi JOIN bookings b ON b.id = bi.booking_id
//	  WHERE bi.store_id = ? AND b.visit_date >= ? AND b.status IN (1,2,3)
//	  GROUP BY b.visit_date
//	) AS daily
func (r *bookingRepository) PeakActiveQuantity(ctx context.Context, storeID uint, from time.Time) (int, error) {
	var peak int64
	db := r.getDB(ctx)

	daily := db.Model(&BookingItemModel{}).
		Select("SUM(booking_items.quantity) AS day_total").
		Joins("JOIN bookings ON bookings.id = booking_items.booking_id").
		Where("booking_items.store_id = ?", storeID).
		Where("bookings.visit_date >= ?", booking.TruncateDate(from)).
		Where("bookings.status IN ?", activeStatuses).
		Group("bookings.visit_date")

	err := db.Table("(?) AS daily", daily).
		Select("COALESCE(MAX(day_total), 0)").
		Scan(&peak).Error

	if err != nil {
		return 0, apperrors.WrapDB(err, "查询门店占用失败")
	}
	return int(peak), nil
}

// ListByCustomer 查询顾客的预约列表
func (r *bookingRepository) ListByCustomer(ctx context.Context, customerID uint, page, pageSize int) ([]*booking.Booking, int64, error) {
	var models []BookingModel
	var total int64

	db := r.getDB(ctx)
	query := db.Model(&BookingModel{}).Where("customer_id = ?", customerID)

	// 查询总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.WrapDB(err, "查询预约总数失败")
	}

	// 分页查询(包含明细)
	offset := (page - 1) * pageSize
	err := query.Preload("Items").
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&models).Error

	if err != nil {
		return nil, 0, apperrors.WrapDB(err, "查询预约列表失败")
	}

	// 转换为领域实体
	bookings := make([]*booking.Booking, len(models))
	for i, model := range models {
		bookings[i] = toBookingEntity(&model)
	}

	return bookings, total, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toBookingModel 领域实体 → GORM模型
func toBookingModel(b *booking.Booking) *BookingModel {
	items := make([]BookingItemModel, len(b.Items))
	for i, item := range b.Items {
		items[i] = BookingItemModel{
			ID:        item.ID,
			BookingID: item.BookingID,
			StoreID:   item.StoreID,
			PlanID:    item.PlanID,
			GarmentID: item.GarmentID,
			Quantity:  item.Quantity,
		}
	}

	return &BookingModel{
		ID:         b.ID,
		BookingNo:  b.BookingNo,
		CustomerID: b.CustomerID,
		MerchantID: b.MerchantID,
		VisitDate:  b.VisitDate,
		Status:     int(b.Status),
		Items:      items,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

// toBookingEntity GORM模型 → 领域实体
func toBookingEntity(model *BookingModel) *booking.Booking {
	items := make([]booking.BookingItem, len(model.Items))
	for i, item := range model.Items {
		items[i] = booking.BookingItem{
			ID:        item.ID,
			BookingID: item.BookingID,
			StoreID:   item.StoreID,
			PlanID:    item.PlanID,
			GarmentID: item.GarmentID,
			Quantity:  item.Quantity,
		}
	}

	return &booking.Booking{
		ID:         model.ID,
		BookingNo:  model.BookingNo,
		CustomerID: model.CustomerID,
		MerchantID: model.MerchantID,
		VisitDate:  model.VisitDate,
		Status:     booking.BookingStatus(model.Status),
		Items:      items,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

// getDB 从context获取事务DB,如果没有则使用默认DB
// 教学要点:事务传递机制
func (r *bookingRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db
}
