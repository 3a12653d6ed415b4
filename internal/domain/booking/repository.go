package booking

import (
	"context"
	"time"
)

// Repository 预约仓储接口(依赖倒置原则)
// 教学要点:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 支持事务操作(通过context传递事务)
// 3. SumActiveQuantity就是预约台账:可用量 = 容量 - 台账值
//    台账不单独存储,按状态实时聚合,避免第二个可漂移的事实来源
type Repository interface {
	// Create 创建预约(包含预约明细)
	// 教学要点:预约和明细必须在同一事务中创建
	Create(ctx context.Context, booking *Booking) error

	// FindByID 根据ID查找预约(包含预约明细)
	FindByID(ctx context.Context, id uint) (*Booking, error)

	// FindByBookingNo 根据预约号查找预约
	FindByBookingNo(ctx context.Context, bookingNo string) (*Booking, error)

	// Update 更新预约(主要用于状态更新)
	Update(ctx context.Context, booking *Booking) error

	// SumActiveQuantity 预约台账:统计(门店,款式,日期)维度的活跃占用件数
	// 活跃状态 = Pending/Confirmed/InProgress
	// 必须在准入临界区内(容量行已锁定)调用才能保证读到的值不被并发改写
	SumActiveQuantity(ctx context.Context, storeID, garmentID uint, visitDate time.Time) (int, error)

	// PeakActiveQuantity 统计门店自指定日期起单日活跃占用的峰值件数
	// 用于利用率报表:按日分组取最大值,单日占用不会超过门店总容量,
	// 因此利用率天然落在[0,100]区间(跨日求和会超过100)
	PeakActiveQuantity(ctx context.Context, storeID uint, from time.Time) (int, error)

	// ListByCustomer 查询顾客的预约列表
	// 教学要点:支持分页,避免一次性查询大量数据
	ListByCustomer(ctx context.Context, customerID uint, page, pageSize int) ([]*Booking, int64, error)
}
