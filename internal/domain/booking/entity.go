package booking

import (
	"time"
)

// BookingStatus 预约状态
// 教学要点:
// 1. 使用int类型而非string(节省存储空间,便于索引)
// 2. 状态值1-5递增,便于理解流转方向
// 3. 活跃状态(Pending/Confirmed/InProgress)的预约占用库存;
//    取消或完成后自动释放(可用量由台账按状态推导,无需反向加回)
type BookingStatus int

const (
	BookingStatusPending    BookingStatus = 1 // 待确认
	BookingStatusConfirmed  BookingStatus = 2 // 已确认
	BookingStatusInProgress BookingStatus = 3 // 进行中(顾客已到店)
	BookingStatusCompleted  BookingStatus = 4 // 已完成
	BookingStatusCancelled  BookingStatus = 5 // 已取消
)

// String 实现Stringer接口(方便日志输出)
func (s BookingStatus) String() string {
	switch s {
	case BookingStatusPending:
		return "待确认"
	case BookingStatusConfirmed:
		return "已确认"
	case BookingStatusInProgress:
		return "进行中"
	case BookingStatusCompleted:
		return "已完成"
	case BookingStatusCancelled:
		return "已取消"
	default:
		return "未知状态"
	}
}

// IsActive 是否为占用库存的活跃状态
// 预约台账只统计活跃状态的明细数量
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed || s == BookingStatusInProgress
}

// IsTerminal 是否为终态(不再流转)
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// Booking 预约实体(聚合根)
// 教学要点:
// 1. Booking是聚合根,BookingItem是子实体,必须同事务创建
// 2. BookingNo是业务主键(全局唯一,时间有序)
// 3. CustomerID可为nil(游客预约);MerchantID记录受理商家(可为nil)
// 4. VisitDate精确到天:预约整日占用,无时段概念
type Booking struct {
	ID         uint
	BookingNo  string        // 预约号(业务主键,全局唯一)
	CustomerID *uint         // 顾客ID(nil表示游客预约)
	MerchantID *uint         // 受理商家ID(可为nil)
	VisitDate  time.Time     // 到店日期(只含日期,时间部分截断)
	Status     BookingStatus // 预约状态
	Items      []BookingItem // 预约明细(聚合内的子实体)
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BookingItem 预约明细项
// 教学要点:
// 1. 不是独立聚合根,必须通过Booking访问
// 2. PlanID可为nil(直接按款式预约);GarmentID永远是已解析的款式
//    (通过套餐预约时,创建阶段已用Plan.GarmentID解析填充)
// 3. 台账按(StoreID, GarmentID, VisitDate)维度累计Quantity
type BookingItem struct {
	ID        uint
	BookingID uint  // 所属预约ID
	StoreID   uint  // 履约门店ID
	PlanID    *uint // 套餐ID(nil表示直接按款式预约)
	GarmentID uint  // 和服款式ID(创建时已解析,台账的统计维度)
	Quantity  int   // 预约件数
}

// NewBooking 创建新预约(工厂方法)
// 教学要点:
// 1. 工厂方法封装创建逻辑,保证实体有效性
// 2. 预约号由外部传入(GenerateBookingNo)
// 3. 初始状态为Pending(待确认)
// 4. VisitDate截断到天,保证台账按日期聚合时键一致
func NewBooking(bookingNo string, customerID, merchantID *uint, visitDate time.Time, items []BookingItem) *Booking {
	now := time.Now()
	return &Booking{
		BookingNo:  bookingNo,
		CustomerID: customerID,
		MerchantID: merchantID,
		VisitDate:  TruncateDate(visitDate),
		Status:     BookingStatusPending,
		Items:      items,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// TruncateDate 截断到天(UTC)
// 台账键(门店,款式,日期)中的日期必须规范化,否则同一天的预约会散落在不同键上
func TruncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CanTransitionTo 检查是否可以转换到目标状态
// 教学要点:状态机设计,防止非法状态跳转
// 合法流转:Pending→Confirmed→InProgress→Completed(只进不退)
// 取消仅允许从Pending/Confirmed进入(进行中/已完成不可取消)
func (b *Booking) CanTransitionTo(target BookingStatus) bool {
	transitions := map[BookingStatus][]BookingStatus{
		BookingStatusPending:    {BookingStatusConfirmed, BookingStatusCancelled},  // 待确认→已确认/已取消
		BookingStatusConfirmed:  {BookingStatusInProgress, BookingStatusCancelled}, // 已确认→进行中/已取消
		BookingStatusInProgress: {BookingStatusCompleted},                          // 进行中→已完成
		BookingStatusCompleted:  {},                                                // 终态
		BookingStatusCancelled:  {},                                                // 终态
	}

	allowedTargets, exists := transitions[b.Status]
	if !exists {
		return false
	}

	for _, allowed := range allowedTargets {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo 状态转换
// 教学要点:
// 1. 先检查是否可以转换(业务规则校验)
// 2. 转换成功更新UpdatedAt(审计追踪)
func (b *Booking) TransitionTo(target BookingStatus) error {
	if !b.CanTransitionTo(target) {
		return ErrInvalidTransition
	}
	b.Status = target
	b.UpdatedAt = time.Now()
	return nil
}

// Confirm 确认预约(领域行为)
func (b *Booking) Confirm() error {
	return b.TransitionTo(BookingStatusConfirmed)
}

// Cancel 取消预约(领域行为)
// 失败语义比通用转换更细:
// - 已取消 → ErrAlreadyCancelled(幂等提示)
// - 已完成 → ErrAlreadyTerminal(终态不可取消)
// - 进行中 → ErrInvalidTransition(到店后不可取消)
func (b *Booking) Cancel() error {
	switch b.Status {
	case BookingStatusCancelled:
		return ErrAlreadyCancelled
	case BookingStatusCompleted:
		return ErrAlreadyTerminal
	}
	return b.TransitionTo(BookingStatusCancelled)
}

// Advance 推进预约(领域行为)
// 严格顺序:Confirmed→InProgress→Completed,跳步返回ErrInvalidTransition
func (b *Booking) Advance() error {
	switch b.Status {
	case BookingStatusConfirmed:
		return b.TransitionTo(BookingStatusInProgress)
	case BookingStatusInProgress:
		return b.TransitionTo(BookingStatusCompleted)
	default:
		return ErrInvalidTransition
	}
}

// IsOwnedBy 检查预约是否属于指定顾客
// 教学要点:权限校验,防止顾客操作他人预约;游客预约无属主
func (b *Booking) IsOwnedBy(customerID uint) bool {
	return b.CustomerID != nil && *b.CustomerID == customerID
}

// TotalQuantity 预约总件数
func (b *Booking) TotalQuantity() int {
	var total int
	for _, item := range b.Items {
		total += item.Quantity
	}
	return total
}
