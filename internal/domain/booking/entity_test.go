package booking

import (
	"strings"
	"testing"
	"time"
)

func newTestBooking(status BookingStatus) *Booking {
	customerID := uint(1)
	b := NewBooking("BKG1767225600000001", &customerID, nil,
		time.Date(2026, 4, 10, 15, 30, 0, 0, time.Local),
		[]BookingItem{{StoreID: 1, GarmentID: 1, Quantity: 1}})
	b.Status = status
	return b
}

// TestBooking_HappyPath 正向流转:待确认→已确认→进行中→已完成
func TestBooking_HappyPath(t *testing.T) {
	b := newTestBooking(BookingStatusPending)

	if err := b.Confirm(); err != nil {
		t.Fatalf("确认失败: %v", err)
	}
	if b.Status != BookingStatusConfirmed {
		t.Fatalf("期望状态为已确认，实际%s", b.Status)
	}

	if err := b.Advance(); err != nil {
		t.Fatalf("推进到进行中失败: %v", err)
	}
	if b.Status != BookingStatusInProgress {
		t.Fatalf("期望状态为进行中，实际%s", b.Status)
	}

	if err := b.Advance(); err != nil {
		t.Fatalf("推进到已完成失败: %v", err)
	}
	if b.Status != BookingStatusCompleted {
		t.Fatalf("期望状态为已完成，实际%s", b.Status)
	}
}

// TestBooking_AdvanceOnPending 待确认状态不能直接推进
func TestBooking_AdvanceOnPending(t *testing.T) {
	b := newTestBooking(BookingStatusPending)

	if err := b.Advance(); err != ErrInvalidTransition {
		t.Errorf("期望ErrInvalidTransition，实际%v", err)
	}
}

// TestBooking_CancelFromPending 待确认可取消
func TestBooking_CancelFromPending(t *testing.T) {
	b := newTestBooking(BookingStatusPending)

	if err := b.Cancel(); err != nil {
		t.Fatalf("取消失败: %v", err)
	}
	if b.Status != BookingStatusCancelled {
		t.Errorf("期望状态为已取消，实际%s", b.Status)
	}
}

// TestBooking_CancelFromConfirmed 已确认可取消
func TestBooking_CancelFromConfirmed(t *testing.T) {
	b := newTestBooking(BookingStatusConfirmed)

	if err := b.Cancel(); err != nil {
		t.Errorf("取消失败: %v", err)
	}
}

// TestBooking_CancelFromInProgress 进行中不可取消
func TestBooking_CancelFromInProgress(t *testing.T) {
	b := newTestBooking(BookingStatusInProgress)

	if err := b.Cancel(); err != ErrInvalidTransition {
		t.Errorf("期望ErrInvalidTransition，实际%v", err)
	}
}

// TestBooking_CancelOnCompleted 已完成取消返回AlreadyTerminal
func TestBooking_CancelOnCompleted(t *testing.T) {
	b := newTestBooking(BookingStatusCompleted)

	if err := b.Cancel(); err != ErrAlreadyTerminal {
		t.Errorf("期望ErrAlreadyTerminal，实际%v", err)
	}
}

// TestBooking_CancelTwice 重复取消返回AlreadyCancelled
func TestBooking_CancelTwice(t *testing.T) {
	b := newTestBooking(BookingStatusPending)

	if err := b.Cancel(); err != nil {
		t.Fatalf("首次取消失败: %v", err)
	}
	if err := b.Cancel(); err != ErrAlreadyCancelled {
		t.Errorf("期望ErrAlreadyCancelled，实际%v", err)
	}
}

// TestBooking_ConfirmAfterCancel 取消后不能再确认(状态不可回退)
func TestBooking_ConfirmAfterCancel(t *testing.T) {
	b := newTestBooking(BookingStatusPending)

	if err := b.Cancel(); err != nil {
		t.Fatalf("取消失败: %v", err)
	}
	if err := b.Confirm(); err != ErrInvalidTransition {
		t.Errorf("已取消的预约确认应失败，期望ErrInvalidTransition，实际%v", err)
	}
}

// TestBooking_ConfirmTwice 重复确认失败
func TestBooking_ConfirmTwice(t *testing.T) {
	b := newTestBooking(BookingStatusPending)

	if err := b.Confirm(); err != nil {
		t.Fatalf("首次确认失败: %v", err)
	}
	if err := b.Confirm(); err != ErrInvalidTransition {
		t.Errorf("期望ErrInvalidTransition，实际%v", err)
	}
}

// TestBookingStatus_IsActive 活跃状态判定(台账统计依据)
func TestBookingStatus_IsActive(t *testing.T) {
	cases := []struct {
		status BookingStatus
		active bool
	}{
		{BookingStatusPending, true},
		{BookingStatusConfirmed, true},
		{BookingStatusInProgress, true},
		{BookingStatusCompleted, false},
		{BookingStatusCancelled, false},
	}

	for _, c := range cases {
		if c.status.IsActive() != c.active {
			t.Errorf("状态%s的IsActive期望%v，实际%v", c.status, c.active, c.status.IsActive())
		}
	}
}

// TestBooking_VisitDateTruncated 到店日期截断到天
func TestBooking_VisitDateTruncated(t *testing.T) {
	b := newTestBooking(BookingStatusPending)

	if b.VisitDate.Hour() != 0 || b.VisitDate.Minute() != 0 || b.VisitDate.Second() != 0 {
		t.Errorf("到店日期应截断到天，实际%v", b.VisitDate)
	}
}

// TestBooking_IsOwnedBy 归属校验
func TestBooking_IsOwnedBy(t *testing.T) {
	b := newTestBooking(BookingStatusPending)

	if !b.IsOwnedBy(1) {
		t.Error("预约应属于顾客1")
	}
	if b.IsOwnedBy(2) {
		t.Error("预约不应属于顾客2")
	}

	// 游客预约无属主
	guest := NewBooking("BKG1767225600000002", nil, nil, time.Now(), nil)
	if guest.IsOwnedBy(1) {
		t.Error("游客预约不应属于任何顾客")
	}
}

// TestGenerateBookingNo 预约号格式
func TestGenerateBookingNo(t *testing.T) {
	no := GenerateBookingNo()

	if !strings.HasPrefix(no, "BKG") {
		t.Errorf("预约号应以BKG开头，实际%s", no)
	}
	if len(no) < 10 {
		t.Errorf("预约号长度异常: %s", no)
	}

	// 简单的唯一性抽查
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		n := GenerateBookingNo()
		if seen[n] {
			t.Fatalf("预约号重复: %s", n)
		}
		seen[n] = true
	}
}
