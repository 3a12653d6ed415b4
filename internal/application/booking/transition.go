package booking

import (
	"context"
	"log"

	"github.com/linwan/kimono-rental/internal/domain/booking"
	"github.com/linwan/kimono-rental/internal/infrastructure/event"
	apperrors "github.com/linwan/kimono-rental/pkg/errors"
	"github.com/linwan/kimono-rental/pkg/metrics"
)

// TransitionUseCase 预约状态流转用例
//
// 设计说明:
// 1. 合法性判断全部委托给领域对象(Confirm/Cancel/Advance),
//    用例只负责加载、鉴权、持久化和事件发布
// 2. 取消不需要显式"释放库存":台账只统计活跃状态,
//    状态写为Cancelled的那次UPDATE本身就是释放,天然原子
// 3. 状态更新不加键锁:流转只会减少或保持占用,不会造成超卖
type TransitionUseCase struct {
	bookingRepo booking.Repository
	publisher   event.Publisher
}

// NewTransitionUseCase 创建状态流转用例
func NewTransitionUseCase(bookingRepo booking.Repository, publisher event.Publisher) *TransitionUseCase {
	return &TransitionUseCase{
		bookingRepo: bookingRepo,
		publisher:   publisher,
	}
}

// Confirm 确认预约(Pending → Confirmed)
// 商户或管理员操作
func (uc *TransitionUseCase) Confirm(ctx context.Context, bookingID uint, actor Actor) (*booking.Booking, error) {
	b, err := uc.loadForStaff(ctx, bookingID, actor)
	if err != nil {
		return nil, err
	}

	if err := b.Confirm(); err != nil {
		return nil, err
	}
	if err := uc.bookingRepo.Update(ctx, b); err != nil {
		return nil, err
	}

	uc.publisher.PublishBookingEvent(ctx, event.RouteBookingConfirmed, event.NewBookingEvent(b))
	log.Printf("✓ 预约已确认: %s", b.BookingNo)
	return b, nil
}

// Cancel 取消预约
// 顾客只能取消自己的预约;商户/管理员可取消名下预约
// 合法前置状态为Pending/Confirmed,已开始的预约不可取消
func (uc *TransitionUseCase) Cancel(ctx context.Context, bookingID uint, actor Actor) (*booking.Booking, error) {
	b, err := uc.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := uc.authorizeCancel(b, actor); err != nil {
		return nil, err
	}

	if err := b.Cancel(); err != nil {
		return nil, err
	}
	if err := uc.bookingRepo.Update(ctx, b); err != nil {
		return nil, err
	}

	metrics.IncCounter(metrics.BookingsCancelledTotal)
	uc.publisher.PublishBookingEvent(ctx, event.RouteBookingCancelled, event.NewBookingEvent(b))
	log.Printf("✓ 预约已取消: %s (占用随状态变更即时释放)", b.BookingNo)
	return b, nil
}

// Advance 推进预约(Confirmed → InProgress → Completed)
// 门店操作:顾客到店取衣、归还完成
func (uc *TransitionUseCase) Advance(ctx context.Context, bookingID uint, actor Actor) (*booking.Booking, error) {
	b, err := uc.loadForStaff(ctx, bookingID, actor)
	if err != nil {
		return nil, err
	}

	if err := b.Advance(); err != nil {
		return nil, err
	}
	if err := uc.bookingRepo.Update(ctx, b); err != nil {
		return nil, err
	}

	if b.Status == booking.BookingStatusCompleted {
		uc.publisher.PublishBookingEvent(ctx, event.RouteBookingCompleted, event.NewBookingEvent(b))
	}
	log.Printf("✓ 预约已推进: %s -> %s", b.BookingNo, b.Status)
	return b, nil
}

// loadForStaff 加载预约并校验商户/管理员权限
func (uc *TransitionUseCase) loadForStaff(ctx context.Context, bookingID uint, actor Actor) (*booking.Booking, error) {
	b, err := uc.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if actor.Role == "admin" {
		return b, nil
	}
	if actor.Role == "merchant" && b.MerchantID != nil && *b.MerchantID == actor.UserID {
		return b, nil
	}
	return nil, apperrors.ErrForbidden
}

// authorizeCancel 取消权限:本人、归属商户或管理员
// 游客预约(CustomerID为空)只能由商户/管理员取消
func (uc *TransitionUseCase) authorizeCancel(b *booking.Booking, actor Actor) error {
	switch actor.Role {
	case "admin":
		return nil
	case "merchant":
		if b.MerchantID != nil && *b.MerchantID == actor.UserID {
			return nil
		}
	default:
		if b.IsOwnedBy(actor.UserID) {
			return nil
		}
	}
	return apperrors.ErrForbidden
}
