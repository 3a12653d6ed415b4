package booking

import (
	"context"

	"github.com/linwan/kimono-rental/internal/domain/booking"
	apperrors "github.com/linwan/kimono-rental/pkg/errors"
)

// QueryUseCase 预约查询用例
type QueryUseCase struct {
	bookingRepo booking.Repository
}

// NewQueryUseCase 创建预约查询用例
func NewQueryUseCase(bookingRepo booking.Repository) *QueryUseCase {
	return &QueryUseCase{bookingRepo: bookingRepo}
}

// Get 查询预约详情
// 顾客只能看自己的预约;商户/管理员可看名下预约
func (uc *QueryUseCase) Get(ctx context.Context, bookingID uint, actor Actor) (*booking.Booking, error) {
	b, err := uc.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case "admin":
		return b, nil
	case "merchant":
		if b.MerchantID != nil && *b.MerchantID == actor.UserID {
			return b, nil
		}
	default:
		if b.IsOwnedBy(actor.UserID) {
			return b, nil
		}
	}
	return nil, apperrors.ErrForbidden
}

// GetByBookingNo 按预约号查询(到店核验场景,商户/管理员)
func (uc *QueryUseCase) GetByBookingNo(ctx context.Context, bookingNo string, actor Actor) (*booking.Booking, error) {
	if !actor.IsStaff() {
		return nil, apperrors.ErrForbidden
	}
	return uc.bookingRepo.FindByBookingNo(ctx, bookingNo)
}

// ListMine 查询当前顾客的预约列表(分页)
func (uc *QueryUseCase) ListMine(ctx context.Context, actor Actor, page, pageSize int) ([]*booking.Booking, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return uc.bookingRepo.ListByCustomer(ctx, actor.UserID, page, pageSize)
}
