package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appbooking "github.com/linwan/kimono-rental/internal/application/booking"
	"github.com/linwan/kimono-rental/internal/interface/http/dto"
	"github.com/linwan/kimono-rental/internal/interface/http/middleware"
	"github.com/linwan/kimono-rental/pkg/response"
)

// BookingHandler 预约HTTP处理器
// 设计说明：
// 1. 创建接口挂OptionalAuth:游客无Token也能预约(customer_id为空)
// 2. 状态流转接口由应用层按Actor角色做细粒度授权,
//    Handler只负责组装Actor,不重复判权
type BookingHandler struct {
	createUseCase     *appbooking.CreateBookingUseCase
	transitionUseCase *appbooking.TransitionUseCase
	queryUseCase      *appbooking.QueryUseCase
}

// NewBookingHandler 创建预约处理器
func NewBookingHandler(
	createUseCase *appbooking.CreateBookingUseCase,
	transitionUseCase *appbooking.TransitionUseCase,
	queryUseCase *appbooking.QueryUseCase,
) *BookingHandler {
	return &BookingHandler{
		createUseCase:     createUseCase,
		transitionUseCase: transitionUseCase,
		queryUseCase:      queryUseCase,
	}
}

// actorFrom 从请求Context组装应用层Actor
func actorFrom(c *gin.Context) appbooking.Actor {
	return appbooking.Actor{
		UserID: middleware.GetUserID(c),
		Role:   middleware.GetRole(c),
	}
}

// Create 创建预约
// @Summary      创建预约
// @Description  多明细全量成功或全量失败;库存不足返回40001,准入排队超时返回40010
// @Tags         预约
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateBookingRequest true "预约信息"
// @Success      200 {object} response.Response{data=dto.CreateBookingResponse} "创建成功"
// @Failure      400 {object} response.Response "参数错误或库存不足"
// @Failure      503 {object} response.Response "系统繁忙"
// @Router       /api/v1/bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	visitDate, err := dto.ParseVisitDate(req.VisitDate)
	if err != nil {
		response.ErrorWithCode(c, 40900, "到店日期格式错误,应为YYYY-MM-DD")
		return
	}

	// 游客预约时customer_id为空
	var customerID *uint
	if uid := middleware.GetUserID(c); uid != 0 {
		customerID = &uid
	}

	items := make([]appbooking.CreateBookingItemRequest, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, appbooking.CreateBookingItemRequest{
			StoreID:   it.StoreID,
			PlanID:    it.PlanID,
			GarmentID: it.GarmentID,
			Quantity:  it.Quantity,
		})
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), &appbooking.CreateBookingRequest{
		CustomerID: customerID,
		VisitDate:  visitDate,
		Items:      items,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.CreateBookingResponse{
		BookingID: result.BookingID,
		BookingNo: result.BookingNo,
		Status:    result.Status,
		VisitDate: result.VisitDate,
	})
}

// Get 查询预约详情
// @Summary      查询预约详情
// @Description  顾客只能查自己的预约;商户/管理员可查名下预约
// @Tags         预约
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "预约ID"
// @Success      200 {object} response.Response{data=dto.BookingResponse} "查询成功"
// @Failure      403 {object} response.Response "无权访问"
// @Failure      404 {object} response.Response "预约不存在"
// @Router       /api/v1/bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	bookingID, err := parseIDParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "预约ID格式错误")
		return
	}

	b, err := h.queryUseCase.Get(c.Request.Context(), bookingID, actorFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToBookingResponse(b))
}

// GetByNo 按预约号查询(到店核验)
// @Summary      按预约号查询
// @Description  商户/管理员凭预约号核验到店顾客
// @Tags         预约
// @Produce      json
// @Security     BearerAuth
// @Param        booking_no path string true "预约号"
// @Success      200 {object} response.Response{data=dto.BookingResponse} "查询成功"
// @Failure      403 {object} response.Response "无权访问"
// @Failure      404 {object} response.Response "预约不存在"
// @Router       /api/v1/merchant/bookings/no/{booking_no} [get]
func (h *BookingHandler) GetByNo(c *gin.Context) {
	bookingNo := c.Param("booking_no")
	if bookingNo == "" {
		response.ErrorWithCode(c, 40900, "预约号不能为空")
		return
	}

	b, err := h.queryUseCase.GetByBookingNo(c.Request.Context(), bookingNo, actorFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToBookingResponse(b))
}

// ListMine 查询我的预约列表
// @Summary      我的预约列表
// @Tags         预约
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Success      200 {object} response.Response "查询成功"
// @Router       /api/v1/bookings [get]
func (h *BookingHandler) ListMine(c *gin.Context) {
	var req dto.ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	list, total, err := h.queryUseCase.ListMine(c.Request.Context(), actorFrom(c), req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.BookingResponse, 0, len(list))
	for _, b := range list {
		items = append(items, dto.ToBookingResponse(b))
	}
	response.SuccessWithPage(c, items, total, req.Page, req.PageSize)
}

// Confirm 确认预约
// @Summary      确认预约
// @Description  商户/管理员将待确认预约转为已确认
// @Tags         预约
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "预约ID"
// @Success      200 {object} response.Response{data=dto.BookingResponse} "确认成功"
// @Failure      400 {object} response.Response "状态不允许流转"
// @Failure      403 {object} response.Response "无权操作"
// @Router       /api/v1/merchant/bookings/{id}/confirm [post]
func (h *BookingHandler) Confirm(c *gin.Context) {
	bookingID, err := parseIDParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "预约ID格式错误")
		return
	}

	b, err := h.transitionUseCase.Confirm(c.Request.Context(), bookingID, actorFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToBookingResponse(b))
}

// Cancel 取消预约
// @Summary      取消预约
// @Description  待确认/已确认状态可取消;取消即释放当日库存占用
// @Tags         预约
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "预约ID"
// @Success      200 {object} response.Response{data=dto.BookingResponse} "取消成功"
// @Failure      400 {object} response.Response "状态不允许取消"
// @Failure      403 {object} response.Response "无权操作"
// @Router       /api/v1/bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	bookingID, err := parseIDParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "预约ID格式错误")
		return
	}

	b, err := h.transitionUseCase.Cancel(c.Request.Context(), bookingID, actorFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToBookingResponse(b))
}

// Advance 推进预约状态
// @Summary      推进预约状态
// @Description  已确认→租赁中→已完成,每次调用推进一步
// @Tags         预约
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "预约ID"
// @Success      200 {object} response.Response{data=dto.BookingResponse} "推进成功"
// @Failure      400 {object} response.Response "状态不允许推进"
// @Failure      403 {object} response.Response "无权操作"
// @Router       /api/v1/merchant/bookings/{id}/advance [post]
func (h *BookingHandler) Advance(c *gin.Context) {
	bookingID, err := parseIDParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "预约ID格式错误")
		return
	}

	b, err := h.transitionUseCase.Advance(c.Request.Context(), bookingID, actorFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToBookingResponse(b))
}

// parseIDParam 解析路径中的数字ID
func parseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
