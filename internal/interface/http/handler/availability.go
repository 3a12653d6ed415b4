package handler

import (
	"sort"

	"github.com/gin-gonic/gin"

	appavailability "github.com/linwan/kimono-rental/internal/application/availability"
	"github.com/linwan/kimono-rental/internal/interface/http/dto"
	"github.com/linwan/kimono-rental/pkg/response"
)

// AvailabilityHandler 可用量HTTP处理器
// 公开接口,无需登录(顾客下单前查询剩余件数)
type AvailabilityHandler struct {
	queryUseCase *appavailability.QueryUseCase
}

// NewAvailabilityHandler 创建可用量处理器
func NewAvailabilityHandler(queryUseCase *appavailability.QueryUseCase) *AvailabilityHandler {
	return &AvailabilityHandler{queryUseCase: queryUseCase}
}

// Query 查询(门店,款式,日期)可用量
// @Summary      查询可用量
// @Description  返回指定日期的剩余可租件数(容量-活跃台账,下限0)
// @Tags         可用量
// @Produce      json
// @Param        store_id query int true "门店ID"
// @Param        garment_id query int true "款式ID"
// @Param        date query string true "日期(YYYY-MM-DD)"
// @Success      200 {object} response.Response{data=dto.AvailabilityResponse} "查询成功"
// @Failure      400 {object} response.Response "参数错误"
// @Router       /api/v1/availability [get]
func (h *AvailabilityHandler) Query(c *gin.Context) {
	var req dto.AvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	date, err := dto.ParseVisitDate(req.Date)
	if err != nil {
		response.ErrorWithCode(c, 40900, "日期格式错误,应为YYYY-MM-DD")
		return
	}

	available, err := h.queryUseCase.Available(c.Request.Context(), req.StoreID, req.GarmentID, date)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.AvailabilityResponse{
		StoreID:   req.StoreID,
		GarmentID: req.GarmentID,
		Date:      req.Date,
		Available: available,
	})
}

// QueryForPlan 查询套餐在各关联门店的可用量
// @Summary      查询套餐可用量
// @Description  按套餐关联的每个门店返回当日可租件数(门店ID升序)
// @Tags         可用量
// @Produce      json
// @Param        id path int true "套餐ID"
// @Param        date query string true "日期(YYYY-MM-DD)"
// @Success      200 {object} response.Response{data=dto.PlanAvailabilityResponse} "查询成功"
// @Failure      404 {object} response.Response "套餐不存在"
// @Router       /api/v1/plans/{id}/availability [get]
func (h *AvailabilityHandler) QueryForPlan(c *gin.Context) {
	planID, err := parseIDParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "套餐ID格式错误")
		return
	}

	var req dto.PlanAvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	date, err := dto.ParseVisitDate(req.Date)
	if err != nil {
		response.ErrorWithCode(c, 40900, "日期格式错误,应为YYYY-MM-DD")
		return
	}

	byStore, err := h.queryUseCase.AvailableForPlan(c.Request.Context(), planID, date)
	if err != nil {
		response.Error(c, err)
		return
	}

	// map遍历无序,按门店ID排序保证响应稳定
	stores := make([]dto.StoreSlots, 0, len(byStore))
	for storeID, available := range byStore {
		stores = append(stores, dto.StoreSlots{StoreID: storeID, Available: available})
	}
	sort.Slice(stores, func(i, j int) bool { return stores[i].StoreID < stores[j].StoreID })

	response.Success(c, &dto.PlanAvailabilityResponse{
		PlanID: planID,
		Date:   req.Date,
		Stores: stores,
	})
}

// Utilization 查询门店利用率
// @Summary      查询门店利用率
// @Description  从今天起的活跃占用占总容量的百分比
// @Tags         可用量
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "门店ID"
// @Success      200 {object} response.Response{data=dto.UtilizationResponse} "查询成功"
// @Router       /api/v1/merchant/stores/{id}/utilization [get]
func (h *AvailabilityHandler) Utilization(c *gin.Context) {
	storeID, err := parseIDParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "门店ID格式错误")
		return
	}

	utilization, err := h.queryUseCase.Utilization(c.Request.Context(), storeID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.UtilizationResponse{
		StoreID:     storeID,
		Utilization: utilization,
	})
}
