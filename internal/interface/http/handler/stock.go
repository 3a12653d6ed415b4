package handler

import (
	"github.com/gin-gonic/gin"

	appstock "github.com/linwan/kimono-rental/internal/application/stock"
	"github.com/linwan/kimono-rental/internal/interface/http/dto"
	"github.com/linwan/kimono-rental/pkg/response"
)

// StockHandler 库存HTTP处理器(商家侧)
type StockHandler struct {
	manageUseCase *appstock.ManageStockUseCase
}

// NewStockHandler 创建库存处理器
func NewStockHandler(manageUseCase *appstock.ManageStockUseCase) *StockHandler {
	return &StockHandler{manageUseCase: manageUseCase}
}

// SetCapacity 设置容量
// @Summary      设置库存容量
// @Description  幂等upsert;容量0表示该店暂不提供此款式
// @Tags         库存
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.SetCapacityRequest true "容量设置"
// @Success      200 {object} response.Response{data=dto.CapacityResponse} "设置成功"
// @Failure      404 {object} response.Response "门店或款式不存在"
// @Router       /api/v1/merchant/stock [put]
func (h *StockHandler) SetCapacity(c *gin.Context) {
	var req dto.SetCapacityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	if err := h.manageUseCase.SetCapacity(c.Request.Context(), req.StoreID, req.GarmentID, req.Quantity); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.CapacityResponse{
		StoreID:   req.StoreID,
		GarmentID: req.GarmentID,
		Quantity:  req.Quantity,
	})
}

// ListByStore 查询门店库存
// @Summary      查询门店全部库存记录
// @Tags         库存
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "门店ID"
// @Success      200 {object} response.Response{data=[]dto.CapacityResponse} "查询成功"
// @Failure      404 {object} response.Response "门店不存在"
// @Router       /api/v1/merchant/stores/{id}/stock [get]
func (h *StockHandler) ListByStore(c *gin.Context) {
	storeID, err := parseIDParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "门店ID格式错误")
		return
	}

	records, err := h.manageUseCase.ListByStore(c.Request.Context(), storeID)
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]dto.CapacityResponse, 0, len(records))
	for _, r := range records {
		list = append(list, dto.ToCapacityResponse(r))
	}
	response.Success(c, list)
}
