package handler

import (
	"github.com/gin-gonic/gin"

	appplan "github.com/linwan/kimono-rental/internal/application/plan"
	"github.com/linwan/kimono-rental/internal/interface/http/dto"
	"github.com/linwan/kimono-rental/internal/interface/http/middleware"
	"github.com/linwan/kimono-rental/pkg/response"
)

// PlanHandler 套餐HTTP处理器
// 商家侧接口(发布/重连/批量操作)挂RequireRole("merchant","admin"),
// 详情查询为公开接口
type PlanHandler struct {
	publishUseCase *appplan.PublishPlanUseCase
	relinkUseCase  *appplan.RelinkPlanUseCase
	batchUseCase   *appplan.BatchOpsUseCase
	queryUseCase   *appplan.QueryUseCase
}

// NewPlanHandler 创建套餐处理器
func NewPlanHandler(
	publishUseCase *appplan.PublishPlanUseCase,
	relinkUseCase *appplan.RelinkPlanUseCase,
	batchUseCase *appplan.BatchOpsUseCase,
	queryUseCase *appplan.QueryUseCase,
) *PlanHandler {
	return &PlanHandler{
		publishUseCase: publishUseCase,
		relinkUseCase:  relinkUseCase,
		batchUseCase:   batchUseCase,
		queryUseCase:   queryUseCase,
	}
}

// Publish 发布套餐
// @Summary      发布套餐
// @Description  创建套餐并按区域关键词完成首次门店关联;slug重复返回40007
// @Tags         套餐
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.PublishPlanRequest true "套餐信息"
// @Success      200 {object} response.Response{data=dto.PublishPlanResponse} "发布成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      409 {object} response.Response "slug已存在"
// @Router       /api/v1/merchant/plans [post]
func (h *PlanHandler) Publish(c *gin.Context) {
	var req dto.PublishPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.publishUseCase.Execute(c.Request.Context(), &appplan.PublishPlanRequest{
		Slug:          req.Slug,
		Name:          req.Name,
		Price:         req.Price,
		DurationHours: req.DurationHours,
		Region:        req.Region,
		GarmentID:     req.GarmentID,
		MerchantID:    middleware.MustGetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.PublishPlanResponse{
		PlanID:   result.PlanID,
		Slug:     result.Slug,
		StoreIDs: result.StoreIDs,
	})
}

// Get 查询套餐详情
// @Summary      查询套餐详情
// @Tags         套餐
// @Produce      json
// @Param        id path int true "套餐ID"
// @Success      200 {object} response.Response{data=dto.PlanResponse} "查询成功"
// @Failure      404 {object} response.Response "套餐不存在"
// @Router       /api/v1/plans/{id} [get]
func (h *PlanHandler) Get(c *gin.Context) {
	planID, err := parseIDParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "套餐ID格式错误")
		return
	}

	detail, err := h.queryUseCase.Get(c.Request.Context(), planID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToPlanResponse(detail.Plan))
}

// Relink 重连套餐门店关联
// @Summary      重连套餐门店关联
// @Description  默认幂等补链(保留手工关联);resync=true时破坏式重建,手工关联会被清除
// @Tags         套餐
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "套餐ID"
// @Param        resync query bool false "是否破坏式重建" default(false)
// @Success      200 {object} response.Response{data=dto.RelinkPlanResponse} "重连成功"
// @Failure      404 {object} response.Response "套餐不存在"
// @Router       /api/v1/merchant/plans/{id}/relink [post]
func (h *PlanHandler) Relink(c *gin.Context) {
	planID, err := parseIDParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "套餐ID格式错误")
		return
	}

	var result *appplan.RelinkResponse
	if c.Query("resync") == "true" {
		result, err = h.relinkUseCase.Resync(c.Request.Context(), planID)
	} else {
		result, err = h.relinkUseCase.Execute(c.Request.Context(), planID)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.RelinkPlanResponse{
		PlanID:   result.PlanID,
		StoreIDs: result.StoreIDs,
	})
}

// BatchSetActive 批量上架/下架
// @Summary      批量上架/下架套餐
// @Description  全部成功或全部失败;含他人套餐返回40006
// @Tags         套餐
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.BatchActiveRequest true "批量操作"
// @Success      200 {object} response.Response{data=dto.BatchOpResponse} "操作成功"
// @Failure      403 {object} response.Response "包含他人套餐"
// @Router       /api/v1/merchant/plans/batch-active [post]
func (h *PlanHandler) BatchSetActive(c *gin.Context) {
	var req dto.BatchActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.batchUseCase.SetActive(c.Request.Context(), middleware.MustGetUserID(c), req.PlanIDs, req.IsActive)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.BatchOpResponse{Updated: result.Updated})
}

// BatchSetTheme 批量设置主题
// @Summary      批量设置套餐主题
// @Description  theme_id为null表示清除主题;主题不存在或停用返回40405
// @Tags         套餐
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.BatchThemeRequest true "批量操作"
// @Success      200 {object} response.Response{data=dto.BatchOpResponse} "操作成功"
// @Failure      404 {object} response.Response "主题不存在"
// @Router       /api/v1/merchant/plans/batch-theme [post]
func (h *PlanHandler) BatchSetTheme(c *gin.Context) {
	var req dto.BatchThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.batchUseCase.SetTheme(c.Request.Context(), middleware.MustGetUserID(c), req.PlanIDs, req.ThemeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.BatchOpResponse{Updated: result.Updated})
}

// CreateTheme 创建主题
// @Summary      创建套餐主题
// @Tags         套餐
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateThemeRequest true "主题信息"
// @Success      200 {object} response.Response{data=dto.ThemeResponse} "创建成功"
// @Router       /api/v1/merchant/themes [post]
func (h *PlanHandler) CreateTheme(c *gin.Context) {
	var req dto.CreateThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	t, err := h.batchUseCase.CreateTheme(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.ThemeResponse{
		ID:       t.ID,
		Name:     t.Name,
		IsActive: t.IsActive,
	})
}
