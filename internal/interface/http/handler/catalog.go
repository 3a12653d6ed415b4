package handler

import (
	"github.com/gin-gonic/gin"

	appcatalog "github.com/linwan/kimono-rental/internal/application/catalog"
	"github.com/linwan/kimono-rental/internal/interface/http/dto"
	"github.com/linwan/kimono-rental/pkg/response"
)

// CatalogHandler 门店与款式目录HTTP处理器
// 写操作为管理员接口,列表查询公开
type CatalogHandler struct {
	manageUseCase *appcatalog.ManageCatalogUseCase
}

// NewCatalogHandler 创建目录处理器
func NewCatalogHandler(manageUseCase *appcatalog.ManageCatalogUseCase) *CatalogHandler {
	return &CatalogHandler{manageUseCase: manageUseCase}
}

// CreateStore 创建门店
// @Summary      创建门店
// @Tags         目录
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateStoreRequest true "门店信息"
// @Success      200 {object} response.Response{data=dto.StoreResponse} "创建成功"
// @Router       /api/v1/admin/stores [post]
func (h *CatalogHandler) CreateStore(c *gin.Context) {
	var req dto.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	s, err := h.manageUseCase.CreateStore(c.Request.Context(), req.Name, req.City)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.StoreResponse{
		ID:       s.ID,
		Name:     s.Name,
		City:     s.City,
		IsActive: s.IsActive,
	})
}

// SetStoreActive 门店开业/停业
// @Summary      设置门店营业状态
// @Description  停业门店不参与套餐区域匹配,已有预约照常履约
// @Tags         目录
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "门店ID"
// @Param        request body dto.SetStoreActiveRequest true "营业状态"
// @Success      200 {object} response.Response{data=dto.StoreResponse} "设置成功"
// @Failure      404 {object} response.Response "门店不存在"
// @Router       /api/v1/admin/stores/{id}/active [put]
func (h *CatalogHandler) SetStoreActive(c *gin.Context) {
	storeID, err := parseIDParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "门店ID格式错误")
		return
	}

	var req dto.SetStoreActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	s, err := h.manageUseCase.SetStoreActive(c.Request.Context(), storeID, req.IsActive)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.StoreResponse{
		ID:       s.ID,
		Name:     s.Name,
		City:     s.City,
		IsActive: s.IsActive,
	})
}

// ListStores 门店列表
// @Summary      门店列表
// @Tags         目录
// @Produce      json
// @Param        active_only query bool false "只看营业中门店" default(false)
// @Success      200 {object} response.Response{data=[]dto.StoreResponse} "查询成功"
// @Router       /api/v1/stores [get]
func (h *CatalogHandler) ListStores(c *gin.Context) {
	stores, err := h.manageUseCase.ListStores(c.Request.Context(), c.Query("active_only") == "true")
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]dto.StoreResponse, 0, len(stores))
	for _, s := range stores {
		list = append(list, dto.StoreResponse{
			ID:       s.ID,
			Name:     s.Name,
			City:     s.City,
			IsActive: s.IsActive,
		})
	}
	response.Success(c, list)
}

// CreateGarment 创建款式
// @Summary      创建和服款式
// @Tags         目录
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateGarmentRequest true "款式信息"
// @Success      200 {object} response.Response{data=dto.GarmentResponse} "创建成功"
// @Router       /api/v1/admin/garments [post]
func (h *CatalogHandler) CreateGarment(c *gin.Context) {
	var req dto.CreateGarmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	g, err := h.manageUseCase.CreateGarment(c.Request.Context(), req.Name, req.Color, req.Pattern, req.Season)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.GarmentResponse{
		ID:      g.ID,
		Name:    g.Name,
		Color:   g.Color,
		Pattern: g.Pattern,
		Season:  g.Season,
	})
}

// ListGarments 款式列表
// @Summary      和服款式列表
// @Tags         目录
// @Produce      json
// @Success      200 {object} response.Response{data=[]dto.GarmentResponse} "查询成功"
// @Router       /api/v1/garments [get]
func (h *CatalogHandler) ListGarments(c *gin.Context) {
	garments, err := h.manageUseCase.ListGarments(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]dto.GarmentResponse, 0, len(garments))
	for _, g := range garments {
		list = append(list, dto.GarmentResponse{
			ID:      g.ID,
			Name:    g.Name,
			Color:   g.Color,
			Pattern: g.Pattern,
			Season:  g.Season,
		})
	}
	response.Success(c, list)
}
