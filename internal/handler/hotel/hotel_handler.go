// Package hotel 提供酒店和房间管理的 HTTP Handler
package hotel

import (
	"github.com/gin-gonic/gin"

	"github.com/EduRoDev/quantum-saas/internal/common/handler"
	"github.com/EduRoDev/quantum-saas/internal/common/response"
	hotelService "github.com/EduRoDev/quantum-saas/internal/service/hotel"
)

// HotelHandler 酒店处理器
type HotelHandler struct {
	hotelService *hotelService.HotelService
}

// NewHotelHandler 创建酒店处理器
func NewHotelHandler(hotelSvc *hotelService.HotelService) *HotelHandler {
	return &HotelHandler{
		hotelService: hotelSvc,
	}
}

// CreateHotel 创建酒店
// @Summary 创建酒店
// @Tags 酒店
// @Accept json
// @Produce json
// @Param request body hotelService.CreateHotelRequest true "请求参数"
// @Success 200 {object} response.Response{data=hotelService.HotelInfo}
// @Router /api/v1/hotels [post]
func (h *HotelHandler) CreateHotel(c *gin.Context) {
	var req hotelService.CreateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	hotel, err := h.hotelService.CreateHotel(c.Request.Context(), &req)
	handler.MustSucceed(c, err, hotel)
}

// GetHotel 获取酒店详情
// @Summary 获取酒店详情，含房间列表
// @Tags 酒店
// @Produce json
// @Param id path int true "酒店ID"
// @Success 200 {object} response.Response{data=hotelService.HotelInfo}
// @Router /api/v1/hotels/{id} [get]
func (h *HotelHandler) GetHotel(c *gin.Context) {
	id, ok := handler.ParseParamID(c, "id", "酒店")
	if !ok {
		return
	}

	hotel, err := h.hotelService.GetHotel(c.Request.Context(), id)
	handler.MustSucceed(c, err, hotel)
}

// ListHotels 获取酒店列表
// @Summary 获取酒店列表
// @Tags 酒店
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param name query string false "名称"
// @Param type query string false "类型"
// @Param country query string false "国家"
// @Param city query string false "城市"
// @Success 200 {object} response.Response{data=[]hotelService.HotelInfo}
// @Router /api/v1/hotels [get]
func (h *HotelHandler) ListHotels(c *gin.Context) {
	p := handler.BindPagination(c)

	filters := make(map[string]interface{})
	for _, key := range []string{"name", "type", "country", "city"} {
		if value := c.Query(key); value != "" {
			filters[key] = value
		}
	}

	hotels, total, err := h.hotelService.ListHotels(c.Request.Context(), p.Page, p.PageSize, filters)
	handler.MustSucceedPage(c, err, hotels, total, p.Page, p.PageSize)
}

// UpdateHotel 更新酒店
// @Summary 更新酒店
// @Tags 酒店
// @Accept json
// @Produce json
// @Param id path int true "酒店ID"
// @Param request body hotelService.UpdateHotelRequest true "请求参数"
// @Success 200 {object} response.Response{data=hotelService.HotelInfo}
// @Router /api/v1/hotels/{id} [put]
func (h *HotelHandler) UpdateHotel(c *gin.Context) {
	id, ok := handler.ParseParamID(c, "id", "酒店")
	if !ok {
		return
	}

	var req hotelService.UpdateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	hotel, err := h.hotelService.UpdateHotel(c.Request.Context(), id, &req)
	handler.MustSucceed(c, err, hotel)
}

// DeleteHotel 删除酒店
// @Summary 删除酒店，存在房间时拒绝
// @Tags 酒店
// @Produce json
// @Param id path int true "酒店ID"
// @Success 200 {object} response.Response
// @Router /api/v1/hotels/{id} [delete]
func (h *HotelHandler) DeleteHotel(c *gin.Context) {
	id, ok := handler.ParseParamID(c, "id", "酒店")
	if !ok {
		return
	}

	handler.MustSucceed(c, h.hotelService.DeleteHotel(c.Request.Context(), id), nil)
}
