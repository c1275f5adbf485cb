package hotel

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/EduRoDev/quantum-saas/internal/common/handler"
	"github.com/EduRoDev/quantum-saas/internal/common/response"
	hotelService "github.com/EduRoDev/quantum-saas/internal/service/hotel"
)

// RoomHandler 房间处理器
type RoomHandler struct {
	roomService *hotelService.RoomService
}

// NewRoomHandler 创建房间处理器
func NewRoomHandler(roomSvc *hotelService.RoomService) *RoomHandler {
	return &RoomHandler{
		roomService: roomSvc,
	}
}

// CreateRoom 创建房间
// @Summary 创建房间
// @Tags 房间
// @Accept json
// @Produce json
// @Param request body hotelService.CreateRoomRequest true "请求参数"
// @Success 200 {object} response.Response{data=hotelService.RoomInfo}
// @Router /api/v1/rooms [post]
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req hotelService.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	room, err := h.roomService.CreateRoom(c.Request.Context(), &req)
	handler.MustSucceed(c, err, room)
}

// GetRoom 获取房间详情
// @Summary 获取房间详情
// @Tags 房间
// @Produce json
// @Param id path int true "房间ID"
// @Success 200 {object} response.Response{data=hotelService.RoomInfo}
// @Router /api/v1/rooms/{id} [get]
func (h *RoomHandler) GetRoom(c *gin.Context) {
	id, ok := handler.ParseParamID(c, "id", "房间")
	if !ok {
		return
	}

	room, err := h.roomService.GetRoom(c.Request.Context(), id)
	handler.MustSucceed(c, err, room)
}

// ListRooms 获取房间列表
// @Summary 获取房间列表
// @Tags 房间
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param hotel_id query int false "酒店ID"
// @Param status query string false "状态"
// @Param max_price query number false "最高价格"
// @Param min_capacity query int false "最小容量"
// @Success 200 {object} response.Response{data=[]hotelService.RoomInfo}
// @Router /api/v1/rooms [get]
func (h *RoomHandler) ListRooms(c *gin.Context) {
	p := handler.BindPagination(c)

	filters := make(map[string]interface{})
	if hotelID, ok := handler.ParseQueryID(c, "hotel_id", "酒店"); !ok {
		return
	} else if hotelID != nil {
		filters["hotel_id"] = *hotelID
	}
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}
	if maxPrice := c.Query("max_price"); maxPrice != "" {
		value, err := strconv.ParseFloat(maxPrice, 64)
		if err != nil {
			response.BadRequest(c, "无效的价格")
			return
		}
		filters["max_price"] = value
	}
	if minCapacity := c.Query("min_capacity"); minCapacity != "" {
		value, err := strconv.Atoi(minCapacity)
		if err != nil {
			response.BadRequest(c, "无效的容量")
			return
		}
		filters["min_capacity"] = value
	}

	rooms, total, err := h.roomService.ListRooms(c.Request.Context(), p.Page, p.PageSize, filters)
	handler.MustSucceedPage(c, err, rooms, total, p.Page, p.PageSize)
}

// ListFreeRooms 获取酒店的空闲房间
// @Summary 获取酒店的空闲房间
// @Tags 房间
// @Produce json
// @Param id path int true "酒店ID"
// @Success 200 {object} response.Response{data=[]hotelService.RoomInfo}
// @Router /api/v1/hotels/{id}/rooms/free [get]
func (h *RoomHandler) ListFreeRooms(c *gin.Context) {
	hotelID, ok := handler.ParseParamID(c, "id", "酒店")
	if !ok {
		return
	}

	rooms, err := h.roomService.ListFreeByHotel(c.Request.Context(), hotelID)
	handler.MustSucceed(c, err, rooms)
}

// UpdateRoom 更新房间
// @Summary 更新房间
// @Tags 房间
// @Accept json
// @Produce json
// @Param id path int true "房间ID"
// @Param request body hotelService.UpdateRoomRequest true "请求参数"
// @Success 200 {object} response.Response{data=hotelService.RoomInfo}
// @Router /api/v1/rooms/{id} [put]
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	id, ok := handler.ParseParamID(c, "id", "房间")
	if !ok {
		return
	}

	var req hotelService.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	room, err := h.roomService.UpdateRoom(c.Request.Context(), id, &req)
	handler.MustSucceed(c, err, room)
}

// DeleteRoom 删除房间
// @Summary 删除房间，存在预订记录时拒绝
// @Tags 房间
// @Produce json
// @Param id path int true "房间ID"
// @Success 200 {object} response.Response
// @Router /api/v1/rooms/{id} [delete]
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	id, ok := handler.ParseParamID(c, "id", "房间")
	if !ok {
		return
	}

	handler.MustSucceed(c, h.roomService.DeleteRoom(c.Request.Context(), id), nil)
}
