// Package booking 提供预订相关的 HTTP Handler
package booking

import (
	"github.com/gin-gonic/gin"

	"github.com/EduRoDev/quantum-saas/internal/common/handler"
	"github.com/EduRoDev/quantum-saas/internal/common/response"
	bookingService "github.com/EduRoDev/quantum-saas/internal/service/booking"
)

// BookingHandler 预订处理器
type BookingHandler struct {
	bookingService *bookingService.BookingService
}

// NewBookingHandler 创建预订处理器
func NewBookingHandler(bookingSvc *bookingService.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingSvc,
	}
}

// CreateReservationRequest 创建预订请求
type CreateReservationRequest struct {
	RoomID   int64  `json:"room_id" binding:"required"`
	CheckIn  string `json:"check_in" binding:"required"`
	CheckOut string `json:"check_out" binding:"required"`
}

// UpdateReservationRequest 修改预订请求，room_id 省略时保持原房间
type UpdateReservationRequest struct {
	RoomID   *int64 `json:"room_id"`
	CheckIn  string `json:"check_in" binding:"required"`
	CheckOut string `json:"check_out" binding:"required"`
}

// CheckAvailability 查询房间可用性
// @Summary 查询房间在指定时段是否可预订
// @Tags 预订
// @Produce json
// @Param id path int true "房间ID"
// @Param check_in query string true "入住时间"
// @Param check_out query string true "退房时间"
// @Success 200 {object} response.Response{data=bookingService.AvailabilityInfo}
// @Router /api/v1/rooms/{id}/availability [get]
func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	roomID, ok := handler.ParseParamID(c, "id", "房间")
	if !ok {
		return
	}

	checkIn, checkOut, ok := handler.ParseRequiredStayRange(c)
	if !ok {
		return
	}

	info, err := h.bookingService.CheckAvailability(c.Request.Context(), roomID, checkIn, checkOut)
	handler.MustSucceed(c, err, info)
}

// CreateReservation 创建预订
// @Summary 创建预订
// @Tags 预订
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CreateReservationRequest true "请求参数"
// @Success 200 {object} response.Response{data=bookingService.ReservationInfo}
// @Router /api/v1/reservations [post]
func (h *BookingHandler) CreateReservation(c *gin.Context) {
	clientID, ok := handler.RequireClientID(c)
	if !ok {
		return
	}

	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	checkIn, err := handler.ParseDateTime(req.CheckIn)
	if err != nil {
		response.BadRequest(c, "无效的入住时间格式")
		return
	}
	checkOut, err := handler.ParseDateTime(req.CheckOut)
	if err != nil {
		response.BadRequest(c, "无效的退房时间格式")
		return
	}

	serviceReq := &bookingService.CreateReservationRequest{
		RoomID:   req.RoomID,
		ClientID: clientID,
		CheckIn:  checkIn,
		CheckOut: checkOut,
	}

	reservation, err := h.bookingService.CreateReservation(c.Request.Context(), serviceReq)
	handler.MustSucceed(c, err, reservation)
}

// GetReservation 获取预订详情
// @Summary 获取预订详情
// @Tags 预订
// @Produce json
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=bookingService.ReservationInfo}
// @Router /api/v1/reservations/{id} [get]
func (h *BookingHandler) GetReservation(c *gin.Context) {
	id, ok := handler.ParseParamID(c, "id", "预订")
	if !ok {
		return
	}

	reservation, err := h.bookingService.GetReservation(c.Request.Context(), id)
	handler.MustSucceed(c, err, reservation)
}

// GetByReservationNo 根据预订号获取预订
// @Summary 根据预订号获取预订
// @Tags 预订
// @Produce json
// @Param reservation_no path string true "预订号"
// @Success 200 {object} response.Response{data=bookingService.ReservationInfo}
// @Router /api/v1/reservations/no/{reservation_no} [get]
func (h *BookingHandler) GetByReservationNo(c *gin.Context) {
	reservationNo := c.Param("reservation_no")
	if reservationNo == "" {
		response.BadRequest(c, "预订号不能为空")
		return
	}

	reservation, err := h.bookingService.GetByReservationNo(c.Request.Context(), reservationNo)
	handler.MustSucceed(c, err, reservation)
}

// GetMyReservations 获取我的预订列表
// @Summary 获取当前客户的预订列表
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param status query string false "状态"
// @Success 200 {object} response.Response{data=[]bookingService.ReservationInfo}
// @Router /api/v1/reservations [get]
func (h *BookingHandler) GetMyReservations(c *gin.Context) {
	clientID, ok := handler.RequireClientID(c)
	if !ok {
		return
	}

	p := handler.BindPagination(c)
	status := c.Query("status")

	var statusPtr *string
	if status != "" {
		statusPtr = &status
	}

	reservations, total, err := h.bookingService.ListByClient(c.Request.Context(), clientID, p.Page, p.PageSize, statusPtr)
	handler.MustSucceedPage(c, err, reservations, total, p.Page, p.PageSize)
}

// UpdateReservation 修改预订
// @Summary 修改预订时段，可选换房
// @Tags 预订
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Param request body UpdateReservationRequest true "请求参数"
// @Success 200 {object} response.Response{data=bookingService.ReservationInfo}
// @Router /api/v1/reservations/{id} [put]
func (h *BookingHandler) UpdateReservation(c *gin.Context) {
	_, id, ok := handler.RequireClientAndParseID(c, "预订")
	if !ok {
		return
	}

	var req UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	checkIn, err := handler.ParseDateTime(req.CheckIn)
	if err != nil {
		response.BadRequest(c, "无效的入住时间格式")
		return
	}
	checkOut, err := handler.ParseDateTime(req.CheckOut)
	if err != nil {
		response.BadRequest(c, "无效的退房时间格式")
		return
	}

	reservation, err := h.bookingService.UpdateReservation(c.Request.Context(), id, &bookingService.UpdateReservationRequest{
		RoomID:   req.RoomID,
		CheckIn:  checkIn,
		CheckOut: checkOut,
	})
	handler.MustSucceed(c, err, reservation)
}

// CancelReservation 取消预订
// @Summary 取消预订
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=bookingService.ReservationInfo}
// @Router /api/v1/reservations/{id}/cancel [post]
func (h *BookingHandler) CancelReservation(c *gin.Context) {
	_, id, ok := handler.RequireClientAndParseID(c, "预订")
	if !ok {
		return
	}

	reservation, err := h.bookingService.CancelReservation(c.Request.Context(), id)
	handler.MustSucceed(c, err, reservation)
}
