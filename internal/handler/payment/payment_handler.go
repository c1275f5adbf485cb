// Package payment 提供支付相关的 HTTP Handler
package payment

import (
	"github.com/gin-gonic/gin"

	"github.com/EduRoDev/quantum-saas/internal/common/handler"
	"github.com/EduRoDev/quantum-saas/internal/common/response"
	paymentService "github.com/EduRoDev/quantum-saas/internal/service/payment"
)

// PaymentHandler 支付处理器
type PaymentHandler struct {
	paymentService *paymentService.PaymentService
}

// NewPaymentHandler 创建支付处理器
func NewPaymentHandler(paymentSvc *paymentService.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentSvc,
	}
}

// CreatePaymentRequest 创建支付请求
type CreatePaymentRequest struct {
	ReservationID int64   `json:"reservation_id" binding:"required"`
	RoomID        int64   `json:"room_id" binding:"required"`
	Amount        float64 `json:"amount" binding:"required"`
	Method        string  `json:"method" binding:"required"`
}

// GatewayCallbackRequest 网关确认回调请求
type GatewayCallbackRequest struct {
	PaymentNo     string `json:"payment_no" binding:"required"`
	TransactionID string `json:"transaction_id" binding:"required"`
}

// CreatePayment 创建支付
// @Summary 创建支付单
// @Tags 支付
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CreatePaymentRequest true "请求参数"
// @Success 200 {object} response.Response{data=paymentService.PaymentInfo}
// @Router /api/v1/payments [post]
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	if _, ok := handler.RequireClientID(c); !ok {
		return
	}

	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	payment, err := h.paymentService.CreatePayment(c.Request.Context(), &paymentService.CreatePaymentRequest{
		ReservationID: req.ReservationID,
		RoomID:        req.RoomID,
		Amount:        req.Amount,
		Method:        req.Method,
	})
	handler.MustSucceed(c, err, payment)
}

// GatewayCallback 网关确认回调
// @Summary 支付网关确认回调
// @Tags 支付
// @Accept json
// @Produce json
// @Param request body GatewayCallbackRequest true "请求参数"
// @Success 200 {object} response.Response
// @Router /api/v1/payments/callback [post]
func (h *PaymentHandler) GatewayCallback(c *gin.Context) {
	var req GatewayCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	err := h.paymentService.ConfirmPayment(c.Request.Context(), req.PaymentNo, req.TransactionID)
	handler.MustSucceed(c, err, nil)
}

// GetPayment 获取支付详情
// @Summary 获取支付详情
// @Tags 支付
// @Produce json
// @Security Bearer
// @Param id path int true "支付ID"
// @Success 200 {object} response.Response{data=paymentService.PaymentInfo}
// @Router /api/v1/payments/{id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	_, id, ok := handler.RequireClientAndParseID(c, "支付")
	if !ok {
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), id)
	handler.MustSucceed(c, err, payment)
}

// GetByPaymentNo 根据支付单号获取支付
// @Summary 根据支付单号获取支付
// @Tags 支付
// @Produce json
// @Security Bearer
// @Param payment_no path string true "支付单号"
// @Success 200 {object} response.Response{data=paymentService.PaymentInfo}
// @Router /api/v1/payments/no/{payment_no} [get]
func (h *PaymentHandler) GetByPaymentNo(c *gin.Context) {
	if _, ok := handler.RequireClientID(c); !ok {
		return
	}

	paymentNo := c.Param("payment_no")
	if paymentNo == "" {
		response.BadRequest(c, "支付单号不能为空")
		return
	}

	payment, err := h.paymentService.GetByPaymentNo(c.Request.Context(), paymentNo)
	handler.MustSucceed(c, err, payment)
}

// ListMyPayments 获取我的支付列表
// @Summary 获取当前客户的支付列表
// @Tags 支付
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param status query string false "状态"
// @Success 200 {object} response.Response{data=[]paymentService.PaymentInfo}
// @Router /api/v1/payments [get]
func (h *PaymentHandler) ListMyPayments(c *gin.Context) {
	clientID, ok := handler.RequireClientID(c)
	if !ok {
		return
	}

	p := handler.BindPagination(c)
	filters := map[string]interface{}{"client_id": clientID}
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}

	payments, total, err := h.paymentService.ListPayments(c.Request.Context(), p.Page, p.PageSize, filters)
	handler.MustSucceedPage(c, err, payments, total, p.Page, p.PageSize)
}

// ListByReservation 获取预订的支付记录
// @Summary 获取预订的全部支付记录
// @Tags 支付
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=[]paymentService.PaymentInfo}
// @Router /api/v1/reservations/{id}/payments [get]
func (h *PaymentHandler) ListByReservation(c *gin.Context) {
	_, id, ok := handler.RequireClientAndParseID(c, "预订")
	if !ok {
		return
	}

	payments, err := h.paymentService.ListByReservation(c.Request.Context(), id)
	handler.MustSucceed(c, err, payments)
}

// CancelPayment 取消支付
// @Summary 撤销已确认的支付并级联取消预订
// @Tags 支付
// @Produce json
// @Security Bearer
// @Param id path int true "支付ID"
// @Success 200 {object} response.Response{data=paymentService.PaymentInfo}
// @Router /api/v1/payments/{id}/cancel [post]
func (h *PaymentHandler) CancelPayment(c *gin.Context) {
	_, id, ok := handler.RequireClientAndParseID(c, "支付")
	if !ok {
		return
	}

	payment, err := h.paymentService.CancelPayment(c.Request.Context(), id)
	handler.MustSucceed(c, err, payment)
}

// RefundPayment 退款
// @Summary 退款
// @Tags 支付
// @Produce json
// @Security Bearer
// @Param id path int true "支付ID"
// @Success 200 {object} response.Response{data=paymentService.PaymentInfo}
// @Router /api/v1/payments/{id}/refund [post]
func (h *PaymentHandler) RefundPayment(c *gin.Context) {
	_, id, ok := handler.RequireClientAndParseID(c, "支付")
	if !ok {
		return
	}

	payment, err := h.paymentService.RefundPayment(c.Request.Context(), id)
	handler.MustSucceed(c, err, payment)
}
