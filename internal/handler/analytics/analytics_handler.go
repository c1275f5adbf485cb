// Package analytics 提供预测分析的 HTTP Handler
package analytics

import (
	"github.com/gin-gonic/gin"

	"github.com/EduRoDev/quantum-saas/internal/common/handler"
	analyticsService "github.com/EduRoDev/quantum-saas/internal/service/analytics"
)

// AnalyticsHandler 预测分析处理器
type AnalyticsHandler struct {
	analyticsService *analyticsService.AnalyticsService
}

// NewAnalyticsHandler 创建预测分析处理器
func NewAnalyticsHandler(analyticsSvc *analyticsService.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsSvc,
	}
}

// Predict 预测预订结果
// @Summary 提交预订样本到外部模型服务并返回预测
// @Tags 分析
// @Produce json
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=analyticsService.PredictionResult}
// @Router /api/v1/reservations/{id}/predict [post]
func (h *AnalyticsHandler) Predict(c *gin.Context) {
	id, ok := handler.ParseParamID(c, "id", "预订")
	if !ok {
		return
	}

	result, err := h.analyticsService.Predict(c.Request.Context(), id)
	handler.MustSucceed(c, err, result)
}

// GetHotelStats 获取酒店预订统计
// @Summary 获取酒店维度的预订统计
// @Tags 分析
// @Produce json
// @Param id path int true "酒店ID"
// @Success 200 {object} response.Response{data=analyticsService.HotelStats}
// @Router /api/v1/hotels/{id}/stats [get]
func (h *AnalyticsHandler) GetHotelStats(c *gin.Context) {
	id, ok := handler.ParseParamID(c, "id", "酒店")
	if !ok {
		return
	}

	stats, err := h.analyticsService.GetHotelStats(c.Request.Context(), id)
	handler.MustSucceed(c, err, stats)
}
