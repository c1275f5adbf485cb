// Package client 提供客户管理的 HTTP Handler
package client

import (
	"github.com/gin-gonic/gin"

	"github.com/EduRoDev/quantum-saas/internal/common/handler"
	"github.com/EduRoDev/quantum-saas/internal/common/response"
	clientService "github.com/EduRoDev/quantum-saas/internal/service/client"
)

// ClientHandler 客户处理器
type ClientHandler struct {
	clientService *clientService.ClientService
}

// NewClientHandler 创建客户处理器
func NewClientHandler(clientSvc *clientService.ClientService) *ClientHandler {
	return &ClientHandler{
		clientService: clientSvc,
	}
}

// CreateClient 创建客户
// @Summary 创建客户
// @Tags 客户
// @Accept json
// @Produce json
// @Param request body clientService.CreateClientRequest true "请求参数"
// @Success 200 {object} response.Response{data=clientService.ClientInfo}
// @Router /api/v1/clients [post]
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req clientService.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), &req)
	handler.MustSucceed(c, err, client)
}

// GetClient 获取客户详情
// @Summary 获取客户详情
// @Tags 客户
// @Produce json
// @Param id path int true "客户ID"
// @Success 200 {object} response.Response{data=clientService.ClientInfo}
// @Router /api/v1/clients/{id} [get]
func (h *ClientHandler) GetClient(c *gin.Context) {
	id, ok := handler.ParseParamID(c, "id", "客户")
	if !ok {
		return
	}

	client, err := h.clientService.GetClient(c.Request.Context(), id)
	handler.MustSucceed(c, err, client)
}

// GetMyProfile 获取当前客户资料
// @Summary 获取当前客户资料
// @Tags 客户
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=clientService.ClientInfo}
// @Router /api/v1/clients/me [get]
func (h *ClientHandler) GetMyProfile(c *gin.Context) {
	clientID, ok := handler.RequireClientID(c)
	if !ok {
		return
	}

	client, err := h.clientService.GetClient(c.Request.Context(), clientID)
	handler.MustSucceed(c, err, client)
}

// ListClients 获取客户列表
// @Summary 获取客户列表
// @Tags 客户
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param name query string false "姓名"
// @Param email query string false "邮箱"
// @Param document_type query string false "证件类型"
// @Success 200 {object} response.Response{data=[]clientService.ClientInfo}
// @Router /api/v1/clients [get]
func (h *ClientHandler) ListClients(c *gin.Context) {
	p := handler.BindPagination(c)

	filters := make(map[string]interface{})
	for _, key := range []string{"name", "email", "document_type", "document_number"} {
		if value := c.Query(key); value != "" {
			filters[key] = value
		}
	}

	clients, total, err := h.clientService.ListClients(c.Request.Context(), p.Page, p.PageSize, filters)
	handler.MustSucceedPage(c, err, clients, total, p.Page, p.PageSize)
}

// UpdateClient 更新客户
// @Summary 更新客户
// @Tags 客户
// @Accept json
// @Produce json
// @Param id path int true "客户ID"
// @Param request body clientService.UpdateClientRequest true "请求参数"
// @Success 200 {object} response.Response{data=clientService.ClientInfo}
// @Router /api/v1/clients/{id} [put]
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	id, ok := handler.ParseParamID(c, "id", "客户")
	if !ok {
		return
	}

	var req clientService.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), id, &req)
	handler.MustSucceed(c, err, client)
}
