// Package client 提供客户管理业务逻辑
package client

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/EduRoDev/quantum-saas/internal/common/errors"
	"github.com/EduRoDev/quantum-saas/internal/common/logger"
	"github.com/EduRoDev/quantum-saas/internal/common/utils"
	"github.com/EduRoDev/quantum-saas/internal/models"
	"github.com/EduRoDev/quantum-saas/internal/repository"
)

// ClientService 客户服务
type ClientService struct {
	db         *gorm.DB
	clientRepo *repository.ClientRepository
}

// NewClientService 创建客户服务
func NewClientService(db *gorm.DB) *ClientService {
	return &ClientService{
		db:         db,
		clientRepo: repository.NewClientRepository(db),
	}
}

// CreateClientRequest 创建客户请求
type CreateClientRequest struct {
	Name           string     `json:"name" binding:"required"`
	LastName       string     `json:"last_name" binding:"required"`
	DocumentType   string     `json:"document_type" binding:"required"`
	DocumentNumber string     `json:"document_number" binding:"required"`
	Email          string     `json:"email" binding:"required"`
	Phone          *string    `json:"phone"`
	BirthDate      *time.Time `json:"birth_date"`
}

// UpdateClientRequest 更新客户请求
type UpdateClientRequest struct {
	Name      *string    `json:"name"`
	LastName  *string    `json:"last_name"`
	Email     *string    `json:"email"`
	Phone     *string    `json:"phone"`
	BirthDate *time.Time `json:"birth_date"`
}

// ClientInfo 客户信息
type ClientInfo struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	LastName       string     `json:"last_name"`
	DocumentType   string     `json:"document_type"`
	DocumentNumber string     `json:"document_number"`
	Email          string     `json:"email"`
	Phone          *string    `json:"phone,omitempty"`
	BirthDate      *time.Time `json:"birth_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// CreateClient 创建客户，邮箱唯一
func (s *ClientService) CreateClient(ctx context.Context, req *CreateClientRequest) (*ClientInfo, error) {
	if !utils.ValidateEmail(req.Email) {
		return nil, errors.ErrEmailInvalid
	}
	if !validDocumentType(req.DocumentType) {
		return nil, errors.ErrInvalidParams.WithMessage("无效的证件类型")
	}

	exists, err := s.clientRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if exists {
		return nil, errors.ErrClientExists
	}

	client := &models.Client{
		Name:           req.Name,
		LastName:       req.LastName,
		DocumentType:   req.DocumentType,
		DocumentNumber: req.DocumentNumber,
		Email:          req.Email,
		Phone:          req.Phone,
		BirthDate:      req.BirthDate,
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("创建客户成功", logger.ClientID(client.ID), logger.String("email", client.Email))
	return convertClientInfo(client), nil
}

// GetClient 获取客户详情
func (s *ClientService) GetClient(ctx context.Context, id int64) (*ClientInfo, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrClientNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return convertClientInfo(client), nil
}

// GetByEmail 按邮箱获取客户
func (s *ClientService) GetByEmail(ctx context.Context, email string) (*ClientInfo, error) {
	client, err := s.clientRepo.GetByEmail(ctx, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrClientNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return convertClientInfo(client), nil
}

// UpdateClient 更新客户，证件信息不可变更
func (s *ClientService) UpdateClient(ctx context.Context, id int64, req *UpdateClientRequest) (*ClientInfo, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrClientNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	fields := make(map[string]interface{})
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.LastName != nil {
		fields["last_name"] = *req.LastName
	}
	if req.Email != nil && *req.Email != client.Email {
		if !utils.ValidateEmail(*req.Email) {
			return nil, errors.ErrEmailInvalid
		}
		exists, err := s.clientRepo.ExistsByEmail(ctx, *req.Email)
		if err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		if exists {
			return nil, errors.ErrClientExists
		}
		fields["email"] = *req.Email
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.BirthDate != nil {
		fields["birth_date"] = *req.BirthDate
	}

	if len(fields) > 0 {
		if err := s.clientRepo.UpdateFields(ctx, id, fields); err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
	}
	return s.GetClient(ctx, id)
}

// ListClients 分页查询客户列表
func (s *ClientService) ListClients(ctx context.Context, page, pageSize int, filters map[string]interface{}) ([]*ClientInfo, int64, error) {
	offset := (page - 1) * pageSize
	list, total, err := s.clientRepo.List(ctx, offset, pageSize, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}

	infos := make([]*ClientInfo, 0, len(list))
	for _, client := range list {
		infos = append(infos, convertClientInfo(client))
	}
	return infos, total, nil
}

// convertClientInfo 转换为客户信息
func convertClientInfo(client *models.Client) *ClientInfo {
	return &ClientInfo{
		ID:             client.ID,
		Name:           client.Name,
		LastName:       client.LastName,
		DocumentType:   client.DocumentType,
		DocumentNumber: client.DocumentNumber,
		Email:          client.Email,
		Phone:          client.Phone,
		BirthDate:      client.BirthDate,
		CreatedAt:      client.CreatedAt,
	}
}

// validDocumentType 校验证件类型
func validDocumentType(documentType string) bool {
	switch documentType {
	case models.DocumentTypeCC, models.DocumentTypeTI, models.DocumentTypeTE,
		models.DocumentTypePP, models.DocumentTypePPT, models.DocumentTypeNIT:
		return true
	}
	return false
}
