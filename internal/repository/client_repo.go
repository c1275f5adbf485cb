// Package repository 提供数据访问层
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/EduRoDev/quantum-saas/internal/models"
)

// ClientRepository 客户仓储
type ClientRepository struct {
	db *gorm.DB
}

// NewClientRepository 创建客户仓储
func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// Create 创建客户
func (r *ClientRepository) Create(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

// GetByID 根据 ID 获取客户
func (r *ClientRepository) GetByID(ctx context.Context, id int64) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).First(&client, id).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// GetByIDWithReservations 根据 ID 获取客户（包含预订）
func (r *ClientRepository) GetByIDWithReservations(ctx context.Context, id int64) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).
		Preload("Reservations", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(&client, id).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// GetByEmail 根据邮箱获取客户
func (r *ClientRepository) GetByEmail(ctx context.Context, email string) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// ExistsByEmail 检查邮箱是否已注册
func (r *ClientRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Client{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

// Update 更新客户
func (r *ClientRepository) Update(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

// UpdateFields 更新指定字段
func (r *ClientRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Client{}).Where("id = ?", id).Updates(fields).Error
}

// List 获取客户列表
func (r *ClientRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Client, int64, error) {
	var clients []*models.Client
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Client{})

	// 应用过滤条件
	if name, ok := filters["name"].(string); ok && name != "" {
		query = query.Where("name LIKE ? OR last_name LIKE ?", "%"+name+"%", "%"+name+"%")
	}
	if email, ok := filters["email"].(string); ok && email != "" {
		query = query.Where("email = ?", email)
	}
	if documentType, ok := filters["document_type"].(string); ok && documentType != "" {
		query = query.Where("document_type = ?", documentType)
	}
	if documentNumber, ok := filters["document_number"].(string); ok && documentNumber != "" {
		query = query.Where("document_number = ?", documentNumber)
	}

	// 统计总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 查询列表
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&clients).Error; err != nil {
		return nil, 0, err
	}

	return clients, total, nil
}

// Delete 删除客户
func (r *ClientRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Client{}, id).Error
}
