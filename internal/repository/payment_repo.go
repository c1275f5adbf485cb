// Package repository 提供数据访问层
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/EduRoDev/quantum-saas/internal/models"
)

// PaymentRepository 支付仓储
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository 创建支付仓储
func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// WithTx 返回绑定到事务的仓储
func (r *PaymentRepository) WithTx(tx *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: tx}
}

// Create 创建支付记录
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// GetByID 根据 ID 获取支付记录
func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetByIDWithDetails 根据 ID 获取支付记录（包含关联信息）
func (r *PaymentRepository) GetByIDWithDetails(ctx context.Context, id int64) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Preload("Reservation").
		Preload("Room").
		Preload("Client").
		First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetByPaymentNo 根据支付单号获取
func (r *PaymentRepository) GetByPaymentNo(ctx context.Context, paymentNo string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("payment_no = ?", paymentNo).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetByPaymentNoForUpdate 根据支付单号获取并加行锁
func (r *PaymentRepository) GetByPaymentNoForUpdate(ctx context.Context, paymentNo string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("payment_no = ?", paymentNo).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// Update 更新支付记录
func (r *PaymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// UpdateFields 更新指定字段
func (r *PaymentRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Payment{}).Where("id = ?", id).Updates(fields).Error
}

// UpdateStatus 更新支付状态
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	return r.db.WithContext(ctx).Model(&models.Payment{}).Where("id = ?", id).Update("status", status).Error
}

// Confirm 确认支付
func (r *PaymentRepository) Confirm(ctx context.Context, id int64, transactionID string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         models.PaymentStatusConfirmed,
			"transaction_id": transactionID,
			"payment_date":   now,
		}).Error
}

// MarkRefunded 标记已退款
func (r *PaymentRepository) MarkRefunded(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ?", id).
		Update("status", models.PaymentStatusRefunded).Error
}

// GetConfirmedByReservation 获取预订的已确认支付
func (r *PaymentRepository) GetConfirmedByReservation(ctx context.Context, reservationID int64) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Where("status = ?", models.PaymentStatusConfirmed).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// CountConfirmedByReservation 统计预订的已确认支付数
func (r *PaymentRepository) CountConfirmedByReservation(ctx context.Context, reservationID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("reservation_id = ?", reservationID).
		Where("status = ?", models.PaymentStatusConfirmed).
		Count(&count).Error
	return count, err
}

// ListByReservation 获取预订的支付记录
func (r *PaymentRepository) ListByReservation(ctx context.Context, reservationID int64) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

// List 获取支付列表
func (r *PaymentRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Payment, int64, error) {
	var payments []*models.Payment
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Payment{})

	// 应用过滤条件
	if clientID, ok := filters["client_id"].(int64); ok && clientID > 0 {
		query = query.Where("client_id = ?", clientID)
	}
	if roomID, ok := filters["room_id"].(int64); ok && roomID > 0 {
		query = query.Where("room_id = ?", roomID)
	}
	if reservationID, ok := filters["reservation_id"].(int64); ok && reservationID > 0 {
		query = query.Where("reservation_id = ?", reservationID)
	}
	if status, ok := filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if method, ok := filters["method"].(string); ok && method != "" {
		query = query.Where("method = ?", method)
	}
	if startDate, ok := filters["start_date"].(time.Time); ok {
		query = query.Where("created_at >= ?", startDate)
	}
	if endDate, ok := filters["end_date"].(time.Time); ok {
		query = query.Where("created_at <= ?", endDate)
	}

	// 统计总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 查询列表
	if err := query.
		Preload("Reservation").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&payments).Error; err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

// ListByClient 获取客户的支付列表
func (r *PaymentRepository) ListByClient(ctx context.Context, clientID int64, offset, limit int) ([]*models.Payment, int64, error) {
	filters := map[string]interface{}{
		"client_id": clientID,
	}
	return r.List(ctx, offset, limit, filters)
}

// ListStalePending 获取滞留超过指定时间的待确认支付
func (r *PaymentRepository) ListStalePending(ctx context.Context, olderThan time.Time, limit int) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := r.db.WithContext(ctx).
		Where("status = ?", models.PaymentStatusPending).
		Where("created_at < ?", olderThan).
		Order("created_at ASC").
		Limit(limit).
		Find(&payments).Error
	return payments, err
}

// CountStalePending 统计滞留超过指定时间的待确认支付数
func (r *PaymentRepository) CountStalePending(ctx context.Context, olderThan time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("status = ?", models.PaymentStatusPending).
		Where("created_at < ?", olderThan).
		Count(&count).Error
	return count, err
}
