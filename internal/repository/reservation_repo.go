// Package repository 提供数据访问层
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/EduRoDev/quantum-saas/internal/models"
)

// ReservationRepository 预订仓储
type ReservationRepository struct {
	db *gorm.DB
}

// NewReservationRepository 创建预订仓储
func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// WithTx 返回绑定到事务的仓储
func (r *ReservationRepository) WithTx(tx *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: tx}
}

// Create 创建预订
func (r *ReservationRepository) Create(ctx context.Context, reservation *models.Reservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

// GetByID 根据 ID 获取预订
func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).First(&reservation, id).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// GetByIDWithDetails 根据 ID 获取预订（包含关联信息）
func (r *ReservationRepository) GetByIDWithDetails(ctx context.Context, id int64) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).
		Preload("Room").
		Preload("Client").
		Preload("Payments").
		First(&reservation, id).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// GetByReservationNo 根据预订号获取预订
func (r *ReservationRepository) GetByReservationNo(ctx context.Context, reservationNo string) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).
		Where("reservation_no = ?", reservationNo).
		First(&reservation).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// Update 更新预订
func (r *ReservationRepository) Update(ctx context.Context, reservation *models.Reservation) error {
	return r.db.WithContext(ctx).Save(reservation).Error
}

// UpdateFields 更新指定字段
func (r *ReservationRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Reservation{}).Where("id = ?", id).Updates(fields).Error
}

// Cancel 取消预订
func (r *ReservationRepository) Cancel(ctx context.Context, id int64) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      models.ReservationStatusCanceled,
			"canceled_at": now,
		}).Error
}

// MarkRefunded 标记已退款
func (r *ReservationRepository) MarkRefunded(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("id = ?", id).
		Update("status", models.ReservationStatusRefunded).Error
}

// CountOverlapping 统计与给定时段重叠的占用预订数
// 半开区间 [check_in, check_out)：边界相接不算冲突
// 已取消的预订不占用时段，已退款的仍占用
func (r *ReservationRepository) CountOverlapping(ctx context.Context, roomID int64, checkIn, checkOut time.Time, excludeID *int64) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("room_id = ?", roomID).
		Where("status <> ?", models.ReservationStatusCanceled).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	err := query.Count(&count).Error
	return count, err
}

// ListOverlapping 获取与给定时段重叠的占用预订
func (r *ReservationRepository) ListOverlapping(ctx context.Context, roomID int64, checkIn, checkOut time.Time) ([]*models.Reservation, error) {
	var reservations []*models.Reservation
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Where("status <> ?", models.ReservationStatusCanceled).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn).
		Find(&reservations).Error
	return reservations, err
}

// HasBlockingByRoom 检查房间是否存在占用时段的预订
func (r *ReservationRepository) HasBlockingByRoom(ctx context.Context, roomID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("room_id = ?", roomID).
		Where("status <> ?", models.ReservationStatusCanceled).
		Count(&count).Error
	return count > 0, err
}

// CountByRoom 统计房间的全部预订数（含已取消）
func (r *ReservationRepository) CountByRoom(ctx context.Context, roomID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("room_id = ?", roomID).
		Count(&count).Error
	return count, err
}

// List 获取预订列表
func (r *ReservationRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Reservation, int64, error) {
	var reservations []*models.Reservation
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Reservation{})

	// 应用过滤条件
	if clientID, ok := filters["client_id"].(int64); ok && clientID > 0 {
		query = query.Where("client_id = ?", clientID)
	}
	if roomID, ok := filters["room_id"].(int64); ok && roomID > 0 {
		query = query.Where("room_id = ?", roomID)
	}
	if status, ok := filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if reservationNo, ok := filters["reservation_no"].(string); ok && reservationNo != "" {
		query = query.Where("reservation_no LIKE ?", "%"+reservationNo+"%")
	}
	if startDate, ok := filters["start_date"].(time.Time); ok {
		query = query.Where("check_in >= ?", startDate)
	}
	if endDate, ok := filters["end_date"].(time.Time); ok {
		query = query.Where("check_in <= ?", endDate)
	}

	// 统计总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 查询列表
	if err := query.
		Preload("Room").
		Preload("Client").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&reservations).Error; err != nil {
		return nil, 0, err
	}

	return reservations, total, nil
}

// ListByClient 获取客户的预订列表
func (r *ReservationRepository) ListByClient(ctx context.Context, clientID int64, offset, limit int, status *string) ([]*models.Reservation, int64, error) {
	filters := map[string]interface{}{
		"client_id": clientID,
	}
	if status != nil {
		filters["status"] = *status
	}
	return r.List(ctx, offset, limit, filters)
}

// ListByRoom 获取房间的预订列表
func (r *ReservationRepository) ListByRoom(ctx context.Context, roomID int64, offset, limit int) ([]*models.Reservation, int64, error) {
	filters := map[string]interface{}{
		"room_id": roomID,
	}
	return r.List(ctx, offset, limit, filters)
}

// CountByClientAndStatus 统计客户指定状态的预订数量
func (r *ReservationRepository) CountByClientAndStatus(ctx context.Context, clientID int64, statuses []string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("client_id = ?", clientID).
		Where("status IN ?", statuses).
		Count(&count).Error
	return count, err
}
