// Package repository 提供数据访问层
package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/EduRoDev/quantum-saas/internal/models"
)

// RoomRepository 房间仓储
type RoomRepository struct {
	db *gorm.DB
}

// NewRoomRepository 创建房间仓储
func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// WithTx 返回绑定到事务的仓储
func (r *RoomRepository) WithTx(tx *gorm.DB) *RoomRepository {
	return &RoomRepository{db: tx}
}

// Create 创建房间
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

// GetByID 根据 ID 获取房间
func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).First(&room, id).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// GetByIDWithHotel 根据 ID 获取房间（包含酒店信息）
func (r *RoomRepository) GetByIDWithHotel(ctx context.Context, id int64) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).
		Preload("Hotel").
		First(&room, id).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// GetByIDForUpdate 根据 ID 获取房间并加行锁
// 串行化同一房间上的并发预订写入
func (r *RoomRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&room, id).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// Update 更新房间
func (r *RoomRepository) Update(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Save(room).Error
}

// UpdateFields 更新指定字段
func (r *RoomRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Room{}).Where("id = ?", id).Updates(fields).Error
}

// UpdateStatus 更新房间状态
func (r *RoomRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	return r.db.WithContext(ctx).Model(&models.Room{}).Where("id = ?", id).Update("status", status).Error
}

// List 获取房间列表
func (r *RoomRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Room, int64, error) {
	var rooms []*models.Room
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Room{})

	// 应用过滤条件
	if hotelID, ok := filters["hotel_id"].(int64); ok && hotelID > 0 {
		query = query.Where("hotel_id = ?", hotelID)
	}
	if status, ok := filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if maxPrice, ok := filters["max_price"].(float64); ok && maxPrice > 0 {
		query = query.Where("price <= ?", maxPrice)
	}
	if minPrice, ok := filters["min_price"].(float64); ok && minPrice > 0 {
		query = query.Where("price >= ?", minPrice)
	}
	if minCapacity, ok := filters["min_capacity"].(int); ok && minCapacity > 0 {
		query = query.Where("capacity >= ?", minCapacity)
	}

	// 统计总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 查询列表
	if err := query.Preload("Hotel").Order("name ASC").Offset(offset).Limit(limit).Find(&rooms).Error; err != nil {
		return nil, 0, err
	}

	return rooms, total, nil
}

// ListByHotel 获取酒店下的房间列表
func (r *RoomRepository) ListByHotel(ctx context.Context, hotelID int64, status *string) ([]*models.Room, error) {
	var rooms []*models.Room
	query := r.db.WithContext(ctx).Where("hotel_id = ?", hotelID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.Order("name ASC").Find(&rooms).Error
	return rooms, err
}

// ListFreeByHotel 获取酒店下的空闲房间列表
func (r *RoomRepository) ListFreeByHotel(ctx context.Context, hotelID int64) ([]*models.Room, error) {
	status := models.RoomStatusFree
	return r.ListByHotel(ctx, hotelID, &status)
}

// CountByHotel 统计酒店下的房间数
func (r *RoomRepository) CountByHotel(ctx context.Context, hotelID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Room{}).
		Where("hotel_id = ?", hotelID).
		Count(&count).Error
	return count, err
}

// CountByHotelAndStatus 统计酒店下指定状态的房间数
func (r *RoomRepository) CountByHotelAndStatus(ctx context.Context, hotelID int64, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Room{}).
		Where("hotel_id = ?", hotelID).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// HasReservations 检查房间是否存在关联预订（含已取消）
func (r *RoomRepository) HasReservations(ctx context.Context, roomID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("room_id = ?", roomID).
		Count(&count).Error
	return count > 0, err
}

// Delete 删除房间
func (r *RoomRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Room{}, id).Error
}
