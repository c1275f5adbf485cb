// Package booking 提供预订相关业务逻辑
package booking

import (
	"gorm.io/gorm"

	"github.com/EduRoDev/quantum-saas/internal/common/errors"
	"github.com/EduRoDev/quantum-saas/internal/models"
)

// RoomStatusService 房间状态派生服务。
// 房间状态不由调用方直接写入，而是由预订和支付状态推导：
// 存在已确认支付的已确认预订为 busy，仅有已确认预订为 booked，否则为 free。
type RoomStatusService struct{}

// NewRoomStatusService 创建房间状态服务
func NewRoomStatusService() *RoomStatusService {
	return &RoomStatusService{}
}

// Sync 在事务内重新计算并写回房间状态。
// 必须与预订/支付的写操作同一事务执行，保证状态与数据一致。
func (s *RoomStatusService) Sync(tx *gorm.DB, roomID int64) error {
	var confirmedCount int64
	err := tx.Model(&models.Reservation{}).
		Where("room_id = ? AND status = ?", roomID, models.ReservationStatusConfirmed).
		Count(&confirmedCount).Error
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}

	status := models.RoomStatusFree
	if confirmedCount > 0 {
		var paidCount int64
		err = tx.Model(&models.Payment{}).
			Joins("JOIN reservations ON reservations.id = payments.reservation_id").
			Where("reservations.room_id = ?", roomID).
			Where("reservations.status = ?", models.ReservationStatusConfirmed).
			Where("payments.status = ?", models.PaymentStatusConfirmed).
			Count(&paidCount).Error
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		if paidCount > 0 {
			status = models.RoomStatusBusy
		} else {
			status = models.RoomStatusBooked
		}
	}

	err = tx.Model(&models.Room{}).
		Where("id = ?", roomID).
		Update("status", status).Error
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}
