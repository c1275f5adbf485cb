package models

import (
	"time"
)

// Reservation 预订模型
type Reservation struct {
	ID            int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	ReservationNo string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"reservation_no"`
	RoomID        int64      `gorm:"index;not null" json:"room_id"`
	ClientID      int64      `gorm:"index;not null" json:"client_id"`
	CheckIn       time.Time  `gorm:"not null;index" json:"check_in"`
	CheckOut      time.Time  `gorm:"not null;index" json:"check_out"`
	Status        string     `gorm:"type:varchar(20);not null;default:'confirmed'" json:"status"`
	CanceledAt    *time.Time `json:"canceled_at,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Room     *Room     `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	Client   *Client   `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Payments []Payment `gorm:"foreignKey:ReservationID" json:"payments,omitempty"`
}

// TableName 表名
func (Reservation) TableName() string {
	return "reservations"
}

// ReservationStatus 预订状态
// confirmed: 占用时段; refunded: 仍占用时段; canceled: 释放时段
const (
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCanceled  = "canceled"
	ReservationStatusRefunded  = "refunded"
)

// IsBlocking 预订是否仍占用房间时段
func (r *Reservation) IsBlocking() bool {
	return r.Status != ReservationStatusCanceled
}
