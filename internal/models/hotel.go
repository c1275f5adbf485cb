package models

import (
	"time"
)

// Hotel 酒店模型
type Hotel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Type        string    `gorm:"type:varchar(20);not null;default:'hotel'" json:"type"`
	Country     string    `gorm:"type:varchar(50);not null" json:"country"`
	City        string    `gorm:"type:varchar(50);not null" json:"city"`
	Address     string    `gorm:"type:varchar(255);not null" json:"address"`
	Nit         *string   `gorm:"type:varchar(30)" json:"nit,omitempty"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Rooms []Room `gorm:"foreignKey:HotelID" json:"rooms,omitempty"`
}

// TableName 表名
func (Hotel) TableName() string {
	return "hotels"
}

// HotelType 住宿类型
const (
	HotelTypeHotel  = "hotel"  // 酒店
	HotelTypeHostel = "hostel" // 青旅
	HotelTypeMotel  = "motel"  // 汽车旅馆
	HotelTypeAirbnb = "airbnb" // 民宿
	HotelTypeOther  = "other"  // 其他
)

// Room 房间模型
type Room struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	HotelID     int64     `gorm:"index;not null" json:"hotel_id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	Price       float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Capacity    int       `gorm:"not null;default:1" json:"capacity"`
	Image       *string   `gorm:"type:varchar(255)" json:"image,omitempty"`
	Status      string    `gorm:"type:varchar(20);not null;default:'free'" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Hotel        *Hotel        `gorm:"foreignKey:HotelID" json:"hotel,omitempty"`
	Reservations []Reservation `gorm:"foreignKey:RoomID" json:"reservations,omitempty"`
}

// TableName 表名
func (Room) TableName() string {
	return "rooms"
}

// RoomStatus 房间状态
// free: 无有效预订; booked: 有已确认预订但未支付; busy: 有已确认预订且已支付
const (
	RoomStatusFree   = "free"
	RoomStatusBooked = "booked"
	RoomStatusBusy   = "busy"
)
