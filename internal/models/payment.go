package models

import (
	"time"
)

// Payment 支付记录
type Payment struct {
	ID            int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	PaymentNo     string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"payment_no"`
	ReservationID int64      `gorm:"index;not null" json:"reservation_id"`
	RoomID        int64      `gorm:"index;not null" json:"room_id"`
	ClientID      int64      `gorm:"index;not null" json:"client_id"`
	Amount        float64    `gorm:"type:decimal(10,2);not null" json:"amount"`
	Method        string     `gorm:"type:varchar(20);not null" json:"method"`
	Status        string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	TransactionID *string    `gorm:"type:varchar(64)" json:"transaction_id,omitempty"`
	PaymentDate   *time.Time `json:"payment_date,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Reservation *Reservation `gorm:"foreignKey:ReservationID" json:"reservation,omitempty"`
	Room        *Room        `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	Client      *Client      `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

// TableName 表名
func (Payment) TableName() string {
	return "payments"
}

// PaymentMethod 支付方式
const (
	PaymentMethodVisa       = "visa"
	PaymentMethodMastercard = "mastercard"
	PaymentMethodPaypal     = "paypal"
	PaymentMethodOther      = "other"
)

// PaymentStatus 支付状态
const (
	PaymentStatusPending   = "pending"   // 待网关确认
	PaymentStatusConfirmed = "confirmed" // 已确认
	PaymentStatusCanceled  = "canceled"  // 已取消
	PaymentStatusRefunded  = "refunded"  // 已退款
)

// ValidMethod 校验支付方式
func ValidMethod(method string) bool {
	switch method {
	case PaymentMethodVisa, PaymentMethodMastercard, PaymentMethodPaypal, PaymentMethodOther:
		return true
	}
	return false
}
