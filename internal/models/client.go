package models

import (
	"time"
)

// Client 客户模型
type Client struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string    `gorm:"type:varchar(50);not null" json:"name"`
	LastName       string    `gorm:"type:varchar(50);not null" json:"last_name"`
	DocumentType   string    `gorm:"type:varchar(10);not null" json:"document_type"`
	DocumentNumber string    `gorm:"type:varchar(30);not null" json:"document_number"`
	Email          string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Phone          *string   `gorm:"type:varchar(20)" json:"phone,omitempty"`
	BirthDate      *time.Time `gorm:"type:date" json:"birth_date,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Reservations []Reservation `gorm:"foreignKey:ClientID" json:"reservations,omitempty"`
}

// TableName 表名
func (Client) TableName() string {
	return "clients"
}

// DocumentType 证件类型
const (
	DocumentTypeCC  = "CC"  // 公民身份证
	DocumentTypeTI  = "TI"  // 未成年人身份证
	DocumentTypeTE  = "TE"  // 外国人居留证
	DocumentTypePP  = "PP"  // 护照
	DocumentTypePPT = "PPT" // 临时保护许可
	DocumentTypeNIT = "NIT" // 税务登记号
)
