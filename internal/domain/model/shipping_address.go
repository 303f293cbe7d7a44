package model

import "time"

// 注文に紐づく配送先住所
type ShippingAddress struct {
	ID      string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID  string `gorm:"type:uuid;not null;index" json:"userId"`
	OrderID string `gorm:"type:uuid;not null;index" json:"orderId"`

	FullName     string `gorm:"type:varchar(255);not null" json:"fullName"`
	AddressLine1 string `gorm:"type:varchar(255);not null" json:"addressLine1"`
	AddressLine2 string `gorm:"type:varchar(255)" json:"addressLine2,omitempty"`

	//市区町村
	City string `gorm:"type:varchar(255);not null" json:"city"`

	//州・都道府県
	State string `gorm:"type:varchar(100);not null" json:"state"`

	PostalCode string `gorm:"type:varchar(20);not null" json:"postalCode"`
	Country    string `gorm:"type:varchar(100);not null" json:"country"`

	PhoneNumber string `gorm:"type:varchar(30)" json:"phoneNumber,omitempty"`

	//注文時は自動でデフォルトにしない
	IsDefault bool `gorm:"not null;default:false" json:"isDefault"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
}
