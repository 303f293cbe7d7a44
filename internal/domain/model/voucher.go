package model

import "time"

// 割引コード。DiscountAmountがあれば固定額、なければ％
type Voucher struct {
	ID              int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Code            string    `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	DiscountPercent float64   `json:"discount_percent"`
	DiscountAmount  *float64  `json:"discount_amount,omitempty"`
	UsedCount       int64     `gorm:"not null;default:0" json:"used_count"`
	IsActive        bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 1回の利用＝1行
type VoucherUsage struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	VoucherID      int64     `gorm:"not null;index" json:"voucher_id"`
	UserID         string    `gorm:"type:uuid;not null;index" json:"user_id"`
	UserEmail      string    `gorm:"not null" json:"user_email"`
	OrderID        string    `gorm:"type:uuid;not null;index" json:"order_id"`
	DiscountAmount float64   `gorm:"not null" json:"discount_amount"`
	CreatedAt      time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
