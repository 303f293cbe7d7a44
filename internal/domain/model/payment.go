package model

import "time"

type PaymentStatus string

const (
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// 支払い記録。Amountはセント（最小通貨単位）
type Payment struct {
	ID              string        `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID         string        `gorm:"type:uuid;not null;index" json:"orderId"`
	PaymentIntentID string        `gorm:"type:varchar(255);not null" json:"paymentIntentId"`
	Amount          int64         `gorm:"not null" json:"amount"`
	Currency        string        `gorm:"type:varchar(10);not null" json:"currency"`
	Status          PaymentStatus `gorm:"type:varchar(20);not null" json:"status"`
	PaymentMethod   string        `gorm:"type:varchar(50);not null" json:"paymentMethod"`

	//バウチャー情報などの自由項目
	Metadata map[string]any `gorm:"serializer:json" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
}
