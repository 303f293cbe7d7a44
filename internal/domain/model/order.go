package model

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
)

// 注文番号のプレフィックスを決めるプラン種別
type OrderPlanType string

const (
	//無料のデジタルプロフィールのみ
	PlanDigitalOnly OrderPlanType = "digital-only"

	//デジタルプロフィール＋アプリ（サブスク）
	PlanDigitalProfileApp OrderPlanType = "digital-profile-app"

	//物理NFCカード＋デジタルプロフィール＋アプリ
	PlanNFCCardFull OrderPlanType = "nfc-card-full"
)

// カードの構成（注文時点のスナップショット）
type CardConfig struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Title         string `json:"title,omitempty"`
	BaseMaterial  string `json:"baseMaterial"`
	Color         string `json:"color,omitempty"`
	Quantity      int64  `json:"quantity"`
	IsDigitalOnly bool   `json:"isDigitalOnly"`
}

// 金額内訳（ドル単位。Paymentはセント単位で別持ち）
type Pricing struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// 配送先のスナップショット
type ShippingInfo struct {
	FullName     string `json:"fullName"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Country      string `json:"country"`
	PostalCode   string `json:"postalCode"`
	PhoneNumber  string `json:"phoneNumber"`
}

// メール送信結果（kindごとに1件）
type EmailRecord struct {
	Sent      bool   `json:"sent"`
	Timestamp int64  `json:"timestamp"`
	MessageID string `json:"messageId,omitempty"`
}

// kind（confirmation / receipt）→ 送信結果
type EmailAudit map[string]EmailRecord

type Order struct {
	ID          string      `gorm:"type:uuid;primaryKey" json:"id"`
	OrderNumber string      `gorm:"type:varchar(40);not null;uniqueIndex" json:"orderNumber"`
	UserID      string      `gorm:"type:uuid;not null;index" json:"userId"`
	Status      OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	CustomerName string `gorm:"type:varchar(255);not null" json:"customerName"`
	Email        string `gorm:"not null;index" json:"email"`
	PhoneNumber  string `gorm:"type:varchar(30)" json:"phoneNumber"`

	CardConfig CardConfig    `gorm:"serializer:json" json:"cardConfig"`
	PlanType   OrderPlanType `gorm:"type:varchar(30);not null" json:"planType"`
	Pricing    Pricing       `gorm:"serializer:json" json:"pricing"`
	Shipping   ShippingInfo  `gorm:"serializer:json" json:"shipping"`

	//支払い後に埋まる
	PaymentMethod   string  `gorm:"type:varchar(50)" json:"paymentMethod,omitempty"`
	PaymentID       string  `gorm:"type:varchar(255)" json:"paymentId,omitempty"`
	VoucherCode     string  `gorm:"type:varchar(50)" json:"voucherCode,omitempty"`
	VoucherDiscount float64 `json:"voucherDiscount,omitempty"`

	EstimatedDelivery string     `gorm:"type:varchar(40)" json:"estimatedDelivery"`
	EmailsSent        EmailAudit `gorm:"serializer:json" json:"emailsSent"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
