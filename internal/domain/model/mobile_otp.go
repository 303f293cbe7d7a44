package model

import "time"

// 電話番号ごとの確認コード（コードはbcryptハッシュで保存）
type MobileOTP struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Mobile    string    `gorm:"type:varchar(30);not null;uniqueIndex" json:"mobile"`
	CodeHash  string    `gorm:"not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Verified  bool      `gorm:"not null;default:false" json:"verified"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
