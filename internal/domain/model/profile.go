package model

import "time"

// デジタルプロフィール。公開ページは custom_url で引く
type Profile struct {
	ID     string  `gorm:"type:uuid;primaryKey" json:"id"`
	Email  string  `gorm:"uniqueIndex;not null" json:"email"`
	UserID *string `gorm:"type:uuid;index" json:"user_id,omitempty"`

	FirstName   string `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName    string `gorm:"type:varchar(100);not null" json:"last_name"`
	PhoneNumber string `gorm:"type:varchar(30)" json:"phone_number,omitempty"`
	Company     string `gorm:"type:varchar(255)" json:"company,omitempty"`

	IsFounderMember bool   `gorm:"not null;default:false" json:"is_founder_member"`
	AvatarURL       string `gorm:"type:text" json:"avatar_url,omitempty"`

	//公開URLのスラッグ（一度claimしたら保持する）
	CustomURL  string `gorm:"type:varchar(255);not null;uniqueIndex" json:"custom_url"`
	ProfileURL string `gorm:"type:text" json:"profile_url"`

	//表示フラグ・SNSリンク・スキル・証明書などをまとめたblob
	Preferences map[string]any `gorm:"serializer:json" json:"preferences"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// プロフィールに載せる提供サービス
type ProfileService struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ProfileID   string `gorm:"type:uuid;not null;index" json:"profile_id"`
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Pricing     string `gorm:"type:varchar(100)" json:"pricing"`
	Category    string `gorm:"type:varchar(100)" json:"category"`
	IsActive    bool   `gorm:"not null;default:true" json:"is_active"`

	//保存順をそのまま表示順にする
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
