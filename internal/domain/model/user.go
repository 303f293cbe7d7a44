package model

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// チェックアウトのたびにemailでupsertされる
type User struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	FirstName   string `gorm:"type:varchar(100)" json:"first_name"`
	LastName    string `gorm:"type:varchar(100)" json:"last_name"`
	PhoneNumber string `gorm:"type:varchar(30);index" json:"phone_number"`
	Role        Role   `gorm:"type:varchar(20);not null;default:'user'" json:"role"`

	//チェックアウト完了＝email確認済み扱い
	EmailVerified  bool `gorm:"not null;default:false" json:"email_verified"`
	MobileVerified bool `gorm:"not null;default:false" json:"mobile_verified"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
