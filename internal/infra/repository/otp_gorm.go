package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OTPGormRepository struct {
	db *gorm.DB
}

func NewOTPGormRepository(db *gorm.DB) *OTPGormRepository {
	return &OTPGormRepository{db: db}
}

func (r *OTPGormRepository) Get(ctx context.Context, mobile string) (model.MobileOTP, error) {
	var otp model.MobileOTP
	err := r.db.WithContext(ctx).Where("mobile = ?", mobile).First(&otp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.MobileOTP{}, repo.ErrNotFound
	}
	if err != nil {
		return model.MobileOTP{}, err
	}
	return otp, nil
}

// mobileをキーに上書き保存する
func (r *OTPGormRepository) Set(ctx context.Context, otp model.MobileOTP) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "mobile"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"code_hash", "expires_at", "verified", "updated_at",
			}),
		}).
		Create(&otp).Error
}

func (r *OTPGormRepository) Delete(ctx context.Context, mobile string) error {
	return r.db.WithContext(ctx).
		Where("mobile = ?", mobile).
		Delete(&model.MobileOTP{}).Error
}
