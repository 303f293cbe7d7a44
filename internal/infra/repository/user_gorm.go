package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserGormRepository struct {
	db *gorm.DB
}

func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

// emailをキーにON CONFLICTでupsertする
func (r *UserGormRepository) UpsertByEmail(ctx context.Context, user model.User) (model.User, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"first_name", "last_name", "phone_number",
				"email_verified", "mobile_verified", "updated_at",
			}),
		}).
		Create(&user).Error
	if err != nil {
		return model.User{}, err
	}

	//upsert後の確定行を読み直す（既存行だとIDが入らないため）
	var saved model.User
	if err := r.db.WithContext(ctx).Where("email = ?", user.Email).First(&saved).Error; err != nil {
		return model.User{}, err
	}
	return saved, nil
}

func (r *UserGormRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, repo.ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (r *UserGormRepository) FindByPhone(ctx context.Context, phone string) (model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where("phone_number = ?", phone).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, repo.ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (r *UserGormRepository) MarkMobileVerified(ctx context.Context, userID string, phone string) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"mobile_verified": true,
			"phone_number":    phone,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
