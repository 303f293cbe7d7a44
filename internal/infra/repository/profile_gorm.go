package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileGormRepository struct {
	db *gorm.DB
}

func NewProfileGormRepository(db *gorm.DB) *ProfileGormRepository {
	return &ProfileGormRepository{db: db}
}

func (r *ProfileGormRepository) UpsertByEmail(ctx context.Context, profile model.Profile) (model.Profile, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"user_id", "first_name", "last_name", "phone_number", "company",
				"is_founder_member", "avatar_url", "custom_url", "profile_url",
				"preferences", "updated_at",
			}),
		}).
		Create(&profile).Error
	if err != nil {
		return model.Profile{}, err
	}

	var saved model.Profile
	if err := r.db.WithContext(ctx).Where("email = ?", profile.Email).First(&saved).Error; err != nil {
		return model.Profile{}, err
	}
	return saved, nil
}

func (r *ProfileGormRepository) FindByEmail(ctx context.Context, email string) (model.Profile, error) {
	var p model.Profile
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Profile{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Profile{}, err
	}
	return p, nil
}

func (r *ProfileGormRepository) FindByCustomURL(ctx context.Context, customURL string) (model.Profile, error) {
	var p model.Profile
	err := r.db.WithContext(ctx).Where("custom_url = ?", customURL).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Profile{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Profile{}, err
	}
	return p, nil
}

func (r *ProfileGormRepository) FindEmailByCustomURL(ctx context.Context, customURL string) (string, bool, error) {
	var p model.Profile
	err := r.db.WithContext(ctx).
		Select("email").
		Where("custom_url = ?", customURL).
		First(&p).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return p.Email, true, nil
}

// 既存を消してから入れ直す
func (r *ProfileGormRepository) ReplaceServices(ctx context.Context, profileID string, services []model.ProfileService) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ?", profileID).
			Delete(&model.ProfileService{}).Error; err != nil {
			return err
		}
		if len(services) == 0 {
			return nil
		}
		return tx.Create(&services).Error
	})
}

func (r *ProfileGormRepository) ListServices(ctx context.Context, profileID string) ([]model.ProfileService, error) {
	var items []model.ProfileService
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("display_order asc").
		Find(&items).Error
	if err != nil {
		return []model.ProfileService{}, err
	}
	return items, nil
}
