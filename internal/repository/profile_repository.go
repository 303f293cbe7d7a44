package repository

import (
	"context"

	"app/internal/domain/model"
)

type ProfileRepository interface {
	//emailで作成または更新して、確定後のProfileを返す
	UpsertByEmail(ctx context.Context, profile model.Profile) (model.Profile, error)

	FindByEmail(ctx context.Context, email string) (model.Profile, error)
	FindByCustomURL(ctx context.Context, customURL string) (model.Profile, error)

	//スラッグの空き確認。使用中なら持ち主のemailを返す
	FindEmailByCustomURL(ctx context.Context, customURL string) (string, bool, error)

	//プロフィールのサービスを総入れ替えする
	ReplaceServices(ctx context.Context, profileID string, services []model.ProfileService) error

	//表示順でサービス一覧を返す
	ListServices(ctx context.Context, profileID string) ([]model.ProfileService, error)
}
