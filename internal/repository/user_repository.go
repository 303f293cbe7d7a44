package repository

import (
	"context"

	"app/internal/domain/model"
)

// ユーザーの保存・取得を約束
type UserRepository interface {
	//emailで作成または更新して、確定後のUserを返す
	UpsertByEmail(ctx context.Context, user model.User) (model.User, error)

	//emailからユーザーを1件取得する
	FindByEmail(ctx context.Context, email string) (model.User, error)

	//電話番号からユーザーを1件取得する（cookieが無い時のfallback）
	FindByPhone(ctx context.Context, phone string) (model.User, error)

	//モバイル認証済みフラグと電話番号を更新する
	MarkMobileVerified(ctx context.Context, userID string, phone string) error
}
