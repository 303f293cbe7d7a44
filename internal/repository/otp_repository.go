package repository

import (
	"context"

	"app/internal/domain/model"
)

// 電話番号ごとの確認コードの保存・取得・削除
type OTPRepository interface {
	Get(ctx context.Context, mobile string) (model.MobileOTP, error)

	//同じ番号なら上書きする
	Set(ctx context.Context, otp model.MobileOTP) error

	Delete(ctx context.Context, mobile string) error
}
