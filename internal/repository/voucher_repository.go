package repository

import (
	"context"

	"app/internal/domain/model"
)

// バウチャーと利用記録の窓口
type VoucherRepository interface {
	//コードは大文字で照合する
	FindByCode(ctx context.Context, code string) (model.Voucher, error)

	CreateUsage(ctx context.Context, usage model.VoucherUsage) error

	//used_countをSQL式で+1する（read-modify-writeにしない）
	IncrementUsedCount(ctx context.Context, voucherID int64) error
}
