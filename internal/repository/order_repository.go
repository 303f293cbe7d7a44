package repository

import (
	"context"

	"app/internal/domain/model"
)

type OrderRepository interface {
	Create(ctx context.Context, order model.Order) error
	FindByID(ctx context.Context, orderID string) (model.Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (model.Order, error)

	//status＋支払い項目をまとめて更新して、更新後のOrderを返す
	Update(ctx context.Context, order model.Order) (model.Order, error)

	//メール送信監査だけを更新する（best-effort用）
	UpdateEmailsSent(ctx context.Context, orderID string, audit model.EmailAudit) error

	//注文番号の採番用
	ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error)
}
