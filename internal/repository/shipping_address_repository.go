package repository

import (
	"context"

	"app/internal/domain/model"
)

// 配送先住所(ShippingAddress)を保存する窓口
type ShippingAddressRepository interface {
	Create(ctx context.Context, address model.ShippingAddress) (model.ShippingAddress, error)
}
