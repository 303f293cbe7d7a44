package repository

import (
	"context"

	repo "app/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	users             repo.UserRepository
	orders            repo.OrderRepository
	payments          repo.PaymentRepository
	vouchers          repo.VoucherRepository
	shippingAddresses repo.ShippingAddressRepository
}

func (r *txReposGorm) Users() repo.UserRepository       { return r.users }
func (r *txReposGorm) Orders() repo.OrderRepository     { return r.orders }
func (r *txReposGorm) Payments() repo.PaymentRepository { return r.payments }
func (r *txReposGorm) Vouchers() repo.VoucherRepository { return r.vouchers }
func (r *txReposGorm) ShippingAddresses() repo.ShippingAddressRepository {
	return r.shippingAddresses
}

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			users:             NewUserGormRepository(tx),
			orders:            NewOrderGormRepository(tx),
			payments:          NewPaymentGormRepository(tx),
			vouchers:          NewVoucherGormRepository(tx),
			shippingAddresses: NewShippingAddressGormRepository(tx),
		}
		return fn(r)
	})
}
