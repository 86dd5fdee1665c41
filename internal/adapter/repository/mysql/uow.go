package mysql

import (
	"context"

	"credit-approval/internal/domain/customer"
	"credit-approval/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Customers: &CustomerRepository{db: tx},
		Loans:     &LoanRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinCustomerTx(ctx context.Context, customerID uint64, fn func(r uow.Repos, c *customer.Customer) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the customer row before the loan history is read
		c, err := r.Customers.GetByIDForUpdate(ctx, customerID)
		if err != nil {
			return err
		}
		return fn(r, c)
	})
}
