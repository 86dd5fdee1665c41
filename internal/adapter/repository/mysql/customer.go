package mysql

import (
	"context"

	customerDomain "credit-approval/internal/domain/customer"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustomerRepository struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) *CustomerRepository { return &CustomerRepository{db: db} }

func (r *CustomerRepository) Create(ctx context.Context, c *customerDomain.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// Save updates by primary key and inserts when the row does not exist yet.
func (r *CustomerRepository) Save(ctx context.Context, c *customerDomain.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CustomerRepository) GetByID(ctx context.Context, id uint64) (*customerDomain.Customer, error) {
	var out customerDomain.Customer
	res := r.db.WithContext(ctx).Where("customer_id = ?", id).First(&out)
	return &out, res.Error
}

func (r *CustomerRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*customerDomain.Customer, error) {
	var out customerDomain.Customer
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("customer_id = ?", id).
		First(&out)
	return &out, res.Error
}

func (r *CustomerRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&customerDomain.Customer{}).Count(&n).Error
	return n, err
}
