package mysql

import (
	"context"
	"time"

	"credit-approval/internal/domain/credit"
	loanDomain "credit-approval/internal/domain/loan"

	"gorm.io/gorm"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByID(ctx context.Context, id uint64) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("loan_id = ?", id).First(&out)
	return &out, res.Error
}

func (r *LoanRepository) ListByCustomerID(ctx context.Context, customerID uint64) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("start_date ASC, loan_id ASC").
		Find(&out).Error
	return out, err
}

// ListActiveByCustomerID returns loans whose end date is today or later.
func (r *LoanRepository) ListActiveByCustomerID(ctx context.Context, customerID uint64, today time.Time) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND end_date >= ?", customerID, credit.DateOf(today)).
		Order("start_date ASC, loan_id ASC").
		Find(&out).Error
	return out, err
}
