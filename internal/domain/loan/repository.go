package loan

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	Save(ctx context.Context, l *Loan) error
	GetByID(ctx context.Context, id uint64) (*Loan, error)

	// ListByCustomerID returns the full history, oldest first.
	ListByCustomerID(ctx context.Context, customerID uint64) ([]Loan, error)
	ListActiveByCustomerID(ctx context.Context, customerID uint64, today time.Time) ([]Loan, error)
}
