package loanmock

import (
	"context"
	"time"

	domain "credit-approval/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn                 func(ctx context.Context, l *domain.Loan) error
	SaveFn                   func(ctx context.Context, l *domain.Loan) error
	GetByIDFn                func(ctx context.Context, id uint64) (*domain.Loan, error)
	ListByCustomerIDFn       func(ctx context.Context, customerID uint64) ([]domain.Loan, error)
	ListActiveByCustomerIDFn func(ctx context.Context, customerID uint64, today time.Time) ([]domain.Loan, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Loan, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByCustomerID(ctx context.Context, customerID uint64) ([]domain.Loan, error) {
	if m.ListByCustomerIDFn != nil {
		return m.ListByCustomerIDFn(ctx, customerID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListActiveByCustomerID(ctx context.Context, customerID uint64, today time.Time) ([]domain.Loan, error) {
	if m.ListActiveByCustomerIDFn != nil {
		return m.ListActiveByCustomerIDFn(ctx, customerID, today)
	}
	return nil, context.Canceled
}
