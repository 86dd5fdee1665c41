package uow

import (
	"context"

	"credit-approval/internal/domain/customer"
	"credit-approval/internal/domain/loan"
)

type Repos struct {
	Customers customer.Repository
	Loans     loan.Repository
}

type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinCustomerTx locks the customer row before fn runs, so reads of the
	// customer's loans inside fn are serialised against other writers.
	WithinCustomerTx(ctx context.Context, customerID uint64, fn func(r Repos, c *customer.Customer) error) error
}
