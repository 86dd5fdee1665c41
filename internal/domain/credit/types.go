// Package credit holds the eligibility and underwriting engine: credit scoring,
// rate floors, installment math and the approval decision. Everything here is a
// pure function over a snapshot supplied by the caller.
package credit

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is the read-only view of a borrower the engine needs.
type Customer struct {
	ID            uint64
	MonthlySalary decimal.Decimal
	ApprovedLimit decimal.Decimal
}

// LoanRecord is one entry of a customer's loan history.
type LoanRecord struct {
	LoanAmount       decimal.Decimal
	Tenure           int
	EMIsPaidOnTime   int
	StartDate        time.Time
	EndDate          time.Time
	MonthlyRepayment decimal.Decimal
}

// Active reports whether the loan is still being repaid on the given day.
func (r LoanRecord) Active(today time.Time) bool {
	return !DateOf(r.EndDate).Before(DateOf(today))
}

// Request is a proposed loan.
type Request struct {
	Amount       decimal.Decimal
	InterestRate decimal.Decimal
	Tenure       int
}
