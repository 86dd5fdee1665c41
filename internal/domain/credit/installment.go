package credit

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var ErrInvalidLoanTerms = errors.New("invalid loan terms")

// InvalidLoanTermsError names the offending term. It matches ErrInvalidLoanTerms.
type InvalidLoanTermsError struct {
	Field  string
	Reason string
}

func (e *InvalidLoanTermsError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidLoanTerms, e.Field, e.Reason)
}

func (e *InvalidLoanTermsError) Unwrap() error { return ErrInvalidLoanTerms }

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// ValidateTerms checks principal > 0, rate >= 0 and tenure >= 1.
func ValidateTerms(principal, annualRate decimal.Decimal, tenure int) error {
	switch {
	case !principal.IsPositive():
		return &InvalidLoanTermsError{Field: "loan_amount", Reason: "must be greater than 0"}
	case annualRate.IsNegative():
		return &InvalidLoanTermsError{Field: "interest_rate", Reason: "must not be negative"}
	case tenure < 1:
		return &InvalidLoanTermsError{Field: "tenure", Reason: "must be at least 1 month"}
	}
	return nil
}

// Installment returns the fixed monthly installment (EMI) of an amortizing loan:
//
//	r   = annualRate / 100 / 12
//	EMI = P * r * (1+r)^n / ((1+r)^n - 1)     (P / n when r == 0)
//
// The power step runs in float64; the result is rounded to 2 places, half away from zero.
// When (1+r)^n overflows the installment is its limit P*r, and when r is too small
// to move (1+r)^n off 1 it is P/n.
func Installment(principal, annualRate decimal.Decimal, tenure int) (decimal.Decimal, error) {
	if err := ValidateTerms(principal, annualRate, tenure); err != nil {
		return decimal.Zero, err
	}
	if annualRate.IsZero() {
		return principal.Div(decimal.NewFromInt(int64(tenure))).Round(2), nil
	}

	monthly := annualRate.Div(hundred).Div(twelve)
	r := monthly.InexactFloat64()
	factor := math.Pow(1+r, float64(tenure))
	if math.IsInf(factor, 0) {
		return principal.Mul(monthly).Round(2), nil
	}
	emi := principal.InexactFloat64() * r * factor / (factor - 1)
	if math.IsInf(emi, 0) || math.IsNaN(emi) {
		return principal.Div(decimal.NewFromInt(int64(tenure))).Round(2), nil
	}
	return decimal.NewFromFloat(emi).Round(2), nil
}
