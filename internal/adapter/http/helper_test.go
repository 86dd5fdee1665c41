package http

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	domainCustomer "credit-approval/internal/domain/customer"
	domainLoan "credit-approval/internal/domain/loan"
	"credit-approval/internal/domain/uow"
	"credit-approval/internal/logging"
	"credit-approval/internal/testutil/customermock"
	"credit-approval/internal/testutil/loanmock"
	"credit-approval/internal/testutil/uowmock"
	ucCustomer "credit-approval/internal/usecase/customer"
	ucLoan "credit-approval/internal/usecase/loan"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// -------- helpers --------

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func decodeJSON(t *testing.T, raw []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("bad json: %v; raw=%s", err, raw)
	}
}

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func testCustomer(id uint64, salary string) *domainCustomer.Customer {
	c := domainCustomer.New(domainCustomer.Registration{
		FirstName:     "Grace",
		LastName:      "Hopper",
		Age:           40,
		PhoneNumber:   9123456780,
		MonthlySalary: decimal.RequireFromString(salary),
	})
	c.ID = id
	return c
}

func customersOf(cs ...*domainCustomer.Customer) *customermock.Repo {
	find := func(_ context.Context, id uint64) (*domainCustomer.Customer, error) {
		for _, c := range cs {
			if c.ID == id {
				return c, nil
			}
		}
		return nil, gorm.ErrRecordNotFound
	}
	return &customermock.Repo{GetByIDFn: find, GetByIDForUpdateFn: find}
}

func newLoanHandler(custs *customermock.Repo, loans *loanmock.Repo) *LoanHandler {
	tx := uowmock.Inline(uow.Repos{Customers: custs, Loans: loans})
	uc := ucLoan.NewUsecase(custs, loans, tx, logging.Discard(), nil)
	return NewLoanHandler(uc, logging.Discard())
}

func newCustomerHandler(repo *customermock.Repo) *CustomerHandler {
	return NewCustomerHandler(ucCustomer.NewUsecase(repo, logging.Discard()), logging.Discard())
}

func noLoans() *loanmock.Repo {
	return &loanmock.Repo{
		ListByCustomerIDFn:       func(context.Context, uint64) ([]domainLoan.Loan, error) { return nil, nil },
		ListActiveByCustomerIDFn: func(context.Context, uint64, time.Time) ([]domainLoan.Loan, error) { return nil, nil },
	}
}
