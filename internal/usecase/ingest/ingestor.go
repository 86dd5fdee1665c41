package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"credit-approval/internal/domain/credit"
	"credit-approval/internal/domain/customer"
	"credit-approval/internal/domain/loan"
	"credit-approval/internal/domain/uow"
	"credit-approval/internal/infrastructure/metrics"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var ErrInvalidRow = errors.New("invalid row")

type outcome int

const (
	created outcome = iota
	updated
	skipped
	invalid
)

// Ingestor upserts spreadsheet rows with a bounded number of concurrent
// transactions. Invalid rows and loans of unknown customers are counted and
// skipped; a storage error stops the import.
type Ingestor struct {
	uow       uow.UnitOfWork
	customers customer.Repository
	workers   int
	log       *slog.Logger
	metrics   *metrics.Metrics
}

func NewIngestor(tx uow.UnitOfWork, customers customer.Repository, workers int, log *slog.Logger, m *metrics.Metrics) *Ingestor {
	if workers <= 0 {
		workers = 4
	}
	return &Ingestor{uow: tx, customers: customers, workers: workers, log: log, metrics: m}
}

// HasCustomers reports whether any customer is already stored.
func (in *Ingestor) HasCustomers(ctx context.Context) (bool, error) {
	n, err := in.customers.Count(ctx)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (in *Ingestor) ImportCustomers(ctx context.Context, rows []CustomerRow) (Report, error) {
	return in.run(ctx, "customers", len(rows), func(ctx context.Context, i int) (outcome, error) {
		return in.upsertCustomer(ctx, rows[i])
	})
}

// ImportLoans must run after ImportCustomers; loans whose customer does not
// exist are skipped.
func (in *Ingestor) ImportLoans(ctx context.Context, rows []LoanRow) (Report, error) {
	return in.run(ctx, "loans", len(rows), func(ctx context.Context, i int) (outcome, error) {
		return in.upsertLoan(ctx, rows[i])
	})
}

func (in *Ingestor) run(ctx context.Context, sheet string, total int, fn func(ctx context.Context, i int) (outcome, error)) (Report, error) {
	var counts [4]atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(in.workers)
	for i := 0; i < total; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res, err := fn(gctx, i)
			if err != nil {
				return err
			}
			counts[res].Add(1)
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	rep := Report{
		Sheet:   sheet,
		Created: int(counts[created].Load()),
		Updated: int(counts[updated].Load()),
		Skipped: int(counts[skipped].Load()),
		Invalid: int(counts[invalid].Load()),
	}
	in.metrics.AddIngestRows(sheet, "created", rep.Created)
	in.metrics.AddIngestRows(sheet, "updated", rep.Updated)
	in.metrics.AddIngestRows(sheet, "skipped", rep.Skipped)
	in.metrics.AddIngestRows(sheet, "invalid", rep.Invalid)
	if err != nil {
		return rep, fmt.Errorf("import %s: %w", sheet, err)
	}
	return rep, nil
}

func (in *Ingestor) upsertCustomer(ctx context.Context, row CustomerRow) (outcome, error) {
	if err := validateCustomer(row); err != nil {
		in.log.WarnContext(ctx, "customer row rejected", "row", row.Row, "error", err)
		return invalid, nil
	}

	res := created
	err := in.uow.WithinTx(ctx, func(r uow.Repos) error {
		c := customer.New(customer.Registration{
			FirstName:     row.FirstName,
			LastName:      row.LastName,
			Age:           row.Age,
			PhoneNumber:   row.PhoneNumber,
			MonthlySalary: row.MonthlySalary,
			ApprovedLimit: row.ApprovedLimit,
		})
		c.ID = row.CustomerID

		existing, err := r.Customers.GetByID(ctx, row.CustomerID)
		switch {
		case err == nil:
			res = updated
			c.CurrentDebt = existing.CurrentDebt
			c.CreatedAt = existing.CreatedAt
			return r.Customers.Save(ctx, c)
		case errors.Is(err, gorm.ErrRecordNotFound):
			return r.Customers.Create(ctx, c)
		default:
			return err
		}
	})
	if err != nil {
		return res, fmt.Errorf("customer row %d: %w", row.Row, err)
	}
	return res, nil
}

func (in *Ingestor) upsertLoan(ctx context.Context, row LoanRow) (outcome, error) {
	l, err := loanFromRow(row)
	if err != nil {
		in.log.WarnContext(ctx, "loan row rejected", "row", row.Row, "error", err)
		return invalid, nil
	}

	res := created
	err = in.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Customers.GetByID(ctx, row.CustomerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				res = skipped
				return nil
			}
			return err
		}
		if l.ID == 0 {
			return r.Loans.Create(ctx, l)
		}

		existing, err := r.Loans.GetByID(ctx, l.ID)
		switch {
		case err == nil:
			res = updated
			l.CreatedAt = existing.CreatedAt
			return r.Loans.Save(ctx, l)
		case errors.Is(err, gorm.ErrRecordNotFound):
			return r.Loans.Create(ctx, l)
		default:
			return err
		}
	})
	if err != nil {
		return res, fmt.Errorf("loan row %d: %w", row.Row, err)
	}
	if res == skipped {
		in.log.DebugContext(ctx, "loan for unknown customer skipped", "row", row.Row, "customer_id", row.CustomerID)
	}
	return res, nil
}

func validateCustomer(row CustomerRow) error {
	switch {
	case row.CustomerID == 0:
		return fmt.Errorf("%w: customer id is required", ErrInvalidRow)
	case row.FirstName == "":
		return fmt.Errorf("%w: first name is required", ErrInvalidRow)
	case !row.MonthlySalary.IsPositive():
		return fmt.Errorf("%w: monthly salary must be positive", ErrInvalidRow)
	case row.ApprovedLimit.IsNegative():
		return fmt.Errorf("%w: approved limit must not be negative", ErrInvalidRow)
	}
	return nil
}

func loanFromRow(row LoanRow) (*loan.Loan, error) {
	if row.CustomerID == 0 {
		return nil, fmt.Errorf("%w: customer id is required", ErrInvalidRow)
	}
	if row.ApprovalDate.IsZero() {
		return nil, fmt.Errorf("%w: date of approval is required", ErrInvalidRow)
	}
	if row.EMIsPaidOnTime < 0 {
		return nil, fmt.Errorf("%w: emis paid on time must not be negative", ErrInvalidRow)
	}
	if err := credit.ValidateTerms(row.LoanAmount, row.InterestRate, row.Tenure); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRow, err)
	}

	emi := row.MonthlyPayment
	if !emi.IsPositive() {
		var err error
		if emi, err = credit.Installment(row.LoanAmount, row.InterestRate, row.Tenure); err != nil {
			return nil, err
		}
	}
	start := credit.DateOf(row.ApprovalDate)
	end := credit.DateOf(row.EndDate)
	if row.EndDate.IsZero() {
		end = credit.AddMonths(start, row.Tenure)
	}
	return &loan.Loan{
		ID:               row.LoanID,
		CustomerID:       row.CustomerID,
		LoanAmount:       row.LoanAmount,
		Tenure:           row.Tenure,
		InterestRate:     row.InterestRate,
		MonthlyRepayment: emi,
		EMIsPaidOnTime:   row.EMIsPaidOnTime,
		StartDate:        start,
		EndDate:          end,
	}, nil
}
