package loan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"credit-approval/internal/domain/credit"
	"credit-approval/internal/domain/customer"
	"credit-approval/internal/domain/loan"
	"credit-approval/internal/domain/uow"
	"credit-approval/internal/infrastructure/metrics"

	"gorm.io/gorm"
)

const (
	MsgApproved        = "Loan approved successfully"
	MsgLowCreditScore  = "Loan not approved due to low credit score"
	MsgHighEMIBurden   = "Loan not approved due to high EMI burden"
	MsgCreditScore     = "Loan not approved due to credit score"
	scheduleDateLayout = "2006-01-02"
)

type Usecase struct {
	customers customer.Repository
	loans     loan.Repository
	uow       uow.UnitOfWork
	metrics   *metrics.Metrics
	log       *slog.Logger
	now       func() time.Time
}

// NewUsecase: repos for reads, the UoW for the locked create flow. m may be nil.
func NewUsecase(customers customer.Repository, loans loan.Repository, tx uow.UnitOfWork, log *slog.Logger, m *metrics.Metrics) *Usecase {
	return &Usecase{
		customers: customers,
		loans:     loans,
		uow:       tx,
		metrics:   m,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the clock used for "today".
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

func (u *Usecase) today() time.Time { return credit.DateOf(u.now()) }

func (u *Usecase) CheckEligibility(ctx context.Context, in EligibilityInput) (*EligibilityDTO, error) {
	c, err := u.customers.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, customerErr(err)
	}
	loans, err := u.loans.ListByCustomerID(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}

	dec, err := u.decide(ctx, c, loans, in)
	if err != nil {
		return nil, err
	}
	return &EligibilityDTO{
		CustomerID:            c.ID,
		Approval:              dec.Approved,
		InterestRate:          dec.RequestedRate,
		CorrectedInterestRate: dec.CorrectedRate,
		Tenure:                dec.Tenure,
		MonthlyInstallment:    dec.Installment,
	}, nil
}

// Create re-runs the decision while holding the customer's row lock and
// persists the loan on approval, at the corrected rate when one applies.
func (u *Usecase) Create(ctx context.Context, in CreateLoanInput) (*CreateLoanDTO, error) {
	var out *CreateLoanDTO

	err := u.uow.WithinCustomerTx(ctx, in.CustomerID, func(r uow.Repos, c *customer.Customer) error {
		loans, err := r.Loans.ListByCustomerID(ctx, c.ID)
		if err != nil {
			return fmt.Errorf("list loans: %w", err)
		}
		dec, err := u.decide(ctx, c, loans, in)
		if err != nil {
			return err
		}

		out = &CreateLoanDTO{
			CustomerID:         c.ID,
			LoanApproved:       dec.Approved,
			Message:            message(dec),
			MonthlyInstallment: dec.Installment,
		}
		if !dec.Approved {
			return nil
		}

		l, err := loan.New(c.ID, in.LoanAmount, dec.CorrectedRate, in.Tenure, u.today())
		if err != nil {
			return err
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return fmt.Errorf("create loan: %w", err)
		}
		out.LoanID = &l.ID
		out.MonthlyInstallment = l.MonthlyRepayment
		return nil
	})
	if err != nil {
		return nil, customerErr(err)
	}
	if out.LoanID != nil {
		u.log.InfoContext(ctx, "loan created", "loan_id", *out.LoanID, "customer_id", out.CustomerID)
	}
	return out, nil
}

func (u *Usecase) Get(ctx context.Context, loanID uint64) (*LoanDTO, error) {
	l, err := u.loans.GetByID(ctx, loanID)
	if err != nil {
		return nil, loanErr(err)
	}
	c, err := u.customers.GetByID(ctx, l.CustomerID)
	if err != nil {
		return nil, customerErr(err)
	}
	return &LoanDTO{
		LoanID: l.ID,
		Customer: CustomerSummary{
			ID:          c.ID,
			FirstName:   c.FirstName,
			LastName:    c.LastName,
			PhoneNumber: c.PhoneNumber,
			Age:         c.Age,
		},
		LoanAmount:       l.LoanAmount,
		InterestRate:     l.InterestRate,
		MonthlyRepayment: l.MonthlyRepayment,
		Tenure:           l.Tenure,
	}, nil
}

// ListActive returns the customer's loans that have not ended yet.
func (u *Usecase) ListActive(ctx context.Context, customerID uint64) ([]ActiveLoanDTO, error) {
	if _, err := u.customers.GetByID(ctx, customerID); err != nil {
		return nil, customerErr(err)
	}
	loans, err := u.loans.ListActiveByCustomerID(ctx, customerID, u.today())
	if err != nil {
		return nil, fmt.Errorf("list active loans: %w", err)
	}
	out := make([]ActiveLoanDTO, 0, len(loans))
	for i := range loans {
		l := &loans[i]
		out = append(out, ActiveLoanDTO{
			LoanID:             l.ID,
			LoanAmount:         l.LoanAmount,
			InterestRate:       l.InterestRate,
			MonthlyInstallment: l.MonthlyRepayment,
			RepaymentsLeft:     l.RepaymentsLeft(),
		})
	}
	return out, nil
}

func (u *Usecase) Schedule(ctx context.Context, loanID uint64) (*ScheduleDTO, error) {
	l, err := u.loans.GetByID(ctx, loanID)
	if err != nil {
		return nil, loanErr(err)
	}
	entries, err := credit.Schedule(l.LoanAmount, l.InterestRate, l.Tenure, l.StartDate)
	if err != nil {
		return nil, err
	}
	out := &ScheduleDTO{
		LoanID:             l.ID,
		MonthlyInstallment: l.MonthlyRepayment,
		Entries:            make([]ScheduleEntryDTO, 0, len(entries)),
	}
	for _, e := range entries {
		out.Entries = append(out.Entries, ScheduleEntryDTO{
			Period:           e.Period,
			DueDate:          e.DueDate.Format(scheduleDateLayout),
			Principal:        e.Principal,
			Interest:         e.Interest,
			Total:            e.Total,
			RemainingBalance: e.RemainingBalance,
		})
	}
	return out, nil
}

func (u *Usecase) decide(ctx context.Context, c *customer.Customer, loans []loan.Loan, in EligibilityInput) (credit.Decision, error) {
	dec, err := credit.EvaluateLoan(c.Snapshot(), loan.History(loans), in.request(), u.today())
	if err != nil {
		return credit.Decision{}, err
	}
	u.metrics.ObserveDecision(dec.Approved, string(dec.Reason), dec.Score)
	u.log.InfoContext(ctx, "credit decision",
		"customer_id", c.ID,
		"score", dec.Score,
		"approved", dec.Approved,
		"reason", string(dec.Reason),
		"decided_at", string(dec.DecidedAt),
		"requested_rate", dec.RequestedRate.String(),
		"corrected_rate", dec.CorrectedRate.String(),
	)
	return dec, nil
}

func message(d credit.Decision) string {
	switch d.Reason {
	case credit.ReasonNone:
		return MsgApproved
	case credit.ReasonLowCreditScore:
		return MsgLowCreditScore
	case credit.ReasonEMIBurden:
		return MsgHighEMIBurden
	default:
		return MsgCreditScore
	}
}

func customerErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return customer.ErrNotFound
	}
	return err
}

func loanErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return loan.ErrNotFound
	}
	return err
}
