package loan

import (
	"errors"
	"time"

	"credit-approval/internal/domain/credit"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("loan not found")
)

// Table: loans
type Loan struct {
	ID               uint64          `gorm:"column:loan_id;primaryKey;autoIncrement"`
	CustomerID       uint64          `gorm:"column:customer_id;not null;index:idx_loans_customer_end"`
	LoanAmount       decimal.Decimal `gorm:"column:loan_amount;type:decimal(12,2);not null"`
	Tenure           int             `gorm:"column:tenure;not null"`
	InterestRate     decimal.Decimal `gorm:"column:interest_rate;type:decimal(5,2);not null"`
	MonthlyRepayment decimal.Decimal `gorm:"column:monthly_repayment;type:decimal(12,2);not null"`
	EMIsPaidOnTime   int             `gorm:"column:emis_paid_on_time;not null;default:0"`
	StartDate        time.Time       `gorm:"column:start_date;type:date;not null"`
	EndDate          time.Time       `gorm:"column:end_date;type:date;not null;index:idx_loans_customer_end"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Loan) TableName() string { return "loans" }

// New opens a loan starting on the given day. The monthly repayment and the
// end date are always derived from the terms.
func New(customerID uint64, amount, rate decimal.Decimal, tenure int, start time.Time) (*Loan, error) {
	emi, err := credit.Installment(amount, rate, tenure)
	if err != nil {
		return nil, err
	}
	start = credit.DateOf(start)
	return &Loan{
		CustomerID:       customerID,
		LoanAmount:       amount,
		Tenure:           tenure,
		InterestRate:     rate,
		MonthlyRepayment: emi,
		StartDate:        start,
		EndDate:          credit.AddMonths(start, tenure),
	}, nil
}

func (l *Loan) Active(today time.Time) bool { return l.Snapshot().Active(today) }

// RepaymentsLeft never goes below zero.
func (l *Loan) RepaymentsLeft() int {
	if left := l.Tenure - l.EMIsPaidOnTime; left > 0 {
		return left
	}
	return 0
}

func (l *Loan) Snapshot() credit.LoanRecord {
	return credit.LoanRecord{
		LoanAmount:       l.LoanAmount,
		Tenure:           l.Tenure,
		EMIsPaidOnTime:   l.EMIsPaidOnTime,
		StartDate:        l.StartDate,
		EndDate:          l.EndDate,
		MonthlyRepayment: l.MonthlyRepayment,
	}
}

func History(loans []Loan) []credit.LoanRecord {
	out := make([]credit.LoanRecord, 0, len(loans))
	for i := range loans {
		out = append(out, loans[i].Snapshot())
	}
	return out
}
