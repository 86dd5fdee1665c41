package customer

import (
	"errors"
	"time"

	"credit-approval/internal/domain/credit"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("customer not found")
)

var (
	limitMultiplier = decimal.NewFromInt(36)
	limitRounding   = decimal.NewFromInt(100_000)
)

// Table: customers
type Customer struct {
	ID            uint64          `gorm:"column:customer_id;primaryKey;autoIncrement"`
	FirstName     string          `gorm:"column:first_name;size:100;not null"`
	LastName      string          `gorm:"column:last_name;size:100;not null"`
	Age           int             `gorm:"column:age;not null"`
	PhoneNumber   int64           `gorm:"column:phone_number;not null"`
	MonthlySalary decimal.Decimal `gorm:"column:monthly_salary;type:decimal(12,2);not null"`
	ApprovedLimit decimal.Decimal `gorm:"column:approved_limit;type:decimal(12,2);not null"`
	CurrentDebt   decimal.Decimal `gorm:"column:current_debt;type:decimal(12,2);not null;default:0"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Customer) TableName() string { return "customers" }

type Registration struct {
	FirstName     string
	LastName      string
	Age           int
	PhoneNumber   int64
	MonthlySalary decimal.Decimal
	// ApprovedLimit overrides the derived limit when positive.
	ApprovedLimit decimal.Decimal
}

// New builds a customer ready to be persisted. The approved limit defaults to
// 36x the monthly salary rounded to the nearest 100,000, ties to even.
func New(r Registration) *Customer {
	limit := r.ApprovedLimit
	if !limit.IsPositive() {
		limit = ApprovedLimitFor(r.MonthlySalary)
	}
	return &Customer{
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Age:           r.Age,
		PhoneNumber:   r.PhoneNumber,
		MonthlySalary: r.MonthlySalary,
		ApprovedLimit: limit,
		CurrentDebt:   decimal.Zero,
	}
}

func ApprovedLimitFor(monthlySalary decimal.Decimal) decimal.Decimal {
	return monthlySalary.Mul(limitMultiplier).Div(limitRounding).RoundBank(0).Mul(limitRounding)
}

func (c *Customer) Name() string { return c.FirstName + " " + c.LastName }

// Snapshot is the view the credit engine reads.
func (c *Customer) Snapshot() credit.Customer {
	return credit.Customer{ID: c.ID, MonthlySalary: c.MonthlySalary, ApprovedLimit: c.ApprovedLimit}
}
