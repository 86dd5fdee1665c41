package ingest

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerRow is one line of the customer sheet. Row is the 1-based sheet row.
type CustomerRow struct {
	Row           int
	CustomerID    uint64
	FirstName     string
	LastName      string
	Age           int
	PhoneNumber   int64
	MonthlySalary decimal.Decimal
	ApprovedLimit decimal.Decimal
}

// LoanRow is one line of the loan sheet. Zero MonthlyPayment or EndDate are
// derived from the other terms.
type LoanRow struct {
	Row            int
	CustomerID     uint64
	LoanID         uint64
	LoanAmount     decimal.Decimal
	Tenure         int
	InterestRate   decimal.Decimal
	MonthlyPayment decimal.Decimal
	EMIsPaidOnTime int
	ApprovalDate   time.Time
	EndDate        time.Time
}

// Report counts what happened to each row of one sheet.
type Report struct {
	Sheet   string `json:"sheet"`
	Created int    `json:"created"`
	Updated int    `json:"updated"`
	Skipped int    `json:"skipped"`
	Invalid int    `json:"invalid"`
}

func (r Report) Total() int { return r.Created + r.Updated + r.Skipped + r.Invalid }
