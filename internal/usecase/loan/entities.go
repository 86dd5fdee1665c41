package loan

import (
	"credit-approval/internal/domain/credit"

	"github.com/shopspring/decimal"
)

// EligibilityInput is a proposed loan for an existing customer.
type EligibilityInput struct {
	CustomerID   uint64          `json:"customer_id"`
	LoanAmount   decimal.Decimal `json:"loan_amount"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	Tenure       int             `json:"tenure"`
}

func (in EligibilityInput) request() credit.Request {
	return credit.Request{Amount: in.LoanAmount, InterestRate: in.InterestRate, Tenure: in.Tenure}
}

type CreateLoanInput = EligibilityInput

type EligibilityDTO struct {
	CustomerID            uint64          `json:"customer_id"`
	Approval              bool            `json:"approval"`
	InterestRate          decimal.Decimal `json:"interest_rate"`
	CorrectedInterestRate decimal.Decimal `json:"corrected_interest_rate"`
	Tenure                int             `json:"tenure"`
	MonthlyInstallment    decimal.Decimal `json:"monthly_installment"`
}

type CreateLoanDTO struct {
	LoanID             *uint64         `json:"loan_id"`
	CustomerID         uint64          `json:"customer_id"`
	LoanApproved       bool            `json:"loan_approved"`
	Message            string          `json:"message"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
}

type CustomerSummary struct {
	ID          uint64 `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber int64  `json:"phone_number"`
	Age         int    `json:"age"`
}

type LoanDTO struct {
	LoanID           uint64          `json:"loan_id"`
	Customer         CustomerSummary `json:"customer"`
	LoanAmount       decimal.Decimal `json:"loan_amount"`
	InterestRate     decimal.Decimal `json:"interest_rate"`
	MonthlyRepayment decimal.Decimal `json:"monthly_repayment"`
	Tenure           int             `json:"tenure"`
}

type ActiveLoanDTO struct {
	LoanID             uint64          `json:"loan_id"`
	LoanAmount         decimal.Decimal `json:"loan_amount"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
	RepaymentsLeft     int             `json:"repayments_left"`
}

type ScheduleEntryDTO struct {
	Period           int             `json:"period"`
	DueDate          string          `json:"due_date"`
	Principal        decimal.Decimal `json:"principal"`
	Interest         decimal.Decimal `json:"interest"`
	Total            decimal.Decimal `json:"total"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

type ScheduleDTO struct {
	LoanID             uint64             `json:"loan_id"`
	MonthlyInstallment decimal.Decimal    `json:"monthly_installment"`
	Entries            []ScheduleEntryDTO `json:"schedule"`
}
