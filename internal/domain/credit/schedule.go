package credit

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScheduleEntry is one period of an amortization schedule.
type ScheduleEntry struct {
	Period           int
	DueDate          time.Time
	Principal        decimal.Decimal
	Interest         decimal.Decimal
	Total            decimal.Decimal
	RemainingBalance decimal.Decimal
}

// Schedule splits each installment into interest and principal. Payments fall due
// one calendar month apart starting a month after start. The final period takes
// whatever principal is left so the balance ends at exactly zero.
func Schedule(principal, annualRate decimal.Decimal, tenure int, start time.Time) ([]ScheduleEntry, error) {
	emi, err := Installment(principal, annualRate, tenure)
	if err != nil {
		return nil, err
	}
	monthlyRate := annualRate.Div(hundred).Div(twelve)

	out := make([]ScheduleEntry, 0, tenure)
	remaining := principal
	for period := 1; period <= tenure; period++ {
		interest := remaining.Mul(monthlyRate).Round(2)
		part := emi.Sub(interest)
		if period == tenure || part.GreaterThan(remaining) {
			part = remaining
		}
		remaining = remaining.Sub(part)

		out = append(out, ScheduleEntry{
			Period:           period,
			DueDate:          AddMonths(start, period),
			Principal:        part,
			Interest:         interest,
			Total:            part.Add(interest),
			RemainingBalance: remaining,
		})
	}
	return out, nil
}
