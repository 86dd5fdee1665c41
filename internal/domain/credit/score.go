package credit

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultScore = 50
	MinScore     = 0
	MaxScore     = 100
)

var (
	onTimeWeight    = decimal.NewFromInt(40)
	onTimeThreshold = decimal.NewFromFloat(0.9)
	exposureLow     = decimal.NewFromFloat(0.5)
	exposureHigh    = decimal.NewFromFloat(0.8)
)

// ScoreCustomer rates a customer's creditworthiness in [0, 100] from their loan
// history. today only selects the calendar year used for the activity band.
//
//   - no loans at all: DefaultScore
//   - sum of loan amounts above the approved limit: 0
//   - otherwise on-time ratio (40), loan count (20), current-year activity (20)
//     and exposure against the approved limit (20), added up
//
// Fractional sums round up, so a score just above a band edge stays above it.
func ScoreCustomer(c Customer, history []LoanRecord, today time.Time) int {
	if len(history) == 0 {
		return DefaultScore
	}

	exposure := decimal.Zero
	for _, l := range history {
		exposure = exposure.Add(l.LoanAmount)
	}
	if exposure.GreaterThan(c.ApprovedLimit) {
		return MinScore
	}

	total := len(history)
	onTime, thisYear := 0, 0
	for _, l := range history {
		if l.PaidOnTime() {
			onTime++
		}
		if l.StartDate.Year() == today.Year() {
			thisYear++
		}
	}

	score := decimal.NewFromInt(int64(onTime)).Mul(onTimeWeight).Div(decimal.NewFromInt(int64(total)))
	score = score.Add(decimal.NewFromInt(int64(countBand(total))))
	score = score.Add(decimal.NewFromInt(int64(activityBand(thisYear))))
	score = score.Add(decimal.NewFromInt(int64(exposureBand(exposure, c.ApprovedLimit))))

	return clamp(int(score.Ceil().IntPart()), MinScore, MaxScore)
}

// PaidOnTime reports whether at least 90% of the tenure was paid on schedule.
func (r LoanRecord) PaidOnTime() bool {
	paid := decimal.NewFromInt(int64(r.EMIsPaidOnTime))
	return paid.GreaterThanOrEqual(decimal.NewFromInt(int64(r.Tenure)).Mul(onTimeThreshold))
}

func countBand(total int) int {
	switch {
	case total <= 3:
		return 20
	case total <= 6:
		return 15
	default:
		return 10
	}
}

func activityBand(thisYear int) int {
	switch {
	case thisYear <= 2:
		return 20
	case thisYear <= 4:
		return 15
	default:
		return 10
	}
}

func exposureBand(exposure, limit decimal.Decimal) int {
	switch {
	case exposure.LessThanOrEqual(limit.Mul(exposureLow)):
		return 20
	case exposure.LessThanOrEqual(limit.Mul(exposureHigh)):
		return 15
	default:
		return 10
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
