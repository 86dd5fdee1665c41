package credit

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedule_TwelveMonthsAtTwelvePercent(t *testing.T) {
	start := date(2025, 1, 31)
	schedule, err := Schedule(d("100000"), d("12"), 12, start)
	require.NoError(t, err)
	require.Len(t, schedule, 12)

	first := schedule[0]
	assert.Equal(t, 1, first.Period)
	assert.Equal(t, date(2025, 2, 28), first.DueDate)
	assert.True(t, first.Interest.Equal(d("1000")), "got %s", first.Interest)
	assert.True(t, first.Principal.Equal(d("7884.88")), "got %s", first.Principal)
	assert.True(t, first.Total.Equal(d("8884.88")))
	assert.True(t, first.RemainingBalance.Equal(d("92115.12")))

	last := schedule[len(schedule)-1]
	assert.Equal(t, 12, last.Period)
	assert.Equal(t, date(2026, 1, 31), last.DueDate)
	assert.True(t, last.RemainingBalance.IsZero())

	principal := decimal.Zero
	for _, e := range schedule {
		principal = principal.Add(e.Principal)
		assert.False(t, e.RemainingBalance.IsNegative())
	}
	assert.True(t, principal.Equal(d("100000")), "principal parts sum to %s", principal)

	// last payment absorbs rounding and stays within a few cents of the EMI
	assert.True(t, last.Total.Sub(d("8884.88")).Abs().LessThan(d("0.10")), "got %s", last.Total)
}

func TestSchedule_ZeroRate(t *testing.T) {
	schedule, err := Schedule(d("120000"), decimal.Zero, 12, date(2025, 6, 1))
	require.NoError(t, err)
	require.Len(t, schedule, 12)
	for _, e := range schedule {
		assert.True(t, e.Interest.IsZero())
		assert.True(t, e.Principal.Equal(d("10000")))
	}
	assert.True(t, schedule[11].RemainingBalance.IsZero())
}

func TestSchedule_InvalidTerms(t *testing.T) {
	_, err := Schedule(d("100000"), d("12"), 0, date(2025, 6, 1))
	assert.ErrorIs(t, err, ErrInvalidLoanTerms)
}
