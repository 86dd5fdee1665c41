package credit

import "time"

// DateOf truncates t to its calendar date at 00:00 UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddMonths moves t forward by the given number of calendar months. The day is
// clamped to the last day of the target month, so Jan 31 + 1 month is Feb 28 (29).
func AddMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	total := int(m) - 1 + months
	y += total / 12
	total %= 12
	if total < 0 {
		total += 12
		y--
	}
	target := time.Month(total + 1)
	if last := daysIn(y, target); d > last {
		d = last
	}
	return time.Date(y, target, d, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
