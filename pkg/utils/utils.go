package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// MoneyPlaces is the scale money is stored with
	MoneyPlaces = 2
	// RatePlaces is the scale rates and indicators are stored with
	RatePlaces = 8
)

// AddMonths advances date by n whole months. When the target month is shorter
// than the source day, the date is clamped to the target month's last day
// (Jan 31 + 1 month = Feb 28/29) instead of overflowing into the next month.
func AddMonths(date time.Time, n int) time.Time {
	y, m, d := date.Date()
	firstOfTarget := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, date.Location())
	lastDay := DaysInMonth(firstOfTarget)
	if d > lastDay {
		d = lastDay
	}
	hh, mm, ss := date.Clock()
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, hh, mm, ss, date.Nanosecond(), date.Location())
}

// DaysInMonth returns the number of days of the month date falls in
func DaysInMonth(date time.Time) int {
	return time.Date(date.Year(), date.Month()+1, 0, 0, 0, 0, 0, date.Location()).Day()
}

// TruncateToDay drops the clock part of a date, keeping its location
func TruncateToDay(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, date.Location())
}

// Money converts a float amount to decimal rounded to currency precision
func Money(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(MoneyPlaces)
}

// Rate converts a float rate to decimal rounded to rate precision
func Rate(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(RatePlaces)
}
