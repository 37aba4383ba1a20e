package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

// Round2 rounds a monetary value to two decimal places
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FormatAmount renders a monetary value at fixed two-decimal precision
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// IsDateOverdue checks if a due date lies strictly before asOf
func IsDateOverdue(dueDate time.Time, asOf time.Time) bool {
	return dueDate.Before(asOf)
}

// MonthsBetween counts whole calendar months from start to end
func MonthsBetween(start time.Time, end time.Time) int {
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if end.Day() < start.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
