// Package finance is the computation engine for interest accrual, currency
// conversion and tax-year obligation reports. Every function here is pure:
// deterministic over immutable inputs, no I/O, no shared state. All money
// arithmetic uses base-10 decimals; binary floats are never used.
package finance

import "github.com/shopspring/decimal"

var (
	one        = decimal.NewFromInt(1)
	twelve     = decimal.NewFromInt(12)
	oneHundred = decimal.NewFromInt(100)

	// daysPerYear is a fixed 365-day denominator. Leap years are deliberately
	// not adjusted for; a 366-day term counts as 366/365 years.
	daysPerYear = decimal.NewFromInt(365)
)

// Quantize rounds an amount to the cent. Rounding is half away from zero
// (2.345 -> 2.35, -2.345 -> -2.35). Formulas quantize only their final
// result, never intermediates, so rounding error cannot compound across
// chained operations.
func Quantize(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// RateFraction converts a percentage rate (e.g. 5.00) to a fraction (0.05).
func RateFraction(percent decimal.Decimal) decimal.Decimal {
	return percent.Div(oneHundred)
}
