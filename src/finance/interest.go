package finance

import (
	"github.com/shopspring/decimal"

	"github.com/username/termtracker/backend/src/models"
)

// GrossInterest computes the total interest a deposit earns over its full
// term, in the deposit's native currency, quantized to the cent.
//
// The term in years is days/365 with no leap-year adjustment. SIMPLE uses
// P*r*t. MONTHLY compounds with n=12 periods per year. ANNUAL, and any
// unrecognized convention, compounds with n=1; unknown conventions fall back
// to annual compounding rather than failing, so configuration drift never
// crashes a report.
func GrossInterest(d models.Deposit) decimal.Decimal {
	principal := d.Principal
	rate := RateFraction(d.AnnualRate)
	termYears := decimal.NewFromInt(int64(d.Days())).Div(daysPerYear)

	switch d.Compounding {
	case models.CompoundingSimple:
		return Quantize(principal.Mul(rate).Mul(termYears))
	case models.CompoundingMonthly:
		return compoundInterest(principal, rate, termYears, twelve)
	default:
		return compoundInterest(principal, rate, termYears, one)
	}
}

// compoundInterest returns P*(1+r/n)^(n*t) - P, quantized to the cent.
func compoundInterest(principal, rate, termYears, periodsPerYear decimal.Decimal) decimal.Decimal {
	base := one.Add(rate.Div(periodsPerYear))
	exponent := periodsPerYear.Mul(termYears)
	amount := principal.Mul(base.Pow(exponent))
	return Quantize(amount.Sub(principal))
}
