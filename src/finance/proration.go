package finance

import (
	"github.com/shopspring/decimal"

	"github.com/username/termtracker/backend/src/models"
)

// ProratedInterest returns the share of a deposit's total interest earned
// within [periodStart, periodEnd], in the deposit's native currency.
//
// The share is linear day-count proration of the total compounded interest:
// total * overlapDays/termDays. Interest is never recompounded over just the
// overlap window; the linear apportionment is the defined behavior even for
// MONTHLY and ANNUAL deposits. Empty or negative overlaps and zero-duration
// deposits yield 0.00.
func ProratedInterest(d models.Deposit, periodStart, periodEnd models.Date) decimal.Decimal {
	if d.EndDate.Before(periodStart) || d.StartDate.After(periodEnd) {
		return decimal.Zero
	}

	overlapStart := d.StartDate.Max(periodStart)
	overlapEnd := d.EndDate.Min(periodEnd)

	overlapDays := overlapStart.DaysUntil(overlapEnd)
	if overlapDays <= 0 {
		return decimal.Zero
	}

	// Zero-duration deposits earn nothing; also guards the division below.
	totalDays := d.Days()
	if totalDays <= 0 {
		return decimal.Zero
	}

	ratio := decimal.NewFromInt(int64(overlapDays)).Div(decimal.NewFromInt(int64(totalDays)))
	return Quantize(GrossInterest(d).Mul(ratio))
}
