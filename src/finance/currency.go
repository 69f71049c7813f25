package finance

import (
	"github.com/shopspring/decimal"

	"github.com/username/termtracker/backend/src/models"
)

// Convert converts an amount between the two supported currencies using an
// instrument's stored rate pair. Same-currency conversions are an exact
// passthrough with no rounding. A request for any other target currency
// returns the original amount unconverted; unsupported targets are a
// defined fallback, not an error.
func Convert(amount decimal.Decimal, from, to models.Currency, pair models.RatePair) decimal.Decimal {
	if from == to {
		return amount
	}
	if from == models.AUD && to == models.GBP {
		return Quantize(amount.Mul(pair.AUDToGBP))
	}
	if from == models.GBP && to == models.AUD {
		return Quantize(amount.Mul(pair.GBPToAUD))
	}
	return amount
}

// ConvertedValues is a deposit's principal and gross interest expressed in
// a target currency.
type ConvertedValues struct {
	Currency  models.Currency `json:"currency"`
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
}

// ConvertedDeposit returns the deposit's principal and total gross interest
// in the target currency, via the deposit's own rate snapshot.
func ConvertedDeposit(d models.Deposit, target models.Currency) ConvertedValues {
	return ConvertedValues{
		Currency:  target,
		Principal: Convert(d.Principal, d.Currency, target, d.FX),
		Interest:  Convert(GrossInterest(d), d.Currency, target, d.FX),
	}
}
