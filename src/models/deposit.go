package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RatePair is the exchange-rate snapshot captured when a deposit is created.
// Each instrument converts only through its own stored pair, so conversions
// for one instrument are always self-consistent regardless of later market
// movement.
type RatePair struct {
	AUDToGBP decimal.Decimal `json:"aud_to_gbp"`
	GBPToAUD decimal.Decimal `json:"gbp_to_aud"`
}

// Deposit is a term deposit instrument owned by a single user. The engine
// never mutates deposits; it only reads them and produces derived values.
type Deposit struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Name        string          `json:"name"`
	Principal   decimal.Decimal `json:"principal"`
	AnnualRate  decimal.Decimal `json:"annual_rate"` // percentage, e.g. 5.00
	StartDate   Date            `json:"start_date"`
	EndDate     Date            `json:"end_date"`
	Compounding Compounding     `json:"compounding"`
	Currency    Currency        `json:"currency"`
	FX          RatePair        `json:"fx"`
	Notes       string          `json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Days returns the deposit's total active term in days.
func (d Deposit) Days() int { return d.StartDate.DaysUntil(d.EndDate) }
