package models

import (
	"time"

	"github.com/shopspring/decimal"
)

var twelve = decimal.NewFromInt(12)

// Pension is a recurring monthly pension income instrument. Unlike deposits,
// a pension always contributes twelve months of payments to a tax year; it
// is not prorated by date overlap even when start/end dates are set.
type Pension struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	Name          string          `json:"name"`
	MonthlyAmount decimal.Decimal `json:"monthly_amount"`
	TaxPaid       decimal.Decimal `json:"tax_paid"` // tax withheld per month
	Currency      Currency        `json:"currency"`
	StartDate     *Date           `json:"start_date,omitempty"`
	EndDate       *Date           `json:"end_date,omitempty"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// AnnualAmount returns twelve months of gross payments, quantized to the cent.
func (p Pension) AnnualAmount() decimal.Decimal {
	return p.MonthlyAmount.Mul(twelve).Round(2)
}

// AnnualTaxPaid returns twelve months of withheld tax, quantized to the cent.
func (p Pension) AnnualTaxPaid() decimal.Decimal {
	return p.TaxPaid.Mul(twelve).Round(2)
}
