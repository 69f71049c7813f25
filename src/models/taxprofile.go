package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxProfile holds a user's marginal rate and tax-free threshold for one
// jurisdiction. A user has at most one profile per jurisdiction.
type TaxProfile struct {
	ID                int64           `json:"id"`
	UserID            int64           `json:"user_id"`
	Jurisdiction      Jurisdiction    `json:"jurisdiction"`
	MarginalRate      decimal.Decimal `json:"marginal_rate"` // percentage
	TaxYearStartMonth int             `json:"tax_year_start_month"`
	TaxYearStartDay   int             `json:"tax_year_start_day"`
	Threshold         decimal.Decimal `json:"threshold"`
	ThresholdCurrency Currency        `json:"threshold_currency"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ApplyCreationDefaults fills jurisdiction-specific defaults on a profile
// that is being created. A zero threshold gets the statutory default for the
// jurisdiction; a zero marginal rate gets the default rate. This is a
// one-time defaulting step at creation, never recomputed afterwards.
func (p *TaxProfile) ApplyCreationDefaults() {
	switch p.Jurisdiction {
	case JurisdictionAU:
		if p.Threshold.IsZero() {
			p.Threshold = decimal.NewFromInt(18500)
			p.ThresholdCurrency = AUD
		}
		if p.MarginalRate.IsZero() {
			p.MarginalRate = decimal.NewFromInt(30)
		}
		if p.TaxYearStartMonth == 0 {
			p.TaxYearStartMonth = 7
			p.TaxYearStartDay = 1
		}
	case JurisdictionGB:
		if p.Threshold.IsZero() {
			p.Threshold = decimal.NewFromInt(12900)
			p.ThresholdCurrency = GBP
		}
		if p.MarginalRate.IsZero() {
			p.MarginalRate = decimal.NewFromInt(20)
		}
		if p.TaxYearStartMonth == 0 {
			p.TaxYearStartMonth = 4
			p.TaxYearStartDay = 6
		}
	}
}
