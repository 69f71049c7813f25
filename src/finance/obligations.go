package finance

import (
	"github.com/shopspring/decimal"

	"github.com/username/termtracker/backend/src/models"
)

// jurisdictionRule binds a jurisdiction to its native currency. The same
// obligation algorithm runs once per rule; adding a jurisdiction means
// adding a rule, not another copy of the computation.
type jurisdictionRule struct {
	jurisdiction models.Jurisdiction
	currency     models.Currency
}

var jurisdictionRules = []jurisdictionRule{
	{jurisdiction: models.JurisdictionAU, currency: models.AUD},
	{jurisdiction: models.JurisdictionGB, currency: models.GBP},
}

// NativeCurrency returns the currency a jurisdiction assesses tax in.
func NativeCurrency(j models.Jurisdiction) models.Currency {
	for _, rule := range jurisdictionRules {
		if rule.jurisdiction == j {
			return rule.currency
		}
	}
	return ""
}

// EstimatedTax is a rough per-deposit figure for the dashboard: the
// deposit's gross interest converted to the profile's jurisdiction currency
// times the marginal rate. It ignores thresholds and proration; the full
// obligation report is authoritative.
func EstimatedTax(d models.Deposit, profile models.TaxProfile) decimal.Decimal {
	interest := Convert(GrossInterest(d), d.Currency, NativeCurrency(profile.Jurisdiction), d.FX)
	return Quantize(interest.Mul(RateFraction(profile.MarginalRate)))
}

// ObligationReport is one jurisdiction's annual tax position.
type ObligationReport struct {
	Jurisdiction  models.Jurisdiction `json:"jurisdiction"`
	PeriodStart   models.Date         `json:"period_start"`
	PeriodEnd     models.Date         `json:"period_end"`
	TotalInterest decimal.Decimal     `json:"total_interest"`
	TotalPension  decimal.Decimal     `json:"total_pension"`
	TotalTaxPaid  decimal.Decimal     `json:"total_tax_paid"`
	TotalIncome   decimal.Decimal     `json:"total_income"`
	Threshold     decimal.Decimal     `json:"threshold"`
	TaxableIncome decimal.Decimal     `json:"taxable_income"`
	TaxOwed       decimal.Decimal     `json:"tax_owed"`
}

// TaxObligations computes one obligation report per jurisdiction for a
// calendar year. Both jurisdictions are computed independently from the
// same instrument set; an instrument contributes only to the jurisdiction
// whose currency matches its own. Pure function: identical inputs always
// produce identical reports.
func TaxObligations(
	deposits []models.Deposit,
	pensions []models.Pension,
	year int,
	profiles map[models.Jurisdiction]models.TaxProfile,
) map[models.Jurisdiction]ObligationReport {
	reports := make(map[models.Jurisdiction]ObligationReport, len(jurisdictionRules))
	for _, rule := range jurisdictionRules {
		reports[rule.jurisdiction] = obligationFor(rule, deposits, pensions, year, profiles[rule.jurisdiction])
	}
	return reports
}

// obligationFor runs the per-jurisdiction algorithm: prorate deposit
// interest into the jurisdiction's tax year, add annualized pensions, apply
// the threshold and marginal rate, then net off tax already withheld.
func obligationFor(
	rule jurisdictionRule,
	deposits []models.Deposit,
	pensions []models.Pension,
	year int,
	profile models.TaxProfile,
) ObligationReport {
	periodStart, periodEnd := TaxYearPeriod(year, rule.jurisdiction)

	totalInterest := decimal.Zero
	for _, d := range deposits {
		if d.Currency != rule.currency {
			continue
		}
		totalInterest = totalInterest.Add(ProratedInterest(d, periodStart, periodEnd))
	}

	// Pensions contribute twelve months of payments regardless of any date
	// range; they are not prorated.
	totalPension := decimal.Zero
	totalTaxPaid := decimal.Zero
	for _, p := range pensions {
		if p.Currency != rule.currency {
			continue
		}
		totalPension = totalPension.Add(p.AnnualAmount())
		totalTaxPaid = totalTaxPaid.Add(p.AnnualTaxPaid())
	}

	totalIncome := totalInterest.Add(totalPension)

	taxableIncome := totalIncome.Sub(profile.Threshold)
	if taxableIncome.IsNegative() {
		taxableIncome = decimal.Zero
	}

	// Withheld tax reduces the bill but is never refunded here: owed floors
	// at zero.
	taxOwed := Quantize(taxableIncome.Mul(RateFraction(profile.MarginalRate)))
	taxOwed = taxOwed.Sub(totalTaxPaid)
	if taxOwed.IsNegative() {
		taxOwed = decimal.Zero
	}

	return ObligationReport{
		Jurisdiction:  rule.jurisdiction,
		PeriodStart:   periodStart,
		PeriodEnd:     periodEnd,
		TotalInterest: totalInterest,
		TotalPension:  totalPension,
		TotalTaxPaid:  totalTaxPaid,
		TotalIncome:   totalIncome,
		Threshold:     profile.Threshold,
		TaxableIncome: taxableIncome,
		TaxOwed:       taxOwed,
	}
}
