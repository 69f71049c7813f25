package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/termtracker/backend/src/models"
)

func TestTaxObligations_PensionBelowThreshold(t *testing.T) {
	// GBP pension 1000/month with 100/month withheld. Annualized: 12000
	// gross, 1200 withheld. 12000 < 12900 threshold, so nothing is owed and
	// the withheld tax is not refunded.
	pensions := []models.Pension{{
		Name:          "workplace pension",
		MonthlyAmount: dec("1000.00"),
		TaxPaid:       dec("100.00"),
		Currency:      models.GBP,
	}}

	reports := TaxObligations(nil, pensions, 2024, newProfiles())
	gb, ok := reports[models.JurisdictionGB]
	require.True(t, ok)

	assert.True(t, gb.TotalPension.Equal(dec("12000.00")))
	assert.True(t, gb.TotalTaxPaid.Equal(dec("1200.00")))
	assert.True(t, gb.TotalIncome.Equal(dec("12000.00")))
	assert.True(t, gb.Threshold.Equal(dec("12900")))
	assert.True(t, gb.TaxableIncome.IsZero())
	assert.True(t, gb.TaxOwed.IsZero())

	// The AU side sees none of the GBP pension.
	au := reports[models.JurisdictionAU]
	assert.True(t, au.TotalPension.IsZero())
	assert.True(t, au.TaxOwed.IsZero())
}

func TestTaxObligations_DepositAboveThreshold(t *testing.T) {
	// Deposit spans AU FY2024 exactly (364-day term), so the full gross
	// interest lands in the period: 500000*0.05*364/365 = 24931.51.
	// Taxable: 24931.51 - 18500 = 6431.51; owed: 6431.51*0.30 = 1929.45.
	deposits := []models.Deposit{
		newDeposit("500000.00", "5.00", "2024-07-01", "2025-06-30", models.CompoundingSimple, models.AUD),
	}

	reports := TaxObligations(deposits, nil, 2024, newProfiles())
	au := reports[models.JurisdictionAU]

	assert.True(t, au.TotalInterest.Equal(dec("24931.51")), "got %s", au.TotalInterest)
	assert.True(t, au.TaxableIncome.Equal(dec("6431.51")), "got %s", au.TaxableIncome)
	assert.True(t, au.TaxOwed.Equal(dec("1929.45")), "got %s", au.TaxOwed)

	// The AUD deposit contributes nothing to the GB report.
	gb := reports[models.JurisdictionGB]
	assert.True(t, gb.TotalInterest.IsZero())
}

func TestTaxObligations_WithheldTaxReducesButNeverRefunds(t *testing.T) {
	// AUD pension large enough to owe tax: 24000 gross, taxable 5500,
	// owed before credit 1650.00, withheld 2400 -> floors at zero.
	pensions := []models.Pension{{
		MonthlyAmount: dec("2000.00"),
		TaxPaid:       dec("200.00"),
		Currency:      models.AUD,
	}}

	reports := TaxObligations(nil, pensions, 2024, newProfiles())
	au := reports[models.JurisdictionAU]

	assert.True(t, au.TaxableIncome.Equal(dec("5500.00")), "got %s", au.TaxableIncome)
	assert.True(t, au.TaxOwed.IsZero(), "got %s", au.TaxOwed)
}

func TestTaxObligations_PensionIgnoresDateRange(t *testing.T) {
	// A pension with a date range far outside the queried year still
	// contributes a full twelve months; pensions are never prorated.
	start := day("2010-01-01")
	end := day("2010-12-31")
	pensions := []models.Pension{{
		MonthlyAmount: dec("500.00"),
		Currency:      models.AUD,
		StartDate:     &start,
		EndDate:       &end,
	}}

	reports := TaxObligations(nil, pensions, 2024, newProfiles())
	assert.True(t, reports[models.JurisdictionAU].TotalPension.Equal(dec("6000.00")))
}

func TestTaxObligations_MixedInstruments(t *testing.T) {
	deposits := []models.Deposit{
		newDeposit("10000.00", "5.00", "2024-01-01", "2024-12-31", models.CompoundingSimple, models.AUD),
		newDeposit("20000.00", "4.00", "2024-04-06", "2025-04-05", models.CompoundingSimple, models.GBP),
	}
	pensions := []models.Pension{
		{MonthlyAmount: dec("1000.00"), TaxPaid: dec("100.00"), Currency: models.GBP},
	}

	reports := TaxObligations(deposits, pensions, 2024, newProfiles())

	// AU: AUD deposit prorated into FY2024 -> 500.00 * 183/365 = 250.68.
	au := reports[models.JurisdictionAU]
	assert.True(t, au.TotalInterest.Equal(dec("250.68")), "got %s", au.TotalInterest)
	assert.True(t, au.TotalPension.IsZero())
	assert.True(t, au.TaxOwed.IsZero())

	// GB: GBP deposit spans the GB tax year exactly (364-day term):
	// 20000*0.04*364/365 = 797.81. Income 797.81+12000 = 12797.81 < 12900.
	gb := reports[models.JurisdictionGB]
	assert.True(t, gb.TotalInterest.Equal(dec("797.81")), "got %s", gb.TotalInterest)
	assert.True(t, gb.TotalIncome.Equal(dec("12797.81")), "got %s", gb.TotalIncome)
	assert.True(t, gb.TaxableIncome.IsZero())
	assert.True(t, gb.TaxOwed.IsZero())
}

func TestTaxObligations_Idempotent(t *testing.T) {
	deposits := []models.Deposit{
		newDeposit("10000.00", "5.00", "2024-01-01", "2024-12-31", models.CompoundingMonthly, models.AUD),
	}
	pensions := []models.Pension{
		{MonthlyAmount: dec("750.00"), TaxPaid: dec("50.00"), Currency: models.AUD},
	}
	profiles := newProfiles()

	first := TaxObligations(deposits, pensions, 2024, profiles)
	second := TaxObligations(deposits, pensions, 2024, profiles)
	assert.Equal(t, first, second)
}
