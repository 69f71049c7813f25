package validation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/termtracker/backend/src/models"
)

func validDeposit() models.Deposit {
	return models.Deposit{
		Name:        "savings maximiser",
		Principal:   decimal.RequireFromString("10000.00"),
		AnnualRate:  decimal.RequireFromString("5.00"),
		StartDate:   models.MustParseDate("2024-01-01"),
		EndDate:     models.MustParseDate("2025-01-01"),
		Compounding: models.CompoundingMonthly,
		Currency:    models.AUD,
		FX: models.RatePair{
			AUDToGBP: decimal.RequireFromString("0.52"),
			GBPToAUD: decimal.RequireFromString("1.923077"),
		},
	}
}

func TestValidateDeposit_Valid(t *testing.T) {
	d := validDeposit()
	require.NoError(t, ValidateDeposit(&d))
}

func TestValidateDeposit_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Deposit)
	}{
		{"empty name", func(d *models.Deposit) { d.Name = "  " }},
		{"zero principal", func(d *models.Deposit) { d.Principal = decimal.Zero }},
		{"negative principal", func(d *models.Deposit) { d.Principal = decimal.RequireFromString("-1") }},
		{"negative rate", func(d *models.Deposit) { d.AnnualRate = decimal.RequireFromString("-0.01") }},
		{"rate above 100", func(d *models.Deposit) { d.AnnualRate = decimal.RequireFromString("101") }},
		{"end before start", func(d *models.Deposit) {
			d.StartDate = models.MustParseDate("2025-01-01")
			d.EndDate = models.MustParseDate("2024-01-01")
		}},
		{"missing dates", func(d *models.Deposit) { d.StartDate = models.Date{}; d.EndDate = models.Date{} }},
		{"unknown currency", func(d *models.Deposit) { d.Currency = "USD" }},
		{"unknown compounding", func(d *models.Deposit) { d.Compounding = "WEEKLY" }},
		{"zero fx rate", func(d *models.Deposit) { d.FX.AUDToGBP = decimal.Zero }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDeposit()
			tt.mutate(&d)
			assert.Error(t, ValidateDeposit(&d))
		})
	}
}

func TestValidateDeposit_ZeroDurationAllowed(t *testing.T) {
	// Same-day start and end is legal; the engine defines its interest as 0.
	d := validDeposit()
	d.EndDate = d.StartDate
	require.NoError(t, ValidateDeposit(&d))
}

func TestValidateDeposit_SanitizesNameAndNotes(t *testing.T) {
	d := validDeposit()
	d.Name = "  my deposit\x00  "
	d.Notes = "note\x07 text"
	require.NoError(t, ValidateDeposit(&d))
	assert.Equal(t, "my deposit", d.Name)
	assert.Equal(t, "note text", d.Notes)
}

func TestValidatePension(t *testing.T) {
	p := models.Pension{
		Name:          "workplace pension",
		MonthlyAmount: decimal.RequireFromString("1000.00"),
		TaxPaid:       decimal.RequireFromString("100.00"),
		Currency:      models.GBP,
	}
	require.NoError(t, ValidatePension(&p))

	p.MonthlyAmount = decimal.Zero
	assert.Error(t, ValidatePension(&p))

	p.MonthlyAmount = decimal.RequireFromString("1000.00")
	p.TaxPaid = decimal.RequireFromString("-5")
	assert.Error(t, ValidatePension(&p))

	p.TaxPaid = decimal.Zero
	start := models.MustParseDate("2025-01-01")
	end := models.MustParseDate("2024-01-01")
	p.StartDate, p.EndDate = &start, &end
	assert.Error(t, ValidatePension(&p))
}

func TestValidateTaxProfile(t *testing.T) {
	p := models.TaxProfile{
		Jurisdiction: models.JurisdictionAU,
		MarginalRate: decimal.RequireFromString("30"),
		Threshold:    decimal.RequireFromString("18500"),
	}
	require.NoError(t, ValidateTaxProfile(&p))

	p.Jurisdiction = "US"
	assert.Error(t, ValidateTaxProfile(&p))

	p.Jurisdiction = models.JurisdictionGB
	p.MarginalRate = decimal.RequireFromString("150")
	assert.Error(t, ValidateTaxProfile(&p))
}
