package finance

import (
	"github.com/shopspring/decimal"

	"github.com/username/termtracker/backend/src/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) models.Date {
	return models.MustParseDate(s)
}

// defaultFX is the snapshot pair used across tests unless a case overrides it.
var defaultFX = models.RatePair{
	AUDToGBP: dec("0.520000"),
	GBPToAUD: dec("1.923077"),
}

func newDeposit(principal, rate string, start, end string, compounding models.Compounding, currency models.Currency) models.Deposit {
	return models.Deposit{
		Name:        "test deposit",
		Principal:   dec(principal),
		AnnualRate:  dec(rate),
		StartDate:   day(start),
		EndDate:     day(end),
		Compounding: compounding,
		Currency:    currency,
		FX:          defaultFX,
	}
}

func newProfiles() map[models.Jurisdiction]models.TaxProfile {
	profiles := make(map[models.Jurisdiction]models.TaxProfile)
	for _, j := range models.Jurisdictions() {
		p := models.TaxProfile{Jurisdiction: j}
		p.ApplyCreationDefaults()
		profiles[j] = p
	}
	return profiles
}
