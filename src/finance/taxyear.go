package finance

import (
	"time"

	"github.com/username/termtracker/backend/src/models"
)

// TaxYearPeriod returns the statutory tax-year date range a calendar year
// maps to in a jurisdiction. AU runs July 1 to June 30 of the next year; GB
// runs April 6 to April 5 of the next year. Deterministic for any year.
func TaxYearPeriod(year int, jurisdiction models.Jurisdiction) (start, end models.Date) {
	if jurisdiction == models.JurisdictionAU {
		return models.NewDate(year, time.July, 1), models.NewDate(year+1, time.June, 30)
	}
	return models.NewDate(year, time.April, 6), models.NewDate(year+1, time.April, 5)
}
