package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/username/termtracker/backend/src/models"
)

func TestTaxYearPeriod_AU(t *testing.T) {
	start, end := TaxYearPeriod(2024, models.JurisdictionAU)
	assert.Equal(t, "2024-07-01", start.String())
	assert.Equal(t, "2025-06-30", end.String())
}

func TestTaxYearPeriod_GB(t *testing.T) {
	start, end := TaxYearPeriod(2024, models.JurisdictionGB)
	assert.Equal(t, "2024-04-06", start.String())
	assert.Equal(t, "2025-04-05", end.String())
}

func TestTaxYearPeriod_FarYears(t *testing.T) {
	start, end := TaxYearPeriod(1900, models.JurisdictionAU)
	assert.Equal(t, "1900-07-01", start.String())
	assert.Equal(t, "1901-06-30", end.String())

	start, end = TaxYearPeriod(2150, models.JurisdictionGB)
	assert.Equal(t, "2150-04-06", start.String())
	assert.Equal(t, "2151-04-05", end.String())
}

func TestTaxYearPeriod_Deterministic(t *testing.T) {
	s1, e1 := TaxYearPeriod(2024, models.JurisdictionGB)
	s2, e2 := TaxYearPeriod(2024, models.JurisdictionGB)
	assert.True(t, s1.Equal(s2))
	assert.True(t, e1.Equal(e2))
}
