package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/username/termtracker/backend/src/models"
)

func TestGrossInterest_Simple366DayTerm(t *testing.T) {
	// 10000 * 0.05 * 366/365 = 501.3698... -> 501.37
	d := newDeposit("10000.00", "5.00", "2024-01-01", "2025-01-01", models.CompoundingSimple, models.AUD)

	got := GrossInterest(d)
	assert.True(t, got.Equal(dec("501.37")), "got %s", got)
}

func TestGrossInterest_Simple365DayTerm(t *testing.T) {
	d := newDeposit("10000.00", "5.00", "2024-01-01", "2024-12-31", models.CompoundingSimple, models.AUD)

	got := GrossInterest(d)
	assert.True(t, got.Equal(dec("500.00")), "got %s", got)
}

func TestGrossInterest_Monthly(t *testing.T) {
	// amount = 10000*(1+0.05/12)^(12*366/365); interest = amount - 10000.
	d := newDeposit("10000.00", "5.00", "2024-01-01", "2025-01-01", models.CompoundingMonthly, models.AUD)

	got := GrossInterest(d)
	assert.True(t, got.Equal(dec("513.06")), "got %s", got)

	// Monthly compounding earns more than simple interest on the same terms.
	simple := d
	simple.Compounding = models.CompoundingSimple
	assert.True(t, got.GreaterThan(GrossInterest(simple)))
}

func TestGrossInterest_Annual(t *testing.T) {
	// amount = 10000*(1.05)^(366/365); interest -> 501.40
	d := newDeposit("10000.00", "5.00", "2024-01-01", "2025-01-01", models.CompoundingAnnual, models.AUD)

	got := GrossInterest(d)
	assert.True(t, got.Equal(dec("501.40")), "got %s", got)
}

func TestGrossInterest_UnknownConventionFallsBackToAnnual(t *testing.T) {
	annual := newDeposit("10000.00", "5.00", "2024-01-01", "2025-01-01", models.CompoundingAnnual, models.AUD)
	unknown := annual
	unknown.Compounding = models.Compounding("WEEKLY")

	assert.True(t, GrossInterest(unknown).Equal(GrossInterest(annual)))
}

func TestGrossInterest_ZeroDurationDeposit(t *testing.T) {
	for _, c := range []models.Compounding{models.CompoundingSimple, models.CompoundingMonthly, models.CompoundingAnnual} {
		d := newDeposit("10000.00", "5.00", "2024-06-01", "2024-06-01", c, models.AUD)
		assert.True(t, GrossInterest(d).IsZero(), "compounding %s", c)
	}
}

func TestGrossInterest_ZeroRate(t *testing.T) {
	d := newDeposit("10000.00", "0.00", "2024-01-01", "2025-01-01", models.CompoundingMonthly, models.GBP)
	assert.True(t, GrossInterest(d).IsZero())
}
