package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/username/termtracker/backend/src/models"
)

func TestConvert_SameCurrencyPassthrough(t *testing.T) {
	// Exact passthrough, no quantization: three decimal places survive.
	amount := dec("1234.567")
	got := Convert(amount, models.AUD, models.AUD, defaultFX)
	assert.True(t, got.Equal(amount))
	assert.Equal(t, amount.String(), got.String())
}

func TestConvert_AUDToGBP(t *testing.T) {
	// 1234.56 * 0.52 = 641.9712 -> 641.97
	got := Convert(dec("1234.56"), models.AUD, models.GBP, defaultFX)
	assert.True(t, got.Equal(dec("641.97")), "got %s", got)
}

func TestConvert_GBPToAUD(t *testing.T) {
	// 100.00 * 1.923077 = 192.3077 -> 192.31
	got := Convert(dec("100.00"), models.GBP, models.AUD, defaultFX)
	assert.True(t, got.Equal(dec("192.31")), "got %s", got)
}

func TestConvert_UnsupportedTargetFallsBackToNativeAmount(t *testing.T) {
	amount := dec("555.55")
	got := Convert(amount, models.AUD, models.Currency("USD"), defaultFX)
	assert.True(t, got.Equal(amount))
}

func TestConvert_RoundTripErrorWithinOneCent(t *testing.T) {
	// The stored pair need not satisfy a*b == 1; rounding loss at the cent
	// level is acceptable, but a round trip must stay within 0.01.
	amounts := []string{"0.01", "1.00", "99.99", "1234.56", "100000.00"}
	for _, s := range amounts {
		amount := dec(s)
		there := Convert(amount, models.AUD, models.GBP, defaultFX)
		back := Convert(there, models.GBP, models.AUD, defaultFX)
		diff := back.Sub(amount).Abs()
		assert.True(t, diff.LessThanOrEqual(dec("0.01")), "amount %s round-tripped to %s", amount, back)
	}
}

func TestConvertedDeposit(t *testing.T) {
	d := newDeposit("10000.00", "5.00", "2024-01-01", "2024-12-31", models.CompoundingSimple, models.AUD)

	native := ConvertedDeposit(d, models.AUD)
	assert.True(t, native.Principal.Equal(dec("10000.00")))
	assert.True(t, native.Interest.Equal(dec("500.00")))

	// 10000*0.52 = 5200.00; 500*0.52 = 260.00
	converted := ConvertedDeposit(d, models.GBP)
	assert.True(t, converted.Principal.Equal(dec("5200.00")), "got %s", converted.Principal)
	assert.True(t, converted.Interest.Equal(dec("260.00")), "got %s", converted.Interest)
}
