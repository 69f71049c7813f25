package services

import (
	"os"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/termtracker/backend/src/database"
	"github.com/username/termtracker/backend/src/logger"
	"github.com/username/termtracker/backend/src/models"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	database.InitDB(":memory:")
	os.Exit(m.Run())
}

const testUserID int64 = 1

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testDeposit(name string) models.Deposit {
	return models.Deposit{
		Name:        name,
		Principal:   dec("10000.00"),
		AnnualRate:  dec("5.00"),
		StartDate:   models.MustParseDate("2024-07-01"),
		EndDate:     models.MustParseDate("2025-06-30"),
		Compounding: models.CompoundingSimple,
		Currency:    models.AUD,
		FX: models.RatePair{
			AUDToGBP: dec("0.52"),
			GBPToAUD: dec("1.923077"),
		},
		Notes: "opened at branch",
	}
}

func newTestServices(t *testing.T) (InstrumentService, *cache.Cache) {
	t.Helper()
	reportCache := cache.New(time.Minute, time.Minute)
	return NewInstrumentService(reportCache), reportCache
}

func TestDepositRoundTrip(t *testing.T) {
	svc, _ := newTestServices(t)

	d := testDeposit("term deposit roundtrip")
	require.NoError(t, svc.CreateDeposit(testUserID, &d))
	require.NotZero(t, d.ID)

	got, err := svc.GetDeposit(testUserID, d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.Name, got.Name)
	assert.True(t, got.Principal.Equal(dec("10000.00")), "principal: %s", got.Principal)
	assert.True(t, got.AnnualRate.Equal(dec("5.00")))
	assert.True(t, got.StartDate.Equal(models.MustParseDate("2024-07-01")))
	assert.True(t, got.EndDate.Equal(models.MustParseDate("2025-06-30")))
	assert.Equal(t, models.CompoundingSimple, got.Compounding)
	assert.Equal(t, models.AUD, got.Currency)
	assert.True(t, got.FX.AUDToGBP.Equal(dec("0.52")))
	assert.True(t, got.FX.GBPToAUD.Equal(dec("1.923077")))
	assert.Equal(t, "opened at branch", got.Notes)

	got.Name = "renamed"
	got.AnnualRate = dec("4.75")
	require.NoError(t, svc.UpdateDeposit(testUserID, got))

	updated, err := svc.GetDeposit(testUserID, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.True(t, updated.AnnualRate.Equal(dec("4.75")))

	require.NoError(t, svc.DeleteDeposit(testUserID, d.ID))
	_, err = svc.GetDeposit(testUserID, d.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDepositOwnerScoping(t *testing.T) {
	svc, _ := newTestServices(t)

	d := testDeposit("owner scoped")
	require.NoError(t, svc.CreateDeposit(testUserID, &d))
	t.Cleanup(func() { _ = svc.DeleteDeposit(testUserID, d.ID) })

	const otherUser int64 = 99
	_, err := svc.GetDeposit(otherUser, d.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.DeleteDeposit(otherUser, d.ID), ErrNotFound)

	other := testDeposit("other user's view")
	other.ID = d.ID
	assert.ErrorIs(t, svc.UpdateDeposit(otherUser, &other), ErrNotFound)
}

func TestListDepositsByCurrency(t *testing.T) {
	svc, _ := newTestServices(t)

	aud := testDeposit("aud deposit")
	gbp := testDeposit("gbp deposit")
	gbp.Currency = models.GBP
	require.NoError(t, svc.CreateDeposit(testUserID, &aud))
	require.NoError(t, svc.CreateDeposit(testUserID, &gbp))
	t.Cleanup(func() {
		_ = svc.DeleteDeposit(testUserID, aud.ID)
		_ = svc.DeleteDeposit(testUserID, gbp.ID)
	})

	onlyGBP, err := svc.ListDepositsByCurrency(testUserID, models.GBP)
	require.NoError(t, err)
	require.Len(t, onlyGBP, 1)
	assert.Equal(t, "gbp deposit", onlyGBP[0].Name)
}

func TestPensionNullableDates(t *testing.T) {
	svc, _ := newTestServices(t)

	open := models.Pension{
		Name:          "open ended pension",
		MonthlyAmount: dec("1000.00"),
		TaxPaid:       dec("100.00"),
		Currency:      models.GBP,
	}
	require.NoError(t, svc.CreatePension(testUserID, &open))
	t.Cleanup(func() { _ = svc.DeletePension(testUserID, open.ID) })

	got, err := svc.GetPension(testUserID, open.ID)
	require.NoError(t, err)
	assert.Nil(t, got.StartDate)
	assert.Nil(t, got.EndDate)
	assert.True(t, got.MonthlyAmount.Equal(dec("1000.00")))

	start := models.MustParseDate("2024-01-01")
	end := models.MustParseDate("2030-12-31")
	got.StartDate, got.EndDate = &start, &end
	require.NoError(t, svc.UpdatePension(testUserID, got))

	dated, err := svc.GetPension(testUserID, open.ID)
	require.NoError(t, err)
	require.NotNil(t, dated.StartDate)
	require.NotNil(t, dated.EndDate)
	assert.True(t, dated.StartDate.Equal(start))
	assert.True(t, dated.EndDate.Equal(end))
}

func TestGetOrCreateTaxProfileDefaults(t *testing.T) {
	svc, _ := newTestServices(t)
	const userID int64 = 42

	au, err := svc.GetOrCreateTaxProfile(userID, models.JurisdictionAU)
	require.NoError(t, err)
	assert.True(t, au.Threshold.Equal(dec("18500")))
	assert.Equal(t, models.AUD, au.ThresholdCurrency)
	assert.True(t, au.MarginalRate.Equal(dec("30")))
	assert.Equal(t, 7, au.TaxYearStartMonth)
	assert.Equal(t, 1, au.TaxYearStartDay)

	gb, err := svc.GetOrCreateTaxProfile(userID, models.JurisdictionGB)
	require.NoError(t, err)
	assert.True(t, gb.Threshold.Equal(dec("12900")))
	assert.Equal(t, models.GBP, gb.ThresholdCurrency)
	assert.True(t, gb.MarginalRate.Equal(dec("20")))
	assert.Equal(t, 4, gb.TaxYearStartMonth)
	assert.Equal(t, 6, gb.TaxYearStartDay)

	// Second fetch returns the stored row, not a fresh default.
	again, err := svc.GetOrCreateTaxProfile(userID, models.JurisdictionAU)
	require.NoError(t, err)
	assert.Equal(t, au.ID, again.ID)
}

func TestUpdateTaxProfileNotRedefaulted(t *testing.T) {
	svc, _ := newTestServices(t)
	const userID int64 = 43

	p, err := svc.GetOrCreateTaxProfile(userID, models.JurisdictionGB)
	require.NoError(t, err)

	p.Threshold = dec("0")
	p.MarginalRate = dec("45")
	require.NoError(t, svc.UpdateTaxProfile(userID, p))

	// The zero threshold the user chose survives; defaulting only happens
	// at creation.
	got, err := svc.GetOrCreateTaxProfile(userID, models.JurisdictionGB)
	require.NoError(t, err)
	assert.True(t, got.Threshold.IsZero())
	assert.True(t, got.MarginalRate.Equal(dec("45")))
}

func TestHasData(t *testing.T) {
	svc, _ := newTestServices(t)
	const userID int64 = 44

	hasData, err := svc.HasData(userID)
	require.NoError(t, err)
	assert.False(t, hasData)

	p := models.Pension{Name: "first pension", MonthlyAmount: dec("500"), TaxPaid: dec("0"), Currency: models.GBP}
	require.NoError(t, svc.CreatePension(userID, &p))
	t.Cleanup(func() { _ = svc.DeletePension(userID, p.ID) })

	hasData, err = svc.HasData(userID)
	require.NoError(t, err)
	assert.True(t, hasData)
}

func TestMutationInvalidatesReportCache(t *testing.T) {
	svc, reportCache := newTestServices(t)
	const userID int64 = 45

	reportCache.Set(dashboardCacheKey(userID), &DashboardSummary{}, time.Minute)
	reportCache.Set(taxObligationsCacheKey(userID, 2024), &TaxObligationsReport{}, time.Minute)
	reportCache.Set(dashboardCacheKey(999), &DashboardSummary{}, time.Minute)

	d := testDeposit("cache buster")
	require.NoError(t, svc.CreateDeposit(userID, &d))
	t.Cleanup(func() { _ = svc.DeleteDeposit(userID, d.ID) })

	_, found := reportCache.Get(dashboardCacheKey(userID))
	assert.False(t, found, "dashboard cache entry should be invalidated")
	_, found = reportCache.Get(taxObligationsCacheKey(userID, 2024))
	assert.False(t, found, "obligations cache entry should be invalidated")
	_, found = reportCache.Get(dashboardCacheKey(999))
	assert.True(t, found, "other users' cache entries must survive")
}
