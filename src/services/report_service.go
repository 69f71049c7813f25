package services

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"github.com/username/termtracker/backend/src/finance"
	"github.com/username/termtracker/backend/src/logger"
	"github.com/username/termtracker/backend/src/models"
)

const (
	dashboardCacheDuration      = 15 * time.Minute
	taxObligationsCacheDuration = 30 * time.Minute
	availableYearsBefore        = 2
	availableYearsAfter         = 2
)

type reportServiceImpl struct {
	instruments InstrumentService
	reportCache *cache.Cache
}

// NewReportService creates the report aggregator. It owns no storage of its
// own; everything is derived from the instrument service and memoized in
// the shared cache keyed by user (and year for obligation reports).
func NewReportService(instruments InstrumentService, reportCache *cache.Cache) ReportService {
	return &reportServiceImpl{instruments: instruments, reportCache: reportCache}
}

func dashboardCacheKey(userID int64) string {
	return fmt.Sprintf("agg_dashboard_user_%d", userID)
}

func taxObligationsCacheKey(userID int64, year int) string {
	return fmt.Sprintf("agg_tax_obligations_user_%d_year_%d", userID, year)
}

func (s *reportServiceImpl) DashboardSummary(userID int64) (*DashboardSummary, error) {
	cacheKey := dashboardCacheKey(userID)
	if s.reportCache != nil {
		if cached, found := s.reportCache.Get(cacheKey); found {
			if summary, ok := cached.(*DashboardSummary); ok {
				logger.L.Debug("Dashboard summary served from cache", "userID", userID)
				return summary, nil
			}
		}
	}

	deposits, err := s.instruments.ListDeposits(userID)
	if err != nil {
		return nil, fmt.Errorf("listing deposits for dashboard: %w", err)
	}
	pensions, err := s.instruments.ListPensions(userID)
	if err != nil {
		return nil, fmt.Errorf("listing pensions for dashboard: %w", err)
	}

	summary := &DashboardSummary{
		TotalDeposits:     len(deposits),
		TotalPensions:     len(pensions),
		TotalPrincipalAUD: decimal.Zero,
		TotalPrincipalGBP: decimal.Zero,
		TotalInterestAUD:  decimal.Zero,
		TotalInterestGBP:  decimal.Zero,
		EstimatedTaxAU:    decimal.Zero,
		EstimatedTaxGB:    decimal.Zero,
	}

	profiles := make(map[models.Jurisdiction]models.TaxProfile, 2)
	for _, j := range models.Jurisdictions() {
		p, err := s.instruments.GetOrCreateTaxProfile(userID, j)
		if err != nil {
			return nil, fmt.Errorf("loading %s tax profile: %w", j, err)
		}
		profiles[j] = *p
	}

	for _, d := range deposits {
		// Principal is grouped by the deposit's own currency; interest is
		// shown in both currencies via the per-deposit fx snapshot.
		switch d.Currency {
		case models.AUD:
			summary.TotalPrincipalAUD = summary.TotalPrincipalAUD.Add(d.Principal)
		case models.GBP:
			summary.TotalPrincipalGBP = summary.TotalPrincipalGBP.Add(d.Principal)
		}

		interest := finance.GrossInterest(d)
		summary.TotalInterestAUD = summary.TotalInterestAUD.Add(finance.Convert(interest, d.Currency, models.AUD, d.FX))
		summary.TotalInterestGBP = summary.TotalInterestGBP.Add(finance.Convert(interest, d.Currency, models.GBP, d.FX))

		summary.EstimatedTaxAU = summary.EstimatedTaxAU.Add(finance.EstimatedTax(d, profiles[models.JurisdictionAU]))
		summary.EstimatedTaxGB = summary.EstimatedTaxGB.Add(finance.EstimatedTax(d, profiles[models.JurisdictionGB]))
	}

	if s.reportCache != nil {
		s.reportCache.Set(cacheKey, summary, dashboardCacheDuration)
	}
	return summary, nil
}

// availableYears is the selectable window around the requested year.
func availableYears(year int) []int {
	years := make([]int, 0, availableYearsBefore+availableYearsAfter+1)
	for y := year - availableYearsBefore; y <= year+availableYearsAfter; y++ {
		years = append(years, y)
	}
	return years
}

func (s *reportServiceImpl) TaxObligations(userID int64, year int) (*TaxObligationsReport, error) {
	if year == 0 {
		year = time.Now().UTC().Year()
	}

	cacheKey := taxObligationsCacheKey(userID, year)
	if s.reportCache != nil {
		if cached, found := s.reportCache.Get(cacheKey); found {
			if report, ok := cached.(*TaxObligationsReport); ok {
				logger.L.Debug("Tax obligations served from cache", "userID", userID, "year", year)
				return report, nil
			}
		}
	}

	deposits, err := s.instruments.ListDeposits(userID)
	if err != nil {
		return nil, fmt.Errorf("listing deposits for obligations: %w", err)
	}
	pensions, err := s.instruments.ListPensions(userID)
	if err != nil {
		return nil, fmt.Errorf("listing pensions for obligations: %w", err)
	}

	profiles := make(map[models.Jurisdiction]models.TaxProfile, 2)
	for _, j := range models.Jurisdictions() {
		p, err := s.instruments.GetOrCreateTaxProfile(userID, j)
		if err != nil {
			return nil, fmt.Errorf("loading %s tax profile: %w", j, err)
		}
		profiles[j] = *p
	}

	report := &TaxObligationsReport{
		Year:           year,
		AvailableYears: availableYears(year),
		Reports:        finance.TaxObligations(deposits, pensions, year, profiles),
	}

	if s.reportCache != nil {
		s.reportCache.Set(cacheKey, report, taxObligationsCacheDuration)
	}
	return report, nil
}
