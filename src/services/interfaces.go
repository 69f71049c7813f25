package services

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/username/termtracker/backend/src/finance"
	"github.com/username/termtracker/backend/src/models"
)

var (
	// ErrNotFound is returned when a record does not exist or is owned by a
	// different user. Handlers map it to 404 without leaking ownership.
	ErrNotFound = errors.New("record not found")
)

// InstrumentService is the storage collaborator for the finance engine:
// owner-scoped persistence of deposits, pensions and tax profiles. The
// engine itself only ever sees the read-only snapshots these methods return.
type InstrumentService interface {
	CreateDeposit(userID int64, d *models.Deposit) error
	ListDeposits(userID int64) ([]models.Deposit, error)
	ListDepositsByCurrency(userID int64, currency models.Currency) ([]models.Deposit, error)
	GetDeposit(userID, depositID int64) (*models.Deposit, error)
	UpdateDeposit(userID int64, d *models.Deposit) error
	DeleteDeposit(userID, depositID int64) error

	CreatePension(userID int64, p *models.Pension) error
	ListPensions(userID int64) ([]models.Pension, error)
	GetPension(userID, pensionID int64) (*models.Pension, error)
	UpdatePension(userID int64, p *models.Pension) error
	DeletePension(userID, pensionID int64) error

	// GetOrCreateTaxProfile returns the user's profile for a jurisdiction,
	// creating it with the jurisdiction defaults on first access. At most
	// one profile exists per (user, jurisdiction).
	GetOrCreateTaxProfile(userID int64, jurisdiction models.Jurisdiction) (*models.TaxProfile, error)
	ListTaxProfiles(userID int64) ([]models.TaxProfile, error)
	UpdateTaxProfile(userID int64, p *models.TaxProfile) error

	HasData(userID int64) (bool, error)
}

// DashboardSummary aggregates a user's instruments for the dashboard view.
type DashboardSummary struct {
	TotalDeposits     int             `json:"total_deposits"`
	TotalPensions     int             `json:"total_pensions"`
	TotalPrincipalAUD decimal.Decimal `json:"total_principal_aud"`
	TotalPrincipalGBP decimal.Decimal `json:"total_principal_gbp"`
	TotalInterestAUD  decimal.Decimal `json:"total_interest_aud"`
	TotalInterestGBP  decimal.Decimal `json:"total_interest_gbp"`
	EstimatedTaxAU    decimal.Decimal `json:"estimated_tax_au"`
	EstimatedTaxGB    decimal.Decimal `json:"estimated_tax_gb"`
}

// TaxObligationsReport is the year-selected obligation report pair plus the
// selectable year window offered to the client.
type TaxObligationsReport struct {
	Year           int                                              `json:"year"`
	AvailableYears []int                                            `json:"available_years"`
	Reports        map[models.Jurisdiction]finance.ObligationReport `json:"reports"`
}

// ReportService computes derived, transient report values from stored
// instruments. Results are cached per user and invalidated on any
// instrument mutation.
type ReportService interface {
	DashboardSummary(userID int64) (*DashboardSummary, error)
	TaxObligations(userID int64, year int) (*TaxObligationsReport, error)
}
