package services

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/patrickmn/go-cache"

	"github.com/username/termtracker/backend/src/database"
	"github.com/username/termtracker/backend/src/logger"
	"github.com/username/termtracker/backend/src/models"
)

type instrumentServiceImpl struct {
	reportCache *cache.Cache
}

// NewInstrumentService creates the SQLite-backed instrument storage. Every
// query is scoped by user id; a user can never read or mutate another
// user's instruments. Mutations drop the user's cached reports.
func NewInstrumentService(reportCache *cache.Cache) InstrumentService {
	return &instrumentServiceImpl{reportCache: reportCache}
}

// invalidateUserCaches drops every cached report belonging to the user.
// Report cache keys embed the user id with a trailing separator so a scan
// over cache items finds them all, including year-keyed entries.
func (s *instrumentServiceImpl) invalidateUserCaches(userID int64) {
	if s.reportCache == nil {
		return
	}
	marker := fmt.Sprintf("_user_%d", userID)
	for key := range s.reportCache.Items() {
		if strings.HasSuffix(key, marker) || strings.Contains(key, marker+"_") {
			s.reportCache.Delete(key)
		}
	}
	logger.L.Debug("Invalidated report caches", "userID", userID)
}

const depositColumns = `id, user_id, name, principal, annual_rate, start_date, end_date, compounding, currency, fx_aud_to_gbp, fx_gbp_to_aud, notes, created_at, updated_at`

func scanDeposit(scanner interface{ Scan(...any) error }) (*models.Deposit, error) {
	var d models.Deposit
	err := scanner.Scan(
		&d.ID, &d.UserID, &d.Name, &d.Principal, &d.AnnualRate,
		&d.StartDate, &d.EndDate, &d.Compounding, &d.Currency,
		&d.FX.AUDToGBP, &d.FX.GBPToAUD, &d.Notes, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *instrumentServiceImpl) CreateDeposit(userID int64, d *models.Deposit) error {
	res, err := database.DB.Exec(`
	INSERT INTO deposits (user_id, name, principal, annual_rate, start_date, end_date, compounding, currency, fx_aud_to_gbp, fx_gbp_to_aud, notes)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, d.Name, d.Principal, d.AnnualRate, d.StartDate, d.EndDate,
		d.Compounding, d.Currency, d.FX.AUDToGBP, d.FX.GBPToAUD, d.Notes,
	)
	if err != nil {
		return fmt.Errorf("inserting deposit: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = id
	d.UserID = userID
	s.invalidateUserCaches(userID)
	return nil
}

func (s *instrumentServiceImpl) listDepositsWhere(where string, args ...any) ([]models.Deposit, error) {
	rows, err := database.DB.Query(`SELECT `+depositColumns+` FROM deposits WHERE `+where+` ORDER BY start_date, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying deposits: %w", err)
	}
	defer rows.Close()

	var deposits []models.Deposit
	for rows.Next() {
		d, err := scanDeposit(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning deposit: %w", err)
		}
		deposits = append(deposits, *d)
	}
	return deposits, rows.Err()
}

func (s *instrumentServiceImpl) ListDeposits(userID int64) ([]models.Deposit, error) {
	return s.listDepositsWhere("user_id = ?", userID)
}

func (s *instrumentServiceImpl) ListDepositsByCurrency(userID int64, currency models.Currency) ([]models.Deposit, error) {
	return s.listDepositsWhere("user_id = ? AND currency = ?", userID, currency)
}

func (s *instrumentServiceImpl) GetDeposit(userID, depositID int64) (*models.Deposit, error) {
	d, err := scanDeposit(database.DB.QueryRow(`SELECT `+depositColumns+` FROM deposits WHERE id = ? AND user_id = ?`, depositID, userID))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying deposit %d: %w", depositID, err)
	}
	return d, nil
}

// UpdateDeposit rewrites a deposit's editable fields. The fx snapshot pair
// is deliberately not updatable: it is immutable from creation.
func (s *instrumentServiceImpl) UpdateDeposit(userID int64, d *models.Deposit) error {
	res, err := database.DB.Exec(`
	UPDATE deposits
	SET name = ?, principal = ?, annual_rate = ?, start_date = ?, end_date = ?, compounding = ?, currency = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
	WHERE id = ? AND user_id = ?`,
		d.Name, d.Principal, d.AnnualRate, d.StartDate, d.EndDate,
		d.Compounding, d.Currency, d.Notes, d.ID, userID,
	)
	if err != nil {
		return fmt.Errorf("updating deposit %d: %w", d.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	s.invalidateUserCaches(userID)
	return nil
}

func (s *instrumentServiceImpl) DeleteDeposit(userID, depositID int64) error {
	res, err := database.DB.Exec(`DELETE FROM deposits WHERE id = ? AND user_id = ?`, depositID, userID)
	if err != nil {
		return fmt.Errorf("deleting deposit %d: %w", depositID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	s.invalidateUserCaches(userID)
	return nil
}

const pensionColumns = `id, user_id, name, monthly_amount, tax_paid, currency, start_date, end_date, notes, created_at, updated_at`

func scanPension(scanner interface{ Scan(...any) error }) (*models.Pension, error) {
	var p models.Pension
	var startDate, endDate sql.NullString
	err := scanner.Scan(
		&p.ID, &p.UserID, &p.Name, &p.MonthlyAmount, &p.TaxPaid,
		&p.Currency, &startDate, &endDate, &p.Notes, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if startDate.Valid {
		d, err := models.ParseDate(startDate.String)
		if err != nil {
			return nil, err
		}
		p.StartDate = &d
	}
	if endDate.Valid {
		d, err := models.ParseDate(endDate.String)
		if err != nil {
			return nil, err
		}
		p.EndDate = &d
	}
	return &p, nil
}

func nullableDate(d *models.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func (s *instrumentServiceImpl) CreatePension(userID int64, p *models.Pension) error {
	res, err := database.DB.Exec(`
	INSERT INTO pensions (user_id, name, monthly_amount, tax_paid, currency, start_date, end_date, notes)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, p.Name, p.MonthlyAmount, p.TaxPaid, p.Currency,
		nullableDate(p.StartDate), nullableDate(p.EndDate), p.Notes,
	)
	if err != nil {
		return fmt.Errorf("inserting pension: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = id
	p.UserID = userID
	s.invalidateUserCaches(userID)
	return nil
}

func (s *instrumentServiceImpl) ListPensions(userID int64) ([]models.Pension, error) {
	rows, err := database.DB.Query(`SELECT `+pensionColumns+` FROM pensions WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying pensions: %w", err)
	}
	defer rows.Close()

	var pensions []models.Pension
	for rows.Next() {
		p, err := scanPension(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning pension: %w", err)
		}
		pensions = append(pensions, *p)
	}
	return pensions, rows.Err()
}

func (s *instrumentServiceImpl) GetPension(userID, pensionID int64) (*models.Pension, error) {
	p, err := scanPension(database.DB.QueryRow(`SELECT `+pensionColumns+` FROM pensions WHERE id = ? AND user_id = ?`, pensionID, userID))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying pension %d: %w", pensionID, err)
	}
	return p, nil
}

func (s *instrumentServiceImpl) UpdatePension(userID int64, p *models.Pension) error {
	res, err := database.DB.Exec(`
	UPDATE pensions
	SET name = ?, monthly_amount = ?, tax_paid = ?, currency = ?, start_date = ?, end_date = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
	WHERE id = ? AND user_id = ?`,
		p.Name, p.MonthlyAmount, p.TaxPaid, p.Currency,
		nullableDate(p.StartDate), nullableDate(p.EndDate), p.Notes, p.ID, userID,
	)
	if err != nil {
		return fmt.Errorf("updating pension %d: %w", p.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	s.invalidateUserCaches(userID)
	return nil
}

func (s *instrumentServiceImpl) DeletePension(userID, pensionID int64) error {
	res, err := database.DB.Exec(`DELETE FROM pensions WHERE id = ? AND user_id = ?`, pensionID, userID)
	if err != nil {
		return fmt.Errorf("deleting pension %d: %w", pensionID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	s.invalidateUserCaches(userID)
	return nil
}

const profileColumns = `id, user_id, jurisdiction, marginal_rate, tax_year_start_month, tax_year_start_day, threshold, threshold_currency, created_at, updated_at`

func scanTaxProfile(scanner interface{ Scan(...any) error }) (*models.TaxProfile, error) {
	var p models.TaxProfile
	err := scanner.Scan(
		&p.ID, &p.UserID, &p.Jurisdiction, &p.MarginalRate,
		&p.TaxYearStartMonth, &p.TaxYearStartDay, &p.Threshold, &p.ThresholdCurrency,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetOrCreateTaxProfile fetches the user's profile for a jurisdiction,
// creating one with the jurisdiction defaults when none exists yet. The
// threshold default is applied exactly once, here at creation; later edits
// are stored verbatim.
func (s *instrumentServiceImpl) GetOrCreateTaxProfile(userID int64, jurisdiction models.Jurisdiction) (*models.TaxProfile, error) {
	p, err := scanTaxProfile(database.DB.QueryRow(`SELECT `+profileColumns+` FROM tax_profiles WHERE user_id = ? AND jurisdiction = ?`, userID, jurisdiction))
	if err == nil {
		return p, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("querying tax profile: %w", err)
	}

	created := models.TaxProfile{UserID: userID, Jurisdiction: jurisdiction}
	created.ApplyCreationDefaults()

	res, err := database.DB.Exec(`
	INSERT INTO tax_profiles (user_id, jurisdiction, marginal_rate, tax_year_start_month, tax_year_start_day, threshold, threshold_currency)
	VALUES (?, ?, ?, ?, ?, ?, ?)`,
		created.UserID, created.Jurisdiction, created.MarginalRate,
		created.TaxYearStartMonth, created.TaxYearStartDay,
		created.Threshold, created.ThresholdCurrency,
	)
	if err != nil {
		// A concurrent request may have created it first; the unique
		// constraint on (user_id, jurisdiction) makes the re-read safe.
		if strings.Contains(strings.ToLower(err.Error()), "unique constraint failed") {
			return scanTaxProfile(database.DB.QueryRow(`SELECT `+profileColumns+` FROM tax_profiles WHERE user_id = ? AND jurisdiction = ?`, userID, jurisdiction))
		}
		return nil, fmt.Errorf("creating tax profile: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	created.ID = id
	logger.L.Info("Created default tax profile", "userID", userID, "jurisdiction", jurisdiction)
	return &created, nil
}

func (s *instrumentServiceImpl) ListTaxProfiles(userID int64) ([]models.TaxProfile, error) {
	profiles := make([]models.TaxProfile, 0, 2)
	for _, j := range models.Jurisdictions() {
		p, err := s.GetOrCreateTaxProfile(userID, j)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, nil
}

func (s *instrumentServiceImpl) UpdateTaxProfile(userID int64, p *models.TaxProfile) error {
	res, err := database.DB.Exec(`
	UPDATE tax_profiles
	SET marginal_rate = ?, tax_year_start_month = ?, tax_year_start_day = ?, threshold = ?, threshold_currency = ?, updated_at = CURRENT_TIMESTAMP
	WHERE user_id = ? AND jurisdiction = ?`,
		p.MarginalRate, p.TaxYearStartMonth, p.TaxYearStartDay,
		p.Threshold, p.ThresholdCurrency, userID, p.Jurisdiction,
	)
	if err != nil {
		return fmt.Errorf("updating tax profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	s.invalidateUserCaches(userID)
	return nil
}

func (s *instrumentServiceImpl) HasData(userID int64) (bool, error) {
	var count int
	err := database.DB.QueryRow(`
	SELECT (SELECT COUNT(*) FROM deposits WHERE user_id = ?) + (SELECT COUNT(*) FROM pensions WHERE user_id = ?)`,
		userID, userID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("counting instruments: %w", err)
	}
	return count > 0, nil
}
