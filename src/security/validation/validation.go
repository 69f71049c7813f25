// Package validation rejects malformed instrument payloads before they
// reach storage. The finance engine assumes its inputs passed these checks
// and performs no validation of its own.
package validation

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/username/termtracker/backend/src/models"
)

var oneHundred = decimal.NewFromInt(100)

var (
	ErrNameRequired     = errors.New("name is required")
	ErrInvalidAmount    = errors.New("amount must be a positive value")
	ErrInvalidRate      = errors.New("rate must be between 0 and 100")
	ErrInvalidDateRange = errors.New("end date must not be before start date")
	ErrInvalidCurrency  = errors.New("unsupported currency")
)

// ValidateDeposit checks a deposit payload for creation or update.
func ValidateDeposit(d *models.Deposit) error {
	d.Name = SanitizeName(d.Name)
	d.Notes = StripUnprintable(d.Notes)

	if d.Name == "" {
		return ErrNameRequired
	}
	if !d.Principal.IsPositive() {
		return fmt.Errorf("principal: %w", ErrInvalidAmount)
	}
	if d.AnnualRate.IsNegative() || d.AnnualRate.GreaterThan(oneHundred) {
		return fmt.Errorf("annual_rate: %w", ErrInvalidRate)
	}
	if d.StartDate.IsZero() || d.EndDate.IsZero() {
		return errors.New("start_date and end_date are required")
	}
	if d.EndDate.Before(d.StartDate) {
		return ErrInvalidDateRange
	}
	if !d.Currency.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCurrency, d.Currency)
	}
	if !d.Compounding.Valid() {
		return fmt.Errorf("unsupported compounding convention %q", d.Compounding)
	}
	if !d.FX.AUDToGBP.IsPositive() || !d.FX.GBPToAUD.IsPositive() {
		return errors.New("exchange rates must be positive")
	}
	return nil
}

// ValidatePension checks a pension payload for creation or update.
func ValidatePension(p *models.Pension) error {
	p.Name = SanitizeName(p.Name)
	p.Notes = StripUnprintable(p.Notes)

	if p.Name == "" {
		return ErrNameRequired
	}
	if !p.MonthlyAmount.IsPositive() {
		return fmt.Errorf("monthly_amount: %w", ErrInvalidAmount)
	}
	if p.TaxPaid.IsNegative() {
		return errors.New("tax_paid must not be negative")
	}
	if !p.Currency.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCurrency, p.Currency)
	}
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		return ErrInvalidDateRange
	}
	return nil
}

// ValidateTaxProfile checks a tax profile update payload.
func ValidateTaxProfile(p *models.TaxProfile) error {
	if !p.Jurisdiction.Valid() {
		return fmt.Errorf("unsupported jurisdiction %q", p.Jurisdiction)
	}
	if p.MarginalRate.IsNegative() || p.MarginalRate.GreaterThan(oneHundred) {
		return fmt.Errorf("marginal_rate: %w", ErrInvalidRate)
	}
	if p.Threshold.IsNegative() {
		return errors.New("threshold must not be negative")
	}
	return nil
}
