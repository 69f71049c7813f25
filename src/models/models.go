package models

// Currency is the ISO code an instrument is denominated in. Only the two
// jurisdictions' currencies are modeled.
type Currency string

const (
	AUD Currency = "AUD"
	GBP Currency = "GBP"
)

// Valid reports whether c is one of the supported currencies.
func (c Currency) Valid() bool { return c == AUD || c == GBP }

// Compounding is a deposit's interest compounding convention.
type Compounding string

const (
	CompoundingSimple  Compounding = "SIMPLE"
	CompoundingMonthly Compounding = "MONTHLY"
	CompoundingAnnual  Compounding = "ANNUAL"
)

// Valid reports whether c is a recognized compounding convention.
func (c Compounding) Valid() bool {
	return c == CompoundingSimple || c == CompoundingMonthly || c == CompoundingAnnual
}

// Jurisdiction identifies one of the two tax jurisdictions.
type Jurisdiction string

const (
	JurisdictionAU Jurisdiction = "AU"
	JurisdictionGB Jurisdiction = "GB"
)

// Valid reports whether j is a supported jurisdiction.
func (j Jurisdiction) Valid() bool { return j == JurisdictionAU || j == JurisdictionGB }

// Jurisdictions lists the supported jurisdictions in a stable order.
func Jurisdictions() []Jurisdiction {
	return []Jurisdiction{JurisdictionAU, JurisdictionGB}
}
