// Package model defines the planning entities and their validating
// constructors. Invalid data is rejected at creation time rather than
// propagated through calculations.
package model

import (
	"fmt"
	"strings"

	"github.com/hoppemairon/gestor-plantio/pkg/constants"
)

// Category classifies an expense line for income-statement purposes.
type Category string

const (
	CategoryOperational      Category = "Operational"
	CategoryHR               Category = "HR"
	CategoryAdministrative   Category = "Administrative"
	CategoryExtraOperational Category = "Extra Operational"
	CategoryDividends        Category = "Dividends"
	CategoryTaxes            Category = "Taxes"
)

// Categories lists every valid expense category.
var Categories = []Category{
	CategoryOperational,
	CategoryHR,
	CategoryAdministrative,
	CategoryExtraOperational,
	CategoryDividends,
	CategoryTaxes,
}

// ParseCategory resolves a string into a Category, trimming whitespace.
func ParseCategory(s string) (Category, error) {
	trimmed := strings.TrimSpace(s)
	for _, c := range Categories {
		if string(c) == trimmed {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid expense category %q", s)
}

// RevenueCategory classifies an additional revenue stream.
type RevenueCategory string

const (
	RevenueOperational      RevenueCategory = "Operational"
	RevenueExtraOperational RevenueCategory = "Extra Operational"
)

// ParseRevenueCategory resolves a string into a RevenueCategory.
func ParseRevenueCategory(s string) (RevenueCategory, error) {
	switch RevenueCategory(strings.TrimSpace(s)) {
	case RevenueOperational:
		return RevenueOperational, nil
	case RevenueExtraOperational:
		return RevenueExtraOperational, nil
	}
	return "", fmt.Errorf("invalid revenue category %q", s)
}

// Frequency is the payment cadence recorded for a loan.
type Frequency string

const (
	FrequencyAnnual     Frequency = "Annual"
	FrequencySemiannual Frequency = "Semiannual"
	FrequencyMonthly    Frequency = "Monthly"
)

// ParseFrequency resolves a string into a Frequency.
func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(strings.TrimSpace(s)) {
	case FrequencyAnnual:
		return FrequencyAnnual, nil
	case FrequencySemiannual:
		return FrequencySemiannual, nil
	case FrequencyMonthly:
		return FrequencyMonthly, nil
	}
	return "", fmt.Errorf("invalid payment frequency %q", s)
}

// CostCenterAdministrative is the sentinel cost-center for shared expenses
// that are prorated across crops by planted area.
const CostCenterAdministrative = "Administrative"

// Well-known crop names. The crop field is an extensible string; these are
// the options offered by data-entry surfaces.
const (
	CropSoybean = "Soybean"
	CropRice    = "Rice"
	CropWheat   = "Wheat"
	CropOther   = "Other"
)

// Planting represents one crop-planting declaration.
type Planting struct {
	Year            int     `yaml:"year" json:"year"`
	Crop            string  `yaml:"crop" json:"crop"`
	Hectares        float64 `yaml:"hectares" json:"hectares"`
	SacksPerHectare float64 `yaml:"sacksPerHectare" json:"sacksPerHectare"`
	PricePerSack    float64 `yaml:"pricePerSack" json:"pricePerSack"`
}

// Validate enforces the planting invariants.
func (p Planting) Validate() error {
	if p.Year < constants.MinPlantingYear || p.Year > constants.MaxPlantingYear {
		return fmt.Errorf("planting year %d outside bounds [%d, %d]", p.Year, constants.MinPlantingYear, constants.MaxPlantingYear)
	}
	if strings.TrimSpace(p.Crop) == "" {
		return fmt.Errorf("planting crop must not be empty")
	}
	if p.Hectares < 0 {
		return fmt.Errorf("planted area must not be negative, got %v", p.Hectares)
	}
	if p.SacksPerHectare < 0 {
		return fmt.Errorf("yield must not be negative, got %v", p.SacksPerHectare)
	}
	if p.PricePerSack < 0 {
		return fmt.Errorf("price per sack must not be negative, got %v", p.PricePerSack)
	}
	return nil
}

// BaseRevenue is the base-year revenue of the planting: area x yield x price.
func (p Planting) BaseRevenue() float64 {
	return p.Hectares * p.SacksPerHectare * p.PricePerSack
}

// Expense is a recurring annual expense line.
type Expense struct {
	Name       string   `yaml:"name" json:"name"`
	Amount     float64  `yaml:"amount" json:"amount"`
	Category   Category `yaml:"category" json:"category"`
	CostCenter string   `yaml:"costCenter,omitempty" json:"costCenter,omitempty"`
}

// Validate enforces the expense invariants and applies the cost-center
// default.
func (e *Expense) Validate() error {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return fmt.Errorf("expense name must not be empty")
	}
	if e.Amount <= 0 {
		return fmt.Errorf("expense %q amount must be positive, got %v", e.Name, e.Amount)
	}
	if _, err := ParseCategory(string(e.Category)); err != nil {
		return fmt.Errorf("expense %q: %w", e.Name, err)
	}
	e.CostCenter = strings.TrimSpace(e.CostCenter)
	if e.CostCenter == "" {
		e.CostCenter = CostCenterAdministrative
	}
	return nil
}

// Loan is an amortizing financing instrument. Year indices are zero-based
// positions within the projection horizon.
type Loan struct {
	Lender            string    `yaml:"lender" json:"lender"`
	Purpose           string    `yaml:"purpose" json:"purpose"`
	Principal         float64   `yaml:"principal" json:"principal"`
	InterestRate      float64   `yaml:"interestRate" json:"interestRate"`
	Installments      int       `yaml:"installments" json:"installments"`
	InstallmentAmount float64   `yaml:"installmentAmount" json:"installmentAmount"`
	Frequency         Frequency `yaml:"frequency" json:"frequency"`
	StartYearIndex    int       `yaml:"startYearIndex" json:"startYearIndex"`
	EndYearIndex      int       `yaml:"endYearIndex" json:"endYearIndex"`
	CostCenter        string    `yaml:"costCenter,omitempty" json:"costCenter,omitempty"`
}

// Validate enforces the loan invariants and applies the cost-center default.
func (l *Loan) Validate() error {
	l.Lender = strings.TrimSpace(l.Lender)
	if l.Lender == "" {
		return fmt.Errorf("loan lender must not be empty")
	}
	if l.Installments < 1 {
		return fmt.Errorf("loan %q must have at least one installment, got %d", l.Lender, l.Installments)
	}
	if l.Principal < 0 || l.InstallmentAmount < 0 {
		return fmt.Errorf("loan %q amounts must not be negative", l.Lender)
	}
	if l.StartYearIndex < 0 {
		return fmt.Errorf("loan %q start year index must not be negative, got %d", l.Lender, l.StartYearIndex)
	}
	if l.EndYearIndex < l.StartYearIndex {
		return fmt.Errorf("loan %q end year index %d precedes start year index %d", l.Lender, l.EndYearIndex, l.StartYearIndex)
	}
	if _, err := ParseFrequency(string(l.Frequency)); err != nil {
		return fmt.Errorf("loan %q: %w", l.Lender, err)
	}
	l.CostCenter = strings.TrimSpace(l.CostCenter)
	if l.CostCenter == "" {
		l.CostCenter = CostCenterAdministrative
	}
	return nil
}

// Schedule returns the per-year installment vector over the horizon. The
// installment amount applies starting at StartYearIndex for
// min(Installments, EndYearIndex-StartYearIndex+1) years, capped at the
// horizon length.
func (l Loan) Schedule(horizon int) []float64 {
	schedule := make([]float64, horizon)
	remaining := l.Installments
	for year := l.StartYearIndex; year <= l.EndYearIndex && year < horizon; year++ {
		if remaining <= 0 {
			break
		}
		schedule[year] = l.InstallmentAmount
		remaining--
	}
	return schedule
}

// AdditionalRevenue is a manually declared revenue stream outside crop
// sales. Years holds zero-based horizon indices in which the value applies.
type AdditionalRevenue struct {
	Name     string          `yaml:"name" json:"name"`
	Amount   float64         `yaml:"amount" json:"amount"`
	Category RevenueCategory `yaml:"category" json:"category"`
	Years    []int           `yaml:"years" json:"years"`
}

// Validate enforces the additional-revenue invariants.
func (r *AdditionalRevenue) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return fmt.Errorf("additional revenue name must not be empty")
	}
	if r.Amount <= 0 {
		return fmt.Errorf("additional revenue %q amount must be positive, got %v", r.Name, r.Amount)
	}
	if _, err := ParseRevenueCategory(string(r.Category)); err != nil {
		return fmt.Errorf("additional revenue %q: %w", r.Name, err)
	}
	for _, y := range r.Years {
		if y < 0 || y >= constants.HorizonYears {
			return fmt.Errorf("additional revenue %q references year index %d outside the horizon", r.Name, y)
		}
	}
	return nil
}
