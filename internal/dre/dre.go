// Package dre builds the income statement (DRE) per scenario from a
// registry snapshot. One parameterized pipeline serves all three scenarios;
// only the revenue factor and expense adjustment differ.
package dre

import (
	"github.com/hoppemairon/gestor-plantio/internal/model"
	"github.com/hoppemairon/gestor-plantio/internal/projection"
	"github.com/hoppemairon/gestor-plantio/internal/registry"
	"github.com/hoppemairon/gestor-plantio/pkg/constants"
	"github.com/hoppemairon/gestor-plantio/pkg/inflation"
	"go.uber.org/zap"
)

// Statement is one income statement: every line is a horizon-length vector
// and no line is ever nil.
type Statement struct {
	Scenario                 Scenario
	Revenue                  []float64
	SalesTax                 []float64
	OperationalExpenses      []float64
	ContributionMargin       []float64
	AdministrativeExpenses   []float64
	HRExpenses               []float64
	OperatingResult          []float64
	ExtraOperationalExpenses []float64
	OperatingProfit          []float64
	ResultTax                []float64
	Dividends                []float64
	ExtraOperationalRevenue  []float64
	NetProfit                []float64
}

// Statement line labels, in presentation order.
const (
	LineRevenue                  = "Revenue"
	LineSalesTax                 = "Sales Tax"
	LineOperationalExpenses      = "Operational Expenses"
	LineContributionMargin       = "Contribution Margin"
	LineAdministrativeExpenses   = "Administrative Expenses"
	LineHRExpenses               = "HR Expenses"
	LineOperatingResult          = "Operating Result"
	LineExtraOperationalExpenses = "Extra-Operational Expenses"
	LineOperatingProfit          = "Operating Profit"
	LineResultTax                = "Result Tax"
	LineDividends                = "Dividends"
	LineExtraOperationalRevenue  = "Extra-Operational Revenue"
	LineNetProfit                = "Net Profit"
)

// Row pairs a statement line label with its yearly vector.
type Row struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// Rows returns the statement lines in their fixed presentation order.
func (s *Statement) Rows() []Row {
	return []Row{
		{LineRevenue, s.Revenue},
		{LineSalesTax, s.SalesTax},
		{LineOperationalExpenses, s.OperationalExpenses},
		{LineContributionMargin, s.ContributionMargin},
		{LineAdministrativeExpenses, s.AdministrativeExpenses},
		{LineHRExpenses, s.HRExpenses},
		{LineOperatingResult, s.OperatingResult},
		{LineExtraOperationalExpenses, s.ExtraOperationalExpenses},
		{LineOperatingProfit, s.OperatingProfit},
		{LineResultTax, s.ResultTax},
		{LineDividends, s.Dividends},
		{LineExtraOperationalRevenue, s.ExtraOperationalRevenue},
		{LineNetProfit, s.NetProfit},
	}
}

// TotalExpenses sums every outflow line per year: sales tax, the four
// expense categories, dividends, and result tax.
func (s *Statement) TotalExpenses() []float64 {
	totals := make([]float64, len(s.Revenue))
	for year := range totals {
		totals[year] = s.SalesTax[year] +
			s.OperationalExpenses[year] +
			s.AdministrativeExpenses[year] +
			s.HRExpenses[year] +
			s.ExtraOperationalExpenses[year] +
			s.Dividends[year] +
			s.ResultTax[year]
	}
	return totals
}

// Build computes the income statement for one scenario from a registry
// snapshot.
func Build(logger *zap.Logger, snap registry.Snapshot, scenario Scenario, horizon int) (*Statement, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	rates := inflation.Normalize(snap.Parameters.InflationPct, horizon)
	revenue, err := projection.ProjectRevenue(logger, snap.Plantings, snap.AdditionalRevenues, rates, horizon)
	if err != nil {
		return nil, err
	}
	expenses := projection.ProjectExpenses(logger, snap.Expenses, snap.Loans, rates, ExpenseAdjustmentPct(scenario, snap.Parameters), horizon)

	statement := compose(
		scenario,
		scale(revenue.Operating, RevenueFactor(scenario, snap.Parameters)),
		expenses.ByCategory[model.CategoryOperational],
		expenses.ByCategory[model.CategoryAdministrative],
		expenses.ByCategory[model.CategoryHR],
		expenses.ExtraOperationalTotal(horizon),
		expenses.ByCategory[model.CategoryDividends],
		revenue.ExtraOperational,
		horizon,
	)

	logger.Debug("income statement built",
		zap.String("op", "dre.Build"),
		zap.String("scenario", string(scenario)),
	)
	return statement, nil
}

// BuildAll computes the statements for every scenario.
func BuildAll(logger *zap.Logger, snap registry.Snapshot, horizon int) (map[Scenario]*Statement, error) {
	statements := make(map[Scenario]*Statement, len(Scenarios))
	for _, scenario := range Scenarios {
		statement, err := Build(logger, snap, scenario, horizon)
		if err != nil {
			return nil, err
		}
		statements[scenario] = statement
	}
	return statements, nil
}

// compose assembles the fixed line order from already-adjusted inputs.
// Sales tax and result tax are recomputed here from the adjusted revenue
// and profit so every scenario stays internally consistent.
func compose(scenario Scenario, revenue, operational, administrative, hr, extraOperational, dividends, extraOperationalRevenue []float64, horizon int) *Statement {
	s := &Statement{
		Scenario:                 scenario,
		Revenue:                  revenue,
		SalesTax:                 make([]float64, horizon),
		OperationalExpenses:      operational,
		ContributionMargin:       make([]float64, horizon),
		AdministrativeExpenses:   administrative,
		HRExpenses:               hr,
		OperatingResult:          make([]float64, horizon),
		ExtraOperationalExpenses: extraOperational,
		OperatingProfit:          make([]float64, horizon),
		ResultTax:                make([]float64, horizon),
		Dividends:                dividends,
		ExtraOperationalRevenue:  extraOperationalRevenue,
		NetProfit:                make([]float64, horizon),
	}

	for year := 0; year < horizon; year++ {
		s.SalesTax[year] = s.Revenue[year] * constants.SalesTaxRate
		s.ContributionMargin[year] = s.Revenue[year] - s.SalesTax[year] - s.OperationalExpenses[year]
		s.OperatingResult[year] = s.ContributionMargin[year] - s.AdministrativeExpenses[year] - s.HRExpenses[year]
		s.OperatingProfit[year] = s.OperatingResult[year] - s.ExtraOperationalExpenses[year]
		if s.OperatingProfit[year] > 0 {
			s.ResultTax[year] = s.OperatingProfit[year] * constants.ResultTaxRate
		}
		s.NetProfit[year] = s.OperatingProfit[year] - s.ResultTax[year] - s.Dividends[year] + s.ExtraOperationalRevenue[year]
	}
	return s
}

func scale(values []float64, factor float64) []float64 {
	scaled := make([]float64, len(values))
	for i, v := range values {
		scaled[i] = v * factor
	}
	return scaled
}
