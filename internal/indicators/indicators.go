// Package indicators derives the financial ratio battery from an income
// statement. Every percentage indicator is 0 when its denominator is 0;
// the debt-service coverage ratio is +Inf when there is no debt service.
package indicators

import (
	"math"

	"github.com/hoppemairon/gestor-plantio/internal/dre"
	"github.com/hoppemairon/gestor-plantio/pkg/constants"
	"github.com/hoppemairon/gestor-plantio/pkg/mathutil"
	"go.uber.org/zap"
)

// Totals carries the planting aggregates the ratios need beyond the
// statement itself.
type Totals struct {
	Hectares         float64
	Sacks            float64
	BasePricePerSack float64
}

// TotalAssets estimates the operation's asset base from planted area.
func (t Totals) TotalAssets() float64 {
	return t.Hectares*constants.AssetValuePerHectare + constants.FixedAssetBase
}

// Set holds every indicator for one statement. Per-year indicators are
// horizon-length vectors; the CAGR pair is scenario-level.
type Set struct {
	Scenario dre.Scenario

	NetMarginPct      []float64
	ReturnPerSpent    []float64
	OperatingLiquidity []float64
	IndebtednessPct   []float64
	RevenuePerHectare []float64
	CostPerRevenuePct []float64
	DSCR              []float64
	BreakEvenYield    []float64
	ROAPct            []float64
	CostPerHectare    []float64

	CAGRRevenuePct   float64
	CAGRNetProfitPct float64

	// TotalExpenses is retained for downstream summaries.
	TotalExpenses []float64
}

// Indicator labels, in presentation order.
const (
	LabelNetMargin         = "Net Margin (%)"
	LabelReturnPerSpent    = "Return per Currency Spent"
	LabelOperatingLiquidity = "Operating Liquidity"
	LabelIndebtedness      = "Indebtedness (%)"
	LabelRevenuePerHectare = "Revenue per Hectare"
	LabelCostPerRevenue    = "Cost per Revenue (%)"
	LabelDSCR              = "DSCR"
	LabelBreakEvenYield    = "Break-Even Yield (sacks/ha)"
	LabelROA               = "ROA (%)"
	LabelCostPerHectare    = "Cost per Hectare"
	LabelCAGRRevenue       = "CAGR Revenue (%)"
	LabelCAGRNetProfit     = "CAGR Net Profit (%)"
)

// Rows returns the per-year indicators in their fixed presentation order.
func (s *Set) Rows() []dre.Row {
	return []dre.Row{
		{Name: LabelNetMargin, Values: s.NetMarginPct},
		{Name: LabelReturnPerSpent, Values: s.ReturnPerSpent},
		{Name: LabelOperatingLiquidity, Values: s.OperatingLiquidity},
		{Name: LabelIndebtedness, Values: s.IndebtednessPct},
		{Name: LabelRevenuePerHectare, Values: s.RevenuePerHectare},
		{Name: LabelCostPerRevenue, Values: s.CostPerRevenuePct},
		{Name: LabelDSCR, Values: s.DSCR},
		{Name: LabelBreakEvenYield, Values: s.BreakEvenYield},
		{Name: LabelROA, Values: s.ROAPct},
		{Name: LabelCostPerHectare, Values: s.CostPerHectare},
	}
}

// Calculate derives the full indicator set from one income statement.
func Calculate(logger *zap.Logger, statement *dre.Statement, totals Totals) *Set {
	if logger == nil {
		logger = zap.NewNop()
	}

	horizon := len(statement.Revenue)
	totalExpenses := statement.TotalExpenses()
	assets := totals.TotalAssets()

	set := &Set{
		Scenario:           statement.Scenario,
		NetMarginPct:       make([]float64, horizon),
		ReturnPerSpent:     make([]float64, horizon),
		OperatingLiquidity: make([]float64, horizon),
		IndebtednessPct:    make([]float64, horizon),
		RevenuePerHectare:  make([]float64, horizon),
		CostPerRevenuePct:  make([]float64, horizon),
		DSCR:               make([]float64, horizon),
		BreakEvenYield:     make([]float64, horizon),
		ROAPct:             make([]float64, horizon),
		CostPerHectare:     make([]float64, horizon),
		TotalExpenses:      totalExpenses,
	}

	for year := 0; year < horizon; year++ {
		revenue := statement.Revenue[year]
		netProfit := statement.NetProfit[year]
		debtService := statement.ExtraOperationalExpenses[year]

		set.NetMarginPct[year] = ratio(netProfit, revenue) * constants.PercentageMultiplier
		set.ReturnPerSpent[year] = ratio(netProfit, totalExpenses[year])
		set.OperatingLiquidity[year] = ratio(revenue, statement.OperationalExpenses[year])
		set.IndebtednessPct[year] = ratio(debtService, revenue) * constants.PercentageMultiplier
		set.RevenuePerHectare[year] = ratio(revenue, totals.Hectares)
		set.CostPerRevenuePct[year] = ratio(statement.OperationalExpenses[year], revenue) * constants.PercentageMultiplier
		set.BreakEvenYield[year] = ratio(totalExpenses[year], totals.Hectares*totals.BasePricePerSack)
		set.ROAPct[year] = ratio(netProfit, assets) * constants.PercentageMultiplier
		set.CostPerHectare[year] = ratio(totalExpenses[year], totals.Hectares)

		if debtService == 0 {
			set.DSCR[year] = math.Inf(1)
		} else {
			set.DSCR[year] = statement.OperatingProfit[year] / debtService
		}
	}

	if horizon > 1 {
		set.CAGRRevenuePct = mathutil.CAGR(statement.Revenue[0], statement.Revenue[horizon-1], horizon-1)
		set.CAGRNetProfitPct = mathutil.CAGR(statement.NetProfit[0], statement.NetProfit[horizon-1], horizon-1)
	}

	return set
}

// CalculateAll derives the indicator set for every scenario statement.
func CalculateAll(logger *zap.Logger, statements map[dre.Scenario]*dre.Statement, totals Totals) map[dre.Scenario]*Set {
	sets := make(map[dre.Scenario]*Set, len(statements))
	for scenario, statement := range statements {
		sets[scenario] = Calculate(logger, statement, totals)
	}
	return sets
}

func ratio(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}
