package dre

import (
	"fmt"
	"sort"

	"github.com/hoppemairon/gestor-plantio/internal/projection"
	"github.com/hoppemairon/gestor-plantio/internal/registry"
	"github.com/hoppemairon/gestor-plantio/pkg/constants"
	"github.com/hoppemairon/gestor-plantio/pkg/inflation"
	"go.uber.org/zap"
)

// CashFlow is the consolidated projection table: the revenue line, one line
// per registered expense name and loan, the two tax lines, and net profit.
type CashFlow struct {
	Scenario Scenario `json:"scenario"`
	Years    []string `json:"years"`
	Lines    []Row    `json:"lines"`
}

// YearLabels returns the horizon's display labels, "Year 1".."Year N".
func YearLabels(horizon int) []string {
	labels := make([]string, horizon)
	for i := range labels {
		labels[i] = fmt.Sprintf("Year %d", i+1)
	}
	return labels
}

// BuildCashFlow computes the consolidated cash-flow table for one scenario.
// Expense lines are consolidated by trimmed name; the revenue line comes
// first and net profit last, with taxes recomputed from the scenario's own
// figures.
func BuildCashFlow(logger *zap.Logger, snap registry.Snapshot, scenario Scenario, horizon int) (*CashFlow, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	rates := inflation.Normalize(snap.Parameters.InflationPct, horizon)
	revenue, err := projection.ProjectRevenue(logger, snap.Plantings, snap.AdditionalRevenues, rates, horizon)
	if err != nil {
		return nil, err
	}
	expenses := projection.ProjectExpenses(logger, snap.Expenses, snap.Loans, rates, ExpenseAdjustmentPct(scenario, snap.Parameters), horizon)

	revenueLine := scale(revenue.Operating, RevenueFactor(scenario, snap.Parameters))

	salesTax := make([]float64, horizon)
	for year := 0; year < horizon; year++ {
		salesTax[year] = revenueLine[year] * constants.SalesTaxRate
	}

	// Expense and loan lines in stable name order.
	var outflows []Row
	for _, name := range sortedKeys(expenses.ByName) {
		outflows = append(outflows, Row{Name: name, Values: expenses.ByName[name]})
	}
	for _, name := range sortedKeys(expenses.LoanByName) {
		outflows = append(outflows, Row{Name: name, Values: expenses.LoanByName[name]})
	}

	operatingProfit := make([]float64, horizon)
	resultTax := make([]float64, horizon)
	netProfit := make([]float64, horizon)
	for year := 0; year < horizon; year++ {
		outflowTotal := salesTax[year]
		for _, line := range outflows {
			outflowTotal += line.Values[year]
		}
		operatingProfit[year] = revenueLine[year] - outflowTotal
		if operatingProfit[year] > 0 {
			resultTax[year] = operatingProfit[year] * constants.ResultTaxRate
		}
		netProfit[year] = operatingProfit[year] - resultTax[year]
	}

	lines := make([]Row, 0, len(outflows)+4)
	lines = append(lines, Row{Name: LineRevenue, Values: revenueLine})
	lines = append(lines, Row{Name: LineSalesTax, Values: salesTax})
	lines = append(lines, outflows...)
	lines = append(lines, Row{Name: LineResultTax, Values: resultTax})
	lines = append(lines, Row{Name: LineNetProfit, Values: netProfit})

	return &CashFlow{
		Scenario: scenario,
		Years:    YearLabels(horizon),
		Lines:    lines,
	}, nil
}

func sortedKeys(m map[string][]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
