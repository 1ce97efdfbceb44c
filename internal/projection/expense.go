package projection

import (
	"fmt"

	"github.com/hoppemairon/gestor-plantio/internal/model"
	"github.com/hoppemairon/gestor-plantio/pkg/inflation"
	"github.com/hoppemairon/gestor-plantio/pkg/mathutil"
	"go.uber.org/zap"
)

// ExpenseResult holds the projected expense tables for one snapshot under a
// single expense adjustment (0 for the projected baseline).
type ExpenseResult struct {
	// ByCategory is the yearly expense vector per category, inflated and
	// scenario-adjusted. Every category is present; categories without
	// matching expenses hold zero vectors.
	ByCategory map[model.Category][]float64

	// ByName consolidates expenses by trimmed name (duplicates summed)
	// into yearly vectors for cash-flow line items.
	ByName map[string][]float64

	// LoanByName is the yearly installment vector per loan line, named
	// after the lender (and purpose when present), scenario-adjusted.
	LoanByName map[string][]float64

	// LoanTotal is the sum of all loan installment vectors.
	LoanTotal []float64
}

// ProjectExpenses aggregates the expense registry by category and name,
// applies compounded inflation and the scenario expense adjustment, and
// computes the loan amortization schedules. Sales and result taxes are not
// handled here; they are derived from adjusted figures by the statement
// builder.
func ProjectExpenses(logger *zap.Logger, expenses []model.Expense, loans []model.Loan, rates []float64, adjustmentPct float64, horizon int) *ExpenseResult {
	if logger == nil {
		logger = zap.NewNop()
	}

	adjust := mathutil.AdjustmentFactor(adjustmentPct)
	result := &ExpenseResult{
		ByCategory: make(map[model.Category][]float64),
		ByName:     make(map[string][]float64),
		LoanByName: make(map[string][]float64),
		LoanTotal:  make([]float64, horizon),
	}
	for _, category := range model.Categories {
		result.ByCategory[category] = make([]float64, horizon)
	}

	baseByCategory := make(map[model.Category]float64)
	baseByName := make(map[string]float64)
	for _, e := range expenses {
		baseByCategory[e.Category] += e.Amount
		baseByName[e.Name] += e.Amount
	}

	for year := 0; year < horizon; year++ {
		factor := inflation.Factor(rates, year) * adjust
		for category, base := range baseByCategory {
			result.ByCategory[category][year] = base * factor
		}
		for name, base := range baseByName {
			if result.ByName[name] == nil {
				result.ByName[name] = make([]float64, horizon)
			}
			result.ByName[name][year] = base * factor
		}
	}

	for _, l := range loans {
		schedule := l.Schedule(horizon)
		name := LoanLineName(l)
		if result.LoanByName[name] == nil {
			result.LoanByName[name] = make([]float64, horizon)
		}
		for year, installment := range schedule {
			adjusted := installment * adjust
			result.LoanByName[name][year] += adjusted
			result.LoanTotal[year] += adjusted
		}
	}

	logger.Debug("expenses projected",
		zap.String("op", "projection.ProjectExpenses"),
		zap.Int("expenses", len(expenses)),
		zap.Int("loans", len(loans)),
		zap.Float64("adjustmentPct", adjustmentPct),
	)
	return result
}

// LoanLineName is the display name used for a loan's cash-flow line.
func LoanLineName(l model.Loan) string {
	if l.Purpose != "" {
		return fmt.Sprintf("%s (%s)", l.Lender, l.Purpose)
	}
	return l.Lender
}

// ExtraOperationalTotal is the Extra-Operational expense line: category
// expenses plus loan installments, per year.
func (r *ExpenseResult) ExtraOperationalTotal(horizon int) []float64 {
	total := make([]float64, horizon)
	category := r.ByCategory[model.CategoryExtraOperational]
	for year := 0; year < horizon; year++ {
		if year < len(category) {
			total[year] = category[year]
		}
		if year < len(r.LoanTotal) {
			total[year] += r.LoanTotal[year]
		}
	}
	return total
}
