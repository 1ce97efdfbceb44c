// Package allocation splits expenses and loans across crops. Lines tagged
// with the administrative cost-center are prorated by each crop's share of
// total planted area; lines tagged with a known crop are assigned to it in
// full.
package allocation

import (
	"fmt"

	"github.com/hoppemairon/gestor-plantio/internal/model"
	"github.com/hoppemairon/gestor-plantio/internal/projection"
	"github.com/hoppemairon/gestor-plantio/pkg/inflation"
	"github.com/hoppemairon/gestor-plantio/pkg/mathutil"
	"go.uber.org/zap"
)

// Line is one allocated expense line for a crop.
type Line struct {
	Name     string
	Category model.Category
	Values   []float64
}

// Result holds the per-crop allocation tables.
type Result struct {
	// Shares maps each crop with positive planted area to its share of the
	// total area.
	Shares map[string]float64

	// ByCrop maps each crop to its allocated expense lines.
	ByCrop map[string][]Line
}

// Allocate prorates the expense and loan registries across crops. Expense
// vectors are inflation-compounded and scenario-adjusted; loan vectors
// follow the amortization window. With no plantings the allocation is a
// no-op and returns an empty result.
func Allocate(logger *zap.Logger, plantings []model.Planting, expenses []model.Expense, loans []model.Loan, rates []float64, adjustmentPct float64, horizon int) *Result {
	if logger == nil {
		logger = zap.NewNop()
	}

	result := &Result{
		Shares: make(map[string]float64),
		ByCrop: make(map[string][]Line),
	}

	totalArea := 0.0
	areaByCrop := make(map[string]float64)
	for _, p := range plantings {
		areaByCrop[p.Crop] += p.Hectares
		totalArea += p.Hectares
	}
	if totalArea == 0 {
		logger.Debug("allocation skipped: no planted area",
			zap.String("op", "allocation.Allocate"),
		)
		return result
	}
	for crop, area := range areaByCrop {
		if area > 0 {
			result.Shares[crop] = area / totalArea
			result.ByCrop[crop] = nil
		}
	}

	adjust := mathutil.AdjustmentFactor(adjustmentPct)
	for _, e := range expenses {
		values := make([]float64, horizon)
		for year := 0; year < horizon; year++ {
			values[year] = e.Amount * inflation.Factor(rates, year) * adjust
		}
		result.assign(e.CostCenter, e.Name, e.Category, values)
	}

	for _, l := range loans {
		schedule := l.Schedule(horizon)
		values := make([]float64, horizon)
		for year := 0; year < horizon; year++ {
			values[year] = schedule[year] * adjust
		}
		result.assign(l.CostCenter, projection.LoanLineName(l), model.CategoryExtraOperational, values)
	}

	return result
}

// assign routes one projected line to its cost-center: a known crop takes
// it whole, anything else is prorated across all crops by area share.
// Cost-centers naming an unregistered crop fall back to proration, matching
// the administrative default.
func (r *Result) assign(costCenter, name string, category model.Category, values []float64) {
	if costCenter != model.CostCenterAdministrative {
		if _, known := r.Shares[costCenter]; known {
			r.ByCrop[costCenter] = append(r.ByCrop[costCenter], Line{
				Name:     name,
				Category: category,
				Values:   values,
			})
			return
		}
	}

	for crop, share := range r.Shares {
		allocated := make([]float64, len(values))
		for year := range values {
			allocated[year] = values[year] * share
		}
		r.ByCrop[crop] = append(r.ByCrop[crop], Line{
			Name:     fmt.Sprintf("%s (Admin allocation)", name),
			Category: category,
			Values:   allocated,
		})
	}
}

// CategoryTotals sums a crop's allocated lines per category over the
// horizon.
func (r *Result) CategoryTotals(crop string, horizon int) map[model.Category][]float64 {
	totals := make(map[model.Category][]float64)
	for _, category := range model.Categories {
		totals[category] = make([]float64, horizon)
	}
	for _, line := range r.ByCrop[crop] {
		for year := 0; year < horizon && year < len(line.Values); year++ {
			totals[line.Category][year] += line.Values[year]
		}
	}
	return totals
}
