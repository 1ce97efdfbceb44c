package dre

import (
	"github.com/hoppemairon/gestor-plantio/internal/allocation"
	"github.com/hoppemairon/gestor-plantio/internal/model"
	"github.com/hoppemairon/gestor-plantio/internal/projection"
	"github.com/hoppemairon/gestor-plantio/internal/registry"
	"github.com/hoppemairon/gestor-plantio/pkg/inflation"
	"go.uber.org/zap"
)

// CropStatements holds the per-crop income statements for one scenario
// together with the allocation that produced them.
type CropStatements struct {
	Scenario   Scenario
	Allocation *allocation.Result
	ByCrop     map[string]*Statement
}

// BuildPerCrop computes a per-crop income statement for one scenario. Each
// crop's revenue is its own projected series; expenses come from the cost
// allocation. Sales and result taxes are computed from the crop's own
// revenue and profit.
func BuildPerCrop(logger *zap.Logger, snap registry.Snapshot, scenario Scenario, horizon int) (*CropStatements, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	rates := inflation.Normalize(snap.Parameters.InflationPct, horizon)
	revenue, err := projection.ProjectRevenue(logger, snap.Plantings, snap.AdditionalRevenues, rates, horizon)
	if err != nil {
		return nil, err
	}

	alloc := allocation.Allocate(logger, snap.Plantings, snap.Expenses, snap.Loans, rates, ExpenseAdjustmentPct(scenario, snap.Parameters), horizon)

	result := &CropStatements{
		Scenario:   scenario,
		Allocation: alloc,
		ByCrop:     make(map[string]*Statement),
	}
	factor := RevenueFactor(scenario, snap.Parameters)
	for crop := range alloc.Shares {
		totals := alloc.CategoryTotals(crop, horizon)
		result.ByCrop[crop] = compose(
			scenario,
			scale(revenue.ByCrop[crop], factor),
			totals[model.CategoryOperational],
			totals[model.CategoryAdministrative],
			totals[model.CategoryHR],
			totals[model.CategoryExtraOperational],
			totals[model.CategoryDividends],
			make([]float64, horizon),
			horizon,
		)
	}
	return result, nil
}
