// Package projection computes the baseline revenue and expense projections
// over the horizon. Both projectors are pure transformations over a
// registry snapshot; scenario variants are derived downstream by the dre
// package.
package projection

import (
	"errors"

	"github.com/hoppemairon/gestor-plantio/internal/model"
	"github.com/hoppemairon/gestor-plantio/pkg/inflation"
	"go.uber.org/zap"
)

// ErrInsufficientPlantingData signals that revenue cannot be projected
// because the registered plantings carry no area or no production.
var ErrInsufficientPlantingData = errors.New("insufficient planting data: total hectares or total sacks is zero")

// RevenueResult holds the projected revenue tables for one snapshot.
type RevenueResult struct {
	// BaseByCrop is the base-year revenue per crop (area x yield x price,
	// summed over plantings sharing a crop name).
	BaseByCrop map[string]float64

	// ByCrop is the inflation-compounded yearly revenue per crop.
	ByCrop map[string][]float64

	// Operating is crop revenue plus additional Operational revenue,
	// per year. This is the revenue line of the income statement.
	Operating []float64

	// ExtraOperational is the additional Extra-Operational revenue per
	// year, at face value, only in its selected years.
	ExtraOperational []float64

	// Total is Operating plus ExtraOperational, per year.
	Total []float64

	// Aggregate planting figures for downstream indicators.
	TotalHectares    float64
	TotalSacks       float64
	BasePricePerSack float64
}

// ProjectRevenue computes the baseline revenue projection from the planting
// and additional-revenue registries.
func ProjectRevenue(logger *zap.Logger, plantings []model.Planting, extras []model.AdditionalRevenue, rates []float64, horizon int) (*RevenueResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	result := &RevenueResult{
		BaseByCrop:       make(map[string]float64),
		ByCrop:           make(map[string][]float64),
		Operating:        make([]float64, horizon),
		ExtraOperational: make([]float64, horizon),
		Total:            make([]float64, horizon),
	}

	totalPrice := 0.0
	for _, p := range plantings {
		result.BaseByCrop[p.Crop] += p.BaseRevenue()
		result.TotalHectares += p.Hectares
		result.TotalSacks += p.SacksPerHectare * p.Hectares
		totalPrice += p.BaseRevenue()
	}

	if result.TotalHectares == 0 || result.TotalSacks == 0 {
		logger.Warn("revenue projection aborted",
			zap.String("op", "projection.ProjectRevenue"),
			zap.Float64("totalHectares", result.TotalHectares),
			zap.Float64("totalSacks", result.TotalSacks),
		)
		return nil, ErrInsufficientPlantingData
	}
	result.BasePricePerSack = totalPrice / result.TotalSacks

	for crop, base := range result.BaseByCrop {
		yearly := make([]float64, horizon)
		for year := 0; year < horizon; year++ {
			yearly[year] = base * inflation.Factor(rates, year)
		}
		result.ByCrop[crop] = yearly
		for year := 0; year < horizon; year++ {
			result.Operating[year] += yearly[year]
		}
	}

	for _, extra := range extras {
		for _, year := range extra.Years {
			if year < 0 || year >= horizon {
				continue
			}
			switch extra.Category {
			case model.RevenueOperational:
				// Operational extras compound with inflation like crop revenue.
				result.Operating[year] += extra.Amount * inflation.Factor(rates, year)
			case model.RevenueExtraOperational:
				// Extra-operational extras enter at face value.
				result.ExtraOperational[year] += extra.Amount
			}
		}
	}

	for year := 0; year < horizon; year++ {
		result.Total[year] = result.Operating[year] + result.ExtraOperational[year]
	}

	logger.Debug("revenue projected",
		zap.String("op", "projection.ProjectRevenue"),
		zap.Int("crops", len(result.ByCrop)),
		zap.Float64("totalHectares", result.TotalHectares),
	)
	return result, nil
}
