// Package inflation provides year-over-year inflation compounding utilities.
package inflation

import (
	"github.com/hoppemairon/gestor-plantio/pkg/constants"
)

// Factor computes the cumulative compounding factor through the given year
// index: the product of (1 + rate/100) for every year from 0 through
// throughYear inclusive. Years beyond the provided rates assume the default
// rate.
func Factor(rates []float64, throughYear int) float64 {
	factor := 1.0
	for j := 0; j <= throughYear; j++ {
		rate := constants.DefaultInflationPct
		if j < len(rates) {
			rate = rates[j]
		}
		factor *= 1.0 + rate/constants.PercentageMultiplier
	}
	return factor
}

// Normalize returns a rate slice of exactly horizon entries, filling missing
// years with the default rate.
func Normalize(rates []float64, horizon int) []float64 {
	normalized := make([]float64, horizon)
	for i := range normalized {
		if i < len(rates) {
			normalized[i] = rates[i]
		} else {
			normalized[i] = constants.DefaultInflationPct
		}
	}
	return normalized
}
