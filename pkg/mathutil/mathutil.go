// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/hoppemairon/gestor-plantio/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// ApplyPercentage applies a percentage to a value
func ApplyPercentage(value, percentage float64) float64 {
	return value * (percentage / constants.PercentageMultiplier)
}

// AdjustmentFactor converts a signed percentage adjustment into a
// multiplicative factor, e.g. +10 -> 1.10 and -15 -> 0.85.
func AdjustmentFactor(percentage float64) float64 {
	return 1.0 + percentage/constants.PercentageMultiplier
}

// Mean returns the arithmetic mean of the values, skipping infinities so
// that sentinel values (e.g. an infinite coverage ratio) do not poison the
// average. Returns +Inf when every value is infinite and 0 for an empty
// slice.
func Mean(values []float64) float64 {
	sum := 0.0
	n := 0
	for _, v := range values {
		if math.IsInf(v, 0) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		if len(values) > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return sum / float64(n)
}

// CAGR computes the compound annual growth rate in percent over the given
// number of periods. A non-positive initial value or period count is
// degenerate and yields 0. A non-positive final value is reported as a
// negative rate derived from its magnitude; this mirrors the historical
// behavior and understates true decline in some edge cases.
func CAGR(initial, final float64, periods int) float64 {
	if initial <= 0 || periods <= 0 {
		return 0
	}
	if final <= 0 {
		return (math.Pow(math.Abs(final)/initial, 1.0/float64(periods)) - 1) * -constants.PercentageMultiplier
	}
	return (math.Pow(final/initial, 1.0/float64(periods)) - 1) * constants.PercentageMultiplier
}
