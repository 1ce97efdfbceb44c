package mathutil

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Round up at midpoint", 1.235, 1.24},
		{"Round down below midpoint", 1.234, 1.23},
		{"No rounding needed", 1.23, 1.23},
		{"Large number", 12345.678, 12345.68},
		{"Negative midpoint rounds away from zero", -1.235, -1.24},
		{"Zero", 0.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Round(tt.input)
			if result != tt.expected {
				t.Errorf("Round(%v) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestAdjustmentFactor(t *testing.T) {
	tests := []struct {
		name     string
		pct      float64
		expected float64
	}{
		{"Positive adjustment", 10, 1.10},
		{"Negative adjustment", -15, 0.85},
		{"No adjustment", 0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AdjustmentFactor(tt.pct)
			if !WithinTolerance(result, tt.expected, 1e-9) {
				t.Errorf("AdjustmentFactor(%v) = %v, want %v", tt.pct, result, tt.expected)
			}
		})
	}
}

func TestMean(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"Simple mean", []float64{1, 2, 3}, 2},
		{"Skips infinities", []float64{2, math.Inf(1), 4}, 3},
		{"Empty slice", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Mean(tt.values)
			if result != tt.expected {
				t.Errorf("Mean(%v) = %v, want %v", tt.values, result, tt.expected)
			}
		})
	}

	t.Run("All infinite", func(t *testing.T) {
		result := Mean([]float64{math.Inf(1), math.Inf(1)})
		if !math.IsInf(result, 1) {
			t.Errorf("Mean of infinities = %v, want +Inf", result)
		}
	})
}

func TestCAGR(t *testing.T) {
	tests := []struct {
		name     string
		initial  float64
		final    float64
		periods  int
		expected float64
	}{
		{"Standard growth", 1000000, 1300000, 4, 6.778999},
		{"Zero initial is degenerate", 0, 100, 4, 0},
		{"Negative initial is degenerate", -100, 100, 4, 0},
		{"Zero periods is degenerate", 100, 200, 0, 0},
		{"Flat", 100, 100, 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CAGR(tt.initial, tt.final, tt.periods)
			if !WithinTolerance(result, tt.expected, 0.0001) {
				t.Errorf("CAGR(%v, %v, %v) = %v, want %v", tt.initial, tt.final, tt.periods, result, tt.expected)
			}
		})
	}

	t.Run("Negative final flips sign", func(t *testing.T) {
		// abs(-50)/100 = 0.5; 0.5^(1/4)-1 ~= -0.159104; flipped sign -> +15.9104
		result := CAGR(100, -50, 4)
		if !WithinTolerance(result, 15.910358, 0.0001) {
			t.Errorf("CAGR(100, -50, 4) = %v, want 15.910358", result)
		}
	})
}
