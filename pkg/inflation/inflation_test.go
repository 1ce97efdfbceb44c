package inflation

import (
	"testing"

	"github.com/hoppemairon/gestor-plantio/pkg/mathutil"
)

func TestFactor(t *testing.T) {
	tests := []struct {
		name        string
		rates       []float64
		throughYear int
		expected    float64
	}{
		{"First year at 4 percent", []float64{4, 4, 4, 4, 4}, 0, 1.04},
		{"Second year compounds", []float64{4, 4, 4, 4, 4}, 1, 1.0816},
		{"Mixed rates", []float64{10, 5}, 1, 1.155},
		{"Zero rates", []float64{0, 0, 0}, 2, 1.0},
		{"Missing rates use default", []float64{0}, 1, 1.04},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Factor(tt.rates, tt.throughYear)
			if !mathutil.WithinTolerance(result, tt.expected, 1e-9) {
				t.Errorf("Factor(%v, %d) = %v, want %v", tt.rates, tt.throughYear, result, tt.expected)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	result := Normalize([]float64{5, 6}, 5)
	expected := []float64{5, 6, 4, 4, 4}
	if len(result) != len(expected) {
		t.Fatalf("Normalize returned %d entries, want %d", len(result), len(expected))
	}
	for i := range expected {
		if result[i] != expected[i] {
			t.Errorf("Normalize[%d] = %v, want %v", i, result[i], expected[i])
		}
	}
}
