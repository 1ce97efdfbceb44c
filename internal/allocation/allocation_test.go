package allocation

import (
	"strings"
	"testing"

	"github.com/hoppemairon/gestor-plantio/internal/model"
	"github.com/hoppemairon/gestor-plantio/pkg/mathutil"
	"go.uber.org/zap"
)

var flatRates = []float64{4, 4, 4, 4, 4}

func twoCropPlantings() []model.Planting {
	return []model.Planting{
		{Year: 2025, Crop: model.CropSoybean, Hectares: 300, SacksPerHectare: 40, PricePerSack: 120},
		{Year: 2025, Crop: model.CropRice, Hectares: 100, SacksPerHectare: 80, PricePerSack: 70},
	}
}

func TestAllocateAdministrativeConservation(t *testing.T) {
	expenses := []model.Expense{
		{Name: "Accounting", Amount: 40000, Category: model.CategoryAdministrative, CostCenter: model.CostCenterAdministrative},
	}

	result := Allocate(zap.NewNop(), twoCropPlantings(), expenses, nil, flatRates, 0, 5)

	if !mathutil.WithinTolerance(result.Shares[model.CropSoybean], 0.75, 1e-9) {
		t.Errorf("soybean share = %v, want 0.75", result.Shares[model.CropSoybean])
	}
	if !mathutil.WithinTolerance(result.Shares[model.CropRice], 0.25, 1e-9) {
		t.Errorf("rice share = %v, want 0.25", result.Shares[model.CropRice])
	}

	// The prorated pieces must sum back to the projected value each year.
	for year := 0; year < 5; year++ {
		total := 0.0
		for crop := range result.Shares {
			for _, line := range result.ByCrop[crop] {
				total += line.Values[year]
			}
		}
		expected := 40000.0
		for j := 0; j <= year; j++ {
			expected *= 1.04
		}
		if !mathutil.WithinTolerance(total, expected, 0.01) {
			t.Errorf("year %d allocated total = %v, want %v", year, total, expected)
		}
	}

	// Prorated lines carry the allocation suffix.
	line := result.ByCrop[model.CropSoybean][0]
	if !strings.Contains(line.Name, "(Admin allocation)") {
		t.Errorf("allocated line name = %q, want admin allocation suffix", line.Name)
	}
	if line.Category != model.CategoryAdministrative {
		t.Errorf("allocated line category = %v, want Administrative", line.Category)
	}
}

func TestAllocateCropTaggedExpenseUnprorated(t *testing.T) {
	expenses := []model.Expense{
		{Name: "Soybean seeds", Amount: 50000, Category: model.CategoryOperational, CostCenter: model.CropSoybean},
	}

	result := Allocate(zap.NewNop(), twoCropPlantings(), expenses, nil, flatRates, 0, 5)

	soyLines := result.ByCrop[model.CropSoybean]
	if len(soyLines) != 1 {
		t.Fatalf("soybean has %d lines, want 1", len(soyLines))
	}
	if !mathutil.WithinTolerance(soyLines[0].Values[0], 52000, 0.01) {
		t.Errorf("soybean line year 1 = %v, want full 52000", soyLines[0].Values[0])
	}
	if strings.Contains(soyLines[0].Name, "Admin allocation") {
		t.Errorf("crop-tagged line must not carry the allocation suffix, got %q", soyLines[0].Name)
	}
	if len(result.ByCrop[model.CropRice]) != 0 {
		t.Errorf("rice received %d lines, want 0", len(result.ByCrop[model.CropRice]))
	}
}

func TestAllocateUnknownCostCenterProrated(t *testing.T) {
	expenses := []model.Expense{
		{Name: "Corn inputs", Amount: 10000, Category: model.CategoryOperational, CostCenter: "Corn"},
	}

	result := Allocate(zap.NewNop(), twoCropPlantings(), expenses, nil, flatRates, 0, 5)

	// Corn has no planting, so the line falls back to area proration.
	if len(result.ByCrop[model.CropSoybean]) != 1 || len(result.ByCrop[model.CropRice]) != 1 {
		t.Fatalf("unknown cost-center must be prorated across all crops")
	}
	sum := result.ByCrop[model.CropSoybean][0].Values[0] + result.ByCrop[model.CropRice][0].Values[0]
	if !mathutil.WithinTolerance(sum, 10400, 0.01) {
		t.Errorf("prorated sum = %v, want 10400", sum)
	}
}

func TestAllocateZeroAreaCropExcluded(t *testing.T) {
	plantings := append(twoCropPlantings(), model.Planting{
		Year: 2025, Crop: model.CropWheat, Hectares: 0, SacksPerHectare: 50, PricePerSack: 60,
	})
	expenses := []model.Expense{
		{Name: "Accounting", Amount: 40000, Category: model.CategoryAdministrative, CostCenter: model.CostCenterAdministrative},
	}

	result := Allocate(zap.NewNop(), plantings, expenses, nil, flatRates, 0, 5)

	if _, ok := result.Shares[model.CropWheat]; ok {
		t.Error("zero-area crop must be excluded from allocation")
	}
	if len(result.ByCrop[model.CropWheat]) != 0 {
		t.Error("zero-area crop must receive no allocated lines")
	}
}

func TestAllocateNoPlantingsIsNoOp(t *testing.T) {
	expenses := []model.Expense{
		{Name: "Accounting", Amount: 40000, Category: model.CategoryAdministrative, CostCenter: model.CostCenterAdministrative},
	}

	result := Allocate(zap.NewNop(), nil, expenses, nil, flatRates, 0, 5)
	if len(result.Shares) != 0 || len(result.ByCrop) != 0 {
		t.Errorf("allocation without plantings must be empty, got %+v", result)
	}
}

func TestAllocateLoanProration(t *testing.T) {
	loans := []model.Loan{{
		Lender: "Banco Agro", Purpose: "Harvester", Installments: 2, InstallmentAmount: 10000,
		Frequency: model.FrequencyAnnual, StartYearIndex: 1, EndYearIndex: 3,
		CostCenter: model.CostCenterAdministrative,
	}}

	result := Allocate(zap.NewNop(), twoCropPlantings(), nil, loans, flatRates, 0, 5)

	soy := result.ByCrop[model.CropSoybean][0]
	rice := result.ByCrop[model.CropRice][0]
	if soy.Category != model.CategoryExtraOperational {
		t.Errorf("loan line category = %v, want Extra Operational", soy.Category)
	}
	if !mathutil.WithinTolerance(soy.Values[1]+rice.Values[1], 10000, 0.01) {
		t.Errorf("prorated loan year 2 = %v, want 10000", soy.Values[1]+rice.Values[1])
	}
	if soy.Values[0] != 0 || soy.Values[4] != 0 {
		t.Errorf("loan must only apply within its window, got %v", soy.Values)
	}
}

func TestCategoryTotals(t *testing.T) {
	expenses := []model.Expense{
		{Name: "Soybean seeds", Amount: 50000, Category: model.CategoryOperational, CostCenter: model.CropSoybean},
		{Name: "Accounting", Amount: 40000, Category: model.CategoryAdministrative, CostCenter: model.CostCenterAdministrative},
	}

	result := Allocate(zap.NewNop(), twoCropPlantings(), expenses, nil, flatRates, 0, 5)
	totals := result.CategoryTotals(model.CropSoybean, 5)

	if !mathutil.WithinTolerance(totals[model.CategoryOperational][0], 52000, 0.01) {
		t.Errorf("soybean Operational[0] = %v, want 52000", totals[model.CategoryOperational][0])
	}
	if !mathutil.WithinTolerance(totals[model.CategoryAdministrative][0], 40000*1.04*0.75, 0.01) {
		t.Errorf("soybean Administrative[0] = %v, want %v", totals[model.CategoryAdministrative][0], 40000*1.04*0.75)
	}
	if totals[model.CategoryDividends][0] != 0 {
		t.Errorf("Dividends[0] = %v, want 0", totals[model.CategoryDividends][0])
	}
}
