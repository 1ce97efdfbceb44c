package projection

import (
	"errors"
	"testing"

	"github.com/hoppemairon/gestor-plantio/internal/model"
	"github.com/hoppemairon/gestor-plantio/pkg/mathutil"
	"go.uber.org/zap"
)

var flatRates = []float64{4, 4, 4, 4, 4}

func TestProjectRevenueSinglePlanting(t *testing.T) {
	plantings := []model.Planting{
		{Year: 2025, Crop: model.CropSoybean, Hectares: 100, SacksPerHectare: 40, PricePerSack: 120},
	}

	result, err := ProjectRevenue(zap.NewNop(), plantings, nil, flatRates, 5)
	if err != nil {
		t.Fatalf("ProjectRevenue() unexpected error: %v", err)
	}

	// Base revenue 480,000; year 1 at 1.04, year 2 at 1.04^2.
	if !mathutil.WithinTolerance(result.Operating[0], 499200, 0.01) {
		t.Errorf("Operating[0] = %v, want 499200", result.Operating[0])
	}
	if !mathutil.WithinTolerance(result.Operating[1], 519168, 0.01) {
		t.Errorf("Operating[1] = %v, want 519168", result.Operating[1])
	}
	if result.TotalHectares != 100 || result.TotalSacks != 4000 {
		t.Errorf("totals = (%v ha, %v sacks), want (100, 4000)", result.TotalHectares, result.TotalSacks)
	}
	if !mathutil.WithinTolerance(result.BasePricePerSack, 120, 1e-9) {
		t.Errorf("BasePricePerSack = %v, want 120", result.BasePricePerSack)
	}
}

func TestProjectRevenueAdditivity(t *testing.T) {
	plantings := []model.Planting{
		{Year: 2025, Crop: model.CropSoybean, Hectares: 100, SacksPerHectare: 40, PricePerSack: 120},
		{Year: 2025, Crop: model.CropRice, Hectares: 50, SacksPerHectare: 80, PricePerSack: 70},
		{Year: 2026, Crop: model.CropSoybean, Hectares: 30, SacksPerHectare: 45, PricePerSack: 110},
	}
	extras := []model.AdditionalRevenue{
		{Name: "Machine rental", Amount: 10000, Category: model.RevenueOperational, Years: []int{0, 2}},
		{Name: "Land sale", Amount: 250000, Category: model.RevenueExtraOperational, Years: []int{3}},
	}

	result, err := ProjectRevenue(zap.NewNop(), plantings, extras, flatRates, 5)
	if err != nil {
		t.Fatalf("ProjectRevenue() unexpected error: %v", err)
	}

	// Plantings sharing a crop are summed into one per-crop series.
	if len(result.ByCrop) != 2 {
		t.Fatalf("ByCrop has %d crops, want 2", len(result.ByCrop))
	}

	for year := 0; year < 5; year++ {
		cropSum := 0.0
		for _, series := range result.ByCrop {
			cropSum += series[year]
		}
		operating := cropSum
		if year == 0 || year == 2 {
			operating += 10000 * factorAt(year)
		}
		if !mathutil.WithinTolerance(result.Operating[year], operating, 0.01) {
			t.Errorf("Operating[%d] = %v, want %v", year, result.Operating[year], operating)
		}

		extraOp := 0.0
		if year == 3 {
			extraOp = 250000
		}
		if !mathutil.WithinTolerance(result.ExtraOperational[year], extraOp, 0.01) {
			t.Errorf("ExtraOperational[%d] = %v, want %v", year, result.ExtraOperational[year], extraOp)
		}
		if !mathutil.WithinTolerance(result.Total[year], operating+extraOp, 0.01) {
			t.Errorf("Total[%d] = %v, want %v", year, result.Total[year], operating+extraOp)
		}
	}
}

func factorAt(year int) float64 {
	factor := 1.0
	for j := 0; j <= year; j++ {
		factor *= 1.04
	}
	return factor
}

func TestProjectRevenueInsufficientData(t *testing.T) {
	tests := []struct {
		name      string
		plantings []model.Planting
	}{
		{"No plantings", nil},
		{"Zero area", []model.Planting{{Year: 2025, Crop: "Soybean", Hectares: 0, SacksPerHectare: 40, PricePerSack: 120}}},
		{"Zero yield", []model.Planting{{Year: 2025, Crop: "Soybean", Hectares: 100, SacksPerHectare: 0, PricePerSack: 120}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ProjectRevenue(zap.NewNop(), tt.plantings, nil, flatRates, 5)
			if !errors.Is(err, ErrInsufficientPlantingData) {
				t.Errorf("ProjectRevenue() error = %v, want ErrInsufficientPlantingData", err)
			}
		})
	}
}

func TestProjectExpensesCategoriesAndConsolidation(t *testing.T) {
	expenses := []model.Expense{
		{Name: "Seeds", Amount: 30000, Category: model.CategoryOperational, CostCenter: model.CostCenterAdministrative},
		{Name: "Seeds", Amount: 20000, Category: model.CategoryOperational, CostCenter: model.CostCenterAdministrative},
		{Name: "Payroll", Amount: 80000, Category: model.CategoryHR, CostCenter: model.CostCenterAdministrative},
	}

	result := ProjectExpenses(zap.NewNop(), expenses, nil, flatRates, 0, 5)

	// Duplicate names consolidate by summation: 50,000 * 1.04 in year 1.
	if !mathutil.WithinTolerance(result.ByName["Seeds"][0], 52000, 0.01) {
		t.Errorf(`ByName["Seeds"][0] = %v, want 52000`, result.ByName["Seeds"][0])
	}
	if !mathutil.WithinTolerance(result.ByCategory[model.CategoryOperational][0], 52000, 0.01) {
		t.Errorf("Operational[0] = %v, want 52000", result.ByCategory[model.CategoryOperational][0])
	}
	if !mathutil.WithinTolerance(result.ByCategory[model.CategoryHR][1], 80000*1.04*1.04, 0.01) {
		t.Errorf("HR[1] = %v, want %v", result.ByCategory[model.CategoryHR][1], 80000*1.04*1.04)
	}

	// Every category is present, absent ones as zero vectors.
	for _, category := range model.Categories {
		if len(result.ByCategory[category]) != 5 {
			t.Errorf("category %s has %d entries, want 5", category, len(result.ByCategory[category]))
		}
	}
	for year, v := range result.ByCategory[model.CategoryDividends] {
		if v != 0 {
			t.Errorf("Dividends[%d] = %v, want 0", year, v)
		}
	}
}

func TestProjectExpensesScenarioAdjustment(t *testing.T) {
	expenses := []model.Expense{
		{Name: "Seeds", Amount: 50000, Category: model.CategoryOperational},
	}

	pessimistic := ProjectExpenses(zap.NewNop(), expenses, nil, flatRates, 10, 5)
	optimistic := ProjectExpenses(zap.NewNop(), expenses, nil, flatRates, -10, 5)

	if !mathutil.WithinTolerance(pessimistic.ByCategory[model.CategoryOperational][0], 52000*1.10, 0.01) {
		t.Errorf("pessimistic Operational[0] = %v, want %v", pessimistic.ByCategory[model.CategoryOperational][0], 52000*1.10)
	}
	if !mathutil.WithinTolerance(optimistic.ByCategory[model.CategoryOperational][0], 52000*0.90, 0.01) {
		t.Errorf("optimistic Operational[0] = %v, want %v", optimistic.ByCategory[model.CategoryOperational][0], 52000*0.90)
	}
}

func TestProjectExpensesLoanWindow(t *testing.T) {
	loans := []model.Loan{{
		Lender: "Banco Agro", Purpose: "Harvester", Principal: 200000,
		InterestRate: 8.5, Installments: 2, InstallmentAmount: 10000,
		Frequency: model.FrequencyAnnual, StartYearIndex: 1, EndYearIndex: 3,
	}}

	result := ProjectExpenses(zap.NewNop(), nil, loans, flatRates, 0, 5)

	expected := []float64{0, 10000, 10000, 0, 0}
	total := 0.0
	for year, want := range expected {
		if result.LoanTotal[year] != want {
			t.Errorf("LoanTotal[%d] = %v, want %v", year, result.LoanTotal[year], want)
		}
		total += result.LoanTotal[year]
	}
	if total != 20000 {
		t.Errorf("loan contributes %v in total, want 20000", total)
	}

	name := LoanLineName(loans[0])
	if name != "Banco Agro (Harvester)" {
		t.Errorf("LoanLineName = %q", name)
	}
	if result.LoanByName[name][1] != 10000 {
		t.Errorf("LoanByName[%q][1] = %v, want 10000", name, result.LoanByName[name][1])
	}

	extraOp := result.ExtraOperationalTotal(5)
	if extraOp[1] != 10000 || extraOp[0] != 0 {
		t.Errorf("ExtraOperationalTotal = %v", extraOp)
	}
}

func TestProjectExpensesLoanInstallmentsNotInflated(t *testing.T) {
	loans := []model.Loan{{
		Lender: "Banco Agro", Installments: 5, InstallmentAmount: 10000,
		Frequency: model.FrequencyAnnual, StartYearIndex: 0, EndYearIndex: 4,
	}}

	result := ProjectExpenses(zap.NewNop(), nil, loans, flatRates, 0, 5)
	for year := 0; year < 5; year++ {
		if result.LoanTotal[year] != 10000 {
			t.Errorf("LoanTotal[%d] = %v, want fixed 10000", year, result.LoanTotal[year])
		}
	}
}
