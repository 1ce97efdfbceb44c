package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/hoppemairon/gestor-plantio/internal/dre"
	"github.com/hoppemairon/gestor-plantio/internal/indicators"
	"github.com/hoppemairon/gestor-plantio/internal/opinion"
	"github.com/hoppemairon/gestor-plantio/internal/projection"
	"github.com/hoppemairon/gestor-plantio/internal/registry"
	"github.com/hoppemairon/gestor-plantio/pkg/inflation"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Bundle holds every computed artifact for one session, ready for
// serialization. Export is read-only over the registries; all computation
// happens in Assemble.
type Bundle struct {
	Snapshot   registry.Snapshot
	Horizon    int
	Totals     indicators.Totals
	CashFlows  map[dre.Scenario]*dre.CashFlow
	Statements map[dre.Scenario]*dre.Statement
	PerCrop    map[dre.Scenario]*dre.CropStatements
	Indicators map[dre.Scenario]*indicators.Set
	Opinions   map[dre.Scenario]*opinion.Opinion
}

// Assemble runs the full pipeline for every scenario over one snapshot.
func Assemble(logger *zap.Logger, snap registry.Snapshot, horizon int) (*Bundle, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	rates := inflation.Normalize(snap.Parameters.InflationPct, horizon)
	revenue, err := projection.ProjectRevenue(logger, snap.Plantings, snap.AdditionalRevenues, rates, horizon)
	if err != nil {
		return nil, err
	}

	bundle := &Bundle{
		Snapshot: snap,
		Horizon:  horizon,
		Totals: indicators.Totals{
			Hectares:         revenue.TotalHectares,
			Sacks:            revenue.TotalSacks,
			BasePricePerSack: revenue.BasePricePerSack,
		},
		CashFlows:  make(map[dre.Scenario]*dre.CashFlow, len(dre.Scenarios)),
		Statements: make(map[dre.Scenario]*dre.Statement, len(dre.Scenarios)),
		PerCrop:    make(map[dre.Scenario]*dre.CropStatements, len(dre.Scenarios)),
		Indicators: make(map[dre.Scenario]*indicators.Set, len(dre.Scenarios)),
		Opinions:   make(map[dre.Scenario]*opinion.Opinion, len(dre.Scenarios)),
	}

	for _, scenario := range dre.Scenarios {
		cashFlow, err := dre.BuildCashFlow(logger, snap, scenario, horizon)
		if err != nil {
			return nil, err
		}
		statement, err := dre.Build(logger, snap, scenario, horizon)
		if err != nil {
			return nil, err
		}
		perCrop, err := dre.BuildPerCrop(logger, snap, scenario, horizon)
		if err != nil {
			return nil, err
		}
		set := indicators.Calculate(logger, statement, bundle.Totals)

		bundle.CashFlows[scenario] = cashFlow
		bundle.Statements[scenario] = statement
		bundle.PerCrop[scenario] = perCrop
		bundle.Indicators[scenario] = set
		bundle.Opinions[scenario] = opinion.Generate(logger, set, bundle.Totals)
	}
	return bundle, nil
}

// Workbook serializes the bundle into a multi-sheet .xlsx workbook.
func (b *Bundle) Workbook(logger *zap.Logger) (*excelize.File, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	f := excelize.NewFile()
	w := &workbookWriter{file: f, horizon: b.Horizon}
	if err := w.init(); err != nil {
		return nil, err
	}

	firstScenario := true
	for _, scenario := range dre.Scenarios {
		name := string(scenario)
		if err := w.addTableSheet("Cash Flow - "+name, b.CashFlows[scenario].Lines, firstScenario); err != nil {
			return nil, err
		}
		firstScenario = false
		if err := w.addTableSheet("DRE - "+name, b.Statements[scenario].Rows(), false); err != nil {
			return nil, err
		}
		if err := w.addIndicatorSheet("Indicators - "+name, b.Indicators[scenario], b.Opinions[scenario]); err != nil {
			return nil, err
		}
		if err := w.addPerCropSheet("Per Crop - "+name, b.PerCrop[scenario]); err != nil {
			return nil, err
		}
	}
	if err := w.addRegistrySheet(b.Snapshot); err != nil {
		return nil, err
	}
	if err := w.addConfigurationSheet(b.Snapshot); err != nil {
		return nil, err
	}

	logger.Info("built export workbook", zap.Int("sheets", len(f.GetSheetList())))
	return f, nil
}

// WriteWorkbook serializes the bundle and writes the workbook to w.
func (b *Bundle) WriteWorkbook(logger *zap.Logger, w io.Writer) error {
	f, err := b.Workbook(logger)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveWorkbook serializes the bundle and saves the workbook to path.
func (b *Bundle) SaveWorkbook(logger *zap.Logger, path string) error {
	f, err := b.Workbook(logger)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook to %s: %w", path, err)
	}
	return nil
}

// workbookWriter carries the shared styles while sheets are appended.
type workbookWriter struct {
	file        *excelize.File
	horizon     int
	headerStyle int
	numberStyle int
}

func (w *workbookWriter) init() error {
	var err error
	w.headerStyle, err = w.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	numFmt := "#,##0.00"
	w.numberStyle, err = w.file.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return fmt.Errorf("failed to create number style: %w", err)
	}
	return nil
}

// newSheet creates (or renames into) a sheet. The workbook's default sheet
// is reused for the first table.
func (w *workbookWriter) newSheet(name string, reuseDefault bool) error {
	if reuseDefault {
		return w.file.SetSheetName("Sheet1", name)
	}
	_, err := w.file.NewSheet(name)
	return err
}

func (w *workbookWriter) setHeaderRow(sheet string, row int, first string) error {
	cells := append([]string{first}, dre.YearLabels(w.horizon)...)
	for i, label := range cells {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		if err := w.file.SetCellValue(sheet, cell, label); err != nil {
			return err
		}
		if err := w.file.SetCellStyle(sheet, cell, cell, w.headerStyle); err != nil {
			return err
		}
	}
	return nil
}

func (w *workbookWriter) setValueRow(sheet string, row int, name string, values []float64) error {
	cell, _ := excelize.CoordinatesToCellName(1, row)
	if err := w.file.SetCellValue(sheet, cell, name); err != nil {
		return err
	}
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+2, row)
		if err := w.file.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
		if err := w.file.SetCellStyle(sheet, cell, cell, w.numberStyle); err != nil {
			return err
		}
	}
	return nil
}

func (w *workbookWriter) addTableSheet(name string, rows []dre.Row, reuseDefault bool) error {
	if err := w.newSheet(name, reuseDefault); err != nil {
		return err
	}
	if err := w.setHeaderRow(name, 1, "Line"); err != nil {
		return err
	}
	for i, row := range rows {
		if err := w.setValueRow(name, i+2, row.Name, row.Values); err != nil {
			return err
		}
	}
	w.file.SetColWidth(name, "A", "A", 32)
	return nil
}

func (w *workbookWriter) addIndicatorSheet(name string, set *indicators.Set, op *opinion.Opinion) error {
	if err := w.newSheet(name, false); err != nil {
		return err
	}
	if err := w.setHeaderRow(name, 1, "Indicator"); err != nil {
		return err
	}
	row := 2
	for _, r := range set.Rows() {
		if err := w.setValueRow(name, row, r.Name, r.Values); err != nil {
			return err
		}
		row++
	}
	if err := w.setValueRow(name, row, indicators.LabelCAGRRevenue, []float64{set.CAGRRevenuePct}); err != nil {
		return err
	}
	row++
	if err := w.setValueRow(name, row, indicators.LabelCAGRNetProfit, []float64{set.CAGRNetProfitPct}); err != nil {
		return err
	}
	row += 2

	// Narrative block below the table.
	for _, a := range op.Assessments {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := w.file.SetCellValue(name, cell, a.Text); err != nil {
			return err
		}
		row++
	}
	w.file.SetColWidth(name, "A", "A", 32)
	return nil
}

func (w *workbookWriter) addPerCropSheet(name string, perCrop *dre.CropStatements) error {
	if err := w.newSheet(name, false); err != nil {
		return err
	}

	crops := make([]string, 0, len(perCrop.ByCrop))
	for crop := range perCrop.ByCrop {
		crops = append(crops, crop)
	}
	sort.Strings(crops)

	row := 1
	for _, crop := range crops {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := w.file.SetCellValue(name, cell, crop); err != nil {
			return err
		}
		if err := w.file.SetCellStyle(name, cell, cell, w.headerStyle); err != nil {
			return err
		}
		row++
		if err := w.setHeaderRow(name, row, "Line"); err != nil {
			return err
		}
		row++
		for _, r := range perCrop.ByCrop[crop].Rows() {
			if err := w.setValueRow(name, row, r.Name, r.Values); err != nil {
				return err
			}
			row++
		}
		row++ // blank separator
	}
	w.file.SetColWidth(name, "A", "A", 32)
	return nil
}

func (w *workbookWriter) addRegistrySheet(snap registry.Snapshot) error {
	const name = "Registries"
	if err := w.newSheet(name, false); err != nil {
		return err
	}

	row := 1
	section := func(title string, header []string) error {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := w.file.SetCellValue(name, cell, title); err != nil {
			return err
		}
		if err := w.file.SetCellStyle(name, cell, cell, w.headerStyle); err != nil {
			return err
		}
		row++
		for i, h := range header {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			if err := w.file.SetCellValue(name, cell, h); err != nil {
				return err
			}
			if err := w.file.SetCellStyle(name, cell, cell, w.headerStyle); err != nil {
				return err
			}
		}
		row++
		return nil
	}
	record := func(values ...interface{}) error {
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			if err := w.file.SetCellValue(name, cell, v); err != nil {
				return err
			}
		}
		row++
		return nil
	}

	if err := section("Plantings", []string{"Year", "Crop", "Hectares", "Sacks per Hectare", "Price per Sack"}); err != nil {
		return err
	}
	for _, p := range snap.Plantings {
		if err := record(p.Year, p.Crop, p.Hectares, p.SacksPerHectare, p.PricePerSack); err != nil {
			return err
		}
	}
	row++

	if err := section("Expenses", []string{ColumnName, ColumnValue, ColumnCategory, ColumnCostCenter}); err != nil {
		return err
	}
	for _, e := range snap.Expenses {
		if err := record(e.Name, e.Amount, string(e.Category), e.CostCenter); err != nil {
			return err
		}
	}
	row++

	if err := section("Loans", []string{
		ColumnLender, ColumnPurpose, ColumnTotalValue, ColumnInterestRate,
		ColumnInstallmentCount, ColumnInstallmentValue, ColumnFrequency,
		ColumnStartYear, ColumnEndYear, ColumnCostCenter,
	}); err != nil {
		return err
	}
	for _, l := range snap.Loans {
		if err := record(l.Lender, l.Purpose, l.Principal, l.InterestRate, l.Installments,
			l.InstallmentAmount, string(l.Frequency), l.StartYearIndex+1, l.EndYearIndex+1, l.CostCenter); err != nil {
			return err
		}
	}
	row++

	if err := section("Additional Revenues", []string{"Name", "Value", "Category", "Years"}); err != nil {
		return err
	}
	for _, r := range snap.AdditionalRevenues {
		if err := record(r.Name, r.Amount, string(r.Category), fmt.Sprint(yearsDisplay(r.Years))); err != nil {
			return err
		}
	}

	w.file.SetColWidth(name, "A", "A", 28)
	return nil
}

func (w *workbookWriter) addConfigurationSheet(snap registry.Snapshot) error {
	const name = "Configuration"
	if err := w.newSheet(name, false); err != nil {
		return err
	}

	params := snap.Parameters
	entries := []struct {
		key   string
		value interface{}
	}{
		{"Pessimistic revenue reduction (%)", params.PessimisticRevenueReductionPct},
		{"Pessimistic expense increase (%)", params.PessimisticExpenseIncreasePct},
		{"Optimistic revenue increase (%)", params.OptimisticRevenueIncreasePct},
		{"Optimistic expense reduction (%)", params.OptimisticExpenseReductionPct},
	}
	for i, rate := range inflation.Normalize(params.InflationPct, w.horizon) {
		entries = append(entries, struct {
			key   string
			value interface{}
		}{fmt.Sprintf("Inflation year %d (%%)", i+1), rate})
	}

	for i, e := range entries {
		keyCell, _ := excelize.CoordinatesToCellName(1, i+1)
		valCell, _ := excelize.CoordinatesToCellName(2, i+1)
		if err := w.file.SetCellValue(name, keyCell, e.key); err != nil {
			return err
		}
		if err := w.file.SetCellValue(name, valCell, e.value); err != nil {
			return err
		}
	}
	w.file.SetColWidth(name, "A", "A", 34)
	return nil
}

// yearsDisplay converts zero-based horizon indices to the 1-based years
// shown to users.
func yearsDisplay(indices []int) []int {
	years := make([]int, len(indices))
	for i, idx := range indices {
		years[i] = idx + 1
	}
	return years
}
