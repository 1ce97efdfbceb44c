package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hoppemairon/gestor-plantio/internal/model"
	"github.com/xuri/excelize/v2"
)

func workbookBytes(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue("Sheet1", cell, v); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return &buf
}

func TestImportExpenses(t *testing.T) {
	buf := workbookBytes(t, [][]interface{}{
		{"Name", "Value", "Category", "Cost Center"},
		{"Seeds", 120000, "Operational", "Soybean"},
		{"Accounting", 24000, "Administrative", ""},
	})

	expenses, report, err := ImportExpenses(nil, buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Imported != 2 || report.Skipped != 0 {
		t.Fatalf("expected 2 imported, 0 skipped, got %d/%d", report.Imported, report.Skipped)
	}
	if expenses[0].Name != "Seeds" || expenses[0].Amount != 120000 || expenses[0].Category != model.CategoryOperational {
		t.Errorf("unexpected first expense: %+v", expenses[0])
	}
	if expenses[0].CostCenter != "Soybean" {
		t.Errorf("expected cost center Soybean, got %q", expenses[0].CostCenter)
	}
	if expenses[1].CostCenter != model.CostCenterAdministrative {
		t.Errorf("expected default cost center, got %q", expenses[1].CostCenter)
	}
}

func TestImportExpensesMissingColumnAborts(t *testing.T) {
	buf := workbookBytes(t, [][]interface{}{
		{"Name", "Category"},
		{"Seeds", "Operational"},
	})
	if _, _, err := ImportExpenses(nil, buf); err == nil {
		t.Fatal("expected error for missing Value column")
	}
}

func TestImportExpensesSkipsBadRowsSilently(t *testing.T) {
	buf := workbookBytes(t, [][]interface{}{
		{"Name", "Value", "Category"},
		{"Seeds", 120000, "Operational"},
		{"", 5000, "Operational"},          // empty name
		{"Fuel", "", "Operational"},        // empty value
		{"Rent", 8000, "NotACategory"},      // unknown category
		{"Insurance", "abc", "Operational"}, // unparseable value
	})

	expenses, report, err := ImportExpenses(nil, buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Imported != 1 || report.Skipped != 4 {
		t.Fatalf("expected 1 imported, 4 skipped, got %d/%d", report.Imported, report.Skipped)
	}
	if len(expenses) != 1 || expenses[0].Name != "Seeds" {
		t.Fatalf("unexpected surviving rows: %+v", expenses)
	}
}

func TestImportExpensesHeaderMatchingIsLenient(t *testing.T) {
	buf := workbookBytes(t, [][]interface{}{
		{" name ", "VALUE", "category", "Cost-Center"},
		{"Seeds", 120000, "Operational", "Soybean"},
	})
	expenses, _, err := ImportExpenses(nil, buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(expenses) != 1 || expenses[0].CostCenter != "Soybean" {
		t.Fatalf("expected lenient header matching, got %+v", expenses)
	}
}

func TestImportLoans(t *testing.T) {
	buf := workbookBytes(t, [][]interface{}{
		{"Lender", "Purpose", "Total Value", "Interest Rate", "Installment Count", "Installment Value", "Frequency", "Start Year", "End Year"},
		{"Banco Agro", "Harvester", 200000, 9.5, 4, 55000, "Annual", 1, 4},
	})

	loans, report, err := ImportLoans(nil, buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Imported != 1 || len(report.RowErrors) != 0 {
		t.Fatalf("expected clean import, got %+v", report)
	}
	loan := loans[0]
	if loan.Lender != "Banco Agro" || loan.Principal != 200000 || loan.Installments != 4 {
		t.Errorf("unexpected loan: %+v", loan)
	}
	if loan.StartYearIndex != 0 || loan.EndYearIndex != 3 {
		t.Errorf("expected year indices 0..3, got %d..%d", loan.StartYearIndex, loan.EndYearIndex)
	}
	if loan.Frequency != model.FrequencyAnnual {
		t.Errorf("expected annual frequency, got %q", loan.Frequency)
	}
	if loan.CostCenter != model.CostCenterAdministrative {
		t.Errorf("expected default cost center, got %q", loan.CostCenter)
	}
}

func TestImportLoansPartialSuccess(t *testing.T) {
	buf := workbookBytes(t, [][]interface{}{
		{"Lender", "Purpose", "Total Value", "Interest Rate", "Installment Count", "Installment Value", "Frequency", "Start Year", "End Year"},
		{"Banco Agro", "Harvester", 200000, 9.5, 4, 55000, "Annual", 1, 4},
		{"Cooperative", "Silo", 100000, 8, 2, 52000, "Annual", 4, 2}, // end before start
		{"Union Bank", "Irrigation", 80000, 7, 3, 29000, "Weekly", 1, 3}, // bad frequency
	})

	loans, report, err := ImportLoans(nil, buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Imported != 1 || len(loans) != 1 {
		t.Fatalf("expected 1 surviving loan, got %d", len(loans))
	}
	if len(report.RowErrors) != 2 {
		t.Fatalf("expected 2 row errors, got %v", report.RowErrors)
	}
	if !strings.Contains(report.RowErrors[0], "row 3") {
		t.Errorf("expected row number in diagnostic, got %q", report.RowErrors[0])
	}
	if !strings.Contains(report.RowErrors[1], "row 4") {
		t.Errorf("expected row number in diagnostic, got %q", report.RowErrors[1])
	}
}

func TestImportLoansMissingColumnAborts(t *testing.T) {
	buf := workbookBytes(t, [][]interface{}{
		{"Lender", "Purpose", "Total Value"},
		{"Banco Agro", "Harvester", 200000},
	})
	if _, _, err := ImportLoans(nil, buf); err == nil {
		t.Fatal("expected error for missing columns")
	}
}

func TestParseAmountFormats(t *testing.T) {
	cases := []struct {
		in       string
		expected float64
	}{
		{"1234.56", 1234.56},
		{"1.234,56", 1234.56},
		{"R$ 1.234,56", 1234.56},
		{"1234", 1234},
	}
	for _, c := range cases {
		got, err := parseAmount(c.in)
		if err != nil {
			t.Errorf("parseAmount(%q): unexpected error %v", c.in, err)
			continue
		}
		if got != c.expected {
			t.Errorf("parseAmount(%q): expected %f, got %f", c.in, c.expected, got)
		}
	}
	if _, err := parseAmount("abc"); err == nil {
		t.Error("expected error for non-numeric amount")
	}
}
