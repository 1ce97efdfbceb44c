// Package report handles spreadsheet exchange: bulk import of expenses and
// loans from .xlsx workbooks and export of the computed projections into a
// multi-sheet workbook.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hoppemairon/gestor-plantio/internal/model"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Expense import column headers. Matching is case-insensitive on the
// trimmed header text.
const (
	ColumnName       = "Name"
	ColumnValue      = "Value"
	ColumnCategory   = "Category"
	ColumnCostCenter = "Cost Center"
)

// Loan import column headers.
const (
	ColumnLender           = "Lender"
	ColumnPurpose          = "Purpose"
	ColumnTotalValue       = "Total Value"
	ColumnInterestRate     = "Interest Rate"
	ColumnInstallmentCount = "Installment Count"
	ColumnInstallmentValue = "Installment Value"
	ColumnFrequency        = "Frequency"
	ColumnStartYear        = "Start Year"
	ColumnEndYear          = "End Year"
)

// ImportReport summarizes one bulk import. RowErrors holds per-row
// diagnostics for rows that failed validation; the import itself still
// succeeds for the remaining rows.
type ImportReport struct {
	Imported  int      `json:"imported"`
	Skipped   int      `json:"skipped"`
	RowErrors []string `json:"rowErrors,omitempty"`
}

// ImportExpenses reads expense records from the first sheet of an .xlsx
// workbook. A missing required column aborts the import; rows with an
// empty required cell or an unknown category are skipped silently.
func ImportExpenses(logger *zap.Logger, r io.Reader) ([]model.Expense, *ImportReport, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	rows, header, err := readSheet(r)
	if err != nil {
		return nil, nil, err
	}
	required := []string{ColumnName, ColumnValue, ColumnCategory}
	for _, col := range required {
		if _, ok := header[normalizeHeader(col)]; !ok {
			return nil, nil, fmt.Errorf("expense import: required column %q not found", col)
		}
	}

	report := &ImportReport{}
	var expenses []model.Expense
	for _, row := range rows {
		name := cell(row, header, ColumnName)
		rawValue := cell(row, header, ColumnValue)
		rawCategory := cell(row, header, ColumnCategory)
		if name == "" || rawValue == "" || rawCategory == "" {
			report.Skipped++
			continue
		}

		amount, err := parseAmount(rawValue)
		if err != nil {
			report.Skipped++
			continue
		}
		category, err := model.ParseCategory(rawCategory)
		if err != nil {
			report.Skipped++
			continue
		}

		expense := model.Expense{
			Name:       name,
			Amount:     amount,
			Category:   category,
			CostCenter: cell(row, header, ColumnCostCenter),
		}
		if err := expense.Validate(); err != nil {
			report.Skipped++
			continue
		}
		expenses = append(expenses, expense)
		report.Imported++
	}

	logger.Info("imported expenses",
		zap.Int("imported", report.Imported),
		zap.Int("skipped", report.Skipped),
	)
	return expenses, report, nil
}

// ImportLoans reads loan records from the first sheet of an .xlsx
// workbook. Start and end year are 1-based horizon years in the sheet.
// Rows violating a loan invariant produce a per-row diagnostic and the
// import continues with the remaining rows.
func ImportLoans(logger *zap.Logger, r io.Reader) ([]model.Loan, *ImportReport, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	rows, header, err := readSheet(r)
	if err != nil {
		return nil, nil, err
	}
	required := []string{
		ColumnLender, ColumnPurpose, ColumnTotalValue, ColumnInterestRate,
		ColumnInstallmentCount, ColumnInstallmentValue, ColumnFrequency,
		ColumnStartYear, ColumnEndYear,
	}
	for _, col := range required {
		if _, ok := header[normalizeHeader(col)]; !ok {
			return nil, nil, fmt.Errorf("loan import: required column %q not found", col)
		}
	}

	report := &ImportReport{}
	var loans []model.Loan
	for i, row := range rows {
		rowNum := i + 2 // 1-based, after the header row
		lender := cell(row, header, ColumnLender)
		if lender == "" && rowEmpty(row) {
			continue
		}

		loan, err := parseLoanRow(row, header)
		if err != nil {
			report.RowErrors = append(report.RowErrors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		if err := loan.Validate(); err != nil {
			report.RowErrors = append(report.RowErrors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		loans = append(loans, loan)
		report.Imported++
	}

	logger.Info("imported loans",
		zap.Int("imported", report.Imported),
		zap.Int("rejected", len(report.RowErrors)),
	)
	return loans, report, nil
}

func parseLoanRow(row []string, header map[string]int) (model.Loan, error) {
	var loan model.Loan
	loan.Lender = cell(row, header, ColumnLender)
	loan.Purpose = cell(row, header, ColumnPurpose)
	loan.CostCenter = cell(row, header, ColumnCostCenter)

	var err error
	if loan.Principal, err = parseAmount(cell(row, header, ColumnTotalValue)); err != nil {
		return loan, fmt.Errorf("total value: %w", err)
	}
	if loan.InterestRate, err = parseAmount(cell(row, header, ColumnInterestRate)); err != nil {
		return loan, fmt.Errorf("interest rate: %w", err)
	}
	if loan.InstallmentAmount, err = parseAmount(cell(row, header, ColumnInstallmentValue)); err != nil {
		return loan, fmt.Errorf("installment value: %w", err)
	}
	if loan.Installments, err = parseInt(cell(row, header, ColumnInstallmentCount)); err != nil {
		return loan, fmt.Errorf("installment count: %w", err)
	}
	loan.Frequency, err = model.ParseFrequency(cell(row, header, ColumnFrequency))
	if err != nil {
		return loan, err
	}

	startYear, err := parseInt(cell(row, header, ColumnStartYear))
	if err != nil {
		return loan, fmt.Errorf("start year: %w", err)
	}
	endYear, err := parseInt(cell(row, header, ColumnEndYear))
	if err != nil {
		return loan, fmt.Errorf("end year: %w", err)
	}
	loan.StartYearIndex = startYear - 1
	loan.EndYearIndex = endYear - 1
	return loan, nil
}

// readSheet opens the workbook and returns the first sheet's data rows
// plus a normalized header index.
func readSheet(r io.Reader) ([][]string, map[string]int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		header[normalizeHeader(name)] = i
	}
	return rows[1:], header, nil
}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), " ")
}

func cell(row []string, header map[string]int, column string) string {
	idx, ok := header[normalizeHeader(column)]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func rowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseAmount accepts plain decimals plus pt-BR formatted numbers such as
// "1.234,56".
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

func parseInt(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		// Spreadsheet cells frequently come back as "2.0".
		f, ferr := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, fmt.Errorf("invalid integer %q", s)
		}
		return int(f), nil
	}
	return v, nil
}
