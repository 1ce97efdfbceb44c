// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/hoppemairon/gestor-plantio/internal/config"
	"github.com/hoppemairon/gestor-plantio/internal/model"
	"github.com/hoppemairon/gestor-plantio/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// PlanWarnings reports non-fatal oddities in a plan. A warned plan still
// loads and projects; the messages surface likely mistakes before the
// numbers do.
func PlanWarnings(plan *config.Plan) []string {
	if plan == nil {
		return nil
	}

	var warnings []string
	if len(plan.Plantings) == 0 {
		warnings = append(warnings, "plan declares no plantings; projections will fail until at least one is registered")
	}

	for _, loan := range plan.Loans {
		window := loan.EndYearIndex - loan.StartYearIndex + 1
		if loan.Installments > window {
			warnings = append(warnings, fmt.Sprintf(
				"loan %q declares %d installments but its year window only spans %d years; the excess installments are dropped",
				loan.Lender, loan.Installments, window))
		}
		if loan.EndYearIndex >= constants.HorizonYears {
			warnings = append(warnings, fmt.Sprintf(
				"loan %q ends at year %d, beyond the %d-year horizon; later installments are not projected",
				loan.Lender, loan.EndYearIndex+1, constants.HorizonYears))
		}
	}

	for _, expense := range plan.Expenses {
		if expense.Category == model.CategoryTaxes {
			warnings = append(warnings, fmt.Sprintf(
				"expense %q is categorized as Taxes; sales and result taxes are recomputed from revenue and the line only affects the cash flow",
				expense.Name))
		}
	}

	return warnings
}
