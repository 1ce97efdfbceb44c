// Package output provides utilities for formatting and displaying
// projection results.
package output

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/hoppemairon/gestor-plantio/internal/dre"
	"github.com/hoppemairon/gestor-plantio/internal/indicators"
	"github.com/hoppemairon/gestor-plantio/internal/report"
	"github.com/hoppemairon/gestor-plantio/pkg/format"
)

// PrettyFormat outputs a human-readable rather than machine-readable set
// of tables: cash flow, income statement, indicators, and the narrative
// opinion per scenario.
func PrettyFormat(w io.Writer, bundle *report.Bundle) {
	years := dre.YearLabels(bundle.Horizon)
	for i, scenario := range dre.Scenarios {
		fmt.Fprintf(w, "--- Results for scenario %s ---\n\n", scenario)

		fmt.Fprintf(w, "Cash flow:\n")
		printTable(w, years, bundle.CashFlows[scenario].Lines, format.Currency)

		fmt.Fprintf(w, "\nIncome statement:\n")
		printTable(w, years, bundle.Statements[scenario].Rows(), format.Currency)

		fmt.Fprintf(w, "\nIndicators:\n")
		printTable(w, years, bundle.Indicators[scenario].Rows(), formatIndicator)
		set := bundle.Indicators[scenario]
		fmt.Fprintf(w, "%s: %.2f\n", indicators.LabelCAGRRevenue, set.CAGRRevenuePct)
		fmt.Fprintf(w, "%s: %.2f\n", indicators.LabelCAGRNetProfit, set.CAGRNetProfitPct)

		fmt.Fprintf(w, "\nOpinion:\n%s\n", bundle.Opinions[scenario].Narrative())

		if i < len(dre.Scenarios)-1 {
			fmt.Fprintf(w, "\n")
		}
	}
}

// PrettyFormatPerCrop outputs the per-crop income statements for one
// scenario.
func PrettyFormatPerCrop(w io.Writer, bundle *report.Bundle, scenario dre.Scenario) {
	perCrop := bundle.PerCrop[scenario]
	if perCrop == nil {
		return
	}
	years := dre.YearLabels(bundle.Horizon)

	crops := make([]string, 0, len(perCrop.ByCrop))
	for crop := range perCrop.ByCrop {
		crops = append(crops, crop)
	}
	sort.Strings(crops)

	fmt.Fprintf(w, "--- Per-crop results for scenario %s ---\n", scenario)
	for _, crop := range crops {
		fmt.Fprintf(w, "\n%s:\n", crop)
		printTable(w, years, perCrop.ByCrop[crop].Rows(), format.Currency)
	}
}

// CsvFormat outputs in comma-separated value format, one block per
// scenario with the cash flow, income statement, and indicators.
func CsvFormat(w io.Writer, bundle *report.Bundle) {
	years := dre.YearLabels(bundle.Horizon)
	for _, scenario := range dre.Scenarios {
		fmt.Fprintf(w, `"scenario","%s"`+"\n", scenario)

		fmt.Fprintf(w, `"line"`)
		for _, year := range years {
			fmt.Fprintf(w, `,"%s"`, year)
		}
		fmt.Fprintf(w, "\n")

		rows := append([]dre.Row{}, bundle.CashFlows[scenario].Lines...)
		rows = append(rows, bundle.Statements[scenario].Rows()...)
		rows = append(rows, bundle.Indicators[scenario].Rows()...)
		for _, row := range rows {
			fmt.Fprintf(w, `"%s"`, row.Name)
			for _, v := range row.Values {
				fmt.Fprintf(w, `,"%.2f"`, v)
			}
			fmt.Fprintf(w, "\n")
		}
		set := bundle.Indicators[scenario]
		fmt.Fprintf(w, `"%s","%.2f"`+"\n", indicators.LabelCAGRRevenue, set.CAGRRevenuePct)
		fmt.Fprintf(w, `"%s","%.2f"`+"\n", indicators.LabelCAGRNetProfit, set.CAGRNetProfitPct)
	}
}

func printTable(w io.Writer, years []string, rows []dre.Row, render func(float64) string) {
	width := 0
	for _, row := range rows {
		if len(row.Name) > width {
			width = len(row.Name)
		}
	}
	fmt.Fprintf(w, "%-*s", width, "")
	for _, year := range years {
		fmt.Fprintf(w, " | %15s", year)
	}
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "%s", strings.Repeat("_", width))
	for range years {
		fmt.Fprintf(w, " | %15s", strings.Repeat("_", 15))
	}
	fmt.Fprintf(w, "\n")
	for _, row := range rows {
		fmt.Fprintf(w, "%-*s", width, row.Name)
		for _, v := range row.Values {
			fmt.Fprintf(w, " | %15s", render(v))
		}
		fmt.Fprintf(w, "\n")
	}
}

func formatIndicator(v float64) string {
	if math.IsInf(v, 1) {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}
