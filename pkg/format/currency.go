// Package format provides currency formatting helpers.
package format

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// Currency returns a Brazilian real string with thousands separators
// (e.g., "R$ 1.234,56" and "-R$ 1.234,56").
func Currency(amount float64) string {
	formatted := printer.Sprintf("%.2f", math.Abs(amount))
	if amount < 0 {
		return "-R$ " + formatted
	}
	return "R$ " + formatted
}

// NumericCurrency returns a currency string without the symbol but with
// separators (e.g., "-1.234,56").
func NumericCurrency(amount float64) string {
	return printer.Sprintf("%.2f", amount)
}
