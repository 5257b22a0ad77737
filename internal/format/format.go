// Package format renders display strings for list view models.
package format

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Money renders an amount with thousands separators and two decimals.
func Money(amount float64) string {
	return printer.Sprintf("%.2f", amount)
}

// Count renders an integer with thousands separators.
func Count(n int) string {
	return printer.Sprintf("%d", n)
}
