package storefront

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatPrice renders a price in dollars with two decimals, e.g. $55.50
func FormatPrice(price decimal.Decimal) string {
	return printer.Sprintf("$%.2f", price.Round(2).InexactFloat64())
}
