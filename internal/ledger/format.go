package ledger

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// FormatAmount renders an amount the way the dashboard shows it, e.g. "$1,250.75" or "₦1,000".
func FormatAmount(amount decimal.Decimal, currency Currency) string {
	f, _ := amount.Float64()
	return currency.Symbol() + printer.Sprint(number.Decimal(f, number.MaxFractionDigits(2)))
}
