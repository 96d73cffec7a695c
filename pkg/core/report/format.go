package report

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL formats a currency amount as "R$ 1.234,56".
func FormatBRL(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	return sign + "R$ " + printer.Sprint(number.Decimal(d.InexactFloat64(), number.Scale(2)))
}

// FormatPercent formats a percentage value (12.5 -> "12,5%").
func FormatPercent(v float64, places int) string {
	return printer.Sprint(number.Decimal(v, number.Scale(places))) + "%"
}

// FormatNumber formats a plain quantity with pt-BR separators.
func FormatNumber(v float64, places int) string {
	return printer.Sprint(number.Decimal(v, number.Scale(places)))
}

// FormatPayback renders paybackAnos, mapping the not-reached sentinel to text.
func FormatPayback(years float64) string {
	if years == 0 {
		return "não atingido"
	}
	return FormatNumber(years, 1) + " anos"
}
