package stats

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatPercent renders v with two decimals, a % suffix and an explicit +
// for non-negative values: -3.456 -> "-3.46%", 0 -> "+0.00%".
func FormatPercent(v float64) string {
	d := decimal.NewFromFloat(finite(v)).Round(2)
	sign := ""
	if !d.IsNegative() {
		sign = "+"
	}
	return sign + d.StringFixed(2) + "%"
}

// Formatter renders currency amounts for one locale.
type Formatter struct {
	printer *message.Printer
	symbol  string
	prefix  bool
}

// NewFormatter builds a formatter for a BCP 47 locale such as "de-DE".
// Unparseable locales fall back to German, matching the dashboard default.
func NewFormatter(locale, symbol string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.German
	}
	return &Formatter{
		printer: message.NewPrinter(tag),
		symbol:  symbol,
		prefix:  symbolLeads(tag),
	}
}

// FormatCurrency renders v with locale grouping and two decimals,
// e.g. "1.234,56 $" for de-DE. NaN and Inf are treated as 0.
func (f *Formatter) FormatCurrency(v float64) string {
	amount := decimal.NewFromFloat(finite(v)).Round(2).InexactFloat64()
	num := f.printer.Sprintf("%.2f", amount)
	if f.symbol == "" {
		return num
	}
	if f.prefix {
		if amount < 0 {
			return "-" + f.symbol + strings.TrimPrefix(num, "-")
		}
		return f.symbol + num
	}
	return num + " " + f.symbol
}

// FormatCurrencyPtr formats an optional amount, absent meaning 0.
func (f *Formatter) FormatCurrencyPtr(v *float64) string {
	return f.FormatCurrency(OrZero(v))
}

// symbolLeads reports whether the locale writes the currency symbol before
// the amount.
func symbolLeads(tag language.Tag) bool {
	base, _ := tag.Base()
	switch base.String() {
	case "en", "zh", "ja", "ko", "he", "th":
		return true
	}
	return false
}
