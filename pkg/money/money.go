// Package money renders integer cent amounts for display. Amounts are never stored as floats.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	DefaultLocale   = "pt-BR"
	DefaultCurrency = "BRL"
)

var symbols = map[string]string{
	"BRL": "R$",
	"USD": "$",
	"EUR": "€",
}

// Formatter renders cents with locale grouping and the currency symbol.
type Formatter struct {
	printer *message.Printer
	symbol  string
	gap     string
	decimal string
}

// NewFormatter builds a Formatter for a BCP 47 locale and an ISO 4217 currency code.
func NewFormatter(locale, currencyCode string) (*Formatter, error) {
	if strings.TrimSpace(locale) == "" {
		locale = DefaultLocale
	}
	if strings.TrimSpace(currencyCode) == "" {
		currencyCode = DefaultCurrency
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return nil, fmt.Errorf("parse currency %q: %w", currencyCode, err)
	}
	symbol, ok := symbols[unit.String()]
	if !ok {
		symbol = unit.String()
	}
	printer := message.NewPrinter(tag)
	// English places the symbol flush against the number; pt-BR and most others use a no-break space.
	gap := "\u00a0"
	if base, _ := tag.Base(); base.String() == "en" {
		gap = ""
	}
	return &Formatter{
		printer: printer,
		symbol:  symbol,
		gap:     gap,
		decimal: strings.Trim(printer.Sprintf("%.1f", 1.5), "15"),
	}, nil
}

var defaultFormatter = mustFormatter(DefaultLocale, DefaultCurrency)

func mustFormatter(locale, code string) *Formatter {
	f, err := NewFormatter(locale, code)
	if err != nil {
		panic(err)
	}
	return f
}

// FormatCents renders cents as Brazilian reais, e.g. 123456 -> "R$\u00a01.234,56".
func FormatCents(cents int) string {
	return defaultFormatter.Format(cents)
}

// Format renders cents using the formatter's locale and currency symbol.
// The printer only groups the whole units; the cents come straight from the decimal.
func (f *Formatter) Format(cents int) string {
	amount := decimal.NewFromInt(int64(cents)).Shift(-2)
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}
	fixed := amount.StringFixed(2)
	fraction := fixed[strings.IndexByte(fixed, '.')+1:]
	whole := f.printer.Sprintf("%d", amount.IntPart())
	return sign + f.symbol + f.gap + whole + f.decimal + fraction
}
