package usecase

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// currencySymbols maps supported ISO codes to the symbol shown before amounts.
// All of them use two minor-unit digits.
var currencySymbols = map[string]string{
	"USD": "$",
	"CAD": "$",
	"AUD": "$",
	"EUR": "€",
	"GBP": "£",
}

// MoneyFormatter renders minor-unit amounts as localized currency strings
type MoneyFormatter struct {
	printer    *message.Printer
	unit       currency.Unit
	symbol     string
	decimalSep string
}

// NewMoneyFormatter creates a formatter for a BCP 47 locale and an ISO 4217 code
func NewMoneyFormatter(locale, code string) (*MoneyFormatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}

	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("invalid currency %q: %w", code, err)
	}

	symbol, ok := currencySymbols[unit.String()]
	if !ok {
		return nil, fmt.Errorf("unsupported currency %q", unit.String())
	}

	printer := message.NewPrinter(tag)
	decimalSep := strings.Trim(printer.Sprintf("%v", number.Decimal(1.5, number.Scale(1))), "0123456789")
	if decimalSep == "" {
		decimalSep = "."
	}

	return &MoneyFormatter{
		printer:    printer,
		unit:       unit,
		symbol:     symbol,
		decimalSep: decimalSep,
	}, nil
}

// DefaultMoneyFormatter formats US dollars for the en-US locale
func DefaultMoneyFormatter() *MoneyFormatter {
	f, err := NewMoneyFormatter("en-US", "USD")
	if err != nil {
		panic(err)
	}
	return f
}

// Currency returns the ISO code of the formatter
func (f *MoneyFormatter) Currency() string {
	return f.unit.String()
}

// Format renders cents as e.g. "$19.99" (1999 -> $19.99). Units and cents
// are split in integer arithmetic so large amounts stay exact.
func (f *MoneyFormatter) Format(minor int64) string {
	sign := ""
	magnitude := uint64(minor)
	if minor < 0 {
		sign = "-"
		magnitude = uint64(-(minor + 1)) + 1
	}
	units, cents := magnitude/100, magnitude%100
	return fmt.Sprintf("%s%s%s%s%02d", sign, f.symbol, f.printer.Sprintf("%v", number.Decimal(units)), f.decimalSep, cents)
}
