// Package currency formats and parses display amounts. Amounts are shown
// in whole units with grouped thousands, e.g. "TZS 180,000".
package currency

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders amounts in one fixed currency
type Formatter struct {
	unit    currency.Unit
	printer *message.Printer
}

// New returns a formatter for an ISO 4217 code such as TZS
func New(code string) (*Formatter, error) {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	return &Formatter{
		unit:    unit,
		printer: message.NewPrinter(language.English),
	}, nil
}

// MustNew is New that panics on an unknown code
func MustNew(code string) *Formatter {
	f, err := New(code)
	if err != nil {
		panic(err)
	}
	return f
}

// Code returns the ISO code, e.g. TZS
func (f *Formatter) Code() string {
	return f.unit.String()
}

// Format rounds to whole units and prefixes the currency code
func (f *Formatter) Format(amount decimal.Decimal) string {
	return f.Code() + " " + f.Number(amount)
}

// Number formats the amount without the currency code
func (f *Formatter) Number(amount decimal.Decimal) string {
	return f.printer.Sprint(number.Decimal(amount.Round(0).IntPart()))
}

var nonNumeric = regexp.MustCompile(`[^\d.-]`)

// Parse strips everything but digits, dot and minus and reads the rest.
// Unreadable input is zero.
func Parse(s string) decimal.Decimal {
	d, err := decimal.NewFromString(nonNumeric.ReplaceAllString(s, ""))
	if err != nil {
		return decimal.Zero
	}
	return d
}
