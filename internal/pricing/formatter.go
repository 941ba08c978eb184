package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter turns a numeric amount into a display string. The engine
// never converts between currencies; formatting is purely regional
// presentation.
type Formatter interface {
	Format(amount decimal.Decimal) string
}

type CurrencyFormatter struct {
	unit    currency.Unit
	printer *message.Printer
}

// NewCurrencyFormatter builds a formatter for an ISO 4217 code and a
// BCP 47 locale tag, e.g. ("USD", "en-US") or ("PEN", "es-PE").
func NewCurrencyFormatter(code, locale string) (*CurrencyFormatter, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("parse currency %q: %w", code, err)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	return &CurrencyFormatter{
		unit:    unit,
		printer: message.NewPrinter(tag),
	}, nil
}

func (f *CurrencyFormatter) Format(amount decimal.Decimal) string {
	value, _ := amount.Float64()
	return f.printer.Sprint(currency.Symbol(f.unit.Amount(value)))
}
