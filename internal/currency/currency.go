package currency

import (
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// Code is an ISO 4217 currency code.
type Code string

const (
	EUR Code = "EUR"
	USD Code = "USD"
	UAH Code = "UAH"

	// Any scopes an aggregation to every currency.
	Any Code = ""
)

// Reference is the currency every amount is converted to for unified display.
const Reference = EUR

var ErrUnsupported = errors.New("unsupported currency")

// supported is ordered by display priority.
var supported = []Code{EUR, USD, UAH}

// Supported returns the closed set of currencies in display priority order.
func Supported() []Code {
	return slices.Clone(supported)
}

// IsSupported reports whether c belongs to the closed set.
func (c Code) IsSupported() bool {
	return slices.Contains(supported, c)
}

// Priority returns the display rank of c. Unknown codes rank after every supported one.
func Priority(c Code) int {
	if i := slices.Index(supported, c); i >= 0 {
		return i
	}

	return len(supported)
}

// RateProvider returns the multiplicative factor converting one unit of a currency
// into the reference currency.
type RateProvider interface {
	RateToReference(c Code) (decimal.Decimal, error)
}

// StaticRates is a fixed rate table.
type StaticRates map[Code]decimal.Decimal

// DefaultRates are approximate, hard-coded rates to EUR.
var DefaultRates = StaticRates{
	EUR: decimal.NewFromInt(1),
	USD: decimal.RequireFromString("0.92"),
	UAH: decimal.RequireFromString("0.024"),
}

func (r StaticRates) RateToReference(c Code) (decimal.Decimal, error) {
	rate, ok := r[c]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnsupported, c)
	}

	return rate, nil
}

// ConvertWith converts amount in currency from to the reference currency using rates.
func ConvertWith(rates RateProvider, amount decimal.Decimal, from Code) (decimal.Decimal, error) {
	if from == Reference {
		return amount, nil
	}

	rate, err := rates.RateToReference(from)
	if err != nil {
		return decimal.Zero, err
	}

	return amount.Mul(rate), nil
}

// Convert converts amount to EUR using DefaultRates.
func Convert(amount decimal.Decimal, from Code) (decimal.Decimal, error) {
	return ConvertWith(DefaultRates, amount, from)
}

// RateToReference returns the DefaultRates factor for c.
func RateToReference(c Code) (decimal.Decimal, error) {
	return DefaultRates.RateToReference(c)
}

// Symbol returns a short display symbol, or the code itself when none is known.
func Symbol(c Code) string {
	switch c {
	case EUR:
		return "€"
	case USD:
		return "$"
	case UAH:
		return "₴"
	}

	return string(c)
}
