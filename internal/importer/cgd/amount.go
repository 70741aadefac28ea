package cgd

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// parseEuropeanAmount reads a statement cell such as "1.234,56", "-588,74",
// "1 234,56 EUR" or "588,74-" into a value rounded to cents. Dots and spaces
// group thousands and the comma is the decimal mark.
func parseEuropeanAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if code := statementCode(s); code != "" {
		s = strings.TrimSpace(strings.TrimSuffix(s, code))
	}

	negative := strings.HasSuffix(s, "-")
	s = strings.TrimSuffix(s, "-")

	clean := strings.Map(func(r rune) rune {
		switch {
		case r == '.', unicode.IsSpace(r):
			return -1
		case r == ',':
			return '.'
		}

		return r
	}, s)

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, err
	}

	if negative {
		d = d.Neg()
	}

	return d.Round(2), nil
}

// statementCode returns the trailing three-letter currency code of s, if any.
func statementCode(s string) string {
	i := strings.LastIndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return ""
	}

	code := s[i+1:]
	if len(code) != 3 || strings.IndexFunc(code, func(r rune) bool { return r < 'A' || r > 'Z' }) >= 0 {
		return ""
	}

	return code
}
