package view

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	xcurrency "golang.org/x/text/currency"

	"github.com/MrJamesThe3rd/pennywise/internal/currency"
	"github.com/MrJamesThe3rd/pennywise/internal/locale"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

const storeTimeout = 5 * time.Second

// FormatMoney formats amount in code for lang, e.g. "€ 1,234.50" or "1 234,50 €".
// Codes outside ISO 4217 fall back to a plain number and the code.
func FormatMoney(lang locale.Lang, amount decimal.Decimal, code currency.Code) string {
	p := lang.Printer()

	unit, err := xcurrency.ParseISO(string(code))
	if err != nil {
		return p.Sprintf("%.2f %s", amount.InexactFloat64(), string(code))
	}

	return p.Sprint(xcurrency.Symbol(unit.Amount(amount.Round(2).InexactFloat64())))
}

// FormatSigned prefixes expenses with a minus sign.
func FormatSigned(lang locale.Lang, tx *transaction.Transaction) string {
	s := FormatMoney(lang, tx.Amount, tx.Currency)
	if tx.Type == transaction.TypeExpense {
		return "-" + s
	}

	return "+" + s
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// storeCtx returns a context with a standard timeout for storage operations.
func storeCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}
