package cgd

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/currency"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSingle means one signed column (e.g. "Montante" with value "-10,00").
	amountSingle amountMode = iota
	// amountSplit means separate debit and credit columns (e.g. "Débito"/"Crédito").
	amountSplit
)

// Profile describes the column layout of a CGD CSV export format.
type Profile struct {
	Name       string
	DateCol    string
	DescCol    string
	AmountMode amountMode
	AmountCol  string // amountSingle
	DebitCol   string // amountSplit
	CreditCol  string // amountSplit
}

func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.DescCol}

	switch p.AmountMode {
	case amountSingle:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

// amount returns the positive amount and direction of a row. Rows without a
// usable non-zero amount report false.
func (p Profile) amount(cols colIndex, row []string) (decimal.Decimal, transaction.Type, bool) {
	if p.AmountMode == amountSingle {
		v, ok := europeanCell(row, cols[p.AmountCol])
		switch {
		case !ok:
			return decimal.Zero, "", false
		case v.IsNegative():
			return v.Neg(), transaction.TypeExpense, true
		default:
			return v, transaction.TypeIncome, true
		}
	}

	if v, ok := europeanCell(row, cols[p.DebitCol]); ok {
		return v.Abs(), transaction.TypeExpense, true
	}

	if v, ok := europeanCell(row, cols[p.CreditCol]); ok {
		return v.Abs(), transaction.TypeIncome, true
	}

	return decimal.Zero, "", false
}

func europeanCell(row []string, idx int) (decimal.Decimal, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return decimal.Zero, false
	}

	v, err := parseEuropeanAmount(s)
	if err != nil || v.IsZero() {
		return decimal.Zero, false
	}

	return v, true
}

// profiles are tried in order; more specific layouts come first.
var profiles = []Profile{
	{
		Name:       "cartão",
		DateCol:    "Data",
		DescCol:    "Descrição",
		AmountMode: amountSplit,
		DebitCol:   "Débito",
		CreditCol:  "Crédito",
	},
	{
		Name:       "extrato",
		DateCol:    "Data mov.",
		DescCol:    "Descrição",
		AmountMode: amountSingle,
		AmountCol:  "Movimento",
	},
	{
		Name:       "conta",
		DateCol:    "Data mov.",
		DescCol:    "Descrição",
		AmountMode: amountSingle,
		AmountCol:  "Montante",
	},
}

// accountCurrency matches the account line of the preamble, e.g.
// "0829015676030 - EUR - Conta Extracto".
var accountCurrency = regexp.MustCompile(`\s-\s([A-Z]{3})\s-\s`)

// statementCurrency reads the account currency from the rows above the header.
// Statements without one, or in a currency the app does not track, are EUR.
func statementCurrency(preamble [][]string) currency.Code {
	for _, row := range preamble {
		for _, cell := range row {
			m := accountCurrency.FindStringSubmatch(cell)
			if m == nil {
				continue
			}

			if c := currency.Code(m[1]); c.IsSupported() {
				return c
			}
		}
	}

	return currency.EUR
}

// operationHints map CGD operation codes at the start of a description to a category.
var operationHints = []struct {
	prefix   string
	category string
}{
	{"LEVANTAMENTO", transaction.CategoryCash},
	{"LEV", transaction.CategoryCash},
	{"VENCIMENTO", transaction.CategorySalary},
	{"ORDENADO", transaction.CategorySalary},
	{"DD", transaction.CategoryBills},
	{"PAG SERV", transaction.CategoryBills},
	{"PAGAMENTO SERVICOS", transaction.CategoryBills},
	{"COMPRA", transaction.CategoryShopping},
}

// categoryFor returns the hinted category for desc, or other.
func categoryFor(desc string) string {
	upper := strings.ToUpper(desc)

	for _, h := range operationHints {
		if upper == h.prefix || strings.HasPrefix(upper, h.prefix+" ") {
			return h.category
		}
	}

	return transaction.CategoryOther
}
