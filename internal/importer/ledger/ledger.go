// Package ledger reads and writes the application's own CSV format, so an
// export can be imported again on another machine.
package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/currency"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

// Header is the first row of every ledger file.
var Header = []string{"date", "type", "amount", "currency", "category", "note"}

// Write encodes txs in ledger format. Dates are written as calendar days.
func Write(w io.Writer, txs []*transaction.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, tx := range txs {
		row := []string{
			tx.Date.Format(time.DateOnly),
			string(tx.Type),
			tx.Amount.StringFixed(2),
			string(tx.Currency),
			tx.Category,
			tx.Note,
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing transaction %s: %w", tx.ID, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

type Parser struct {
	loc *time.Location
}

// NewParser returns a parser that places dates in loc.
func NewParser(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.Local
	}

	return &Parser{loc: loc}
}

// Parse expects UTF-8 input starting with Header. Columns may come in any order.
func (p *Parser) Parse(r io.Reader) ([]transaction.Draft, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	head, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty ledger file")
		}

		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(head))
	for i, name := range head {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, name := range Header {
		if _, ok := cols[name]; !ok && name != "note" {
			return nil, fmt.Errorf("not a ledger file: missing %q column", name)
		}
	}

	var drafts []transaction.Draft

	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		if slices.IndexFunc(row, func(c string) bool { return strings.TrimSpace(c) != "" }) < 0 {
			continue
		}

		d, err := p.parseRow(row, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		drafts = append(drafts, d)
	}

	return drafts, nil
}

func (p *Parser) parseRow(row []string, cols map[string]int) (transaction.Draft, error) {
	cell := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}

		return strings.TrimSpace(row[i])
	}

	date, err := time.ParseInLocation(time.DateOnly, cell("date"), p.loc)
	if err != nil {
		return transaction.Draft{}, fmt.Errorf("invalid date %q", cell("date"))
	}

	typ := transaction.Type(strings.ToLower(cell("type")))
	if typ != transaction.TypeIncome && typ != transaction.TypeExpense {
		return transaction.Draft{}, fmt.Errorf("invalid type %q", cell("type"))
	}

	amount, err := decimal.NewFromString(cell("amount"))
	if err != nil || !amount.IsPositive() {
		return transaction.Draft{}, fmt.Errorf("invalid amount %q", cell("amount"))
	}

	code := currency.Code(strings.ToUpper(cell("currency")))
	if code == "" {
		code = currency.EUR
	}

	if !code.IsSupported() {
		return transaction.Draft{}, fmt.Errorf("%w: %q", currency.ErrUnsupported, code)
	}

	category := cell("category")
	if category == "" {
		category = transaction.CategoryOther
	}

	return transaction.Draft{
		Type:     typ,
		Amount:   amount,
		Currency: code,
		Category: category,
		Date:     date,
		Note:     cell("note"),
	}, nil
}
