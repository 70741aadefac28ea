package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pennywise/internal/currency"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

type listerFunc func(f transaction.Filter) []*transaction.Transaction

func (fn listerFunc) Filtered(f transaction.Filter) []*transaction.Transaction { return fn(f) }

func sample() []*transaction.Transaction {
	return []*transaction.Transaction{
		{
			ID:       uuid.New(),
			Type:     transaction.TypeIncome,
			Amount:   decimal.NewFromInt(1500),
			Currency: currency.EUR,
			Category: transaction.CategorySalary,
			Date:     time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC),
		},
		{
			ID:       uuid.New(),
			Type:     transaction.TypeExpense,
			Amount:   decimal.RequireFromString("9.9"),
			Currency: currency.USD,
			Category: "gifts",
			Date:     time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC),
			Note:     "card",
		},
	}
}

func TestService_WriteCSV(t *testing.T) {
	var got transaction.Filter

	svc := NewService(listerFunc(func(f transaction.Filter) []*transaction.Transaction {
		got = f
		return sample()
	}))

	cat := transaction.CategorySalary
	filter := transaction.Filter{Category: &cat}

	var buf bytes.Buffer
	n, err := svc.WriteCSV(&buf, filter)
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	assert.Equal(t, filter, got)
	assert.Equal(t,
		"date,type,amount,currency,category,note\n"+
			"2024-03-05,income,1500.00,EUR,salary,\n"+
			"2024-03-02,expense,9.90,USD,gifts,card\n",
		buf.String())
}

func TestService_Export(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	svc := NewService(listerFunc(func(transaction.Filter) []*transaction.Transaction { return sample() }))

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	path, err := svc.Export(transaction.Filter{DateFrom: &from, DateTo: &to}, dir, time.Now())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pennywise_20240301_20240331.csv"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "2024-03-02,expense,9.90,USD,gifts,card")
}

func TestFileName_OpenRange(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "pennywise_20240315.csv", fileName(transaction.Filter{}, now))
}

func TestSummary(t *testing.T) {
	want := "* 2024-03-05 | Salary | +1500.00 €\n" +
		"* 2024-03-02 | gifts | -9.90 $ | card\n"

	assert.Equal(t, want, Summary(sample()))
	assert.Empty(t, Summary(nil))
}
