// Package report builds the day-by-day view of the current month shown on the
// dashboard chart. All sums are in the reference currency.
package report

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/calendar"
	"github.com/MrJamesThe3rd/pennywise/internal/currency"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

// Day is one point of the month series. Nil values mean "no data" and must be
// rendered as a gap, not as zero.
type Day struct {
	Day int

	// Set for days up to and including today.
	Income  *decimal.Decimal
	Expense *decimal.Decimal
	Balance *decimal.Decimal

	// Set for days after today, and only when the sum is positive.
	FutureIncome  *decimal.Decimal
	FutureExpense *decimal.Decimal

	// Future transactions as stored, in their own currency.
	FutureTransactions []*transaction.Transaction
}

// Realized reports whether the day is on or before today.
func (d Day) Realized() bool {
	return d.Balance != nil
}

// Summary holds realized totals for today only.
type Summary struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

type Monthly struct {
	Year  int
	Month time.Month
	Today int
	Days  []Day
	Now   Summary
}

type bucket struct {
	income  decimal.Decimal
	expense decimal.Decimal
	future  []*transaction.Transaction
}

// Build aggregates txs into one record per day of now's month. Transactions
// outside that month are ignored. An unsupported currency aborts the build.
func Build(txs []*transaction.Transaction, now time.Time, rates currency.RateProvider) (*Monthly, error) {
	if rates == nil {
		rates = currency.DefaultRates
	}

	loc := now.Location()
	days := calendar.DaysInMonth(now)
	today := now.Day()

	buckets := make([]bucket, days+1)
	for i := range buckets {
		buckets[i] = bucket{income: decimal.Zero, expense: decimal.Zero}
	}

	summary := Summary{Income: decimal.Zero, Expense: decimal.Zero}

	for _, tx := range txs {
		if !calendar.InMonth(tx.Date, now) {
			continue
		}

		amount, err := currency.ConvertWith(rates, tx.Amount, tx.Currency)
		if err != nil {
			return nil, fmt.Errorf("converting transaction %s: %w", tx.ID, err)
		}

		b := &buckets[tx.Date.In(loc).Day()]

		if !calendar.OnOrBeforeToday(tx.Date, now) {
			b.future = append(b.future, tx)
			continue
		}

		isToday := calendar.SameDay(tx.Date, now)

		switch tx.Type {
		case transaction.TypeIncome:
			b.income = b.income.Add(amount)
			if isToday {
				summary.Income = summary.Income.Add(amount)
			}
		case transaction.TypeExpense:
			b.expense = b.expense.Add(amount)
			if isToday {
				summary.Expense = summary.Expense.Add(amount)
			}
		}
	}

	summary.Balance = summary.Income.Sub(summary.Expense)

	out := &Monthly{
		Year:  now.Year(),
		Month: now.Month(),
		Today: today,
		Days:  make([]Day, days),
		Now:   summary,
	}

	running := decimal.Zero

	for day := 1; day <= days; day++ {
		b := buckets[day]
		d := Day{Day: day}

		if day <= today {
			running = running.Add(b.income).Sub(b.expense)
			d.Income = new(b.income)
			d.Expense = new(b.expense)
			d.Balance = new(running)
		} else {
			income, expense, err := futureSums(b.future, rates)
			if err != nil {
				return nil, err
			}

			if income.IsPositive() {
				d.FutureIncome = new(income)
			}

			if expense.IsPositive() {
				d.FutureExpense = new(expense)
			}

			d.FutureTransactions = b.future
		}

		out.Days[day-1] = d
	}

	return out, nil
}

func futureSums(txs []*transaction.Transaction, rates currency.RateProvider) (decimal.Decimal, decimal.Decimal, error) {
	income, expense := decimal.Zero, decimal.Zero

	for _, tx := range txs {
		amount, err := currency.ConvertWith(rates, tx.Amount, tx.Currency)
		if err != nil {
			return income, expense, fmt.Errorf("converting transaction %s: %w", tx.ID, err)
		}

		switch tx.Type {
		case transaction.TypeIncome:
			income = income.Add(amount)
		case transaction.TypeExpense:
			expense = expense.Add(amount)
		}
	}

	return income, expense, nil
}

// Range returns the smallest and largest values the chart has to fit, across
// realized balances, income, expense and future sums.
func (m *Monthly) Range() (decimal.Decimal, decimal.Decimal) {
	lo, hi := decimal.Zero, decimal.Zero

	for _, d := range m.Days {
		for _, v := range []*decimal.Decimal{d.Income, d.Expense, d.Balance, d.FutureIncome, d.FutureExpense} {
			if v == nil {
				continue
			}

			lo = decimal.Min(lo, *v)
			hi = decimal.Max(hi, *v)
		}
	}

	return lo, hi
}
