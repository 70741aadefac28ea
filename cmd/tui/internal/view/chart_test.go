package view

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pennywise/internal/report"
	"github.com/MrJamesThe3rd/pennywise/internal/theme"
)

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestRenderChart(t *testing.T) {
	m := &report.Monthly{
		Year:  2024,
		Month: time.March,
		Today: 2,
		Days: []report.Day{
			{Day: 1, Income: dec(100), Expense: dec(0), Balance: dec(100)},
			{Day: 2, Income: dec(0), Expense: dec(150), Balance: dec(-50)},
			{Day: 3, FutureIncome: dec(30)},
			{Day: 4},
			{Day: 5, FutureExpense: dec(20)},
		},
	}

	out := renderChart(m, 6, PaletteFor(theme.Light))
	lines := strings.Split(out, "\n")

	require.Len(t, lines, 7)
	assert.Contains(t, lines[0], "150")
	assert.Contains(t, lines[5], "-50")
	assert.Contains(t, out, glyphBar)
	assert.Contains(t, out, glyphIncome)
	assert.Contains(t, out, glyphExpense)
	assert.Contains(t, out, glyphToday)
	assert.Equal(t, "1       5", strings.TrimSpace(lines[6]))
}

func TestRenderChart_FlatMonth(t *testing.T) {
	m := &report.Monthly{Today: 1, Days: []report.Day{{Day: 1, Income: dec(0), Expense: dec(0), Balance: dec(0)}}}

	assert.NotPanics(t, func() {
		out := renderChart(m, 1, PaletteFor(theme.Dark))
		assert.Len(t, strings.Split(out, "\n"), 4)
	})
}

func TestTimeframeToDateRange(t *testing.T) {
	day := func(y int, mo time.Month, d int) time.Time {
		return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
	}

	// Sunday.
	now := time.Date(2024, 3, 31, 15, 0, 0, 0, time.UTC)

	type testCase struct {
		name      string
		tf        Timeframe
		wantStart time.Time
		wantEnd   time.Time
	}

	tests := []testCase{
		{name: "this week", tf: TimeframeThisWeek, wantStart: day(2024, 3, 25), wantEnd: day(2024, 3, 31)},
		{name: "last week", tf: TimeframeLastWeek, wantStart: day(2024, 3, 18), wantEnd: day(2024, 3, 24)},
		{name: "this month", tf: TimeframeThisMonth, wantStart: day(2024, 3, 1), wantEnd: day(2024, 3, 31)},
		{name: "last month from the 31st", tf: TimeframeLastMonth, wantStart: day(2024, 2, 1), wantEnd: day(2024, 2, 29)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := normalizeDateRange(timeframeToDateRange(tt.tf, now))

			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}
