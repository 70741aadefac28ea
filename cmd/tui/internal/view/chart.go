package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/report"
)

const (
	glyphBar     = "█"
	glyphIncome  = "▲"
	glyphExpense = "▼"
	glyphToday   = "┃"
)

// renderChart draws the month as one column per day. Realized days show the
// running balance as a bar from the zero line. Later days show planned income
// and expense markers. Days without data stay blank.
func renderChart(m *report.Monthly, height int, pal Palette) string {
	if height < 3 {
		height = 3
	}

	lo, hi := m.Range()
	if lo.Equal(hi) {
		hi = lo.Add(decimal.NewFromInt(1))
	}

	span := hi.Sub(lo)
	row := func(v decimal.Decimal) int {
		r := hi.Sub(v).Div(span).Mul(decimal.NewFromInt(int64(height - 1))).Round(0).IntPart()
		return int(min(max(r, 0), int64(height-1)))
	}

	zero := row(decimal.Zero)

	grid := make([][]string, height)
	for r := range grid {
		grid[r] = make([]string, len(m.Days))
		for c := range grid[r] {
			grid[r][c] = " "
		}
	}

	bar := lipgloss.NewStyle().Foreground(pal.Income)
	neg := lipgloss.NewStyle().Foreground(pal.Expense)

	for c, d := range m.Days {
		switch {
		case d.Balance != nil:
			top, bottom, style := row(*d.Balance), zero, bar
			if d.Balance.IsNegative() {
				top, bottom, style = zero, row(*d.Balance), neg
			}

			for r := top; r <= bottom; r++ {
				grid[r][c] = style.Render(glyphBar)
			}
		default:
			if d.FutureIncome != nil {
				grid[row(*d.FutureIncome)][c] = bar.Render(glyphIncome)
			}

			if d.FutureExpense != nil {
				grid[row(*d.FutureExpense)][c] = neg.Render(glyphExpense)
			}
		}
	}

	hiLabel := hi.StringFixed(0)
	loLabel := lo.StringFixed(0)
	width := max(len(hiLabel), len(loLabel), 1)

	var sb strings.Builder

	for r := range grid {
		label := ""

		switch r {
		case 0:
			label = hiLabel
		case height - 1:
			label = loLabel
		case zero:
			label = "0"
		}

		fmt.Fprintf(&sb, "%*s │", width, label)

		for c, cell := range grid[r] {
			sep := " "
			if c+1 == m.Today {
				sep = lipgloss.NewStyle().Foreground(pal.Muted).Render(glyphToday)
			}

			sb.WriteString(cell + sep)
		}

		sb.WriteString("\n")
	}

	sb.WriteString(strings.Repeat(" ", width+2))

	for c := range m.Days {
		day := c + 1
		if day == 1 || day%5 == 0 {
			label := fmt.Sprintf("%-2d", day)
			sb.WriteString(label)

			continue
		}

		sb.WriteString("  ")
	}

	return sb.String()
}
