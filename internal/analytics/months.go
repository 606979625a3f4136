package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

// calendarMonth identifies a (year, month) pair.
type calendarMonth struct {
	year  int
	month time.Month
}

func monthOf(t time.Time) calendarMonth {
	return calendarMonth{year: t.Year(), month: t.Month()}
}

// add moves n months from the first day of m, so day-of-month overflow
// (31 March minus one month) can never skip or repeat a month.
func (m calendarMonth) add(n int) calendarMonth {
	t := time.Date(m.year, m.month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return calendarMonth{year: t.Year(), month: t.Month()}
}

func (m calendarMonth) contains(d models.Date) bool {
	return d.Year() == m.year && d.Month() == m.month
}

// label is the short English month name, e.g. "Jan".
func (m calendarMonth) label() string {
	return m.month.String()[:3]
}

// trailingMonths returns n months ending with m, oldest first.
func trailingMonths(m calendarMonth, n int) []calendarMonth {
	out := make([]calendarMonth, 0, n)
	for i := n - 1; i >= 0; i-- {
		out = append(out, m.add(-i))
	}
	return out
}

// monthTotals sums income and expenses dated within m.
func monthTotals(txs []models.Transaction, m calendarMonth) (income, expenses decimal.Decimal) {
	income, expenses = decimal.Zero, decimal.Zero
	for i := range txs {
		t := &txs[i]
		if !m.contains(t.Date) {
			continue
		}
		switch t.Type {
		case models.TransactionTypeIncome:
			income = income.Add(t.Amount)
		case models.TransactionTypeExpense:
			expenses = expenses.Add(t.Amount)
		}
	}
	return income, expenses
}

// expensesByCategory sums expenses dated within m, keyed by exact category.
func expensesByCategory(txs []models.Transaction, m calendarMonth) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for i := range txs {
		t := &txs[i]
		if t.Type != models.TransactionTypeExpense || !m.contains(t.Date) {
			continue
		}
		out[t.Category] = out[t.Category].Add(t.Amount)
	}
	return out
}
