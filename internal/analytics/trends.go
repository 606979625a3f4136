package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

// trendMonths is the length of the monthly trend series.
const trendMonths = 6

// MonthlyTrends returns exactly six entries for the calendar months ending
// with the month of asOf, oldest first. Months without transactions are zero.
func MonthlyTrends(txs []models.Transaction, asOf time.Time) []MonthlyTrend {
	months := trailingMonths(monthOf(asOf), trendMonths)
	out := make([]MonthlyTrend, 0, len(months))
	for _, m := range months {
		income, expenses := monthTotals(txs, m)
		out = append(out, MonthlyTrend{
			Month:    m.label(),
			Year:     m.year,
			Income:   income,
			Expenses: expenses,
			Net:      income.Sub(expenses),
		})
	}
	return out
}

// categoryBreakdownLimit caps the number of categories in the breakdown.
const categoryBreakdownLimit = 5

// CategoryBreakdown sums expenses per category over all time and returns the
// largest five. Ties keep a stable alphabetical order.
func CategoryBreakdown(txs []models.Transaction) []CategoryAmount {
	totals := make(map[string]decimal.Decimal)
	for i := range txs {
		if txs[i].Type != models.TransactionTypeExpense {
			continue
		}
		totals[txs[i].Category] = totals[txs[i].Category].Add(txs[i].Amount)
	}

	out := make([]CategoryAmount, 0, len(totals))
	for category, amount := range totals {
		out = append(out, CategoryAmount{Category: category, Amount: amount})
	}
	sortByAmount(out)
	if len(out) > categoryBreakdownLimit {
		out = out[:categoryBreakdownLimit]
	}
	return out
}

// IncomeVsExpenses returns the current month's income and expense totals as
// a two-element, fixed-order pair.
func IncomeVsExpenses(txs []models.Transaction, asOf time.Time) []LabeledValue {
	income, expenses := monthTotals(txs, monthOf(asOf))
	return []LabeledValue{
		{Name: "Income", Value: income, Color: IncomeColor},
		{Name: "Expenses", Value: expenses, Color: ExpenseColor},
	}
}

func sortByAmount(items []CategoryAmount) {
	sort.Slice(items, func(i, j int) bool {
		if c := items[i].Amount.Cmp(items[j].Amount); c != 0 {
			return c > 0
		}
		return items[i].Category < items[j].Category
	})
}
