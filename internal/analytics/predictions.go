package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

const (
	// trendWindowMonths is the number of calendar months, ending with the
	// reference month, that feed spending trends and projections.
	trendWindowMonths = 3
	projectionMonths  = 3

	// Trends steeper than this, in percent, are not stable.
	directionThreshold = 5.0

	recommendedSavingsRate = 0.2
)

var (
	windowDivisor = decimal.NewFromInt(trendWindowMonths)
	savingsRate   = decimal.NewFromFloat(recommendedSavingsRate)
	monthsPerYear = decimal.NewFromInt(12)
)

// categoryWindow holds one category's monthly sums across the trend window.
// Only months with at least one matching expense get a slot.
type categoryWindow struct {
	slots []decimal.Decimal
	total decimal.Decimal
}

// windowExpenses groups expenses in the trend window by category. Slots are
// ordered oldest month first.
func windowExpenses(txs []models.Transaction, asOf time.Time) map[string]*categoryWindow {
	out := make(map[string]*categoryWindow)
	for _, m := range trailingMonths(monthOf(asOf), trendWindowMonths) {
		sums := make(map[string]decimal.Decimal)
		for i := range txs {
			t := &txs[i]
			if t.Type != models.TransactionTypeExpense || !m.contains(t.Date) {
				continue
			}
			sums[t.Category] = sums[t.Category].Add(t.Amount)
		}
		for category, sum := range sums {
			w, ok := out[category]
			if !ok {
				w = &categoryWindow{total: decimal.Zero}
				out[category] = w
			}
			w.slots = append(w.slots, sum)
			w.total = w.total.Add(sum)
		}
	}
	return out
}

// SpendingTrends reports, per category with expenses in the last three
// months, the mean of its monthly sums and the percent change from the first
// to the last populated month. Sorted by average spending, largest first.
func SpendingTrends(txs []models.Transaction, asOf time.Time) []SpendingTrend {
	type row struct {
		trend SpendingTrend
		avg   decimal.Decimal
	}

	windows := windowExpenses(txs, asOf)
	rows := make([]row, 0, len(windows))
	for category, w := range windows {
		avg := w.total.Div(decimal.NewFromInt(int64(len(w.slots))))

		var slope float64
		first, last := w.slots[0], w.slots[len(w.slots)-1]
		if len(w.slots) >= 2 && first.IsPositive() {
			slope = last.Sub(first).Div(first).Mul(hundred).InexactFloat64()
		}

		direction := DirectionStable
		switch {
		case slope > directionThreshold:
			direction = DirectionIncreasing
		case slope < -directionThreshold:
			direction = DirectionDecreasing
		}

		rows = append(rows, row{
			avg: avg,
			trend: SpendingTrend{
				Category:        category,
				AverageSpending: avg.Round(0),
				Trend:           math.Round(slope),
				Direction:       direction,
			},
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if c := rows[i].avg.Cmp(rows[j].avg); c != 0 {
			return c > 0
		}
		return rows[i].trend.Category < rows[j].trend.Category
	})

	out := make([]SpendingTrend, len(rows))
	for i := range rows {
		out[i] = rows[i].trend
	}
	return out
}

// Project estimates the three months after the reference month. Expenses
// spread each category's window total over the full three-month window;
// income repeats the previous calendar month's income.
func Project(txs []models.Transaction, asOf time.Time) []MonthlyProjection {
	windows := windowExpenses(txs, asOf)
	categories := make([]string, 0, len(windows))
	for category := range windows {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	expenses := decimal.Zero
	for _, category := range categories {
		expenses = expenses.Add(windows[category].total.Div(windowDivisor))
	}
	expenses = expenses.Round(0)

	current := monthOf(asOf)
	income, _ := monthTotals(txs, current.add(-1))
	savings := income.Sub(expenses)

	out := make([]MonthlyProjection, 0, projectionMonths)
	for i := 1; i <= projectionMonths; i++ {
		m := current.add(i)
		out = append(out, MonthlyProjection{
			Month:             m.month.String(),
			Year:              m.year,
			ProjectedIncome:   income,
			ProjectedExpenses: expenses,
			ProjectedSavings:  savings,
		})
	}
	return out
}

// EvaluateSavingsGoal compares the current month's savings with the
// recommended 20% of income. It returns nil when there are no transactions.
func EvaluateSavingsGoal(txs []models.Transaction, asOf time.Time) *SavingsGoal {
	if len(txs) == 0 {
		return nil
	}
	income, expenses := monthTotals(txs, monthOf(asOf))
	savings := income.Sub(expenses)
	target := income.Mul(savingsRate)
	return &SavingsGoal{
		CurrentMonthlySavings:  savings,
		ProjectedYearlySavings: savings.Mul(monthsPerYear),
		RecommendedSavingsRate: recommendedSavingsRate,
		TargetSavings:          target,
		OnTrack:                savings.GreaterThanOrEqual(target),
	}
}
