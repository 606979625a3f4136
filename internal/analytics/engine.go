// Package analytics derives descriptive and predictive views from a user's
// transactions and budgets. Every function is pure: the result depends only
// on the inputs and the reference date, and inputs are never mutated.
package analytics

import (
	"time"

	"fintrack/internal/models"
)

// Compute builds the full report for one snapshot. With no transactions every
// view is empty and the savings goal is nil, even if budgets exist.
func Compute(txs []models.Transaction, budgets []models.Budget, asOf time.Time) Report {
	r := Report{AsOf: models.DateOf(asOf)}
	if len(txs) == 0 {
		r.Analytics = Analytics{
			MonthlyTrends:     []MonthlyTrend{},
			CategoryBreakdown: []CategoryAmount{},
			IncomeVsExpenses:  []LabeledValue{},
			BudgetComparison:  []BudgetComparison{},
		}
		r.Predictions = Predictions{
			MonthlyProjection: []MonthlyProjection{},
			BudgetAlerts:      []BudgetAlert{},
			SpendingTrends:    []SpendingTrend{},
		}
		return r
	}

	r.Analytics = Analytics{
		MonthlyTrends:     MonthlyTrends(txs, asOf),
		CategoryBreakdown: CategoryBreakdown(txs),
		IncomeVsExpenses:  IncomeVsExpenses(txs, asOf),
		BudgetComparison:  CompareBudgets(budgets, txs, asOf),
	}
	r.Predictions = Predictions{
		MonthlyProjection: Project(txs, asOf),
		BudgetAlerts:      BudgetAlerts(budgets, txs, asOf),
		SpendingTrends:    SpendingTrends(txs, asOf),
		SavingsGoal:       EvaluateSavingsGoal(txs, asOf),
	}
	return r
}

// Summarize builds the dashboard cards: current-month totals, the six-month
// series and the current month's five largest expense categories.
func Summarize(txs []models.Transaction, asOf time.Time) DashboardSummary {
	current := monthOf(asOf)
	income, expenses := monthTotals(txs, current)

	byCategory := expensesByCategory(txs, current)
	amounts := make([]CategoryAmount, 0, len(byCategory))
	for category, amount := range byCategory {
		amounts = append(amounts, CategoryAmount{Category: category, Amount: amount})
	}
	sortByAmount(amounts)
	if len(amounts) > len(CategoryPalette) {
		amounts = amounts[:len(CategoryPalette)]
	}
	pie := make([]LabeledValue, len(amounts))
	for i, a := range amounts {
		pie[i] = LabeledValue{Name: a.Category, Value: a.Amount, Color: CategoryPalette[i]}
	}

	return DashboardSummary{
		AsOf:          models.DateOf(asOf),
		TotalIncome:   income,
		TotalExpenses: expenses,
		Savings:       income.Sub(expenses),
		MonthlyData:   MonthlyTrends(txs, asOf),
		CategoryData:  pie,
	}
}
