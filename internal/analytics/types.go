package analytics

import (
	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

// Display colours of the income-vs-expenses pair.
const (
	IncomeColor  = "#10b981"
	ExpenseColor = "#ef4444"
)

// CategoryPalette colours the dashboard's category slices in order.
var CategoryPalette = []string{"#8884d8", "#82ca9d", "#ffc658", "#ff7c7c", "#8dd1e1"}

// MonthlyTrend holds the income and expense totals of one calendar month.
type MonthlyTrend struct {
	Month    string          `json:"month"`
	Year     int             `json:"year"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

// CategoryAmount is an expense total for one category.
type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// LabeledValue is a named amount with a display colour.
type LabeledValue struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
	Color string          `json:"color"`
}

// BudgetComparison contrasts a budget with the current month's spending.
// Remaining is never negative and Percentage is clamped to [0, 100].
type BudgetComparison struct {
	Category   string          `json:"category"`
	Budgeted   decimal.Decimal `json:"budgeted"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percentage float64         `json:"percentage"`
}

// Severity ranks budget alerts: high > medium > low.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// BudgetAlert flags a budget that is at least 60% used. Percentage is unclamped.
type BudgetAlert struct {
	Category   string   `json:"category"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	Percentage float64  `json:"percentage"`
}

// Direction classifies a spending slope.
type Direction string

const (
	DirectionIncreasing Direction = "increasing"
	DirectionDecreasing Direction = "decreasing"
	DirectionStable     Direction = "stable"
)

// SpendingTrend summarises a category's recent monthly spending.
type SpendingTrend struct {
	Category        string          `json:"category"`
	AverageSpending decimal.Decimal `json:"average_spending"`
	Trend           float64         `json:"trend"`
	Direction       Direction       `json:"direction"`
}

// MonthlyProjection is a naive estimate for one future month.
type MonthlyProjection struct {
	Month             string          `json:"month"`
	Year              int             `json:"year"`
	ProjectedIncome   decimal.Decimal `json:"projected_income"`
	ProjectedExpenses decimal.Decimal `json:"projected_expenses"`
	ProjectedSavings  decimal.Decimal `json:"projected_savings"`
}

// SavingsGoal evaluates the current month against the recommended savings rate.
type SavingsGoal struct {
	CurrentMonthlySavings  decimal.Decimal `json:"current_monthly_savings"`
	ProjectedYearlySavings decimal.Decimal `json:"projected_yearly_savings"`
	RecommendedSavingsRate float64         `json:"recommended_savings_rate"`
	TargetSavings          decimal.Decimal `json:"target_savings"`
	OnTrack                bool            `json:"on_track"`
}

// Analytics groups the descriptive views.
type Analytics struct {
	MonthlyTrends     []MonthlyTrend     `json:"monthly_trends"`
	CategoryBreakdown []CategoryAmount   `json:"category_breakdown"`
	IncomeVsExpenses  []LabeledValue     `json:"income_vs_expenses"`
	BudgetComparison  []BudgetComparison `json:"budget_comparison"`
}

// Predictions groups the forward-looking views. SavingsGoal is nil when the
// user has no transactions at all.
type Predictions struct {
	MonthlyProjection []MonthlyProjection `json:"monthly_projection"`
	BudgetAlerts      []BudgetAlert       `json:"budget_alerts"`
	SpendingTrends    []SpendingTrend     `json:"spending_trends"`
	SavingsGoal       *SavingsGoal        `json:"savings_goal"`
}

// Report is every derived view for one snapshot and reference date.
type Report struct {
	AsOf        models.Date `json:"as_of"`
	Analytics   Analytics   `json:"analytics"`
	Predictions Predictions `json:"predictions"`
}

// DashboardSummary is the current-month overview card set.
type DashboardSummary struct {
	AsOf          models.Date     `json:"as_of"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	Savings       decimal.Decimal `json:"savings"`
	MonthlyData   []MonthlyTrend  `json:"monthly_data"`
	CategoryData  []LabeledValue  `json:"category_data"`
}

// BudgetStatus buckets budget usage for display.
type BudgetStatus string

const (
	BudgetStatusGood     BudgetStatus = "good"
	BudgetStatusWarning  BudgetStatus = "warning"
	BudgetStatusExceeded BudgetStatus = "exceeded"
)

// BudgetUsage is one budget with its current-month usage.
type BudgetUsage struct {
	ID           string          `json:"id"`
	Category     string          `json:"category"`
	MonthlyLimit decimal.Decimal `json:"monthly_limit"`
	Spent        decimal.Decimal `json:"spent"`
	Remaining    decimal.Decimal `json:"remaining"`
	Percentage   float64         `json:"percentage"`
	Status       BudgetStatus    `json:"status"`
}

// BudgetOverview lists every budget with usage plus totals. Totals sum across
// duplicate categories.
type BudgetOverview struct {
	AsOf           models.Date     `json:"as_of"`
	Budgets        []BudgetUsage   `json:"budgets"`
	TotalBudget    decimal.Decimal `json:"total_budget"`
	TotalSpent     decimal.Decimal `json:"total_spent"`
	TotalRemaining decimal.Decimal `json:"total_remaining"`
}
