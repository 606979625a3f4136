package analytics

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Alert and status thresholds, in percent of the monthly limit.
const (
	alertHighThreshold   = 100.0
	alertMediumThreshold = 80.0
	alertLowThreshold    = 60.0

	statusExceededThreshold = 100.0
	statusWarningThreshold  = 80.0
)

// usage is a budget limit measured against an amount spent.
type usage struct {
	remaining decimal.Decimal
	// raw is spent/limit*100, unclamped.
	raw float64
}

// measure computes remaining and raw percentage. A zero limit counts as
// fully used when anything was spent and unused otherwise; decimal division
// by zero panics so it must never reach Div.
func measure(limit, spent decimal.Decimal) usage {
	remaining := limit.Sub(spent)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	if !limit.IsPositive() {
		if spent.IsPositive() {
			return usage{remaining: decimal.Zero, raw: 100}
		}
		return usage{remaining: decimal.Zero, raw: 0}
	}
	return usage{remaining: remaining, raw: spent.Div(limit).Mul(hundred).InexactFloat64()}
}

func (u usage) clamped() float64 {
	return math.Max(0, math.Min(u.raw, 100))
}

// CompareBudgets returns one row per budget, in input order, contrasting the
// limit with the current month's expenses in the same category. Duplicate
// budgets for a category each produce a row.
func CompareBudgets(budgets []models.Budget, txs []models.Transaction, asOf time.Time) []BudgetComparison {
	spent := expensesByCategory(txs, monthOf(asOf))
	out := make([]BudgetComparison, 0, len(budgets))
	for i := range budgets {
		b := &budgets[i]
		s := spent[b.Category]
		u := measure(b.MonthlyLimit, s)
		out = append(out, BudgetComparison{
			Category:   b.Category,
			Budgeted:   b.MonthlyLimit,
			Spent:      s,
			Remaining:  u.remaining,
			Percentage: u.clamped(),
		})
	}
	return out
}

// BudgetAlerts flags budgets whose current-month usage reached 60%. Budgets
// below that produce nothing; the rest keep input order.
func BudgetAlerts(budgets []models.Budget, txs []models.Transaction, asOf time.Time) []BudgetAlert {
	spent := expensesByCategory(txs, monthOf(asOf))
	out := make([]BudgetAlert, 0)
	for i := range budgets {
		b := &budgets[i]
		s := spent[b.Category]
		p := measure(b.MonthlyLimit, s).raw

		var alert BudgetAlert
		switch {
		case p >= alertHighThreshold:
			over := s.Sub(b.MonthlyLimit).Round(0)
			alert = BudgetAlert{
				Severity: SeverityHigh,
				Message:  fmt.Sprintf("You've exceeded your %s budget by $%s", b.Category, over.String()),
			}
		case p >= alertMediumThreshold:
			alert = BudgetAlert{
				Severity: SeverityMedium,
				Message:  fmt.Sprintf("You're at %.0f%% of your %s budget", math.Round(p), b.Category),
			}
		case p >= alertLowThreshold:
			alert = BudgetAlert{
				Severity: SeverityLow,
				Message:  fmt.Sprintf("You're on track with your %s budget (%.0f%% used)", b.Category, math.Round(p)),
			}
		default:
			continue
		}
		alert.Category = b.Category
		alert.Percentage = p
		out = append(out, alert)
	}
	return out
}

// Overview lists every budget with its current-month usage and status, plus
// totals. It does not need any transactions to be meaningful.
func Overview(budgets []models.Budget, txs []models.Transaction, asOf time.Time) BudgetOverview {
	spent := expensesByCategory(txs, monthOf(asOf))
	ov := BudgetOverview{
		AsOf:           models.DateOf(asOf),
		Budgets:        make([]BudgetUsage, 0, len(budgets)),
		TotalBudget:    decimal.Zero,
		TotalSpent:     decimal.Zero,
		TotalRemaining: decimal.Zero,
	}
	for i := range budgets {
		b := &budgets[i]
		s := spent[b.Category]
		u := measure(b.MonthlyLimit, s)
		ov.Budgets = append(ov.Budgets, BudgetUsage{
			ID:           b.ID,
			Category:     b.Category,
			MonthlyLimit: b.MonthlyLimit,
			Spent:        s,
			Remaining:    u.remaining,
			Percentage:   u.clamped(),
			Status:       statusFor(u.raw),
		})
		ov.TotalBudget = ov.TotalBudget.Add(b.MonthlyLimit)
		ov.TotalSpent = ov.TotalSpent.Add(s)
	}
	ov.TotalRemaining = ov.TotalBudget.Sub(ov.TotalSpent)
	if ov.TotalRemaining.IsNegative() {
		ov.TotalRemaining = decimal.Zero
	}
	return ov
}

func statusFor(pct float64) BudgetStatus {
	switch {
	case pct >= statusExceededThreshold:
		return BudgetStatusExceeded
	case pct >= statusWarningThreshold:
		return BudgetStatusWarning
	default:
		return BudgetStatusGood
	}
}
