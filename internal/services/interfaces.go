package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/analytics"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// ChangeNotifier is told when a user's transactions or budgets change.
type ChangeNotifier interface {
	RecordsChanged(userID string)
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	Search   string
	Category *string
	Type     *models.TransactionType
	FromDate *models.Date
	ToDate   *models.Date
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(ctx context.Context, userID, title string, amount decimal.Decimal, category string, transactionType models.TransactionType, date models.Date, notes *string) (*models.Transaction, error)
	GetUserTransactions(ctx context.Context, userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	ListAllTransactions(ctx context.Context, userID string) ([]models.Transaction, error)
	GetTransactionByID(ctx context.Context, userID, transactionID string) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, transactionID string) error
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(ctx context.Context, userID, category string, monthlyLimit decimal.Decimal) (*models.Budget, error)
	GetUserBudgets(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	ListAllBudgets(ctx context.Context, userID string) ([]models.Budget, error)
	GetBudgetByID(ctx context.Context, userID, budgetID string) (*models.Budget, error)
	DeleteBudget(ctx context.Context, userID, budgetID string) error
}

// CategorySuggestions lists category names offered by the forms.
type CategorySuggestions struct {
	Budget      []string `json:"budget"`
	Transaction []string `json:"transaction"`
	Used        []string `json:"used"`
}

// CategoryServicer defines the contract for category suggestions.
type CategoryServicer interface {
	GetCategories(ctx context.Context, userID string) (*CategorySuggestions, error)
}

// AnalyticsServicer builds metric views from a consistent snapshot of a
// user's records.
type AnalyticsServicer interface {
	GetReport(ctx context.Context, userID string, asOf time.Time) (*analytics.Report, error)
	GetDashboard(ctx context.Context, userID string, asOf time.Time) (*analytics.DashboardSummary, error)
	GetBudgetOverview(ctx context.Context, userID string, asOf time.Time) (*analytics.BudgetOverview, error)
	ChangeNotifier
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
