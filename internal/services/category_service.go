package services

import (
	"context"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
)

// Suggested categories offered by the budget and transaction forms.
var (
	SuggestedBudgetCategories      = []string{"Food", "Transport", "Entertainment", "Shopping", "Bills", "Healthcare", "Education", "Other"}
	SuggestedTransactionCategories = []string{"Food", "Transport", "Entertainment", "Shopping", "Bills", "Income", "Other"}
)

type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// GetCategories returns the suggested sets plus every distinct category the
// user has already used on a transaction or budget, sorted.
func (s *categoryService) GetCategories(ctx context.Context, userID string) (*CategorySuggestions, error) {
	var used []string
	err := s.db.WithContext(ctx).Raw(
		`SELECT category FROM transactions WHERE user_id = ? AND deleted_at IS NULL
		 UNION
		 SELECT category FROM budgets WHERE user_id = ? AND deleted_at IS NULL
		 ORDER BY category`,
		userID, userID,
	).Scan(&used).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if used == nil {
		used = []string{}
	}

	return &CategorySuggestions{
		Budget:      append([]string(nil), SuggestedBudgetCategories...),
		Transaction: append([]string(nil), SuggestedTransactionCategories...),
		Used:        used,
	}, nil
}
