package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Budget is a monthly spending ceiling for one category. Category matches
// Transaction.Category by exact string equality.
type Budget struct {
	Base
	UserID       string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Category     string          `gorm:"not null" json:"category"`
	MonthlyLimit decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"monthly_limit"`
}

// Validate rejects budgets with a negative limit. A zero limit is tolerated
// on read; the metrics engine has an explicit policy for it.
func (b *Budget) Validate() error {
	if b.MonthlyLimit.IsNegative() {
		return fmt.Errorf("budget %s: negative monthly limit %s", b.ID, b.MonthlyLimit)
	}
	return nil
}
