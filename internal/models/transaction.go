package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether t is a supported transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction represents a single dated income or expense record
type Transaction struct {
	Base
	UserID   string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Title    string          `gorm:"not null" json:"title"`
	Amount   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Category string          `gorm:"not null;index" json:"category"`
	Type     TransactionType `gorm:"not null" json:"type"`
	Date     Date            `gorm:"type:date;not null;index" json:"date"`
	Notes    *string         `json:"notes,omitempty"`
}

// Validate checks the fields the metrics engine relies on. Records that fail
// here violate the store's data contract.
func (t *Transaction) Validate() error {
	if t.Amount.IsNegative() {
		return fmt.Errorf("transaction %s: negative amount %s", t.ID, t.Amount)
	}
	if !t.Type.Valid() {
		return fmt.Errorf("transaction %s: unsupported type %q", t.ID, t.Type)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("transaction %s: missing date", t.ID)
	}
	return nil
}
