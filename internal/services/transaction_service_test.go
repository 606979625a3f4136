package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/testutil"
)

// recordingNotifier counts change notifications per user.
type recordingNotifier struct {
	calls map[string]int
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{calls: make(map[string]int)}
}

func (n *recordingNotifier) RecordsChanged(userID string) {
	n.calls[userID]++
}

func strPtr(s string) *string { return &s }

func TestCreateTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		notifier := newRecordingNotifier()
		svc := NewTransactionService(db, notifier)
		userID := testutil.NewUserID()

		tx, err := svc.CreateTransaction(ctx, userID, "Groceries", decimal.RequireFromString("42.15"), "Food",
			models.TransactionTypeExpense, models.NewDate(2026, time.March, 3), strPtr("weekly shop"))
		testutil.AssertNoError(t, err)

		if tx.ID == "" {
			t.Fatal("expected transaction ID to be set")
		}
		testutil.AssertDecimal(t, "42.15", tx.Amount)
		if tx.Date.String() != "2026-03-03" {
			t.Errorf("expected date 2026-03-03, got %s", tx.Date)
		}
		if notifier.calls[userID] != 1 {
			t.Errorf("expected 1 change notification, got %d", notifier.calls[userID])
		}
	})

	t.Run("zero_amount_allowed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, nil)

		_, err := svc.CreateTransaction(ctx, testutil.NewUserID(), "Free sample", decimal.Zero, "Food",
			models.TransactionTypeExpense, models.NewDate(2026, time.March, 3), nil)
		testutil.AssertNoError(t, err)
	})

	t.Run("missing_date_defaults_to_today", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, nil)

		tx, err := svc.CreateTransaction(ctx, testutil.NewUserID(), "Coffee", decimal.NewFromInt(3), "Food",
			models.TransactionTypeExpense, models.Date{}, nil)
		testutil.AssertNoError(t, err)
		if tx.Date.IsZero() {
			t.Error("expected date to default to today")
		}
	})

	t.Run("negative_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, nil)

		_, err := svc.CreateTransaction(ctx, testutil.NewUserID(), "Refund", decimal.NewFromInt(-5), "Food",
			models.TransactionTypeExpense, models.NewDate(2026, time.March, 3), nil)
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")
	})

	t.Run("invalid_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, nil)

		_, err := svc.CreateTransaction(ctx, testutil.NewUserID(), "Move", decimal.NewFromInt(5), "Food",
			models.TransactionType("transfer"), models.NewDate(2026, time.March, 3), nil)
		testutil.AssertAppError(t, err, "INVALID_TRANSACTION_TYPE")
	})

	t.Run("blank_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, nil)

		_, err := svc.CreateTransaction(ctx, testutil.NewUserID(), "Mystery", decimal.NewFromInt(5), "  ",
			models.TransactionTypeExpense, models.NewDate(2026, time.March, 3), nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserTransactions(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (TransactionServicer, string, func()) {
		db := testutil.SetupTestDB(t)
		userID := testutil.NewUserID()
		testutil.CreateTestTransactionOn(t, db, userID, models.TransactionTypeIncome, "Income", "3000", models.NewDate(2026, time.January, 1))
		testutil.CreateTestTransactionOn(t, db, userID, models.TransactionTypeExpense, "Food", "50", models.NewDate(2026, time.February, 10))
		testutil.CreateTestTransactionOn(t, db, userID, models.TransactionTypeExpense, "Transport", "20", models.NewDate(2026, time.March, 5))
		testutil.CreateTestTransactionOn(t, db, testutil.NewUserID(), models.TransactionTypeExpense, "Food", "99", models.NewDate(2026, time.March, 5))
		return NewTransactionService(db, nil), userID, func() { testutil.TeardownTestDB(t, db) }
	}

	t.Run("own_records_newest_first", func(t *testing.T) {
		svc, userID, done := setup(t)
		defer done()

		result, err := svc.GetUserTransactions(ctx, userID, pagination.PageRequest{}, TransactionFilter{})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 3 {
			t.Fatalf("expected 3 transactions, got %d", result.TotalItems)
		}
		if result.Data[0].Category != "Transport" || result.Data[2].Category != "Income" {
			t.Errorf("expected newest first, got %s ... %s", result.Data[0].Category, result.Data[2].Category)
		}
	})

	t.Run("filters", func(t *testing.T) {
		svc, userID, done := setup(t)
		defer done()

		expense := models.TransactionTypeExpense
		from := models.NewDate(2026, time.February, 1)
		to := models.NewDate(2026, time.February, 28)

		tests := []struct {
			name   string
			filter TransactionFilter
			want   int64
		}{
			{name: "type", filter: TransactionFilter{Type: &expense}, want: 2},
			{name: "category", filter: TransactionFilter{Category: strPtr("Food")}, want: 1},
			{name: "date_range", filter: TransactionFilter{FromDate: &from, ToDate: &to}, want: 1},
			{name: "from_only", filter: TransactionFilter{FromDate: &from}, want: 2},
			{name: "search_case_insensitive", filter: TransactionFilter{Search: "TEST transaction"}, want: 3},
			{name: "search_wildcards_literal", filter: TransactionFilter{Search: "%"}, want: 0},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				result, err := svc.GetUserTransactions(ctx, userID, pagination.PageRequest{}, tt.filter)
				testutil.AssertNoError(t, err)
				if result.TotalItems != tt.want {
					t.Errorf("expected %d transactions, got %d", tt.want, result.TotalItems)
				}
			})
		}
	})

	t.Run("pagination", func(t *testing.T) {
		svc, userID, done := setup(t)
		defer done()

		result, err := svc.GetUserTransactions(ctx, userID, pagination.PageRequest{Page: 2, PageSize: 2}, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if len(result.Data) != 1 || result.TotalPages != 2 {
			t.Errorf("expected 1 item on page 2 of 2, got %d items and %d pages", len(result.Data), result.TotalPages)
		}
	})
}

func TestListAllTransactions(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTransactionService(db, nil)

	empty, err := svc.ListAllTransactions(ctx, testutil.NewUserID())
	testutil.AssertNoError(t, err)
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", empty)
	}

	userID := testutil.NewUserID()
	testutil.CreateTestTransactionOn(t, db, userID, models.TransactionTypeExpense, "Food", "1", models.NewDate(2026, time.March, 5))
	testutil.CreateTestTransactionOn(t, db, userID, models.TransactionTypeExpense, "Food", "2", models.NewDate(2026, time.January, 5))

	all, err := svc.ListAllTransactions(ctx, userID)
	testutil.AssertNoError(t, err)
	if len(all) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(all))
	}
	if all[0].Date.Month() != time.January {
		t.Errorf("expected oldest first, got %s", all[0].Date)
	}
}

func TestGetAndDeleteTransaction(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	notifier := newRecordingNotifier()
	svc := NewTransactionService(db, notifier)

	owner := testutil.NewUserID()
	other := testutil.NewUserID()
	tx := testutil.CreateTestTransaction(t, db, owner, models.TransactionTypeExpense, "Food", "10")

	_, err := svc.GetTransactionByID(ctx, other, tx.ID)
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")

	err = svc.DeleteTransaction(ctx, other, tx.ID)
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	if notifier.calls[other] != 0 {
		t.Error("failed delete must not notify")
	}

	got, err := svc.GetTransactionByID(ctx, owner, tx.ID)
	testutil.AssertNoError(t, err)
	if got.Title != tx.Title {
		t.Errorf("expected title %q, got %q", tx.Title, got.Title)
	}

	testutil.AssertNoError(t, svc.DeleteTransaction(ctx, owner, tx.ID))
	if notifier.calls[owner] != 1 {
		t.Errorf("expected 1 notification, got %d", notifier.calls[owner])
	}

	_, err = svc.GetTransactionByID(ctx, owner, tx.ID)
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
}
