package testutil_test

import (
	"testing"

	"kopilka/internal/errors"
	"kopilka/internal/models"
	"kopilka/internal/testutil"
	"kopilka/internal/uuid"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "accounts", "categories", "transactions", "budgets"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if !uuid.IsValid(user.ID) {
		t.Fatalf("user should have a valid UUID, got %q", user.ID)
	}

	account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 5000)
	if account.Balance != 5000 {
		t.Errorf("expected balance 5000, got %d", account.Balance)
	}

	category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
	if category.Type != models.CategoryTypeExpense {
		t.Errorf("expected expense category, got %s", category.Type)
	}

	child := testutil.CreateTestChildCategory(t, db, user.ID, models.CategoryTypeExpense, category.ID)
	if child.ParentID == nil || *child.ParentID != category.ID {
		t.Error("child category should reference its parent")
	}

	tx := testutil.CreateTestTransaction(t, db, user.ID, account.ID, models.TransactionTypeIncome, 1000)
	if tx.Amount != 1000 {
		t.Errorf("expected amount 1000, got %d", tx.Amount)
	}

	budget := testutil.CreateTestBudget(t, db, user.ID, category.ID)
	if budget.Amount != 10000 {
		t.Errorf("expected budget amount 10000, got %d", budget.Amount)
	}
	if !budget.StartDate.Before(budget.EndDate) {
		t.Error("budget window start should precede its end")
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrAccountNotFound, "custom message")
	testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
