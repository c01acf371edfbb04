package services

import (
	"testing"
	"time"

	"kopilka/internal/models"
	"kopilka/internal/testutil"
	"kopilka/internal/uuid"
)

func TestPeriodWindow(t *testing.T) {
	t.Run("weekly_starts_sunday", func(t *testing.T) {
		// 2026-04-08 is a Wednesday; the containing week starts Sunday 04-05.
		ref := time.Date(2026, 4, 8, 15, 30, 0, 0, time.UTC)
		start, end := PeriodWindow(models.BudgetPeriodWeekly, ref)

		if start.Weekday() != time.Sunday {
			t.Errorf("expected window to start on Sunday, got %s", start.Weekday())
		}
		if start.Day() != 5 || start.Month() != time.April {
			t.Errorf("expected start 2026-04-05, got %s", start.Format("2006-01-02"))
		}
		if end.Day() != 11 || end.Hour() != 23 || end.Minute() != 59 {
			t.Errorf("expected end at the last instant of 2026-04-11, got %s", end)
		}
	})

	t.Run("weekly_on_sunday_is_same_day", func(t *testing.T) {
		ref := time.Date(2026, 4, 5, 10, 0, 0, 0, time.UTC)
		start, _ := PeriodWindow(models.BudgetPeriodWeekly, ref)
		if start.Day() != 5 {
			t.Errorf("expected start on the same Sunday, got %s", start.Format("2006-01-02"))
		}
	})

	t.Run("monthly_covers_calendar_month", func(t *testing.T) {
		ref := time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC)
		start, end := PeriodWindow(models.BudgetPeriodMonthly, ref)

		if start.Day() != 1 || start.Month() != time.February {
			t.Errorf("expected start 2026-02-01, got %s", start.Format("2006-01-02"))
		}
		// 2026 is not a leap year.
		if end.Day() != 28 || end.Month() != time.February {
			t.Errorf("expected end on 2026-02-28, got %s", end.Format("2006-01-02"))
		}
	})

	t.Run("yearly_covers_calendar_year", func(t *testing.T) {
		ref := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
		start, end := PeriodWindow(models.BudgetPeriodYearly, ref)

		if start.Month() != time.January || start.Day() != 1 {
			t.Errorf("expected start 2026-01-01, got %s", start.Format("2006-01-02"))
		}
		if end.Month() != time.December || end.Day() != 31 {
			t.Errorf("expected end 2026-12-31, got %s", end.Format("2006-01-02"))
		}
	})
}

func TestCreateBudget(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		budget, err := svc.CreateBudget(user.ID, category.ID, 50000, models.BudgetPeriodMonthly)
		testutil.AssertNoError(t, err)

		if budget.Amount != 50000 {
			t.Errorf("expected amount 50000, got %d", budget.Amount)
		}
		if budget.StartDate.IsZero() || budget.EndDate.IsZero() {
			t.Error("expected a stored period window")
		}
		if !budget.StartDate.Before(budget.EndDate) {
			t.Error("expected start before end")
		}
	})

	t.Run("income_category_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeIncome)

		_, err := svc.CreateBudget(user.ID, category.ID, 50000, models.BudgetPeriodMonthly)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("wrong_user_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user2.ID, models.CategoryTypeExpense)

		_, err := svc.CreateBudget(user1.ID, category.ID, 50000, models.BudgetPeriodMonthly)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("negative_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		_, err := svc.CreateBudget(user.ID, category.ID, -1, models.BudgetPeriodMonthly)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserBudgets(t *testing.T) {
	t.Run("spent_and_remaining", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 100000)
		category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		_, err := svc.CreateBudget(user.ID, category.ID, 10000, models.BudgetPeriodMonthly)
		testutil.AssertNoError(t, err)

		_, err = txSvc.CreateTransaction(user.ID, account.ID, &category.ID, models.TransactionTypeExpense, 3000, "", time.Now(), nil)
		testutil.AssertNoError(t, err)
		_, err = txSvc.CreateTransaction(user.ID, account.ID, &category.ID, models.TransactionTypeExpense, 1000, "", time.Now(), nil)
		testutil.AssertNoError(t, err)

		budgets, err := svc.GetUserBudgets(user.ID)
		testutil.AssertNoError(t, err)

		if len(budgets) != 1 {
			t.Fatalf("expected 1 budget, got %d", len(budgets))
		}
		if budgets[0].Spent != 4000 {
			t.Errorf("expected spent 4000, got %d", budgets[0].Spent)
		}
		if budgets[0].Remaining != 6000 {
			t.Errorf("expected remaining 6000, got %d", budgets[0].Remaining)
		}
		if budgets[0].Percentage != 40 {
			t.Errorf("expected percentage 40, got %f", budgets[0].Percentage)
		}
	})

	t.Run("income_does_not_count_as_spend", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)
		category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		_, err := svc.CreateBudget(user.ID, category.ID, 10000, models.BudgetPeriodMonthly)
		testutil.AssertNoError(t, err)

		_, err = txSvc.CreateTransaction(user.ID, account.ID, &category.ID, models.TransactionTypeIncome, 5000, "", time.Now(), nil)
		testutil.AssertNoError(t, err)

		budgets, err := svc.GetUserBudgets(user.ID)
		testutil.AssertNoError(t, err)
		if budgets[0].Spent != 0 {
			t.Errorf("expected spent 0, got %d", budgets[0].Spent)
		}
	})

	t.Run("overspend_clamps_percentage", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 100000)
		category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		_, err := svc.CreateBudget(user.ID, category.ID, 1000, models.BudgetPeriodMonthly)
		testutil.AssertNoError(t, err)

		_, err = txSvc.CreateTransaction(user.ID, account.ID, &category.ID, models.TransactionTypeExpense, 2500, "", time.Now(), nil)
		testutil.AssertNoError(t, err)

		budgets, err := svc.GetUserBudgets(user.ID)
		testutil.AssertNoError(t, err)

		if budgets[0].Remaining != -1500 {
			t.Errorf("expected remaining -1500, got %d", budgets[0].Remaining)
		}
		if budgets[0].Percentage != 100 {
			t.Errorf("expected percentage clamped to 100, got %f", budgets[0].Percentage)
		}
	})

	t.Run("zero_amount_budget_percentage", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000)
		category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		_, err := svc.CreateBudget(user.ID, category.ID, 0, models.BudgetPeriodMonthly)
		testutil.AssertNoError(t, err)

		_, err = txSvc.CreateTransaction(user.ID, account.ID, &category.ID, models.TransactionTypeExpense, 500, "", time.Now(), nil)
		testutil.AssertNoError(t, err)

		budgets, err := svc.GetUserBudgets(user.ID)
		testutil.AssertNoError(t, err)
		if budgets[0].Percentage != 0 {
			t.Errorf("expected percentage 0 for zero-amount budget, got %f", budgets[0].Percentage)
		}
	})

	t.Run("spend_outside_window_ignored", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 100000)
		category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		_, err := svc.CreateBudget(user.ID, category.ID, 10000, models.BudgetPeriodMonthly)
		testutil.AssertNoError(t, err)

		lastYear := time.Now().AddDate(-1, 0, 0)
		_, err = txSvc.CreateTransaction(user.ID, account.ID, &category.ID, models.TransactionTypeExpense, 3000, "", lastYear, nil)
		testutil.AssertNoError(t, err)

		budgets, err := svc.GetUserBudgets(user.ID)
		testutil.AssertNoError(t, err)
		if budgets[0].Spent != 0 {
			t.Errorf("expected spent 0, got %d", budgets[0].Spent)
		}
	})
}

func TestUpdateBudget(t *testing.T) {
	t.Run("period_change_keeps_window", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		budget, err := svc.CreateBudget(user.ID, category.ID, 10000, models.BudgetPeriodMonthly)
		testutil.AssertNoError(t, err)

		yearly := models.BudgetPeriodYearly
		updated, err := svc.UpdateBudget(user.ID, budget.ID, BudgetUpdateFields{Period: &yearly})
		testutil.AssertNoError(t, err)

		if updated.Period != models.BudgetPeriodYearly {
			t.Errorf("expected yearly period, got %s", updated.Period)
		}
		if !updated.StartDate.Equal(budget.StartDate) || !updated.EndDate.Equal(budget.EndDate) {
			t.Error("expected the stored window to be unchanged")
		}
	})

	t.Run("amount_change", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		budget, err := svc.CreateBudget(user.ID, category.ID, 10000, models.BudgetPeriodMonthly)
		testutil.AssertNoError(t, err)

		amount := int64(20000)
		updated, err := svc.UpdateBudget(user.ID, budget.ID, BudgetUpdateFields{Amount: &amount})
		testutil.AssertNoError(t, err)
		if updated.Amount != 20000 {
			t.Errorf("expected amount 20000, got %d", updated.Amount)
		}
	})

	t.Run("income_category_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		expense := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
		income := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeIncome)

		budget, err := svc.CreateBudget(user.ID, expense.ID, 10000, models.BudgetPeriodMonthly)
		testutil.AssertNoError(t, err)

		_, err = svc.UpdateBudget(user.ID, budget.ID, BudgetUpdateFields{CategoryID: &income.ID})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		amount := int64(100)
		_, err := svc.UpdateBudget(user.ID, uuid.New(), BudgetUpdateFields{Amount: &amount})
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}

func TestDeleteBudget(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		budget, err := svc.CreateBudget(user.ID, category.ID, 10000, models.BudgetPeriodMonthly)
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.DeleteBudget(user.ID, budget.ID))

		_, err = svc.GetBudgetByID(user.ID, budget.ID)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})

	t.Run("wrong_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user1.ID, models.CategoryTypeExpense)

		budget, err := svc.CreateBudget(user1.ID, category.ID, 10000, models.BudgetPeriodMonthly)
		testutil.AssertNoError(t, err)

		err = svc.DeleteBudget(user2.ID, budget.ID)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}
