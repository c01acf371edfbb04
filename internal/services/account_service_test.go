package services

import (
	"testing"

	"kopilka/internal/models"
	"kopilka/internal/pagination"
	"kopilka/internal/testutil"
	"kopilka/internal/uuid"
)

func TestCreateAccount(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user := testutil.CreateTestUser(t, db)

		account, err := svc.CreateAccount(user.ID, "Wallet", models.AccountTypeCash, 5000, "RUB", "#FF0000", "wallet")
		testutil.AssertNoError(t, err)

		if !uuid.IsValid(account.ID) {
			t.Fatalf("expected valid account ID, got %q", account.ID)
		}
		if account.Balance != 5000 {
			t.Errorf("expected balance 5000, got %d", account.Balance)
		}
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateAccount(user.ID, "", models.AccountTypeCash, 0, "", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("default_currency", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user := testutil.CreateTestUser(t, db)

		account, err := svc.CreateAccount(user.ID, "Card", models.AccountTypeBank, 0, "", "", "")
		testutil.AssertNoError(t, err)
		if account.Currency != "RUB" {
			t.Errorf("expected default currency RUB, got %q", account.Currency)
		}
	})
}

func TestGetUserAccounts(t *testing.T) {
	t.Run("excludes_archived_by_default", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestAccount(t, db, user.ID)
		archived := testutil.CreateTestAccount(t, db, user.ID)

		yes := true
		_, err := svc.UpdateAccount(user.ID, archived.ID, AccountUpdateFields{IsArchived: &yes})
		testutil.AssertNoError(t, err)

		list, meta, err := svc.GetUserAccounts(user.ID, pagination.ListParams{}, false)
		testutil.AssertNoError(t, err)
		if meta.Total != 1 || len(list) != 1 {
			t.Errorf("expected 1 active account, got total=%d len=%d", meta.Total, len(list))
		}

		list, meta, err = svc.GetUserAccounts(user.ID, pagination.ListParams{}, true)
		testutil.AssertNoError(t, err)
		if meta.Total != 2 || len(list) != 2 {
			t.Errorf("expected 2 accounts with archived, got total=%d len=%d", meta.Total, len(list))
		}
	})

	t.Run("excludes_other_users", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		testutil.CreateTestAccount(t, db, user1.ID)

		list, _, err := svc.GetUserAccounts(user2.ID, pagination.ListParams{}, true)
		testutil.AssertNoError(t, err)
		if len(list) != 0 {
			t.Errorf("expected no accounts, got %d", len(list))
		}
	})
}

func TestUpdateAccount(t *testing.T) {
	t.Run("rename_and_archive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		name := "Renamed"
		yes := true
		updated, err := svc.UpdateAccount(user.ID, account.ID, AccountUpdateFields{Name: &name, IsArchived: &yes})
		testutil.AssertNoError(t, err)

		if updated.Name != "Renamed" {
			t.Errorf("expected renamed account, got %q", updated.Name)
		}
		if !updated.IsArchived {
			t.Error("expected archived account")
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user := testutil.CreateTestUser(t, db)

		name := "x"
		_, err := svc.UpdateAccount(user.ID, uuid.New(), AccountUpdateFields{Name: &name})
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})
}

func TestDeleteAccount(t *testing.T) {
	t.Run("removes_transactions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)
		testutil.CreateTestTransaction(t, db, user.ID, account.ID, models.TransactionTypeIncome, 100)
		testutil.CreateTestTransaction(t, db, user.ID, account.ID, models.TransactionTypeExpense, 50)

		testutil.AssertNoError(t, svc.DeleteAccount(user.ID, account.ID))

		var txCount int64
		db.Model(&models.Transaction{}).Where("account_id = ?", account.ID).Count(&txCount)
		if txCount != 0 {
			t.Errorf("expected 0 transactions after account delete, got %d", txCount)
		}

		_, err := svc.GetAccountByID(user.ID, account.ID)
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})

	t.Run("wrong_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user1.ID)

		err := svc.DeleteAccount(user2.ID, account.ID)
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})
}

func TestApplyDelta(t *testing.T) {
	t.Run("income_adds", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 100)

		testutil.AssertNoError(t, svc.ApplyDelta(db, account.ID, models.TransactionTypeIncome, 40))

		acct, err := svc.GetAccountByID(user.ID, account.ID)
		testutil.AssertNoError(t, err)
		if acct.Balance != 140 {
			t.Errorf("expected balance 140, got %d", acct.Balance)
		}
	})

	t.Run("expense_subtracts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 100)

		testutil.AssertNoError(t, svc.ApplyDelta(db, account.ID, models.TransactionTypeExpense, 40))

		acct, err := svc.GetAccountByID(user.ID, account.ID)
		testutil.AssertNoError(t, err)
		if acct.Balance != 60 {
			t.Errorf("expected balance 60, got %d", acct.Balance)
		}
	})

	t.Run("reverse_restores", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 100)

		testutil.AssertNoError(t, svc.ApplyDelta(db, account.ID, models.TransactionTypeExpense, 40))
		testutil.AssertNoError(t, svc.ReverseDelta(db, account.ID, models.TransactionTypeExpense, 40))

		acct, err := svc.GetAccountByID(user.ID, account.ID)
		testutil.AssertNoError(t, err)
		if acct.Balance != 100 {
			t.Errorf("expected balance 100, got %d", acct.Balance)
		}
	})

	t.Run("transfer_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		err := svc.ApplyDelta(db, account.ID, models.TransactionTypeTransfer, 40)
		testutil.AssertAppError(t, err, "INVALID_TRANSACTION_TYPE")
	})

	t.Run("unknown_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)

		err := svc.ApplyDelta(db, uuid.New(), models.TransactionTypeIncome, 40)
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})
}
