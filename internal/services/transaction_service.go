package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "kopilka/internal/errors"
	"kopilka/internal/models"
	"kopilka/internal/pagination"
)

// transactionService handles transaction-related business logic. Every
// write keeps the owning account's balance consistent with the set of
// live transactions: the row mutation and the balance mutation always
// run inside one database transaction.
type transactionService struct {
	db             *gorm.DB
	accountService AccountServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, accountService AccountServicer) TransactionServicer {
	return &transactionService{
		db:             db,
		accountService: accountService,
	}
}

// CreateTransaction records a new income or expense against an account
// and applies its balance effect.
func (s *transactionService) CreateTransaction(
	userID, accountID string,
	categoryID *string,
	transactionType models.TransactionType,
	amount int64,
	description string,
	date time.Time,
	tags []string,
) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if accountID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account ID is required")
	}
	if transactionType != models.TransactionTypeIncome && transactionType != models.TransactionTypeExpense {
		return nil, apperrors.ErrInvalidTransactionType
	}

	if date.IsZero() {
		date = time.Now()
	}
	if tags == nil {
		tags = []string{}
	}

	account, err := s.accountService.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	if categoryID != nil {
		if err := s.checkCategoryOwnership(userID, *categoryID); err != nil {
			return nil, err
		}
	}

	transaction := &models.Transaction{
		UserID:      userID,
		AccountID:   account.ID,
		CategoryID:  categoryID,
		Type:        transactionType,
		Amount:      amount,
		Description: description,
		Date:        date,
		Tags:        tags,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.accountService.ApplyDelta(tx, account.ID, transactionType, amount)
	})
	if err != nil {
		return nil, err
	}

	return s.loadWithRelations(transaction.ID)
}

// GetUserTransactions retrieves a windowed, filtered list of the user's
// transactions, newest first, with account and category joined.
func (s *transactionService) GetUserTransactions(userID string, params pagination.ListParams, filter TransactionFilter) ([]models.Transaction, pagination.Meta, error) {
	params.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, pagination.Meta{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Preload("Account").Preload("Category").
		Scopes(pagination.Scope(params)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, pagination.Meta{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transactions, pagination.NewMeta(params, total), nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.StartDate != nil {
		q = q.Where("date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("date <= ?", *f.EndDate)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.AccountID != nil {
		q = q.Where("account_id = ?", *f.AccountID)
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user.
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Preload("Account").Preload("Category").
		Where("id = ? AND user_id = ?", transactionID, userID).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// GetTransactionStats aggregates the user's transactions over an
// optional date range. Category and day buckets accumulate the raw
// amount for incomes and expenses alike; only the balance nets by type.
func (s *transactionService) GetTransactionStats(userID string, startDate, endDate *time.Time) (*TransactionStats, error) {
	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, TransactionFilter{StartDate: startDate, EndDate: endDate})

	var transactions []models.Transaction
	if err := base.Preload("Category").Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	stats := &TransactionStats{
		ByCategory: make(map[string]int64),
		ByDay:      make(map[string]int64),
	}

	for i := range transactions {
		t := &transactions[i]

		switch t.Type {
		case models.TransactionTypeIncome:
			stats.TotalIncome += t.Amount
			stats.Balance += t.Amount
		case models.TransactionTypeExpense:
			stats.TotalExpense += t.Amount
			stats.Balance -= t.Amount
		}

		if t.Category != nil {
			stats.ByCategory[t.Category.Name] += t.Amount
		}

		day := t.Date.UTC().Format("2006-01-02")
		stats.ByDay[day] += t.Amount
	}

	return stats, nil
}

// UpdateTransaction applies a partial update. When the amount, type, or
// account changes, the old delta is reversed on the old account and the
// new delta applied to the new account, in that order, even when both
// are the same account. Row update and balance mutations commit
// together or not at all.
func (s *transactionService) UpdateTransaction(userID, transactionID string, fields TransactionUpdateFields) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	oldAmount := transaction.Amount
	oldType := transaction.Type
	oldAccountID := transaction.AccountID

	newAmount := oldAmount
	if fields.Amount != nil {
		if *fields.Amount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		newAmount = *fields.Amount
	}
	newType := oldType
	if fields.Type != nil {
		if *fields.Type != models.TransactionTypeIncome && *fields.Type != models.TransactionTypeExpense {
			return nil, apperrors.ErrInvalidTransactionType
		}
		newType = *fields.Type
	}
	newAccountID := oldAccountID
	if fields.AccountID != nil && *fields.AccountID != "" {
		newAccountID = *fields.AccountID
	}

	balanceChanged := oldAmount != newAmount || oldType != newType || oldAccountID != newAccountID

	if balanceChanged {
		// Both accounts must exist and belong to the requester.
		if _, err := s.accountService.GetAccountByID(userID, oldAccountID); err != nil {
			return nil, err
		}
		if newAccountID != oldAccountID {
			if _, err := s.accountService.GetAccountByID(userID, newAccountID); err != nil {
				return nil, err
			}
		}
	}

	if fields.CategoryID != nil && *fields.CategoryID != nil {
		if err := s.checkCategoryOwnership(userID, **fields.CategoryID); err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{
		"type":       newType,
		"amount":     newAmount,
		"account_id": newAccountID,
	}
	if fields.CategoryID != nil {
		updates["category_id"] = *fields.CategoryID
	}
	if fields.Description != nil {
		updates["description"] = *fields.Description
	}
	if fields.Date != nil {
		updates["date"] = *fields.Date
	}
	if fields.Tags != nil {
		updates["tags"] = *fields.Tags
	}
	if fields.Note != nil {
		updates["note"] = *fields.Note
	}
	if fields.ReceiptURL != nil {
		updates["receipt_url"] = *fields.ReceiptURL
	}
	if fields.IsRecurring != nil {
		updates["is_recurring"] = *fields.IsRecurring
	}
	if fields.RecurringInterval != nil {
		updates["recurring_interval"] = *fields.RecurringInterval
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if balanceChanged {
			if err := s.accountService.ReverseDelta(tx, oldAccountID, oldType, oldAmount); err != nil {
				return err
			}
			if err := s.accountService.ApplyDelta(tx, newAccountID, newType, newAmount); err != nil {
				return err
			}
		}
		if err := tx.Model(&models.Transaction{}).Where("id = ?", transaction.ID).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.loadWithRelations(transaction.ID)
}

// DeleteTransaction removes a transaction and reverses its balance effect.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.accountService.ReverseDelta(tx, transaction.AccountID, transaction.Type, transaction.Amount); err != nil {
			return err
		}
		if err := tx.Delete(&models.Transaction{}, "id = ?", transaction.ID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

func (s *transactionService) checkCategoryOwnership(userID, categoryID string) error {
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCategoryNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *transactionService) loadWithRelations(transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Preload("Account").Preload("Category").
		Where("id = ?", transactionID).
		First(&transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}
