package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "kopilka/internal/errors"
	"kopilka/internal/models"
	"kopilka/internal/pagination"
)

// accountService handles account-related business logic.
type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db}
}

// CreateAccount creates a new account for a user. A non-zero starting
// balance is treated as an external correction and is not represented
// by a transaction.
func (s *accountService) CreateAccount(userID, name string, accountType models.AccountType, balance int64, currency, color, icon string) (*models.Account, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}

	account := &models.Account{
		UserID:   userID,
		Name:     name,
		Type:     accountType,
		Balance:  balance,
		Currency: currency,
		Color:    color,
		Icon:     icon,
	}
	if account.Currency == "" {
		account.Currency = "RUB"
	}

	if err := s.db.Create(account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return account, nil
}

// GetUserAccounts retrieves a windowed list of accounts for a user.
// Archived accounts are excluded unless requested.
func (s *accountService) GetUserAccounts(userID string, params pagination.ListParams, includeArchived bool) ([]models.Account, pagination.Meta, error) {
	params.Defaults()

	base := s.db.Model(&models.Account{}).Where("user_id = ?", userID)
	if !includeArchived {
		base = base.Where("is_archived = ?", false)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, pagination.Meta{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var accounts []models.Account
	if err := base.Scopes(pagination.Scope(params)).Order("created_at").Find(&accounts).Error; err != nil {
		return nil, pagination.Meta{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return accounts, pagination.NewMeta(params, total), nil
}

// GetAccountByID retrieves an account by ID for a specific user.
func (s *accountService) GetAccountByID(userID, accountID string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// UpdateAccount updates an existing account's mutable fields.
func (s *accountService) UpdateAccount(userID, accountID string, fields AccountUpdateFields) (*models.Account, error) {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Name != nil && *fields.Name != "" {
		updates["name"] = *fields.Name
	}
	if fields.Currency != nil && *fields.Currency != "" {
		updates["currency"] = *fields.Currency
	}
	if fields.Color != nil {
		updates["color"] = *fields.Color
	}
	if fields.Icon != nil {
		updates["icon"] = *fields.Icon
	}
	if fields.IsArchived != nil {
		updates["is_archived"] = *fields.IsArchived
	}

	if len(updates) > 0 {
		if err := s.db.Model(account).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.db.Where("id = ?", account.ID).First(account).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return account, nil
}

// DeleteAccount removes an account together with all of its transactions.
func (s *accountService) DeleteAccount(userID, accountID string) error {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", account.ID).Delete(&models.Transaction{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(account).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// ApplyDelta applies the signed balance effect of a transaction to an
// account: +amount for income, -amount for expense. The mutation is a
// single UPDATE statement (balance = balance + delta), so concurrent
// writers cannot lose each other's increments. Transfer has no defined
// balance effect and is rejected.
func (s *accountService) ApplyDelta(tx *gorm.DB, accountID string, transactionType models.TransactionType, amount int64) error {
	var delta int64
	switch transactionType {
	case models.TransactionTypeIncome:
		delta = amount
	case models.TransactionTypeExpense:
		delta = -amount
	default:
		return apperrors.ErrInvalidTransactionType
	}
	return s.increment(tx, accountID, delta)
}

// ReverseDelta undoes a previously applied delta: -amount for income,
// +amount for expense.
func (s *accountService) ReverseDelta(tx *gorm.DB, accountID string, transactionType models.TransactionType, amount int64) error {
	var delta int64
	switch transactionType {
	case models.TransactionTypeIncome:
		delta = -amount
	case models.TransactionTypeExpense:
		delta = amount
	default:
		return apperrors.ErrInvalidTransactionType
	}
	return s.increment(tx, accountID, delta)
}

func (s *accountService) increment(tx *gorm.DB, accountID string, delta int64) error {
	result := tx.Model(&models.Account{}).
		Where("id = ?", accountID).
		Update("balance", gorm.Expr("balance + ?", delta))
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrAccountNotFound
	}
	return nil
}
