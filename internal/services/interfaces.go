package services

import (
	"time"

	"gorm.io/gorm"

	"kopilka/internal/models"
	"kopilka/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(name, email, password string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

// AccountUpdateFields holds the optional fields of an account update.
// Nil pointers leave the stored value untouched.
type AccountUpdateFields struct {
	Name       *string
	Currency   *string
	Color      *string
	Icon       *string
	IsArchived *bool
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(userID, name string, accountType models.AccountType, balance int64, currency, color, icon string) (*models.Account, error)
	GetUserAccounts(userID string, params pagination.ListParams, includeArchived bool) ([]models.Account, pagination.Meta, error)
	GetAccountByID(userID, accountID string) (*models.Account, error)
	UpdateAccount(userID, accountID string, fields AccountUpdateFields) (*models.Account, error)
	DeleteAccount(userID, accountID string) error
	ApplyDelta(tx *gorm.DB, accountID string, transactionType models.TransactionType, amount int64) error
	ReverseDelta(tx *gorm.DB, accountID string, transactionType models.TransactionType, amount int64) error
}

// CategoryUpdateFields holds the optional fields of a category update.
// ParentID uses two pointer levels: nil = keep, pointer-to-nil = detach
// from the parent, pointer-to-value = reparent.
type CategoryUpdateFields struct {
	Name     *string
	Color    *string
	Icon     *string
	ParentID **string
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name string, categoryType models.CategoryType, color, icon string, parentID *string) (*models.Category, error)
	GetUserCategories(userID string, params pagination.ListParams, categoryType *models.CategoryType) ([]models.Category, pagination.Meta, error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID string, fields CategoryUpdateFields) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	Type       *models.TransactionType
	CategoryID *string
	AccountID  *string
}

// TransactionUpdateFields holds the optional fields of a transaction
// update. CategoryID uses two pointer levels: nil = keep, pointer-to-nil
// = clear, pointer-to-value = set.
type TransactionUpdateFields struct {
	AccountID         *string
	CategoryID        **string
	Type              *models.TransactionType
	Amount            *int64
	Description       *string
	Date              *time.Time
	Tags              *[]string
	Note              *string
	ReceiptURL        *string
	IsRecurring       *bool
	RecurringInterval *models.RecurringInterval
}

// TransactionStats is the aggregate view over a filtered transaction set.
// ByCategory and ByDay accumulate the raw amount for incomes and
// expenses alike (not netted by type).
type TransactionStats struct {
	TotalIncome  int64            `json:"total_income"`
	TotalExpense int64            `json:"total_expense"`
	Balance      int64            `json:"balance"`
	ByCategory   map[string]int64 `json:"by_category"`
	ByDay        map[string]int64 `json:"by_day"`
}

// TransactionServicer defines the contract for transaction-related
// business logic, including keeping account balances consistent with
// the set of live transactions.
type TransactionServicer interface {
	CreateTransaction(userID, accountID string, categoryID *string, transactionType models.TransactionType, amount int64, description string, date time.Time, tags []string) (*models.Transaction, error)
	GetUserTransactions(userID string, params pagination.ListParams, filter TransactionFilter) ([]models.Transaction, pagination.Meta, error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	GetTransactionStats(userID string, startDate, endDate *time.Time) (*TransactionStats, error)
	UpdateTransaction(userID, transactionID string, fields TransactionUpdateFields) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// BudgetUpdateFields holds the optional fields of a budget update.
// Changing the period does not recompute the stored date window.
type BudgetUpdateFields struct {
	CategoryID *string
	Amount     *int64
	Period     *models.BudgetPeriod
}

// BudgetStats is a budget joined with its live spend figures. Spent,
// remaining, and percentage are computed on read and never stored.
type BudgetStats struct {
	models.Budget
	Spent      int64   `json:"spent"`
	Remaining  int64   `json:"remaining"`
	Percentage float64 `json:"percentage"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID, categoryID string, amount int64, period models.BudgetPeriod) (*models.Budget, error)
	GetUserBudgets(userID string) ([]BudgetStats, error)
	GetBudgetByID(userID, budgetID string) (*models.Budget, error)
	UpdateBudget(userID, budgetID string, fields BudgetUpdateFields) (*models.Budget, error)
	DeleteBudget(userID, budgetID string) error
}
