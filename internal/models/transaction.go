package models

import "time"

// TransactionType represents the type of transaction.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
	// TransactionTypeTransfer exists in the schema but has no defined
	// balance effect; create and update reject it.
	TransactionTypeTransfer TransactionType = "transfer"
)

// RecurringInterval represents how often a recurring transaction repeats.
// The interval is stored as metadata only; nothing schedules repeats.
type RecurringInterval string

const (
	RecurringDaily   RecurringInterval = "daily"
	RecurringWeekly  RecurringInterval = "weekly"
	RecurringMonthly RecurringInterval = "monthly"
	RecurringYearly  RecurringInterval = "yearly"
)

// Transaction represents a single income or expense entry against an
// account. Amount is always non-negative; the type carries the sign.
type Transaction struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	AccountID   string          `gorm:"type:uuid;not null;index" json:"account_id"`
	CategoryID  *string         `gorm:"type:uuid" json:"category_id,omitempty"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Amount      int64           `gorm:"type:bigint;not null" json:"amount"`
	Description string          `gorm:"default:''" json:"description"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	Tags        []string        `gorm:"serializer:json" json:"tags"`
	Note        string          `gorm:"type:text;default:''" json:"note"`
	ReceiptURL  string          `json:"receipt_url,omitempty"`

	IsRecurring       bool               `gorm:"default:false" json:"is_recurring"`
	RecurringInterval *RecurringInterval `json:"recurring_interval,omitempty"`

	// Relationships
	Account  Account   `gorm:"foreignKey:AccountID" json:"account"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
