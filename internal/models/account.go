package models

// AccountType represents the type of account.
type AccountType string

const (
	AccountTypeCash       AccountType = "cash"
	AccountTypeBank       AccountType = "bank_account"
	AccountTypeCreditCard AccountType = "credit_card"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeSavings    AccountType = "savings"
)

// Account represents a financial account. Balance is stored but derived:
// it must always equal the signed sum of the account's live transactions
// (+amount for income, -amount for expense). Amounts are minor currency
// units (cents, kopecks).
type Account struct {
	Base
	UserID     string      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name       string      `gorm:"not null" json:"name"`
	Type       AccountType `gorm:"not null" json:"type"`
	Balance    int64       `gorm:"type:bigint;not null;default:0" json:"balance"`
	Currency   string      `gorm:"not null;default:'RUB'" json:"currency"`
	Color      string      `gorm:"default:'#3B82F6'" json:"color"`
	Icon       string      `gorm:"default:'credit-card'" json:"icon"`
	IsArchived bool        `gorm:"default:false" json:"is_archived"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"transactions,omitempty"`
}
