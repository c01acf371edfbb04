package models

// CategoryType represents the type of category.
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Category represents a transaction category. Categories form a tree via
// ParentID; the service layer rejects assignments that would create a
// cycle. Deleting a category detaches its transactions and children
// rather than deleting them.
type Category struct {
	Base
	UserID    string       `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string       `gorm:"not null" json:"name"`
	Type      CategoryType `gorm:"not null" json:"type"`
	Color     string       `gorm:"default:'#6B7280'" json:"color"`
	Icon      string       `gorm:"default:'tag'" json:"icon"`
	ParentID  *string      `gorm:"type:uuid" json:"parent_id,omitempty"`
	IsDefault bool         `gorm:"default:false" json:"is_default"`

	// Relationships
	Parent       *Category     `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children     []Category    `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
	Budgets      []Budget      `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"budgets,omitempty"`
}
