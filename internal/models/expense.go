package models

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultCategory is used for expenses without a category, imported expenses among them.
const DefaultCategory = "Uncategorized"

// Expense is money spent by a user on a specific date.
type Expense struct {
	OwnedModel
	ExpenseEditable
	Imported bool `json:"imported" example:"false"` // Whether the expense was imported from a bank account
}

type ExpenseEditable struct {
	Amount      decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)" example:"42.5"` // Amount, always stored as absolute value
	Description string          `json:"description" example:"Groceries"`                 // Free text description
	Category    string          `json:"category" example:"Food"`                         // Category label
	Date        string          `json:"date" gorm:"index" example:"2025-06-14"`          // Calendar date, YYYY-MM-DD
}

func (e *Expense) BeforeSave(_ *gorm.DB) error {
	e.Amount = e.Amount.Abs()
	e.Description = strings.TrimSpace(e.Description)
	e.Category = strings.TrimSpace(e.Category)
	e.Date = strings.TrimSpace(e.Date)

	if e.Category == "" {
		e.Category = DefaultCategory
	}

	if e.Date == "" {
		return ErrDateMissing
	}

	return nil
}
