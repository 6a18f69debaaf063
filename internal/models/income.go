package models

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type IncomeSource string

const (
	IncomeSourceSalary     IncomeSource = "salary"
	IncomeSourceFreelance  IncomeSource = "freelance"
	IncomeSourceInvestment IncomeSource = "investment"
	IncomeSourceOther      IncomeSource = "other"
)

// Valid reports if the source is one of the known sources.
func (s IncomeSource) Valid() bool {
	switch s {
	case IncomeSourceSalary, IncomeSourceFreelance, IncomeSourceInvestment, IncomeSourceOther:
		return true
	}
	return false
}

// Income is money received by a user on a specific date.
type Income struct {
	OwnedModel
	IncomeEditable
	Imported bool `json:"imported" example:"false"` // Whether the income was imported from a bank account
}

type IncomeEditable struct {
	Amount      decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)" example:"3200"`
	Description string          `json:"description" example:"June salary"`
	Source      IncomeSource    `json:"source" example:"salary"` // One of salary, freelance, investment, other
	Date        string          `json:"date" gorm:"index" example:"2025-06-01"`
	Recurring   bool            `json:"recurring" example:"true"` // Whether the income repeats every month
}

func (i *Income) BeforeSave(_ *gorm.DB) error {
	i.Description = strings.TrimSpace(i.Description)
	i.Date = strings.TrimSpace(i.Date)

	if i.Source == "" {
		i.Source = IncomeSourceOther
	}

	if !i.Source.Valid() {
		return ErrIncomeSourceInvalid
	}

	if i.Amount.IsNegative() {
		return ErrAmountNegative
	}

	if i.Date == "" {
		return ErrDateMissing
	}

	return nil
}
