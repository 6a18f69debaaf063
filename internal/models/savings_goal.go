package models

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const DefaultGoalIcon = "piggy-bank"

// SavingsGoal is an amount the user is saving towards.
type SavingsGoal struct {
	OwnedModel
	SavingsGoalEditable
}

// SavingsGoalEditable holds all fields that are replaced on update.
type SavingsGoalEditable struct {
	Name          string          `json:"name" example:"Summer trip"`
	TargetAmount  decimal.Decimal `json:"targetAmount" gorm:"type:DECIMAL(20,8)" example:"2500"`
	CurrentAmount decimal.Decimal `json:"currentAmount" gorm:"type:DECIMAL(20,8)" example:"400"`
	TargetDate    *string         `json:"targetDate" example:"2025-07-01"`
	Icon          string          `json:"icon" example:"plane"`
}

func (g *SavingsGoal) BeforeSave(_ *gorm.DB) error {
	g.Name = strings.TrimSpace(g.Name)

	if g.Icon == "" {
		g.Icon = DefaultGoalIcon
	}

	if g.TargetAmount.IsNegative() || g.CurrentAmount.IsNegative() {
		return ErrAmountNegative
	}

	return nil
}
