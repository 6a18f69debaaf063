package models

import (
	"github.com/shopspring/decimal"
	"github.com/walleta/backend/internal/types"
	"github.com/walleta/backend/internal/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Budget is the planned spending of a user for one month.
type Budget struct {
	DefaultModel
	UserID uuid.UUID       `json:"userId" gorm:"uniqueIndex:budget_user_month" example:"1e777d24-3f5b-4c43-8000-04f65f895578"`
	Month  types.Month     `json:"month" gorm:"uniqueIndex:budget_user_month" swaggertype:"string" example:"2025-06"`
	Amount decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)" example:"1500"`
}

func (b *Budget) BeforeSave(_ *gorm.DB) error {
	if b.Month.IsZero() {
		return ErrMonthMissing
	}

	if b.Amount.IsNegative() {
		return ErrAmountNegative
	}

	return nil
}

// Upsert stores the budget, replacing the amount of an existing budget
// for the same user and month. The budget is reloaded afterwards so that
// ID and timestamps reflect the stored row.
func (b *Budget) Upsert(db *gorm.DB) error {
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
	}).Create(b).Error
	if err != nil {
		return err
	}

	var stored Budget
	err = db.Where("user_id = ? AND month = ?", b.UserID, b.Month).First(&stored).Error
	if err != nil {
		return err
	}

	*b = stored
	return nil
}
