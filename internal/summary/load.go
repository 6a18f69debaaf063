package summary

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/walleta/backend/internal/models"
	"github.com/walleta/backend/internal/types"
	"github.com/walleta/backend/internal/uuid"
	"gorm.io/gorm"
)

// ErrRetrieval is returned when the data for a summary cannot be read.
var ErrRetrieval = fmt.Errorf("%w: the summary data could not be loaded", models.ErrGeneral)

// Load reads all data of a user needed for the summary of a month and computes it.
func Load(ctx context.Context, db *gorm.DB, userID uuid.UUID, month types.Month) (Summary, error) {
	db = db.WithContext(ctx)
	owned := func() *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
	inMonth := func() *gorm.DB {
		return owned().Where("date LIKE ?", month.String()+"%").Order("created_at ASC")
	}

	var budgets []models.Budget
	var expenses []models.Expense
	var incomes []models.Income
	var loans []models.Loan
	var goals []models.SavingsGoal

	err := errors.Join(
		owned().Where("month = ?", month).Limit(1).Find(&budgets).Error,
		inMonth().Find(&expenses).Error,
		inMonth().Find(&incomes).Error,
		owned().Order("created_at ASC").Find(&loans).Error,
		owned().Order("created_at ASC").Find(&goals).Error,
	)
	if err != nil {
		log.Error().Err(err).Str("user", userID.String()).Str("month", month.String()).Msg("Summary")
		return Summary{}, ErrRetrieval
	}

	var budget *models.Budget
	if len(budgets) > 0 {
		budget = &budgets[0]
	}

	return Compute(month, budget, expenses, incomes, loans, goals), nil
}
