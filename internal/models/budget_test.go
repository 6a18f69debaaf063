package models_test

import (
	"github.com/shopspring/decimal"
	"github.com/walleta/backend/internal/models"
	"github.com/walleta/backend/internal/types"
)

func (suite *TestSuiteStandard) TestBudgetUpsertReplacesAmount() {
	user := suite.createTestUser("budget@example.com")
	month := types.NewMonth(2025, 6)

	first := models.Budget{UserID: user.ID, Month: month, Amount: decimal.NewFromInt(1000)}
	suite.Require().Nil(first.Upsert(suite.db))

	second := models.Budget{UserID: user.ID, Month: month, Amount: decimal.NewFromInt(1500)}
	suite.Require().Nil(second.Upsert(suite.db))

	var budgets []models.Budget
	suite.Require().Nil(suite.db.Where(&models.Budget{UserID: user.ID}).Find(&budgets).Error)

	suite.Require().Len(budgets, 1)
	suite.Assert().True(decimal.NewFromInt(1500).Equal(budgets[0].Amount))
	suite.Assert().Equal(first.ID, second.ID, "upsert must keep the stored row")
	suite.Assert().True(budgets[0].Month.Equal(month))
}

func (suite *TestSuiteStandard) TestBudgetUpsertPerUser() {
	anna := suite.createTestUser("anna@example.com")
	ben := suite.createTestUser("ben@example.com")
	month := types.NewMonth(2025, 6)

	suite.Require().Nil((&models.Budget{UserID: anna.ID, Month: month, Amount: decimal.NewFromInt(10)}).Upsert(suite.db))
	suite.Require().Nil((&models.Budget{UserID: ben.ID, Month: month, Amount: decimal.NewFromInt(20)}).Upsert(suite.db))

	var count int64
	suite.db.Model(&models.Budget{}).Count(&count)
	suite.Assert().Equal(int64(2), count)
}

func (suite *TestSuiteStandard) TestBudgetValidation() {
	user := suite.createTestUser("budget@example.com")

	err := (&models.Budget{UserID: user.ID, Month: types.NewMonth(2025, 1), Amount: decimal.NewFromInt(-1)}).Upsert(suite.db)
	suite.Assert().ErrorIs(err, models.ErrAmountNegative)

	err = (&models.Budget{UserID: user.ID, Amount: decimal.NewFromInt(1)}).Upsert(suite.db)
	suite.Assert().ErrorIs(err, models.ErrMonthMissing)
}
