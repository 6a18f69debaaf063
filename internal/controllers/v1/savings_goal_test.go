package v1_test

import (
	"net/http"

	"github.com/shopspring/decimal"
	v1 "github.com/walleta/backend/internal/controllers/v1"
	"github.com/walleta/backend/internal/models"
	"github.com/walleta/backend/internal/test"
)

func (suite *TestSuiteStandard) createSavingsGoal(token string, body map[string]any) models.SavingsGoal {
	r := suite.request(http.MethodPost, "/v1/savings", token, body)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var response v1.SavingsGoalResponse
	test.DecodeResponse(suite.T(), &r, &response)
	return response.Data
}

func (suite *TestSuiteStandard) TestSavingsGoalCreate() {
	token := suite.register("anna@example.com")

	goal := suite.createSavingsGoal(token, map[string]any{"name": "Summer trip", "targetAmount": "2500", "currentAmount": "400", "icon": "plane"})
	suite.Assert().Equal("plane", goal.Icon)
	suite.Assert().True(decimal.RequireFromString("2500").Equal(goal.TargetAmount))
	suite.Assert().Nil(goal.TargetDate)
}

func (suite *TestSuiteStandard) TestSavingsGoalDefaultIcon() {
	token := suite.register("anna@example.com")

	goal := suite.createSavingsGoal(token, map[string]any{"name": "Rainy day", "targetAmount": "1000"})
	suite.Assert().Equal(models.DefaultGoalIcon, goal.Icon)
	suite.Assert().True(goal.CurrentAmount.IsZero())
}

func (suite *TestSuiteStandard) TestSavingsGoalCreateInvalid() {
	token := suite.register("anna@example.com")

	r := suite.request(http.MethodPost, "/v1/savings", token, map[string]any{"name": "Debt", "targetAmount": "-5"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	suite.Assert().Equal(models.ErrAmountNegative.Error(), test.DecodeError(suite.T(), r.Body.Bytes()))
}

func (suite *TestSuiteStandard) TestSavingsGoalUpdate() {
	token := suite.register("anna@example.com")
	goal := suite.createSavingsGoal(token, map[string]any{"name": "Summer trip", "targetAmount": "2500", "currentAmount": "400", "icon": "plane"})
	path := "/v1/savings/" + goal.ID.String()

	r := suite.request(http.MethodPut, path, token, map[string]any{"name": "Summer trip", "targetAmount": "2500", "currentAmount": "650", "targetDate": "2025-07-01"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.SavingsGoalResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal(goal.ID, response.Data.ID)
	suite.Assert().True(decimal.RequireFromString("650").Equal(response.Data.CurrentAmount))
	suite.Require().NotNil(response.Data.TargetDate)
	suite.Assert().Equal("2025-07-01", *response.Data.TargetDate)

	// The icon is replaced too, an empty one falls back to the default
	suite.Assert().Equal(models.DefaultGoalIcon, response.Data.Icon)
}

func (suite *TestSuiteStandard) TestSavingsGoalListAndDelete() {
	token := suite.register("anna@example.com")
	first := suite.createSavingsGoal(token, map[string]any{"name": "Summer trip", "targetAmount": "2500"})
	suite.createSavingsGoal(token, map[string]any{"name": "New bike", "targetAmount": "900"})

	r := suite.request(http.MethodGet, "/v1/savings", token, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.SavingsGoalListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().Len(response.Data, 2)
	suite.Assert().Equal("Summer trip", response.Data[0].Name)

	other := suite.register("bert@example.com")
	r = suite.request(http.MethodDelete, "/v1/savings/"+first.ID.String(), other, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	r = suite.request(http.MethodDelete, "/v1/savings/"+first.ID.String(), token, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = suite.request(http.MethodGet, "/v1/savings", token, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().Len(response.Data, 1)
	suite.Assert().Equal("New bike", response.Data[0].Name)
}
