package v1_test

import (
	"net/http"

	"github.com/shopspring/decimal"
	v1 "github.com/walleta/backend/internal/controllers/v1"
	"github.com/walleta/backend/internal/models"
	"github.com/walleta/backend/internal/test"
)

func (suite *TestSuiteStandard) createBudget(token, month, amount string) models.Budget {
	r := suite.request(http.MethodPost, "/v1/budgets", token, map[string]any{"month": month, "amount": amount})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var response v1.BudgetResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().NotNil(response.Data)
	return *response.Data
}

func (suite *TestSuiteStandard) TestBudgetUpsert() {
	token := suite.register("anna@example.com")

	first := suite.createBudget(token, "2025-06", "1500")
	second := suite.createBudget(token, "2025-06", "1800.50")

	suite.Assert().Equal(first.ID, second.ID, "Upserting the same month must keep the budget")
	suite.Assert().True(decimal.RequireFromString("1800.50").Equal(second.Amount), "Amount is %s", second.Amount)

	var count int64
	suite.Require().Nil(suite.db.Model(&models.Budget{}).Count(&count).Error)
	suite.Assert().Equal(int64(1), count)
}

func (suite *TestSuiteStandard) TestBudgetCreateInvalid() {
	token := suite.register("anna@example.com")

	tests := []struct {
		name string
		body any
	}{
		{"Negative amount", map[string]any{"month": "2025-06", "amount": "-10"}},
		{"Invalid month", map[string]any{"month": "2025-13", "amount": "10"}},
		{"No month", map[string]any{"amount": "10"}},
		{"No body", nil},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			r := suite.request(http.MethodPost, "/v1/budgets", token, tt.body)
			test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
		})
	}
}

func (suite *TestSuiteStandard) TestBudgetList() {
	token := suite.register("anna@example.com")
	suite.createBudget(token, "2025-04", "1000")
	suite.createBudget(token, "2025-06", "1200")
	suite.createBudget(token, "2025-05", "1100")

	other := suite.register("bert@example.com")
	suite.createBudget(other, "2025-06", "99")

	r := suite.request(http.MethodGet, "/v1/budgets", token, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.BudgetListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().Len(response.Data, 3)
	suite.Assert().Equal("2025-06", response.Data[0].Month.String())
	suite.Assert().Equal("2025-05", response.Data[1].Month.String())
	suite.Assert().Equal("2025-04", response.Data[2].Month.String())
}

func (suite *TestSuiteStandard) TestBudgetListEmpty() {
	token := suite.register("anna@example.com")

	r := suite.request(http.MethodGet, "/v1/budgets", token, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	suite.Assert().JSONEq(`{"data": []}`, r.Body.String())
}

func (suite *TestSuiteStandard) TestBudgetCurrent() {
	token := suite.register("anna@example.com")

	r := suite.request(http.MethodGet, "/v1/budgets/current", token, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	suite.Assert().JSONEq(`{"data": null}`, r.Body.String())

	// The suite clock is in June 2025
	suite.createBudget(token, "2025-05", "1000")
	budget := suite.createBudget(token, "2025-06", "1500")

	r = suite.request(http.MethodGet, "/v1/budgets/current", token, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.BudgetResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal(budget.ID, response.Data.ID)
}

func (suite *TestSuiteStandard) TestBudgetGetAndDelete() {
	token := suite.register("anna@example.com")
	budget := suite.createBudget(token, "2025-06", "1500")
	path := "/v1/budgets/" + budget.ID.String()

	r := suite.request(http.MethodGet, path, token, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	r = suite.request(http.MethodDelete, path, token, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = suite.request(http.MethodGet, path, token, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	r = suite.request(http.MethodDelete, path, token, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestBudgetOfOtherUser() {
	owner := suite.register("anna@example.com")
	budget := suite.createBudget(owner, "2025-06", "1500")
	path := "/v1/budgets/" + budget.ID.String()

	other := suite.register("bert@example.com")
	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		r := suite.request(method, path, other, nil)
		test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
	}

	r := suite.request(http.MethodGet, path, owner, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
}

func (suite *TestSuiteStandard) TestBudgetInvalidID() {
	token := suite.register("anna@example.com")

	for _, id := range []string{"not-a-uuid", "00000000-0000-0000-0000-000000000000"} {
		r := suite.request(http.MethodGet, "/v1/budgets/"+id, token, nil)
		test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	}
}

func (suite *TestSuiteStandard) TestBudgetUnauthenticated() {
	r := suite.request(http.MethodGet, "/v1/budgets", "", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusUnauthorized)
}

func (suite *TestSuiteStandard) TestBudgetDatabaseError() {
	token := suite.register("anna@example.com")
	suite.CloseDB()

	r := suite.request(http.MethodGet, "/v1/budgets", token, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusInternalServerError)
}
