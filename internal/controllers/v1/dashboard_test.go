package v1_test

import (
	"net/http"

	"github.com/shopspring/decimal"
	v1 "github.com/walleta/backend/internal/controllers/v1"
	"github.com/walleta/backend/internal/test"
)

func (suite *TestSuiteStandard) summary(token, query string) v1.SummaryResponse {
	r := suite.request(http.MethodGet, "/v1/dashboard/summary"+query, token, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.SummaryResponse
	test.DecodeResponse(suite.T(), &r, &response)
	return response
}

func (suite *TestSuiteStandard) TestDashboardSummary() {
	token := suite.register("anna@example.com")
	suite.createBudget(token, "2025-06", "1000")
	suite.createExpense(token, "100", "Food", "2025-06-03")
	suite.createExpense(token, "150", "Housing", "2025-06-01")
	suite.createExpense(token, "75", "Food", "2025-05-28")
	suite.createIncome(token, "2000", "salary", "2025-06-01", true)
	suite.createLoan(token, loanBody("Home loan", "mortgage", "142000"))
	suite.createSavingsGoal(token, map[string]any{"name": "Summer trip", "targetAmount": "2500", "currentAmount": "400"})

	// Without a month, the month of the suite clock is used
	s := suite.summary(token, "").Data
	suite.Assert().Equal("2025-06", s.Month.String())

	equal := func(expected string, actual decimal.Decimal, field string) {
		suite.Assert().True(decimal.RequireFromString(expected).Equal(actual), "%s: expected %s, got %s", field, expected, actual)
	}

	equal("1000", s.Budget.Amount, "budget amount")
	equal("250", s.Budget.Spent, "budget spent")
	equal("25", s.Budget.Percentage, "budget percentage")
	equal("750", s.Budget.Remaining, "budget remaining")
	equal("2000", s.Income.Total, "income total")
	equal("250", s.Expenses.Total, "expense total")
	equal("930", s.Balance.Remaining, "balance remaining")
	equal("-141600", s.Balance.NetWorth, "net worth")

	suite.Assert().Equal(2, s.Expenses.Count)
	suite.Require().Len(s.Expenses.Categories, 2)
	suite.Assert().Equal("Housing", s.Expenses.Categories[0].Name)
	suite.Require().Len(s.Expenses.Recent, 2)
	suite.Assert().Equal("2025-06-03", s.Expenses.Recent[0].Date)
	suite.Assert().Equal(1, s.Loans.Count)
	suite.Assert().Equal(1, s.Savings.Count)
}

func (suite *TestSuiteStandard) TestDashboardSummaryMonth() {
	token := suite.register("anna@example.com")
	suite.createExpense(token, "75", "Food", "2025-05-28")

	s := suite.summary(token, "?month=2025-05").Data
	suite.Assert().Equal("2025-05", s.Month.String())
	suite.Assert().Equal(1, s.Expenses.Count)
	suite.Assert().True(s.Budget.Amount.IsZero())
	suite.Assert().True(s.Budget.Percentage.IsZero())

	// Other users' data is not included
	other := suite.register("bert@example.com")
	s = suite.summary(other, "?month=2025-05").Data
	suite.Assert().Equal(0, s.Expenses.Count)
	suite.Assert().Empty(s.Expenses.Categories)
}

func (suite *TestSuiteStandard) TestDashboardSummaryInvalidMonth() {
	token := suite.register("anna@example.com")

	r := suite.request(http.MethodGet, "/v1/dashboard/summary?month=2025-00", token, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestDashboardSummaryUnauthenticated() {
	r := suite.request(http.MethodGet, "/v1/dashboard/summary", "", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusUnauthorized)
}
