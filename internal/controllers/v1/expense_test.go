package v1_test

import (
	"net/http"

	"github.com/shopspring/decimal"
	v1 "github.com/walleta/backend/internal/controllers/v1"
	"github.com/walleta/backend/internal/models"
	"github.com/walleta/backend/internal/test"
)

func (suite *TestSuiteStandard) createExpense(token, amount, category, date string) models.Expense {
	r := suite.request(http.MethodPost, "/v1/expenses", token, map[string]any{
		"amount":      amount,
		"description": "Test expense",
		"category":    category,
		"date":        date,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var response v1.ExpenseResponse
	test.DecodeResponse(suite.T(), &r, &response)
	return response.Data
}

func (suite *TestSuiteStandard) TestExpenseCreate() {
	token := suite.register("anna@example.com")

	expense := suite.createExpense(token, "-42.50", " Food ", "2025-06-14")
	suite.Assert().True(decimal.RequireFromString("42.5").Equal(expense.Amount), "Amounts are stored as absolute value, got %s", expense.Amount)
	suite.Assert().Equal("Food", expense.Category)
	suite.Assert().Equal(suite.user("anna@example.com").ID, expense.UserID)
	suite.Assert().False(expense.Imported)
}

func (suite *TestSuiteStandard) TestExpenseCreateDefaultCategory() {
	token := suite.register("anna@example.com")

	expense := suite.createExpense(token, "5", "", "2025-06-14")
	suite.Assert().Equal(models.DefaultCategory, expense.Category)
}

func (suite *TestSuiteStandard) TestExpenseCreateInvalid() {
	token := suite.register("anna@example.com")

	tests := []struct {
		name string
		body any
	}{
		{"No date", map[string]any{"amount": "10", "category": "Food"}},
		{"Amount is not a number", map[string]any{"amount": "ten", "date": "2025-06-14"}},
		{"Amount is an object", map[string]any{"amount": map[string]any{}, "date": "2025-06-14"}},
		{"No body", nil},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			r := suite.request(http.MethodPost, "/v1/expenses", token, tt.body)
			test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
		})
	}
}

func (suite *TestSuiteStandard) TestExpenseList() {
	token := suite.register("anna@example.com")
	suite.createExpense(token, "10", "Food", "2025-05-31")
	suite.createExpense(token, "20", "Food", "2025-06-01")
	suite.createExpense(token, "30", "Health", "2025-06-20")

	other := suite.register("bert@example.com")
	suite.createExpense(other, "99", "Food", "2025-06-10")

	tests := []struct {
		name  string
		query string
		dates []string
	}{
		{"All", "", []string{"2025-06-20", "2025-06-01", "2025-05-31"}},
		{"June", "?month=2025-06", []string{"2025-06-20", "2025-06-01"}},
		{"May", "?month=2025-05", []string{"2025-05-31"}},
		{"No expenses", "?month=2024-01", []string{}},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			r := suite.request(http.MethodGet, "/v1/expenses"+tt.query, token, nil)
			test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

			var response v1.ExpenseListResponse
			test.DecodeResponse(suite.T(), &r, &response)

			dates := make([]string, 0, len(response.Data))
			for _, e := range response.Data {
				dates = append(dates, e.Date)
			}
			suite.Assert().Equal(tt.dates, dates)
		})
	}
}

func (suite *TestSuiteStandard) TestExpenseListInvalidMonth() {
	token := suite.register("anna@example.com")

	for _, month := range []string{"2025-13", "June", "2025-6-1"} {
		r := suite.request(http.MethodGet, "/v1/expenses?month="+month, token, nil)
		test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	}
}

func (suite *TestSuiteStandard) TestExpenseGetAndDelete() {
	token := suite.register("anna@example.com")
	expense := suite.createExpense(token, "10", "Food", "2025-06-14")
	path := "/v1/expenses/" + expense.ID.String()

	r := suite.request(http.MethodGet, path, token, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ExpenseResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal(expense.ID, response.Data.ID)

	other := suite.register("bert@example.com")
	r = suite.request(http.MethodDelete, path, other, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	r = suite.request(http.MethodDelete, path, token, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = suite.request(http.MethodGet, path, token, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestExpenseInvalidID() {
	token := suite.register("anna@example.com")

	r := suite.request(http.MethodGet, "/v1/expenses/definitely-not-a-uuid", token, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}
