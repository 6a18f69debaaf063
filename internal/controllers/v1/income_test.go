package v1_test

import (
	"net/http"

	v1 "github.com/walleta/backend/internal/controllers/v1"
	"github.com/walleta/backend/internal/models"
	"github.com/walleta/backend/internal/test"
)

func (suite *TestSuiteStandard) createIncome(token, amount, source, date string, recurring bool) models.Income {
	r := suite.request(http.MethodPost, "/v1/incomes", token, map[string]any{
		"amount":      amount,
		"description": "Test income",
		"source":      source,
		"date":        date,
		"recurring":   recurring,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var response v1.IncomeResponse
	test.DecodeResponse(suite.T(), &r, &response)
	return response.Data
}

func (suite *TestSuiteStandard) TestIncomeCreate() {
	token := suite.register("anna@example.com")

	income := suite.createIncome(token, "3200", "salary", "2025-06-01", true)
	suite.Assert().Equal(models.IncomeSourceSalary, income.Source)
	suite.Assert().True(income.Recurring)
	suite.Assert().Equal("2025-06-01", income.Date)
}

func (suite *TestSuiteStandard) TestIncomeCreateDefaultSource() {
	token := suite.register("anna@example.com")

	income := suite.createIncome(token, "50", "", "2025-06-01", false)
	suite.Assert().Equal(models.IncomeSourceOther, income.Source)
}

func (suite *TestSuiteStandard) TestIncomeCreateInvalid() {
	token := suite.register("anna@example.com")

	tests := []struct {
		name string
		body any
		err  error
	}{
		{"Invalid source", map[string]any{"amount": "10", "source": "lottery", "date": "2025-06-01"}, models.ErrIncomeSourceInvalid},
		{"Negative amount", map[string]any{"amount": "-10", "source": "salary", "date": "2025-06-01"}, models.ErrAmountNegative},
		{"No date", map[string]any{"amount": "10", "source": "salary"}, models.ErrDateMissing},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			r := suite.request(http.MethodPost, "/v1/incomes", token, tt.body)
			test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
			suite.Assert().Equal(tt.err.Error(), test.DecodeError(suite.T(), r.Body.Bytes()))
		})
	}
}

func (suite *TestSuiteStandard) TestIncomeList() {
	token := suite.register("anna@example.com")
	suite.createIncome(token, "3200", "salary", "2025-06-01", true)
	suite.createIncome(token, "400", "freelance", "2025-06-12", false)
	suite.createIncome(token, "3200", "salary", "2025-05-01", true)

	r := suite.request(http.MethodGet, "/v1/incomes?month=2025-06", token, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.IncomeListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().Len(response.Data, 2)
	suite.Assert().Equal("2025-06-12", response.Data[0].Date)
	suite.Assert().Equal("2025-06-01", response.Data[1].Date)

	r = suite.request(http.MethodGet, "/v1/incomes", token, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Len(response.Data, 3)
}

func (suite *TestSuiteStandard) TestIncomeGetAndDelete() {
	token := suite.register("anna@example.com")
	income := suite.createIncome(token, "3200", "salary", "2025-06-01", true)
	path := "/v1/incomes/" + income.ID.String()

	other := suite.register("bert@example.com")
	r := suite.request(http.MethodGet, path, other, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	r = suite.request(http.MethodGet, path, token, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	r = suite.request(http.MethodDelete, path, token, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = suite.request(http.MethodGet, path, token, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
