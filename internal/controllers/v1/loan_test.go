package v1_test

import (
	"net/http"

	"github.com/shopspring/decimal"
	v1 "github.com/walleta/backend/internal/controllers/v1"
	"github.com/walleta/backend/internal/models"
	"github.com/walleta/backend/internal/test"
)

func loanBody(name, loanType, remaining string) map[string]any {
	return map[string]any{
		"name":            name,
		"loanType":        loanType,
		"originalAmount":  "180000",
		"remainingAmount": remaining,
		"interestRate":    "3.85",
		"monthlyPayment":  "820",
		"startDate":       "2019-03-01",
	}
}

func (suite *TestSuiteStandard) createLoan(token string, body map[string]any) models.Loan {
	r := suite.request(http.MethodPost, "/v1/loans", token, body)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var response v1.LoanResponse
	test.DecodeResponse(suite.T(), &r, &response)
	return response.Data
}

func (suite *TestSuiteStandard) TestLoanCreate() {
	token := suite.register("anna@example.com")

	loan := suite.createLoan(token, loanBody(" Home loan ", "mortgage", "142000"))
	suite.Assert().Equal("Home loan", loan.Name)
	suite.Assert().Equal(models.LoanTypeMortgage, loan.LoanType)
	suite.Assert().True(decimal.RequireFromString("142000").Equal(loan.RemainingAmount))
	suite.Assert().Nil(loan.EndDate)
}

func (suite *TestSuiteStandard) TestLoanCreateInvalid() {
	token := suite.register("anna@example.com")

	negative := loanBody("Car", "auto", "-1")

	tests := []struct {
		name string
		body any
		err  error
	}{
		{"Invalid type", loanBody("Yacht", "yacht", "1000"), models.ErrLoanTypeInvalid},
		{"No type", loanBody("Car", "", "1000"), models.ErrLoanTypeInvalid},
		{"Negative amount", negative, models.ErrAmountNegative},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			r := suite.request(http.MethodPost, "/v1/loans", token, tt.body)
			test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
			suite.Assert().Equal(tt.err.Error(), test.DecodeError(suite.T(), r.Body.Bytes()))
		})
	}
}

func (suite *TestSuiteStandard) TestLoanList() {
	token := suite.register("anna@example.com")
	suite.createLoan(token, loanBody("Home loan", "mortgage", "142000"))
	suite.createLoan(token, loanBody("Car", "auto", "8000"))

	other := suite.register("bert@example.com")
	suite.createLoan(other, loanBody("Studies", "student", "12000"))

	r := suite.request(http.MethodGet, "/v1/loans", token, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.LoanListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().Len(response.Data, 2)
	suite.Assert().Equal("Home loan", response.Data[0].Name)
	suite.Assert().Equal("Car", response.Data[1].Name)
}

func (suite *TestSuiteStandard) TestLoanUpdate() {
	token := suite.register("anna@example.com")
	loan := suite.createLoan(token, loanBody("Home loan", "mortgage", "142000"))
	path := "/v1/loans/" + loan.ID.String()

	update := loanBody("Home loan", "mortgage", "141180")
	update["endDate"] = "2044-03-01"

	r := suite.request(http.MethodPut, path, token, update)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.LoanResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal(loan.ID, response.Data.ID)
	suite.Assert().Equal(loan.UserID, response.Data.UserID)
	suite.Assert().True(decimal.RequireFromString("141180").Equal(response.Data.RemainingAmount))
	suite.Require().NotNil(response.Data.EndDate)
	suite.Assert().Equal("2044-03-01", *response.Data.EndDate)

	// All editable fields are replaced
	r = suite.request(http.MethodPut, path, token, map[string]any{"name": "Renamed", "loanType": "consumer"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	r = suite.request(http.MethodGet, path, token, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("Renamed", response.Data.Name)
	suite.Assert().True(response.Data.RemainingAmount.IsZero())
	suite.Assert().Nil(response.Data.EndDate)
}

func (suite *TestSuiteStandard) TestLoanUpdateInvalid() {
	token := suite.register("anna@example.com")
	loan := suite.createLoan(token, loanBody("Home loan", "mortgage", "142000"))
	path := "/v1/loans/" + loan.ID.String()

	r := suite.request(http.MethodPut, path, token, loanBody("Home loan", "boat", "1"))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	other := suite.register("bert@example.com")
	r = suite.request(http.MethodPut, path, other, loanBody("Stolen", "mortgage", "1"))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	r = suite.request(http.MethodGet, path, token, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.LoanResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("Home loan", response.Data.Name)
	suite.Assert().Equal(models.LoanTypeMortgage, response.Data.LoanType)
}

func (suite *TestSuiteStandard) TestLoanDelete() {
	token := suite.register("anna@example.com")
	loan := suite.createLoan(token, loanBody("Car", "auto", "8000"))
	path := "/v1/loans/" + loan.ID.String()

	r := suite.request(http.MethodDelete, path, token, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = suite.request(http.MethodGet, path, token, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
