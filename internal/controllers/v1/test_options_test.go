package v1_test

import (
	"net/http"
	"testing"

	"github.com/walleta/backend/internal/test"
)

func (suite *TestSuiteStandard) TestOptionsHeaders() {
	tests := []struct {
		path     string
		response string
	}{
		{"/v1/auth/register", "OPTIONS, POST"},
		{"/v1/auth/login", "OPTIONS, POST"},
		{"/v1/auth/me", "OPTIONS, GET"},
		{"/v1/budgets", "OPTIONS, GET, POST"},
		{"/v1/budgets/current", "OPTIONS, GET"},
		{"/v1/budgets/65392deb-5e92-4268-b114-297faad6cdce", "OPTIONS, GET, DELETE"},
		{"/v1/expenses", "OPTIONS, GET, POST"},
		{"/v1/expenses/65392deb-5e92-4268-b114-297faad6cdce", "OPTIONS, GET, DELETE"},
		{"/v1/incomes", "OPTIONS, GET, POST"},
		{"/v1/incomes/65392deb-5e92-4268-b114-297faad6cdce", "OPTIONS, GET, DELETE"},
		{"/v1/loans", "OPTIONS, GET, POST"},
		{"/v1/loans/65392deb-5e92-4268-b114-297faad6cdce", "OPTIONS, GET, PUT, DELETE"},
		{"/v1/savings", "OPTIONS, GET, POST"},
		{"/v1/savings/65392deb-5e92-4268-b114-297faad6cdce", "OPTIONS, GET, PUT, DELETE"},
		{"/v1/categories", "OPTIONS, GET"},
		{"/v1/dashboard/summary", "OPTIONS, GET"},
		{"/v1/payments/checkout", "OPTIONS, POST"},
		{"/v1/payments/status/cs_test_1", "OPTIONS, GET"},
		{"/v1/webhook/stripe", "OPTIONS, POST"},
		{"/v1/banks/institutions", "OPTIONS, GET"},
		{"/v1/banks/connections", "OPTIONS, GET"},
		{"/v1/banks/connect", "OPTIONS, POST"},
		{"/v1/banks/connections/65392deb-5e92-4268-b114-297faad6cdce/accounts", "OPTIONS, GET"},
		{"/v1/banks/accounts/acc-1/import", "OPTIONS, POST"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.path, func(t *testing.T) {
			r := test.Request(t, suite.router, http.MethodOptions, "http://example.com"+tt.path, nil)
			test.AssertHTTPStatus(t, &r, http.StatusNoContent)
			suite.Assert().Equal(tt.response, r.Header().Get("allow"))
		})
	}
}
