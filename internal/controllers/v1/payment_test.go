package v1_test

import (
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76/webhook"
	v1 "github.com/walleta/backend/internal/controllers/v1"
	"github.com/walleta/backend/internal/models"
	"github.com/walleta/backend/internal/subscription"
	"github.com/walleta/backend/internal/test"
)

func (suite *TestSuiteStandard) checkout(token string) subscription.CheckoutSession {
	r := suite.request(http.MethodPost, "/v1/payments/checkout", token, v1.CheckoutRequest{OriginURL: "https://app.walleta.example/"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var response v1.CheckoutResponse
	test.DecodeResponse(suite.T(), &r, &response)
	return response.Data
}

// notify sends a signed checkout notification to the webhook.
//
// Signatures are checked against the wall clock, not the suite clock.
func (suite *TestSuiteStandard) notify(body string, signedAt time.Time, secret string) subscription.NotificationResult {
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: []byte(body), Secret: secret, Timestamp: signedAt})

	r := test.Request(suite.T(), suite.router, http.MethodPost, "http://example.com/v1/webhook/stripe", body, map[string]string{"Stripe-Signature": signed.Header})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var result subscription.NotificationResult
	test.DecodeResponse(suite.T(), &r, &result)
	return result
}

func completedEvent(sessionID string, user models.User) string {
	return fmt.Sprintf(`{
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": %q,
			"status": "complete",
			"payment_status": "paid",
			"amount_total": 499,
			"currency": "eur",
			"metadata": {"user_id": %q, "user_email": %q, "product": "walleta_subscription"}
		}}
	}`, sessionID, user.ID.String(), user.Email)
}

func (suite *TestSuiteStandard) TestCheckout() {
	token := suite.register("anna@example.com")

	session := suite.checkout(token)
	suite.Assert().Equal("cs_test_1", session.SessionID)
	suite.Assert().Equal("https://checkout.example.com/cs_test_1", session.URL)

	var transaction models.PaymentTransaction
	suite.Require().Nil(suite.db.First(&transaction, "session_id = ?", "cs_test_1").Error)
	suite.Assert().Equal(suite.user("anna@example.com").ID, transaction.UserID)
	suite.Assert().Equal(models.PaymentStatusPending, transaction.Status)
	suite.Assert().Equal(models.PaymentStatusInitiated, transaction.PaymentStatus)
	suite.Assert().True(decimal.RequireFromString("4.99").Equal(transaction.Amount))
}

func (suite *TestSuiteStandard) TestCheckoutNoOrigin() {
	token := suite.register("anna@example.com")

	r := suite.request(http.MethodPost, "/v1/payments/checkout", token, v1.CheckoutRequest{})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestCheckoutGatewayDown() {
	token := suite.register("anna@example.com")
	suite.stripeURL = "http://127.0.0.1:1"
	suite.buildRouter()

	r := suite.request(http.MethodPost, "/v1/payments/checkout", token, v1.CheckoutRequest{OriginURL: "https://app.walleta.example"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadGateway)
}

func (suite *TestSuiteStandard) TestPaymentStatusUnpaid() {
	token := suite.register("anna@example.com")
	session := suite.checkout(token)

	r := suite.request(http.MethodGet, "/v1/payments/status/"+session.SessionID, token, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.PaymentStatusResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("unpaid", response.Data.PaymentStatus)
	suite.Assert().False(response.Data.AlreadyProcessed)
	suite.Assert().False(suite.user("anna@example.com").SubscriptionActive)
}

func (suite *TestSuiteStandard) TestPaymentStatusPaid() {
	token := suite.register("anna@example.com")
	session := suite.checkout(token)
	suite.stripe.paymentStatus.Store("paid")

	r := suite.request(http.MethodGet, "/v1/payments/status/"+session.SessionID, token, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.PaymentStatusResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("paid", response.Data.PaymentStatus)
	suite.Assert().Equal("complete", response.Data.Status)
	suite.Require().NotNil(response.Data.AmountTotal)
	suite.Assert().True(decimal.RequireFromString("4.99").Equal(*response.Data.AmountTotal))

	user := suite.user("anna@example.com")
	suite.Assert().True(user.SubscriptionActive)
	suite.Require().NotNil(user.SubscriptionEnd)
	suite.Assert().True(suite.now.Add(30*24*time.Hour).Equal(*user.SubscriptionEnd), "End is %s", user.SubscriptionEnd)

	// A second poll does not ask the gateway again
	calls := suite.stripe.statusCalls.Load()
	r = suite.request(http.MethodGet, "/v1/payments/status/"+session.SessionID, token, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().True(response.Data.AlreadyProcessed)
	suite.Assert().Equal(calls, suite.stripe.statusCalls.Load())
}

func (suite *TestSuiteStandard) TestPaymentStatusOtherUser() {
	token := suite.register("anna@example.com")
	session := suite.checkout(token)

	other := suite.register("bert@example.com")
	r := suite.request(http.MethodGet, "/v1/payments/status/"+session.SessionID, other, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	r = suite.request(http.MethodGet, "/v1/payments/status/cs_unknown", token, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestWebhookProcessed() {
	token := suite.register("anna@example.com")
	session := suite.checkout(token)
	user := suite.user("anna@example.com")

	result := suite.notify(completedEvent(session.SessionID, user), time.Now(), webhookSecret)
	suite.Assert().Equal(subscription.OutcomeProcessed, result.Outcome)
	suite.Assert().Equal(session.SessionID, result.SessionID)

	suite.Assert().True(suite.user("anna@example.com").SubscriptionActive)

	var transaction models.PaymentTransaction
	suite.Require().Nil(suite.db.First(&transaction, "session_id = ?", session.SessionID).Error)
	suite.Assert().True(transaction.Paid())

	// Redelivery is acknowledged without changes
	result = suite.notify(completedEvent(session.SessionID, user), time.Now(), webhookSecret)
	suite.Assert().Equal(subscription.OutcomeProcessed, result.Outcome)
}

func (suite *TestSuiteStandard) TestWebhookUnknownSession() {
	user := models.User{Email: "ghost@example.com"}

	result := suite.notify(completedEvent("cs_unknown", user), time.Now(), webhookSecret)
	suite.Assert().Equal(subscription.OutcomeIgnored, result.Outcome)
}

func (suite *TestSuiteStandard) TestWebhookRejected() {
	token := suite.register("anna@example.com")
	session := suite.checkout(token)
	user := suite.user("anna@example.com")
	body := completedEvent(session.SessionID, user)

	suite.Run("Wrong secret", func() {
		result := suite.notify(body, time.Now(), "whsec_wrong")
		suite.Assert().Equal(subscription.OutcomeRejected, result.Outcome)
	})

	suite.Run("Outdated timestamp", func() {
		result := suite.notify(body, time.Now().Add(-time.Hour), webhookSecret)
		suite.Assert().Equal(subscription.OutcomeRejected, result.Outcome)
	})

	suite.Run("No signature", func() {
		r := test.Request(suite.T(), suite.router, http.MethodPost, "http://example.com/v1/webhook/stripe", body)
		test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

		var result subscription.NotificationResult
		test.DecodeResponse(suite.T(), &r, &result)
		suite.Assert().Equal(subscription.OutcomeRejected, result.Outcome)
	})

	suite.Assert().False(suite.user("anna@example.com").SubscriptionActive, "Rejected notifications must not change anything")
}
