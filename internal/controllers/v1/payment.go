package v1

import (
	"io"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/walleta/backend/internal/auth"
	"github.com/walleta/backend/internal/httputil"
	"github.com/walleta/backend/internal/subscription"
)

// RegisterPaymentRoutes registers the routes for the subscription checkout
// with the RouterGroup that is passed.
func (co Controller) RegisterPaymentRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/checkout", OptionsPaymentCheckout)
	r.OPTIONS("/status/:sessionId", OptionsPaymentStatus)

	a := co.authenticated(r)
	{
		a.POST("/checkout", co.CreateCheckout)
		a.GET("/status/:sessionId", co.GetPaymentStatus)
	}
}

// RegisterWebhookRoutes registers the routes for notifications of the
// checkout provider. They do not require authentication.
func (co Controller) RegisterWebhookRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/stripe", OptionsWebhook)
	r.POST("/stripe", co.StripeWebhook)
}

type CheckoutRequest struct {
	OriginURL string `json:"originUrl" example:"https://app.walleta.example"` // Base URL of the frontend the user returns to
}

type CheckoutResponse struct {
	Data subscription.CheckoutSession `json:"data"`
}

type PaymentStatusResponse struct {
	Data subscription.PaymentStatus `json:"data"`
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Payments
// @Success		204
// @Router			/v1/payments/checkout [options]
func OptionsPaymentCheckout(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Payments
// @Success		204
// @Param			sessionId	path	string	true	"Checkout session ID"
// @Router			/v1/payments/status/{sessionId} [options]
func OptionsPaymentStatus(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Payments
// @Success		204
// @Router			/v1/webhook/stripe [options]
func OptionsWebhook(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Start checkout
// @Description	Creates a hosted checkout session for the subscription. The user has to be sent to the returned URL.
// @Tags			Payments
// @Accept			json
// @Produce		json
// @Success		201			{object}	CheckoutResponse
// @Failure		400			{object}	httputil.HTTPError
// @Failure		401			{object}	httputil.HTTPError
// @Failure		500			{object}	httputil.HTTPError
// @Failure		502			{object}	httputil.HTTPError
// @Param			checkout	body		CheckoutRequest	true	"Checkout"
// @Router			/v1/payments/checkout [post]
func (co Controller) CreateCheckout(c *gin.Context) {
	var req CheckoutRequest
	if err := httputil.BindData(c, &req); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	session, err := co.Subscriptions.CreateCheckout(c.Request.Context(), auth.CurrentUser(c), req.OriginURL)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusCreated, CheckoutResponse{Data: session})
}

// @Summary		Get payment status
// @Description	Reconciles a checkout session with the provider and activates the subscription once it is paid
// @Tags			Payments
// @Produce		json
// @Success		200			{object}	PaymentStatusResponse
// @Failure		401			{object}	httputil.HTTPError
// @Failure		404			{object}	httputil.HTTPError
// @Failure		502			{object}	httputil.HTTPError
// @Param			sessionId	path		string	true	"Checkout session ID"
// @Router			/v1/payments/status/{sessionId} [get]
func (co Controller) GetPaymentStatus(c *gin.Context) {
	status, err := co.Subscriptions.PollStatus(c.Request.Context(), auth.CurrentUser(c), c.Param("sessionId"))
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, PaymentStatusResponse{Data: status})
}

// @Summary		Checkout notification
// @Description	Receives notifications of the checkout provider. The response is always 200 so that the provider does not retry.
// @Tags			Payments
// @Accept			json
// @Produce		json
// @Success		200					{object}	subscription.NotificationResult
// @Param			Stripe-Signature	header		string	true	"Signature of the notification"
// @Router			/v1/webhook/stripe [post]
func (co Controller) StripeWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Error().Str("request-id", requestid.Get(c)).Err(err).Msg("Could not read notification body")
		notifications.WithLabelValues(string(subscription.OutcomeFailed)).Inc()
		c.JSON(http.StatusOK, subscription.NotificationResult{Outcome: subscription.OutcomeFailed})
		return
	}

	result := co.Subscriptions.HandleNotification(c.Request.Context(), body, c.GetHeader("Stripe-Signature"))
	notifications.WithLabelValues(string(result.Outcome)).Inc()

	switch result.Outcome {
	case subscription.OutcomeRejected:
		log.Warn().Str("request-id", requestid.Get(c)).Err(result.Err).Msg("Notification rejected")
	case subscription.OutcomeFailed:
		log.Error().Str("request-id", requestid.Get(c)).Str("session", result.SessionID).Err(result.Err).Msg("Notification could not be applied")
	default:
		log.Debug().Str("request-id", requestid.Get(c)).Str("session", result.SessionID).Str("outcome", string(result.Outcome)).Msg("Notification")
	}

	c.JSON(http.StatusOK, result)
}
