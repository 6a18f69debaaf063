package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
	"github.com/walleta/backend/internal/config"
	"github.com/walleta/backend/internal/models"
)

// SignatureTolerance is the maximum age of a notification.
const SignatureTolerance = 5 * time.Minute

// Stripe is a Gateway for Stripe Checkout.
type Stripe struct {
	sessions      session.Client
	webhookSecret string
}

// NewStripe initializes a new Stripe client
//
// Every client has its own backend so that the API URL and timeout
// do not leak into the package level defaults of stripe-go.
func NewStripe(cfg config.Stripe, timeout time.Duration) *Stripe {
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(cfg.APIURL),
		HTTPClient:        &http.Client{Timeout: timeout},
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     stripeLogger{},
	})

	return &Stripe{
		sessions:      session.Client{B: backend, Key: cfg.APIKey},
		webhookSecret: cfg.WebhookSecret,
	}
}

func (s *Stripe) CreateSession(ctx context.Context, req SessionRequest) (Session, error) {
	if s.sessions.Key == "" {
		return Session{}, fmt.Errorf("%w: STRIPE_API_KEY is not set", models.ErrConfiguration)
	}

	params := &stripe.CheckoutSessionParams{
		Params:     stripe.Params{Context: ctx},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(req.Currency)),
					UnitAmount: stripe.Int64(req.Amount.Shift(2).Round(0).IntPart()),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.ProductName),
					},
				},
			},
		},
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	cs, err := s.sessions.New(params)
	if err != nil {
		return Session{}, integrationError("create checkout session", err)
	}

	if cs.ID == "" || cs.URL == "" {
		return Session{}, fmt.Errorf("%w: stripe returned a checkout session without id or url", models.ErrIntegration)
	}

	return Session{ID: cs.ID, URL: cs.URL}, nil
}

func (s *Stripe) SessionStatus(ctx context.Context, sessionID string) (Status, error) {
	if s.sessions.Key == "" {
		return Status{}, fmt.Errorf("%w: STRIPE_API_KEY is not set", models.ErrConfiguration)
	}

	cs, err := s.sessions.Get(sessionID, &stripe.CheckoutSessionParams{Params: stripe.Params{Context: ctx}})
	if err != nil {
		return Status{}, integrationError("get checkout session", err)
	}

	return Status{
		SessionID:     cs.ID,
		Status:        string(cs.Status),
		PaymentStatus: string(cs.PaymentStatus),
		AmountTotal:   decimal.New(cs.AmountTotal, -2),
		Currency:      string(cs.Currency),
		Metadata:      cs.Metadata,
	}, nil
}

// VerifyNotification verifies the Stripe-Signature header of a webhook
// and parses the checkout session it carries.
func (s *Stripe) VerifyNotification(body []byte, signature string) (Notification, error) {
	if s.webhookSecret == "" {
		return Notification{}, fmt.Errorf("%w: STRIPE_WEBHOOK_SECRET is not set", models.ErrConfiguration)
	}

	// Webhook endpoints are pinned to the API version of the account,
	// which need not be the one stripe-go is generated for.
	event, err := webhook.ConstructEventWithOptions(body, signature, s.webhookSecret, webhook.ConstructEventOptions{
		Tolerance:                SignatureTolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		if isSignatureError(err) {
			return Notification{}, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
		}
		return Notification{}, fmt.Errorf("%w: the notification body is not valid JSON", models.ErrValidation)
	}

	var cs stripe.CheckoutSession
	if event.Data != nil && len(event.Data.Raw) > 0 {
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			return Notification{}, fmt.Errorf("%w: the notification does not contain a checkout session", models.ErrValidation)
		}
	}

	return Notification{
		EventType:     string(event.Type),
		SessionID:     cs.ID,
		Status:        string(cs.Status),
		PaymentStatus: string(cs.PaymentStatus),
		Metadata:      cs.Metadata,
	}, nil
}

func isSignatureError(err error) bool {
	return errors.Is(err, webhook.ErrNotSigned) ||
		errors.Is(err, webhook.ErrInvalidHeader) ||
		errors.Is(err, webhook.ErrNoValidSignature) ||
		errors.Is(err, webhook.ErrTooOld)
}

// integrationError wraps errors of the Stripe API so that they map to
// models.ErrIntegration.
func integrationError(action string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		log.Error().Str("component", "stripe").Str("action", action).Int("status", stripeErr.HTTPStatusCode).Str("type", string(stripeErr.Type)).Str("request", stripeErr.RequestID).Msg(stripeErr.Msg)
		return fmt.Errorf("%w: stripe answered %d: %s", models.ErrIntegration, stripeErr.HTTPStatusCode, stripeErr.Msg)
	}

	return fmt.Errorf("%w: stripe request failed: %w", models.ErrIntegration, err)
}

// stripeLogger sends the log output of stripe-go to zerolog.
type stripeLogger struct{}

func (stripeLogger) Debugf(format string, v ...interface{}) {
	log.Debug().Str("component", "stripe").Msgf(format, v...)
}

func (stripeLogger) Infof(format string, v ...interface{}) {
	log.Debug().Str("component", "stripe").Msgf(format, v...)
}

func (stripeLogger) Warnf(format string, v ...interface{}) {
	log.Warn().Str("component", "stripe").Msgf(format, v...)
}

func (stripeLogger) Errorf(format string, v ...interface{}) {
	log.Error().Str("component", "stripe").Msgf(format, v...)
}
