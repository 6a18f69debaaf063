// Package subscription sells the paid subscription through the checkout
// gateway and keeps the subscription state of users in sync with it.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/walleta/backend/internal/checkout"
	"github.com/walleta/backend/internal/models"
	"github.com/walleta/backend/internal/notify"
	"github.com/walleta/backend/internal/uuid"
	"gorm.io/gorm"
)

// Product is the product name sent to the checkout gateway.
const Product = "walleta_subscription"

// Lifecycle creates checkout sessions, reconciles their status and
// activates subscriptions.
type Lifecycle struct {
	DB       *gorm.DB
	Gateway  checkout.Gateway
	Notifier notify.Notifier
	Price    decimal.Decimal
	Currency string
	Period   time.Duration
	Now      func() time.Time
}

// CheckoutSession is the result of CreateCheckout.
type CheckoutSession struct {
	URL       string `json:"url" example:"https://checkout.stripe.com/c/pay/cs_test_a1b2c3"` // URL of the hosted checkout page
	SessionID string `json:"sessionId" example:"cs_test_a1b2c3"`
}

// PaymentStatus is the result of PollStatus.
type PaymentStatus struct {
	Status           string           `json:"status" example:"complete"`
	PaymentStatus    string           `json:"paymentStatus" example:"paid"`
	AmountTotal      *decimal.Decimal `json:"amountTotal,omitempty" example:"4.99"`
	Currency         string           `json:"currency,omitempty" example:"eur"`
	AlreadyProcessed bool             `json:"alreadyProcessed"` // The payment was processed before, nothing has been changed
}

// CreateCheckout requests a checkout session for the subscription and
// records it as a pending payment transaction.
//
// originURL is the base URL the user is sent back to after the checkout.
func (l *Lifecycle) CreateCheckout(ctx context.Context, user models.User, originURL string) (CheckoutSession, error) {
	origin := strings.TrimSuffix(originURL, "/")
	if origin == "" {
		return CheckoutSession{}, fmt.Errorf("%w: originUrl must be set", models.ErrValidation)
	}

	metadata := map[string]string{
		"user_id":    user.ID.String(),
		"user_email": user.Email,
		"product":    Product,
	}

	session, err := l.Gateway.CreateSession(ctx, checkout.SessionRequest{
		ProductName: Product,
		Amount:      l.Price,
		Currency:    l.Currency,
		SuccessURL:  origin + "/payment/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   origin + "/payment/cancel",
		Metadata:    metadata,
	})
	if err != nil {
		return CheckoutSession{}, err
	}

	stored := make(map[string]any, len(metadata))
	for k, v := range metadata {
		stored[k] = v
	}

	transaction := models.PaymentTransaction{
		OwnedModel:    models.OwnedModel{UserID: user.ID},
		SessionID:     session.ID,
		Amount:        l.Price,
		Currency:      l.Currency,
		Status:        models.PaymentStatusPending,
		PaymentStatus: models.PaymentStatusInitiated,
		Metadata:      stored,
	}

	err = l.DB.WithContext(ctx).Create(&transaction).Error
	if err != nil {
		return CheckoutSession{}, err
	}

	log.Info().Str("component", "subscription").Str("user", user.ID.String()).Str("session", session.ID).Msg("Checkout session created")
	return CheckoutSession{URL: session.URL, SessionID: session.ID}, nil
}

// PollStatus reconciles a payment transaction of the user with the gateway
// and activates the subscription once it has been paid.
func (l *Lifecycle) PollStatus(ctx context.Context, user models.User, sessionID string) (PaymentStatus, error) {
	var transaction models.PaymentTransaction
	err := l.DB.WithContext(ctx).Where("session_id = ? AND user_id = ?", sessionID, user.ID).First(&transaction).Error
	if err != nil {
		return PaymentStatus{}, err
	}

	if transaction.Paid() {
		return PaymentStatus{
			Status:           transaction.Status,
			PaymentStatus:    transaction.PaymentStatus,
			AlreadyProcessed: true,
		}, nil
	}

	status, err := l.Gateway.SessionStatus(ctx, sessionID)
	if err != nil {
		return PaymentStatus{}, err
	}

	// Activate before the transaction is marked as paid so that a failed
	// activation is retried on the next poll
	if status.PaymentStatus == models.PaymentStatusPaid {
		if err := l.Activate(ctx, user.ID); err != nil {
			return PaymentStatus{}, err
		}
	}

	err = l.DB.WithContext(ctx).Model(&transaction).Updates(map[string]any{
		"status":         status.Status,
		"payment_status": status.PaymentStatus,
	}).Error
	if err != nil {
		return PaymentStatus{}, err
	}

	return PaymentStatus{
		Status:        status.Status,
		PaymentStatus: status.PaymentStatus,
		AmountTotal:   &status.AmountTotal,
		Currency:      status.Currency,
	}, nil
}

// Activate marks the subscription of the user as active until now plus the
// subscription period.
// The values are set, not incremented.
func (l *Lifecycle) Activate(ctx context.Context, userID uuid.UUID) error {
	var user models.User
	err := l.DB.WithContext(ctx).First(&user, "id = ?", userID).Error
	if err != nil {
		return err
	}

	end := l.Now().UTC().Add(l.Period)
	err = l.DB.WithContext(ctx).Model(&user).Updates(map[string]any{
		"subscription_active": true,
		"subscription_end":    end,
	}).Error
	if err != nil {
		return err
	}

	log.Info().Str("component", "subscription").Str("user", userID.String()).Time("end", end).Msg("Subscription activated")

	user.SubscriptionActive = true
	user.SubscriptionEnd = &end
	if l.Notifier != nil {
		if err := l.Notifier.SubscriptionActivated(user); err != nil {
			log.Warn().Str("component", "subscription").Str("user", userID.String()).Err(err).Msg("Could not send activation notification")
		}
	}

	return nil
}

// Outcome is the result class of processing a notification.
type Outcome string

const (
	OutcomeProcessed Outcome = "processed" // the transaction was updated
	OutcomeIgnored   Outcome = "ignored"   // the notification did not concern a known transaction
	OutcomeRejected  Outcome = "rejected"  // the notification failed verification
	OutcomeFailed    Outcome = "failed"    // the notification was valid but could not be applied
)

// NotificationResult describes what HandleNotification did.
type NotificationResult struct {
	Outcome   Outcome `json:"outcome" example:"processed"`
	SessionID string  `json:"sessionId,omitempty" example:"cs_test_a1b2c3"`
	Err       error   `json:"-"`
}

// HandleNotification verifies and applies an asynchronous notification of
// the checkout gateway. Nothing is written unless the signature is valid.
func (l *Lifecycle) HandleNotification(ctx context.Context, body []byte, signature string) NotificationResult {
	notification, err := l.Gateway.VerifyNotification(body, signature)
	if errors.Is(err, models.ErrValidation) {
		return NotificationResult{Outcome: OutcomeRejected, Err: err}
	} else if err != nil {
		return NotificationResult{Outcome: OutcomeFailed, Err: err}
	}

	result := NotificationResult{SessionID: notification.SessionID}
	if notification.SessionID == "" {
		result.Outcome = OutcomeIgnored
		return result
	}

	var transactions []models.PaymentTransaction
	err = l.DB.WithContext(ctx).Where("session_id = ?", notification.SessionID).Limit(1).Find(&transactions).Error
	if err != nil {
		result.Outcome, result.Err = OutcomeFailed, err
		return result
	}

	if len(transactions) == 0 {
		result.Outcome = OutcomeIgnored
		return result
	}
	transaction := transactions[0]

	if transaction.Paid() {
		result.Outcome = OutcomeProcessed
		return result
	}

	if notification.PaymentStatus == models.PaymentStatusPaid && notification.Metadata["user_id"] != "" {
		var userID uuid.UUID
		if err := userID.UnmarshalParam(notification.Metadata["user_id"]); err != nil {
			result.Outcome, result.Err = OutcomeFailed, err
			return result
		}

		if err := l.Activate(ctx, userID); err != nil {
			result.Outcome, result.Err = OutcomeFailed, err
			return result
		}
	}

	status := notification.Status
	if status == "" {
		status = notification.EventType
	}

	err = l.DB.WithContext(ctx).Model(&transaction).Updates(map[string]any{
		"status":         status,
		"payment_status": notification.PaymentStatus,
	}).Error
	if err != nil {
		result.Outcome, result.Err = OutcomeFailed, err
		return result
	}

	result.Outcome = OutcomeProcessed
	return result
}
