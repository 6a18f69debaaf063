// Package checkout talks to the hosted checkout provider.
package checkout

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/walleta/backend/internal/models"
)

// ErrInvalidSignature is returned for notifications that fail verification.
var ErrInvalidSignature = fmt.Errorf("%w: the notification signature is invalid", models.ErrValidation)

// SessionRequest describes a checkout session for a single product.
type SessionRequest struct {
	ProductName string
	Amount      decimal.Decimal
	Currency    string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

// Session is a created checkout session.
type Session struct {
	ID  string
	URL string
}

// Status is the state of a checkout session at the provider.
type Status struct {
	SessionID     string
	Status        string
	PaymentStatus string
	AmountTotal   decimal.Decimal
	Currency      string
	Metadata      map[string]string
}

// Notification is a verified asynchronous event sent by the provider.
type Notification struct {
	EventType     string
	SessionID     string
	Status        string
	PaymentStatus string
	Metadata      map[string]string
}

// Gateway is a hosted checkout provider.
type Gateway interface {
	CreateSession(ctx context.Context, req SessionRequest) (Session, error)
	SessionStatus(ctx context.Context, sessionID string) (Status, error)

	// VerifyNotification checks the signature of a raw notification body
	// and parses it. It returns ErrInvalidSignature when the signature
	// does not match.
	VerifyNotification(body []byte, signature string) (Notification, error)
}
