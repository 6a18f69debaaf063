package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusInitiated = "initiated"
	PaymentStatusPaid      = "paid"
)

// PaymentTransaction records a hosted checkout session. Transactions are never deleted.
type PaymentTransaction struct {
	OwnedModel
	SessionID     string            `json:"sessionId" gorm:"uniqueIndex:payment_session" example:"cs_test_a1b2c3"` // Checkout session ID of the provider
	Amount        decimal.Decimal   `json:"amount" gorm:"type:DECIMAL(20,8)" example:"4.99"`
	Currency      string            `json:"currency" example:"eur"`
	Status        string            `json:"status" example:"pending"`          // Session status as reported by the provider
	PaymentStatus string            `json:"paymentStatus" example:"initiated"` // Payment status as reported by the provider
	Metadata      datatypes.JSONMap `json:"metadata" swaggertype:"object"`
}

// Paid reports if the payment has been completed.
func (p PaymentTransaction) Paid() bool {
	return p.PaymentStatus == PaymentStatusPaid
}
