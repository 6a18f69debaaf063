// Package bankdata is a client for the GoCardless Bank Account Data API.
package bankdata

import (
	"context"

	"github.com/shopspring/decimal"
)

// Scopes are the access scopes requested for every agreement.
var Scopes = []string{"balances", "details", "transactions"}

type Institution struct {
	ID                   string   `json:"id" example:"NORDEA_NDEAFIHH"`
	Name                 string   `json:"name" example:"Nordea"`
	BIC                  string   `json:"bic" example:"NDEAFIHH"`
	TransactionTotalDays string   `json:"transactionTotalDays" example:"730"` // Days of transaction history the institution provides
	Countries            []string `json:"countries" example:"FI"`
	Logo                 string   `json:"logo" example:"https://cdn.nordigen.com/ais/NORDEA_NDEAFIHH.png"`
}

type AgreementRequest struct {
	InstitutionID      string
	MaxHistoricalDays  int
	AccessValidForDays int
	AccessScope        []string
}

type Agreement struct {
	ID string
}

type RequisitionRequest struct {
	Redirect      string
	InstitutionID string
	Reference     string
	AgreementID   string
}

type Requisition struct {
	ID        string
	Status    string
	Link      string
	Reference string
	Accounts  []string
}

type AccountDetails struct {
	IBAN      string `json:"iban" example:"FI2112345600000785"`
	Name      string `json:"name" example:"Main account"`
	OwnerName string `json:"ownerName" example:"Anna Virtanen"`
	Currency  string `json:"currency" example:"EUR"`
	Product   string `json:"product" example:"Current account"`
}

type Balance struct {
	Amount   decimal.Decimal
	Currency string
	Type     string
}

// Transaction is a booked transaction of an account.
type Transaction struct {
	TransactionID         string
	InternalTransactionID string
	BookingDate           string
	Amount                decimal.Decimal
	Currency              string
	RemittanceInformation string
	CreditorName          string
	DebtorName            string
}

// Gateway is an open banking account data provider.
type Gateway interface {
	Institutions(ctx context.Context, country string) ([]Institution, error)
	CreateAgreement(ctx context.Context, req AgreementRequest) (Agreement, error)
	CreateRequisition(ctx context.Context, req RequisitionRequest) (Requisition, error)
	Requisition(ctx context.Context, id string) (Requisition, error)
	AccountDetails(ctx context.Context, accountID string) (AccountDetails, error)
	AccountBalances(ctx context.Context, accountID string) ([]Balance, error)
	Transactions(ctx context.Context, accountID string) ([]Transaction, error)
}
