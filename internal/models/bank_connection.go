package models

import (
	"github.com/walleta/backend/internal/uuid"
	"golang.org/x/exp/slices"
	"gorm.io/datatypes"
)

// ConnectionStatusCreated is the initial status of a requisition at the aggregator.
const ConnectionStatusCreated = "CR"

// BankConnection is the authorization of a user to read the accounts
// of one institution through the bank data aggregator.
type BankConnection struct {
	OwnedModel
	RequisitionID string                      `json:"requisitionId" gorm:"index" example:"8126e9fb-93c9-4228-937c-68f0383c2df7"`
	InstitutionID string                      `json:"institutionId" example:"NORDEA_NDEAFIHH"`
	AgreementID   string                      `json:"agreementId" example:"2dea1b84-97b0-4cb4-8805-302c227587c8"`
	Reference     string                      `json:"reference" gorm:"uniqueIndex:bank_connection_reference" example:"1e777d24-3f5b-4c43-8000-04f65f895578-b3c3b2a4"`
	Status        string                      `json:"status" example:"LN"` // Requisition status, e.g. CR (created), LN (linked), EX (expired)
	Link          string                      `json:"link" example:"https://ob.gocardless.com/psd2/start/..."`
	AccountIDs    datatypes.JSONSlice[string] `json:"accountIds" swaggertype:"array,string"`
}

// HasAccount reports if the account is linked through this connection.
func (b BankConnection) HasAccount(accountID string) bool {
	return slices.Contains(b.AccountIDs, accountID)
}

// ImportedTransaction marks a bank transaction as already materialized
// as an expense or income for a user.
type ImportedTransaction struct {
	DefaultModel
	UserID     uuid.UUID `json:"userId" gorm:"uniqueIndex:imported_transaction_external"`
	ExternalID string    `json:"externalId" gorm:"uniqueIndex:imported_transaction_external"` // Transaction ID at the aggregator
	AccountID  string    `json:"accountId" gorm:"index"`
	RecordKind string    `json:"recordKind" example:"expense"` // "expense" or "income"
	RecordID   uuid.UUID `json:"recordId"`
}
