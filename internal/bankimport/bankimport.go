// Package bankimport connects users to their banks through the bank data
// gateway and imports booked bank transactions as expenses and incomes.
package bankimport

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/walleta/backend/internal/bankdata"
	"github.com/walleta/backend/internal/models"
	"github.com/walleta/backend/internal/uuid"
	"golang.org/x/exp/slices"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	HistoryDays         = 90
	ValidityDays        = 90
	DefaultCountry      = "FI"
	FallbackDescription = "Bank transaction"
)

var (
	ErrInstitutionMissing = fmt.Errorf("%w: institutionId must be set", models.ErrValidation)
	ErrRedirectMissing    = fmt.Errorf("%w: redirectUrl must be set", models.ErrValidation)
	ErrCountryInvalid     = fmt.Errorf("%w: country must be a two letter ISO 3166 code", models.ErrValidation)
)

// Importer manages bank connections and imports transactions.
type Importer struct {
	DB      *gorm.DB
	Gateway bankdata.Gateway
	Now     func() time.Time
}

// Connection is the result of Connect.
type Connection struct {
	ID            uuid.UUID `json:"id" example:"65392deb-5e92-4268-b114-297faad6cdce"` // ID of the stored bank connection
	RequisitionID string    `json:"requisitionId" example:"8126e9fb-93c9-4228-937c-68f0383c2df7"`
	Link          string    `json:"link" example:"https://ob.gocardless.com/psd2/start/..."` // Hosted page where the user authorizes the access
}

// Account is a linked bank account with its current balance.
type Account struct {
	ID string `json:"id" example:"3fa85f64-5717-4562-b3fc-2c963f66afa6"`
	bankdata.AccountDetails
	Balance         decimal.Decimal `json:"balance" example:"657.49"`
	BalanceCurrency string          `json:"balanceCurrency" example:"EUR"`
}

// Result summarizes an import run.
type Result struct {
	Imported int `json:"imported" example:"12"` // Number of created expenses and incomes
	Skipped  int `json:"skipped" example:"3"`   // Number of transactions that had been imported before
	Expenses int `json:"expenses" example:"10"`
	Incomes  int `json:"incomes" example:"2"`
}

// Institutions lists the banks available in a country.
func (i *Importer) Institutions(ctx context.Context, country string) ([]bankdata.Institution, error) {
	if country == "" {
		country = DefaultCountry
	}

	if len(country) != 2 {
		return nil, ErrCountryInvalid
	}

	return i.Gateway.Institutions(ctx, strings.ToUpper(country))
}

// Connect starts the authorization of a user for an institution. The user
// needs to open the returned link to complete it.
func (i *Importer) Connect(ctx context.Context, user models.User, institutionID, redirectURL string) (Connection, error) {
	if institutionID == "" {
		return Connection{}, ErrInstitutionMissing
	}

	if redirectURL == "" {
		return Connection{}, ErrRedirectMissing
	}

	agreement, err := i.Gateway.CreateAgreement(ctx, bankdata.AgreementRequest{
		InstitutionID:      institutionID,
		MaxHistoricalDays:  HistoryDays,
		AccessValidForDays: ValidityDays,
		AccessScope:        bankdata.Scopes,
	})
	if err != nil {
		return Connection{}, err
	}

	reference := fmt.Sprintf("%s-%s", user.ID, uuid.NewString()[:8])
	requisition, err := i.Gateway.CreateRequisition(ctx, bankdata.RequisitionRequest{
		Redirect:      redirectURL,
		InstitutionID: institutionID,
		Reference:     reference,
		AgreementID:   agreement.ID,
	})
	if err != nil {
		return Connection{}, err
	}

	status := requisition.Status
	if status == "" {
		status = models.ConnectionStatusCreated
	}

	connection := models.BankConnection{
		OwnedModel:    models.OwnedModel{UserID: user.ID},
		RequisitionID: requisition.ID,
		InstitutionID: institutionID,
		AgreementID:   agreement.ID,
		Reference:     reference,
		Status:        status,
		Link:          requisition.Link,
		AccountIDs:    requisition.Accounts,
	}

	err = i.DB.WithContext(ctx).Create(&connection).Error
	if err != nil {
		return Connection{}, err
	}

	log.Info().Str("component", "bankimport").Str("user", user.ID.String()).Str("institution", institutionID).Msg("Bank connection created")
	return Connection{ID: connection.ID, RequisitionID: requisition.ID, Link: requisition.Link}, nil
}

// Connections lists the bank connections of the user, newest first.
func (i *Importer) Connections(ctx context.Context, user models.User) ([]models.BankConnection, error) {
	var connections []models.BankConnection
	err := i.DB.WithContext(ctx).Where("user_id = ?", user.ID).Order("created_at DESC").Find(&connections).Error
	if err != nil {
		return nil, err
	}

	return connections, nil
}

// Accounts refreshes a connection from the gateway and returns its accounts
// with their balances. An account without a balance has a balance of zero.
func (i *Importer) Accounts(ctx context.Context, user models.User, connectionID uuid.UUID) ([]Account, error) {
	var connection models.BankConnection
	err := i.DB.WithContext(ctx).Where("id = ? AND user_id = ?", connectionID, user.ID).First(&connection).Error
	if err != nil {
		return nil, err
	}

	requisition, err := i.Gateway.Requisition(ctx, connection.RequisitionID)
	if err != nil {
		return nil, err
	}

	err = i.DB.WithContext(ctx).Model(&connection).Updates(map[string]any{
		"status":      requisition.Status,
		"account_ids": datatypes.JSONSlice[string](requisition.Accounts),
	}).Error
	if err != nil {
		return nil, err
	}

	accounts := make([]Account, 0, len(requisition.Accounts))
	for _, id := range requisition.Accounts {
		details, err := i.Gateway.AccountDetails(ctx, id)
		if err != nil {
			return nil, err
		}

		account := Account{ID: id, AccountDetails: details, Balance: decimal.Zero, BalanceCurrency: details.Currency}

		balances, err := i.Gateway.AccountBalances(ctx, id)
		if err != nil {
			log.Warn().Str("component", "bankimport").Str("account", id).Err(err).Msg("Could not retrieve balance, using zero")
		} else if len(balances) > 0 {
			account.Balance = balances[0].Amount
			account.BalanceCurrency = balances[0].Currency
		}

		accounts = append(accounts, account)
	}

	return accounts, nil
}

// ImportTransactions imports the booked transactions of an account of the
// user. Transactions that have been imported before are skipped.
//
// The marker for a transaction is written after its expense or income. If
// writing the marker fails, the record is imported again on the next run.
func (i *Importer) ImportTransactions(ctx context.Context, user models.User, accountID string) (Result, error) {
	connections, err := i.Connections(ctx, user)
	if err != nil {
		return Result{}, err
	}

	if !slices.ContainsFunc(connections, func(c models.BankConnection) bool { return c.HasAccount(accountID) }) {
		return Result{}, fmt.Errorf("%w account with ID %s", models.ErrResourceNotFound, accountID)
	}

	transactions, err := i.Gateway.Transactions(ctx, accountID)
	if err != nil {
		return Result{}, err
	}

	var result Result
	seen := make(map[string]int)
	for _, transaction := range transactions {
		base := Key(accountID, transaction, 0)
		key := Key(accountID, transaction, seen[base])
		seen[base]++

		var count int64
		err := i.DB.WithContext(ctx).Model(&models.ImportedTransaction{}).Where("user_id = ? AND external_id = ?", user.ID, key).Count(&count).Error
		if err != nil {
			return result, err
		}

		if count > 0 {
			result.Skipped++
			continue
		}

		marker := models.ImportedTransaction{
			UserID:     user.ID,
			ExternalID: key,
			AccountID:  accountID,
		}

		marker.RecordKind, marker.RecordID, err = i.materialize(ctx, user, transaction)
		if err != nil {
			return result, err
		}

		err = i.DB.WithContext(ctx).Create(&marker).Error
		if err != nil {
			return result, err
		}

		result.Imported++
		if marker.RecordKind == "expense" {
			result.Expenses++
		} else {
			result.Incomes++
		}
	}

	log.Info().Str("component", "bankimport").Str("user", user.ID.String()).Str("account", accountID).Int("imported", result.Imported).Int("skipped", result.Skipped).Msg("Transactions imported")
	return result, nil
}

// materialize creates the expense or income for a bank transaction.
func (i *Importer) materialize(ctx context.Context, user models.User, transaction bankdata.Transaction) (string, uuid.UUID, error) {
	date := transaction.BookingDate
	if date == "" {
		date = i.Now().UTC().Format(time.DateOnly)
	}

	owner := models.OwnedModel{UserID: user.ID}

	if transaction.Amount.IsNegative() {
		expense := models.Expense{
			OwnedModel: owner,
			ExpenseEditable: models.ExpenseEditable{
				Amount:      transaction.Amount.Abs(),
				Description: Description(transaction),
				Category:    models.DefaultCategory,
				Date:        date,
			},
			Imported: true,
		}

		err := i.DB.WithContext(ctx).Create(&expense).Error
		return "expense", expense.ID, err
	}

	income := models.Income{
		OwnedModel: owner,
		IncomeEditable: models.IncomeEditable{
			Amount:      transaction.Amount,
			Description: Description(transaction),
			Source:      models.IncomeSourceOther,
			Date:        date,
			Recurring:   false,
		},
		Imported: true,
	}

	err := i.DB.WithContext(ctx).Create(&income).Error
	return "income", income.ID, err
}

// Description returns the remittance information, creditor name or debtor
// name of the transaction, whichever is set first.
func Description(t bankdata.Transaction) string {
	for _, s := range []string{t.RemittanceInformation, t.CreditorName, t.DebtorName} {
		if strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}

	return FallbackDescription
}

// Key returns the key used to detect duplicate imports of a transaction.
//
// It is the transaction ID, then the internal transaction ID. Without
// either, the key is the SHA256 hash of the account and transaction values.
// occurrence counts the identical transactions before this one in the same
// batch, so that two genuine equal transactions on the same day get
// different keys. It is ignored when the transaction has an ID.
func Key(accountID string, t bankdata.Transaction, occurrence int) string {
	if t.TransactionID != "" {
		return t.TransactionID
	}

	if t.InternalTransactionID != "" {
		return t.InternalTransactionID
	}

	record := []string{accountID, t.BookingDate, t.Amount.String(), t.Currency, t.RemittanceInformation, t.CreditorName, t.DebtorName}
	if occurrence > 0 {
		record = append(record, strconv.Itoa(occurrence))
	}
	return fmt.Sprintf("%x", sha256.Sum256([]byte(strings.Join(record, ","))))
}
