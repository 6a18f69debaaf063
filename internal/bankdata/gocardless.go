package bankdata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/walleta/backend/internal/config"
	"github.com/walleta/backend/internal/models"
)

var errRejected = fmt.Errorf("%w: the request was rejected by GoCardless", models.ErrIntegration)

type api struct {
	baseURL string
	client  *http.Client
}

// do sends a JSON request and decodes the JSON response into target.
// Authentication and authorization failures wrap errRejected.
func (a *api) do(ctx context.Context, method, path, token string, body, target any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: failed to encode request: %w", models.ErrIntegration, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimSuffix(a.baseURL, "/")+path, reader)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %w", models.ErrIntegration, err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request to GoCardless failed: %w", models.ErrIntegration, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read GoCardless response: %w", models.ErrIntegration, err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		log.Error().Str("component", "bankdata").Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("GoCardless")
		return fmt.Errorf("%w: %d on %s", errRejected, resp.StatusCode, path)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var e struct {
			Summary string `json:"summary"`
			Detail  string `json:"detail"`
		}
		_ = json.Unmarshal(data, &e)
		log.Error().Str("component", "bankdata").Str("method", method).Str("path", path).Int("status", resp.StatusCode).Str("summary", e.Summary).Msg("GoCardless")
		return fmt.Errorf("%w: GoCardless answered %d: %s", models.ErrIntegration, resp.StatusCode, e.Summary)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: failed to decode GoCardless response: %w", models.ErrIntegration, err)
	}

	return nil
}

// GoCardless is a Gateway for the GoCardless Bank Account Data API v2.
type GoCardless struct {
	api    *api
	tokens *TokenManager
}

// NewGoCardless creates a client and the TokenManager it uses.
func NewGoCardless(cfg config.GoCardless, timeout time.Duration) *GoCardless {
	client := &http.Client{
		Timeout: timeout,
	}

	return &GoCardless{
		api:    &api{baseURL: cfg.APIURL, client: client},
		tokens: NewTokenManager(cfg.SecretID, cfg.SecretKey, cfg.APIURL, client),
	}
}

// Tokens returns the TokenManager of the client.
func (g *GoCardless) Tokens() *TokenManager {
	return g.tokens
}

func (g *GoCardless) do(ctx context.Context, method, path string, body, target any) error {
	token, err := g.tokens.AccessToken(ctx)
	if err != nil {
		return err
	}

	return g.api.do(ctx, method, path, token, body, target)
}

func (g *GoCardless) Institutions(ctx context.Context, country string) ([]Institution, error) {
	var response []struct {
		ID                   string   `json:"id"`
		Name                 string   `json:"name"`
		BIC                  string   `json:"bic"`
		TransactionTotalDays string   `json:"transaction_total_days"`
		Countries            []string `json:"countries"`
		Logo                 string   `json:"logo"`
	}
	err := g.do(ctx, http.MethodGet, "/institutions/?country="+url.QueryEscape(strings.ToLower(country)), nil, &response)
	if err != nil {
		return nil, err
	}

	institutions := make([]Institution, 0, len(response))
	for _, i := range response {
		institutions = append(institutions, Institution(i))
	}

	return institutions, nil
}

func (g *GoCardless) CreateAgreement(ctx context.Context, req AgreementRequest) (Agreement, error) {
	body := map[string]any{
		"institution_id":        req.InstitutionID,
		"max_historical_days":   req.MaxHistoricalDays,
		"access_valid_for_days": req.AccessValidForDays,
		"access_scope":          req.AccessScope,
	}

	var agreement struct {
		ID string `json:"id"`
	}
	err := g.do(ctx, http.MethodPost, "/agreements/enduser/", body, &agreement)
	if err != nil {
		return Agreement{}, err
	}

	return Agreement{ID: agreement.ID}, nil
}

type requisition struct {
	ID        string   `json:"id"`
	Status    string   `json:"status"`
	Link      string   `json:"link"`
	Reference string   `json:"reference"`
	Accounts  []string `json:"accounts"`
}

func (r requisition) toRequisition() Requisition {
	return Requisition{
		ID:        r.ID,
		Status:    r.Status,
		Link:      r.Link,
		Reference: r.Reference,
		Accounts:  r.Accounts,
	}
}

func (g *GoCardless) CreateRequisition(ctx context.Context, req RequisitionRequest) (Requisition, error) {
	body := map[string]string{
		"redirect":       req.Redirect,
		"institution_id": req.InstitutionID,
		"reference":      req.Reference,
		"agreement":      req.AgreementID,
	}

	var r requisition
	err := g.do(ctx, http.MethodPost, "/requisitions/", body, &r)
	if err != nil {
		return Requisition{}, err
	}

	return r.toRequisition(), nil
}

func (g *GoCardless) Requisition(ctx context.Context, id string) (Requisition, error) {
	var r requisition
	err := g.do(ctx, http.MethodGet, "/requisitions/"+url.PathEscape(id)+"/", nil, &r)
	if err != nil {
		return Requisition{}, err
	}

	return r.toRequisition(), nil
}

func (g *GoCardless) AccountDetails(ctx context.Context, accountID string) (AccountDetails, error) {
	var response struct {
		Account AccountDetails `json:"account"`
	}
	err := g.do(ctx, http.MethodGet, "/accounts/"+url.PathEscape(accountID)+"/details/", nil, &response)
	if err != nil {
		return AccountDetails{}, err
	}

	return response.Account, nil
}

type amount struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (g *GoCardless) AccountBalances(ctx context.Context, accountID string) ([]Balance, error) {
	var response struct {
		Balances []struct {
			BalanceAmount amount `json:"balanceAmount"`
			BalanceType   string `json:"balanceType"`
		} `json:"balances"`
	}
	err := g.do(ctx, http.MethodGet, "/accounts/"+url.PathEscape(accountID)+"/balances/", nil, &response)
	if err != nil {
		return nil, err
	}

	balances := make([]Balance, 0, len(response.Balances))
	for _, b := range response.Balances {
		balances = append(balances, Balance{
			Amount:   b.BalanceAmount.Amount,
			Currency: b.BalanceAmount.Currency,
			Type:     b.BalanceType,
		})
	}

	return balances, nil
}

func (g *GoCardless) Transactions(ctx context.Context, accountID string) ([]Transaction, error) {
	var response struct {
		Transactions struct {
			Booked []struct {
				TransactionID                     string `json:"transactionId"`
				InternalTransactionID             string `json:"internalTransactionId"`
				BookingDate                       string `json:"bookingDate"`
				TransactionAmount                 amount `json:"transactionAmount"`
				RemittanceInformationUnstructured string `json:"remittanceInformationUnstructured"`
				CreditorName                      string `json:"creditorName"`
				DebtorName                        string `json:"debtorName"`
			} `json:"booked"`
		} `json:"transactions"`
	}
	err := g.do(ctx, http.MethodGet, "/accounts/"+url.PathEscape(accountID)+"/transactions/", nil, &response)
	if err != nil {
		return nil, err
	}

	transactions := make([]Transaction, 0, len(response.Transactions.Booked))
	for _, t := range response.Transactions.Booked {
		transactions = append(transactions, Transaction{
			TransactionID:         t.TransactionID,
			InternalTransactionID: t.InternalTransactionID,
			BookingDate:           t.BookingDate,
			Amount:                t.TransactionAmount.Amount,
			Currency:              t.TransactionAmount.Currency,
			RemittanceInformation: t.RemittanceInformationUnstructured,
			CreditorName:          t.CreditorName,
			DebtorName:            t.DebtorName,
		})
	}

	return transactions, nil
}
