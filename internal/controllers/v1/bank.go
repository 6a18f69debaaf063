package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/walleta/backend/internal/auth"
	"github.com/walleta/backend/internal/bankdata"
	"github.com/walleta/backend/internal/bankimport"
	"github.com/walleta/backend/internal/httputil"
	"github.com/walleta/backend/internal/models"
)

// RegisterBankRoutes registers the routes for bank connections and imports
// with the RouterGroup that is passed.
func (co Controller) RegisterBankRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/institutions", OptionsBankGet)
	r.OPTIONS("/connections", OptionsBankGet)
	r.OPTIONS("/connect", OptionsBankPost)
	r.OPTIONS("/connections/:id/accounts", OptionsBankGet)
	r.OPTIONS("/accounts/:accountId/import", OptionsBankPost)

	a := co.authenticated(r)
	if co.Paywall {
		a.Use(auth.RequireSubscription(co.Now))
	}
	{
		a.GET("/institutions", co.GetInstitutions)
		a.GET("/connections", co.GetConnections)
		a.POST("/connect", co.ConnectBank)
		a.GET("/connections/:id/accounts", co.GetBankAccounts)
		a.POST("/accounts/:accountId/import", co.ImportTransactions)
	}
}

type InstitutionQuery struct {
	Country string `form:"country" example:"FI"` // ISO 3166 country code, defaults to FI
}

type ConnectRequest struct {
	InstitutionID string `json:"institutionId" example:"NORDEA_NDEAFIHH"`
	RedirectURL   string `json:"redirectUrl" example:"https://app.walleta.example/banks"` // URL the bank sends the user back to
}

type InstitutionListResponse struct {
	Data []bankdata.Institution `json:"data"`
}

type ConnectionResponse struct {
	Data bankimport.Connection `json:"data"`
}

type ConnectionListResponse struct {
	Data []models.BankConnection `json:"data"`
}

type AccountListResponse struct {
	Data []bankimport.Account `json:"data"`
}

type ImportResponse struct {
	Data bankimport.Result `json:"data"`
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Banks
// @Success		204
// @Router			/v1/banks/institutions [options]
// @Router			/v1/banks/connections [options]
// @Router			/v1/banks/connections/{id}/accounts [options]
func OptionsBankGet(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Banks
// @Success		204
// @Router			/v1/banks/connect [options]
// @Router			/v1/banks/accounts/{accountId}/import [options]
func OptionsBankPost(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		List institutions
// @Description	Returns the banks available in a country
// @Tags			Banks
// @Produce		json
// @Success		200		{object}	InstitutionListResponse
// @Failure		400		{object}	httputil.HTTPError
// @Failure		401		{object}	httputil.HTTPError
// @Failure		402		{object}	httputil.HTTPError
// @Failure		502		{object}	httputil.HTTPError
// @Param			country	query		string	false	"ISO 3166 country code, defaults to FI"
// @Router			/v1/banks/institutions [get]
func (co Controller) GetInstitutions(c *gin.Context) {
	var q InstitutionQuery
	if err := httputil.BindQuery(c, &q); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	institutions, err := co.Banking.Institutions(c.Request.Context(), q.Country)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, InstitutionListResponse{Data: institutions})
}

// @Summary		List bank connections
// @Description	Returns the bank connections of the user, newest first
// @Tags			Banks
// @Produce		json
// @Success		200	{object}	ConnectionListResponse
// @Failure		401	{object}	httputil.HTTPError
// @Failure		402	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Router			/v1/banks/connections [get]
func (co Controller) GetConnections(c *gin.Context) {
	connections, err := co.Banking.Connections(c.Request.Context(), auth.CurrentUser(c))
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, ConnectionListResponse{Data: connections})
}

// @Summary		Connect bank
// @Description	Starts the authorization for a bank. The user has to open the returned link to complete it.
// @Tags			Banks
// @Accept			json
// @Produce		json
// @Success		201			{object}	ConnectionResponse
// @Failure		400			{object}	httputil.HTTPError
// @Failure		401			{object}	httputil.HTTPError
// @Failure		402			{object}	httputil.HTTPError
// @Failure		502			{object}	httputil.HTTPError
// @Param			connection	body		ConnectRequest	true	"Connection"
// @Router			/v1/banks/connect [post]
func (co Controller) ConnectBank(c *gin.Context) {
	var req ConnectRequest
	if err := httputil.BindData(c, &req); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	connection, err := co.Banking.Connect(c.Request.Context(), auth.CurrentUser(c), req.InstitutionID, req.RedirectURL)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusCreated, ConnectionResponse{Data: connection})
}

// @Summary		List bank accounts
// @Description	Refreshes a bank connection and returns its accounts with their balances
// @Tags			Banks
// @Produce		json
// @Success		200	{object}	AccountListResponse
// @Failure		400	{object}	httputil.HTTPError
// @Failure		401	{object}	httputil.HTTPError
// @Failure		402	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		502	{object}	httputil.HTTPError
// @Param			id	path		string	true	"ID of the bank connection"
// @Router			/v1/banks/connections/{id}/accounts [get]
func (co Controller) GetBankAccounts(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	accounts, err := co.Banking.Accounts(c.Request.Context(), auth.CurrentUser(c), id)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, AccountListResponse{Data: accounts})
}

// @Summary		Import transactions
// @Description	Imports the booked transactions of a bank account as expenses and incomes. Transactions imported before are skipped.
// @Tags			Banks
// @Produce		json
// @Success		200			{object}	ImportResponse
// @Failure		401			{object}	httputil.HTTPError
// @Failure		402			{object}	httputil.HTTPError
// @Failure		404			{object}	httputil.HTTPError
// @Failure		502			{object}	httputil.HTTPError
// @Param			accountId	path		string	true	"ID of the bank account"
// @Router			/v1/banks/accounts/{accountId}/import [post]
func (co Controller) ImportTransactions(c *gin.Context) {
	result, err := co.Banking.ImportTransactions(c.Request.Context(), auth.CurrentUser(c), c.Param("accountId"))
	importedTransactions.WithLabelValues("imported").Add(float64(result.Imported))
	importedTransactions.WithLabelValues("skipped").Add(float64(result.Skipped))
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, ImportResponse{Data: result})
}
