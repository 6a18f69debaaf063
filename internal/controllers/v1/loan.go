package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/walleta/backend/internal/auth"
	"github.com/walleta/backend/internal/httputil"
	"github.com/walleta/backend/internal/models"
)

// RegisterLoanRoutes registers the routes for loans with
// the RouterGroup that is passed.
func (co Controller) RegisterLoanRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsLoanList)
	r.OPTIONS("/:id", OptionsLoanDetail)

	a := co.authenticated(r)
	{
		a.GET("", co.GetLoans)
		a.POST("", co.CreateLoan)
		a.GET("/:id", co.GetLoan)
		a.PUT("/:id", co.UpdateLoan)
		a.DELETE("/:id", co.DeleteLoan)
	}
}

type LoanResponse struct {
	Data models.Loan `json:"data"`
}

type LoanListResponse struct {
	Data []models.Loan `json:"data"`
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Loans
// @Success		204
// @Router			/v1/loans [options]
func OptionsLoanList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Loans
// @Success		204
// @Param			id	path	string	true	"ID formatted as string"
// @Router			/v1/loans/{id} [options]
func OptionsLoanDetail(c *gin.Context) {
	httputil.OptionsGetPutDelete(c)
}

// @Summary		Create loan
// @Description	Creates a new loan
// @Tags			Loans
// @Accept			json
// @Produce		json
// @Success		201		{object}	LoanResponse
// @Failure		400		{object}	httputil.HTTPError
// @Failure		401		{object}	httputil.HTTPError
// @Failure		500		{object}	httputil.HTTPError
// @Param			loan	body		models.LoanEditable	true	"Loan"
// @Router			/v1/loans [post]
func (co Controller) CreateLoan(c *gin.Context) {
	var editable models.LoanEditable
	if err := httputil.BindData(c, &editable); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	loan := models.Loan{
		OwnedModel:   models.OwnedModel{UserID: auth.CurrentUser(c).ID},
		LoanEditable: editable,
	}

	err := co.DB.WithContext(c.Request.Context()).Create(&loan).Error
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusCreated, LoanResponse{Data: loan})
}

// @Summary		List loans
// @Description	Returns all loans of the user
// @Tags			Loans
// @Produce		json
// @Success		200	{object}	LoanListResponse
// @Failure		401	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Router			/v1/loans [get]
func (co Controller) GetLoans(c *gin.Context) {
	loans := make([]models.Loan, 0)
	err := co.DB.WithContext(c.Request.Context()).Where("user_id = ?", auth.CurrentUser(c).ID).Order("created_at ASC").Find(&loans).Error
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, LoanListResponse{Data: loans})
}

// @Summary		Get loan
// @Description	Returns a specific loan
// @Tags			Loans
// @Produce		json
// @Success		200	{object}	LoanResponse
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/loans/{id} [get]
func (co Controller) GetLoan(c *gin.Context) {
	loan, err := getOwned[models.Loan](c, co.DB)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, LoanResponse{Data: loan})
}

// @Summary		Update loan
// @Description	Replaces all editable fields of a loan
// @Tags			Loans
// @Accept			json
// @Produce		json
// @Success		200		{object}	LoanResponse
// @Failure		400		{object}	httputil.HTTPError
// @Failure		404		{object}	httputil.HTTPError
// @Failure		500		{object}	httputil.HTTPError
// @Param			id		path		string				true	"ID formatted as string"
// @Param			loan	body		models.LoanEditable	true	"Loan"
// @Router			/v1/loans/{id} [put]
func (co Controller) UpdateLoan(c *gin.Context) {
	loan, err := getOwned[models.Loan](c, co.DB)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	var editable models.LoanEditable
	if err := httputil.BindData(c, &editable); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	loan.LoanEditable = editable
	err = co.DB.WithContext(c.Request.Context()).Save(&loan).Error
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, LoanResponse{Data: loan})
}

// @Summary		Delete loan
// @Description	Deletes a loan
// @Tags			Loans
// @Success		204
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/loans/{id} [delete]
func (co Controller) DeleteLoan(c *gin.Context) {
	if err := deleteOwned[models.Loan](c, co.DB); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
