package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/walleta/backend/internal/auth"
	"github.com/walleta/backend/internal/httputil"
	"github.com/walleta/backend/internal/models"
	"github.com/walleta/backend/internal/types"
	"gorm.io/gorm"
)

// RegisterExpenseRoutes registers the routes for expenses with
// the RouterGroup that is passed.
func (co Controller) RegisterExpenseRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsExpenseList)
	r.OPTIONS("/:id", OptionsExpenseDetail)

	a := co.authenticated(r)
	{
		a.GET("", co.GetExpenses)
		a.POST("", co.CreateExpense)
		a.GET("/:id", co.GetExpense)
		a.DELETE("/:id", co.DeleteExpense)
	}
}

// MonthFilter filters dated resources by the month of their date.
type MonthFilter struct {
	Month types.Month `form:"month" example:"2025-06"` // Year and month
}

// apply restricts q to the month if it is set.
func (f MonthFilter) apply(q *gorm.DB) *gorm.DB {
	if f.Month.IsZero() {
		return q
	}

	return q.Where("date LIKE ?", f.Month.String()+"%")
}

type ExpenseResponse struct {
	Data models.Expense `json:"data"`
}

type ExpenseListResponse struct {
	Data []models.Expense `json:"data"`
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Expenses
// @Success		204
// @Router			/v1/expenses [options]
func OptionsExpenseList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Expenses
// @Success		204
// @Param			id	path	string	true	"ID formatted as string"
// @Router			/v1/expenses/{id} [options]
func OptionsExpenseDetail(c *gin.Context) {
	httputil.OptionsGetDelete(c)
}

// @Summary		Create expense
// @Description	Creates a new expense. Negative amounts are stored as their absolute value.
// @Tags			Expenses
// @Accept			json
// @Produce		json
// @Success		201		{object}	ExpenseResponse
// @Failure		400		{object}	httputil.HTTPError
// @Failure		401		{object}	httputil.HTTPError
// @Failure		500		{object}	httputil.HTTPError
// @Param			expense	body		models.ExpenseEditable	true	"Expense"
// @Router			/v1/expenses [post]
func (co Controller) CreateExpense(c *gin.Context) {
	var editable models.ExpenseEditable
	if err := httputil.BindData(c, &editable); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	expense := models.Expense{
		OwnedModel:      models.OwnedModel{UserID: auth.CurrentUser(c).ID},
		ExpenseEditable: editable,
	}

	err := co.DB.WithContext(c.Request.Context()).Create(&expense).Error
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusCreated, ExpenseResponse{Data: expense})
}

// @Summary		List expenses
// @Description	Returns the expenses of the user, latest date first
// @Tags			Expenses
// @Produce		json
// @Success		200		{object}	ExpenseListResponse
// @Failure		400		{object}	httputil.HTTPError
// @Failure		401		{object}	httputil.HTTPError
// @Failure		500		{object}	httputil.HTTPError
// @Param			month	query		string	false	"Only return expenses in this month (YYYY-MM)"
// @Router			/v1/expenses [get]
func (co Controller) GetExpenses(c *gin.Context) {
	var filter MonthFilter
	if err := httputil.BindQuery(c, &filter); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	q := co.DB.WithContext(c.Request.Context()).Where("user_id = ?", auth.CurrentUser(c).ID)

	expenses := make([]models.Expense, 0)
	err := filter.apply(q).Order("date DESC, created_at DESC").Find(&expenses).Error
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, ExpenseListResponse{Data: expenses})
}

// @Summary		Get expense
// @Description	Returns a specific expense
// @Tags			Expenses
// @Produce		json
// @Success		200	{object}	ExpenseResponse
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/expenses/{id} [get]
func (co Controller) GetExpense(c *gin.Context) {
	expense, err := getOwned[models.Expense](c, co.DB)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, ExpenseResponse{Data: expense})
}

// @Summary		Delete expense
// @Description	Deletes an expense
// @Tags			Expenses
// @Success		204
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/expenses/{id} [delete]
func (co Controller) DeleteExpense(c *gin.Context) {
	if err := deleteOwned[models.Expense](c, co.DB); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
