package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/walleta/backend/internal/auth"
	"github.com/walleta/backend/internal/httputil"
	"github.com/walleta/backend/internal/models"
	"github.com/walleta/backend/internal/types"
)

// RegisterBudgetRoutes registers the routes for budgets with
// the RouterGroup that is passed.
func (co Controller) RegisterBudgetRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsBudgetList)
	r.OPTIONS("/current", OptionsBudgetCurrent)
	r.OPTIONS("/:id", OptionsBudgetDetail)

	a := co.authenticated(r)
	{
		a.GET("", co.GetBudgets)
		a.POST("", co.CreateBudget)
		a.GET("/current", co.GetCurrentBudget)
		a.GET("/:id", co.GetBudget)
		a.DELETE("/:id", co.DeleteBudget)
	}
}

type BudgetEditable struct {
	Month  types.Month     `json:"month" swaggertype:"string" example:"2025-06"` // Month the budget is for
	Amount decimal.Decimal `json:"amount" example:"1500"`
}

type BudgetResponse struct {
	Data *models.Budget `json:"data"` // null for the current budget if none is set
}

type BudgetListResponse struct {
	Data []models.Budget `json:"data"`
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Router			/v1/budgets [options]
func OptionsBudgetList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Router			/v1/budgets/current [options]
func OptionsBudgetCurrent(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Param			id	path	string	true	"ID formatted as string"
// @Router			/v1/budgets/{id} [options]
func OptionsBudgetDetail(c *gin.Context) {
	httputil.OptionsGetDelete(c)
}

// @Summary		Set budget
// @Description	Sets the budget for a month. An existing budget for the same month is replaced.
// @Tags			Budgets
// @Accept			json
// @Produce		json
// @Success		201		{object}	BudgetResponse
// @Failure		400		{object}	httputil.HTTPError
// @Failure		401		{object}	httputil.HTTPError
// @Failure		500		{object}	httputil.HTTPError
// @Param			budget	body		BudgetEditable	true	"Budget"
// @Router			/v1/budgets [post]
func (co Controller) CreateBudget(c *gin.Context) {
	var editable BudgetEditable
	if err := httputil.BindData(c, &editable); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	budget := models.Budget{
		UserID: auth.CurrentUser(c).ID,
		Month:  editable.Month,
		Amount: editable.Amount,
	}

	err := budget.Upsert(co.DB.WithContext(c.Request.Context()))
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusCreated, BudgetResponse{Data: &budget})
}

// @Summary		List budgets
// @Description	Returns all budgets of the user, latest month first
// @Tags			Budgets
// @Produce		json
// @Success		200	{object}	BudgetListResponse
// @Failure		401	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Router			/v1/budgets [get]
func (co Controller) GetBudgets(c *gin.Context) {
	budgets := make([]models.Budget, 0)
	err := co.DB.WithContext(c.Request.Context()).Where("user_id = ?", auth.CurrentUser(c).ID).Order("month DESC").Find(&budgets).Error
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, BudgetListResponse{Data: budgets})
}

// @Summary		Get current budget
// @Description	Returns the budget for the current month. The data is null if none is set.
// @Tags			Budgets
// @Produce		json
// @Success		200	{object}	BudgetResponse
// @Failure		401	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Router			/v1/budgets/current [get]
func (co Controller) GetCurrentBudget(c *gin.Context) {
	var budgets []models.Budget
	err := co.DB.WithContext(c.Request.Context()).Where("user_id = ? AND month = ?", auth.CurrentUser(c).ID, types.MonthOf(co.Now())).Limit(1).Find(&budgets).Error
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	var r BudgetResponse
	if len(budgets) > 0 {
		r.Data = &budgets[0]
	}

	c.JSON(http.StatusOK, r)
}

// @Summary		Get budget
// @Description	Returns a specific budget
// @Tags			Budgets
// @Produce		json
// @Success		200	{object}	BudgetResponse
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/budgets/{id} [get]
func (co Controller) GetBudget(c *gin.Context) {
	budget, err := getOwned[models.Budget](c, co.DB)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, BudgetResponse{Data: &budget})
}

// @Summary		Delete budget
// @Description	Deletes a budget
// @Tags			Budgets
// @Success		204
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/budgets/{id} [delete]
func (co Controller) DeleteBudget(c *gin.Context) {
	if err := deleteOwned[models.Budget](c, co.DB); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
