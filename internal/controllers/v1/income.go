package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/walleta/backend/internal/auth"
	"github.com/walleta/backend/internal/httputil"
	"github.com/walleta/backend/internal/models"
)

// RegisterIncomeRoutes registers the routes for incomes with
// the RouterGroup that is passed.
func (co Controller) RegisterIncomeRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsIncomeList)
	r.OPTIONS("/:id", OptionsIncomeDetail)

	a := co.authenticated(r)
	{
		a.GET("", co.GetIncomes)
		a.POST("", co.CreateIncome)
		a.GET("/:id", co.GetIncome)
		a.DELETE("/:id", co.DeleteIncome)
	}
}

type IncomeResponse struct {
	Data models.Income `json:"data"`
}

type IncomeListResponse struct {
	Data []models.Income `json:"data"`
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Incomes
// @Success		204
// @Router			/v1/incomes [options]
func OptionsIncomeList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Incomes
// @Success		204
// @Param			id	path	string	true	"ID formatted as string"
// @Router			/v1/incomes/{id} [options]
func OptionsIncomeDetail(c *gin.Context) {
	httputil.OptionsGetDelete(c)
}

// @Summary		Create income
// @Description	Creates a new income
// @Tags			Incomes
// @Accept			json
// @Produce		json
// @Success		201		{object}	IncomeResponse
// @Failure		400		{object}	httputil.HTTPError
// @Failure		401		{object}	httputil.HTTPError
// @Failure		500		{object}	httputil.HTTPError
// @Param			income	body		models.IncomeEditable	true	"Income"
// @Router			/v1/incomes [post]
func (co Controller) CreateIncome(c *gin.Context) {
	var editable models.IncomeEditable
	if err := httputil.BindData(c, &editable); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	income := models.Income{
		OwnedModel:     models.OwnedModel{UserID: auth.CurrentUser(c).ID},
		IncomeEditable: editable,
	}

	err := co.DB.WithContext(c.Request.Context()).Create(&income).Error
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusCreated, IncomeResponse{Data: income})
}

// @Summary		List incomes
// @Description	Returns the incomes of the user, latest date first
// @Tags			Incomes
// @Produce		json
// @Success		200		{object}	IncomeListResponse
// @Failure		400		{object}	httputil.HTTPError
// @Failure		401		{object}	httputil.HTTPError
// @Failure		500		{object}	httputil.HTTPError
// @Param			month	query		string	false	"Only return incomes in this month (YYYY-MM)"
// @Router			/v1/incomes [get]
func (co Controller) GetIncomes(c *gin.Context) {
	var filter MonthFilter
	if err := httputil.BindQuery(c, &filter); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	q := co.DB.WithContext(c.Request.Context()).Where("user_id = ?", auth.CurrentUser(c).ID)

	incomes := make([]models.Income, 0)
	err := filter.apply(q).Order("date DESC, created_at DESC").Find(&incomes).Error
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, IncomeListResponse{Data: incomes})
}

// @Summary		Get income
// @Description	Returns a specific income
// @Tags			Incomes
// @Produce		json
// @Success		200	{object}	IncomeResponse
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/incomes/{id} [get]
func (co Controller) GetIncome(c *gin.Context) {
	income, err := getOwned[models.Income](c, co.DB)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, IncomeResponse{Data: income})
}

// @Summary		Delete income
// @Description	Deletes an income
// @Tags			Incomes
// @Success		204
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/incomes/{id} [delete]
func (co Controller) DeleteIncome(c *gin.Context) {
	if err := deleteOwned[models.Income](c, co.DB); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
