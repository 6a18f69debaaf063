package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/walleta/backend/internal/auth"
	"github.com/walleta/backend/internal/httputil"
	"github.com/walleta/backend/internal/models"
)

// RegisterSavingsGoalRoutes registers the routes for savings goals with
// the RouterGroup that is passed.
func (co Controller) RegisterSavingsGoalRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsSavingsGoalList)
	r.OPTIONS("/:id", OptionsSavingsGoalDetail)

	a := co.authenticated(r)
	{
		a.GET("", co.GetSavingsGoals)
		a.POST("", co.CreateSavingsGoal)
		a.GET("/:id", co.GetSavingsGoal)
		a.PUT("/:id", co.UpdateSavingsGoal)
		a.DELETE("/:id", co.DeleteSavingsGoal)
	}
}

type SavingsGoalResponse struct {
	Data models.SavingsGoal `json:"data"`
}

type SavingsGoalListResponse struct {
	Data []models.SavingsGoal `json:"data"`
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Savings goals
// @Success		204
// @Router			/v1/savings [options]
func OptionsSavingsGoalList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Savings goals
// @Success		204
// @Param			id	path	string	true	"ID formatted as string"
// @Router			/v1/savings/{id} [options]
func OptionsSavingsGoalDetail(c *gin.Context) {
	httputil.OptionsGetPutDelete(c)
}

// @Summary		Create savings goal
// @Description	Creates a new savings goal
// @Tags			Savings goals
// @Accept			json
// @Produce		json
// @Success		201		{object}	SavingsGoalResponse
// @Failure		400		{object}	httputil.HTTPError
// @Failure		401		{object}	httputil.HTTPError
// @Failure		500		{object}	httputil.HTTPError
// @Param			goal	body		models.SavingsGoalEditable	true	"Savings goal"
// @Router			/v1/savings [post]
func (co Controller) CreateSavingsGoal(c *gin.Context) {
	var editable models.SavingsGoalEditable
	if err := httputil.BindData(c, &editable); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	goal := models.SavingsGoal{
		OwnedModel:          models.OwnedModel{UserID: auth.CurrentUser(c).ID},
		SavingsGoalEditable: editable,
	}

	err := co.DB.WithContext(c.Request.Context()).Create(&goal).Error
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusCreated, SavingsGoalResponse{Data: goal})
}

// @Summary		List savings goals
// @Description	Returns all savings goals of the user
// @Tags			Savings goals
// @Produce		json
// @Success		200	{object}	SavingsGoalListResponse
// @Failure		401	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Router			/v1/savings [get]
func (co Controller) GetSavingsGoals(c *gin.Context) {
	goals := make([]models.SavingsGoal, 0)
	err := co.DB.WithContext(c.Request.Context()).Where("user_id = ?", auth.CurrentUser(c).ID).Order("created_at ASC").Find(&goals).Error
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, SavingsGoalListResponse{Data: goals})
}

// @Summary		Get savings goal
// @Description	Returns a specific savings goal
// @Tags			Savings goals
// @Produce		json
// @Success		200	{object}	SavingsGoalResponse
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/savings/{id} [get]
func (co Controller) GetSavingsGoal(c *gin.Context) {
	goal, err := getOwned[models.SavingsGoal](c, co.DB)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, SavingsGoalResponse{Data: goal})
}

// @Summary		Update savings goal
// @Description	Replaces all editable fields of a savings goal
// @Tags			Savings goals
// @Accept			json
// @Produce		json
// @Success		200		{object}	SavingsGoalResponse
// @Failure		400		{object}	httputil.HTTPError
// @Failure		404		{object}	httputil.HTTPError
// @Failure		500		{object}	httputil.HTTPError
// @Param			id		path		string						true	"ID formatted as string"
// @Param			goal	body		models.SavingsGoalEditable	true	"Savings goal"
// @Router			/v1/savings/{id} [put]
func (co Controller) UpdateSavingsGoal(c *gin.Context) {
	goal, err := getOwned[models.SavingsGoal](c, co.DB)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	var editable models.SavingsGoalEditable
	if err := httputil.BindData(c, &editable); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	goal.SavingsGoalEditable = editable
	err = co.DB.WithContext(c.Request.Context()).Save(&goal).Error
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, SavingsGoalResponse{Data: goal})
}

// @Summary		Delete savings goal
// @Description	Deletes a savings goal
// @Tags			Savings goals
// @Success		204
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/savings/{id} [delete]
func (co Controller) DeleteSavingsGoal(c *gin.Context) {
	if err := deleteOwned[models.SavingsGoal](c, co.DB); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
