package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/walleta/backend/internal/auth"
	"github.com/walleta/backend/internal/httputil"
	"github.com/walleta/backend/internal/summary"
	"github.com/walleta/backend/internal/types"
)

func (co Controller) RegisterDashboardRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/summary", OptionsDashboardSummary)
	co.authenticated(r).GET("/summary", co.GetDashboardSummary)
}

type SummaryResponse struct {
	Data summary.Summary `json:"data"`
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Dashboard
// @Success		204
// @Router			/v1/dashboard/summary [options]
func OptionsDashboardSummary(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get monthly summary
// @Description	Returns budget, income, expense, loan, savings and balance figures for a month
// @Tags			Dashboard
// @Produce		json
// @Success		200		{object}	SummaryResponse
// @Failure		400		{object}	httputil.HTTPError
// @Failure		401		{object}	httputil.HTTPError
// @Failure		500		{object}	httputil.HTTPError
// @Param			month	query		string	false	"Month of the summary (YYYY-MM), defaults to the current month"
// @Router			/v1/dashboard/summary [get]
func (co Controller) GetDashboardSummary(c *gin.Context) {
	var filter MonthFilter
	if err := httputil.BindQuery(c, &filter); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	month := filter.Month
	if month.IsZero() {
		month = types.MonthOf(co.Now())
	}

	s, err := summary.Load(c.Request.Context(), co.DB, auth.CurrentUser(c).ID, month)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, SummaryResponse{Data: s})
}
