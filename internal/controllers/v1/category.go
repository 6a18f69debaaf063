package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/walleta/backend/internal/httputil"
)

// Category is a predefined expense category.
type Category struct {
	Name  string `json:"name" example:"Food"`
	Icon  string `json:"icon" example:"utensils"` // Icon name for the frontend
	Color string `json:"color" example:"#10B981"` // Hex colour for the frontend
}

type CategoryListResponse struct {
	Data []Category `json:"data"`
}

var categories = []Category{
	{"Housing", "home", "#3B82F6"},
	{"Food", "utensils", "#10B981"},
	{"Transport", "car", "#8B5CF6"},
	{"Entertainment", "gamepad", "#EC4899"},
	{"Health", "heart", "#EF4444"},
	{"Clothing", "shirt", "#F59E0B"},
	{"Education", "book", "#06B6D4"},
	{"Other", "receipt", "#6B7280"},
}

func RegisterCategoryRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsCategoryList)
	r.GET("", GetCategories)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Categories
// @Success		204
// @Router			/v1/categories [options]
func OptionsCategoryList(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		List categories
// @Description	Returns the predefined expense categories
// @Tags			Categories
// @Produce		json
// @Success		200	{object}	CategoryListResponse
// @Router			/v1/categories [get]
func GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, CategoryListResponse{Data: categories})
}
