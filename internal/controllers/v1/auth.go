package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/walleta/backend/internal/auth"
	"github.com/walleta/backend/internal/httputil"
	"github.com/walleta/backend/internal/models"
)

// RegisterAuthRoutes registers the routes for registration, login and the
// authenticated user with the RouterGroup that is passed.
func (co Controller) RegisterAuthRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/register", OptionsAuthPost)
	r.OPTIONS("/login", OptionsAuthPost)
	r.OPTIONS("/me", OptionsAuthMe)

	r.POST("/register", co.Register)
	r.POST("/login", co.Login)
	co.authenticated(r).GET("/me", co.GetMe)
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email" example:"anna@example.com"`
	Password string `json:"password" binding:"required" example:"correct horse battery staple"`
	Name     string `json:"name" example:"Anna Virtanen"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"anna@example.com"`
	Password string `json:"password" binding:"required" example:"correct horse battery staple"`
}

type TokenResponse struct {
	Data Token `json:"data"`
}

type Token struct {
	Token string      `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."` // Bearer token for the Authorization header
	User  models.User `json:"user"`
}

type UserResponse struct {
	Data models.User `json:"data"`
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Auth
// @Success		204
// @Router			/v1/auth/register [options]
// @Router			/v1/auth/login [options]
func OptionsAuthPost(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Auth
// @Success		204
// @Router			/v1/auth/me [options]
func OptionsAuthMe(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Register
// @Description	Creates a new user and returns a bearer token for it
// @Tags			Auth
// @Accept			json
// @Produce		json
// @Success		201		{object}	TokenResponse
// @Failure		400		{object}	httputil.HTTPError
// @Failure		500		{object}	httputil.HTTPError
// @Param			user	body		RegisterRequest	true	"User"
// @Router			/v1/auth/register [post]
func (co Controller) Register(c *gin.Context) {
	var req RegisterRequest
	if err := httputil.BindData(c, &req); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	user, token, err := co.Auth.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusCreated, TokenResponse{Data: Token{Token: token, User: user}})
}

// @Summary		Login
// @Description	Checks the credentials of a user and returns a bearer token
// @Tags			Auth
// @Accept			json
// @Produce		json
// @Success		200			{object}	TokenResponse
// @Failure		400			{object}	httputil.HTTPError
// @Failure		401			{object}	httputil.HTTPError
// @Param			credentials	body		LoginRequest	true	"Credentials"
// @Router			/v1/auth/login [post]
func (co Controller) Login(c *gin.Context) {
	var req LoginRequest
	if err := httputil.BindData(c, &req); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	user, token, err := co.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{Data: Token{Token: token, User: user}})
}

// @Summary		Get authenticated user
// @Description	Returns the user the bearer token belongs to
// @Tags			Auth
// @Produce		json
// @Success		200	{object}	UserResponse
// @Failure		401	{object}	httputil.HTTPError
// @Router			/v1/auth/me [get]
func (co Controller) GetMe(c *gin.Context) {
	c.JSON(http.StatusOK, UserResponse{Data: auth.CurrentUser(c)})
}
