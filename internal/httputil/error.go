package httputil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/walleta/backend/internal/models"
	"github.com/walleta/backend/internal/types"
	"github.com/walleta/backend/internal/uuid"
)

// HTTPError is used for error responses that contain a body.
type HTTPError struct {
	Error string `json:"error" example:"the specified resource ID is not a valid UUID"`
}

// Status returns the HTTP status code for an error.
func Status(err error) int {
	switch {
	case errors.Is(err, models.ErrResourceNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrSubscriptionRequired):
		return http.StatusPaymentRequired
	case errors.Is(err, models.ErrIntegration):
		return http.StatusBadGateway
	case errors.Is(err, models.ErrConfiguration), errors.Is(err, models.ErrGeneral):
		return http.StatusInternalServerError
	case errors.Is(err, models.ErrValidation), errors.Is(err, uuid.ErrInvalidUUID), errors.Is(err, types.ErrInvalidMonth):
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// ErrorHandler writes the error response for err.
//
// Server side errors are logged with the request id. Their message is
// replaced with a general one so that no details of the database or the
// external services are sent to the client.
func ErrorHandler(c *gin.Context, err error) {
	status := Status(err)

	if status < http.StatusInternalServerError {
		NewError(c, status, err)
		return
	}

	id := requestid.Get(c)
	log.Error().Str("request-id", id).Int("status", status).Msgf("%T: %v", err, err.Error())

	switch {
	case errors.Is(err, models.ErrIntegration):
		NewError(c, status, fmt.Errorf("an external service could not complete your request, please try again later. The request id is '%v'", id))
	case errors.Is(err, models.ErrConfiguration):
		NewError(c, status, fmt.Errorf("this feature is not available on this server. The request id is '%v'", id))
	default:
		NewError(c, status, fmt.Errorf("an error occurred on the server during your request, please contact your server administrator. The request id is '%v', send this to your server administrator to help them finding the problem", id))
	}
}

// NewError aborts the request with an HTTPError body.
func NewError(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, HTTPError{
		Error: err.Error(),
	})
}
