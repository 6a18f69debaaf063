package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/walleta/backend/internal/models"
	"github.com/walleta/backend/internal/types"
)

// BindData binds the JSON body of the request to data.
//
// All returned errors wrap models.ErrValidation.
func BindData(c *gin.Context, data any) error {
	err := c.ShouldBindJSON(data)
	if err == nil {
		return nil
	}

	if errors.Is(err, io.EOF) {
		return ErrRequestBodyEmpty
	}

	var typeError *json.UnmarshalTypeError
	if errors.As(err, &typeError) {
		return fmt.Errorf("%w: the field %s must be of type %s", models.ErrValidation, typeError.Field, typeError.Type)
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		return fmt.Errorf("%w: the field %s is invalid (%s)", models.ErrValidation, validationErrors[0].Field(), validationErrors[0].Tag())
	}

	if errors.Is(err, types.ErrInvalidMonth) {
		return fmt.Errorf("%w: %w", models.ErrValidation, err)
	}

	log.Debug().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
	return ErrInvalidBody
}

// BindQuery binds the query string of the request to data.
func BindQuery(c *gin.Context, data any) error {
	err := c.ShouldBindQuery(data)
	if err == nil {
		return nil
	}

	if errors.Is(err, types.ErrInvalidMonth) {
		return fmt.Errorf("%w: %w", models.ErrValidation, err)
	}

	return ErrInvalidQuery
}
